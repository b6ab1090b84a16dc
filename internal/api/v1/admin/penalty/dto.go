package penalty

import "github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/models"

type ApplyGemPenaltyRequest struct {
	CitizenID uint                   `json:"citizen_id" binding:"required"`
	Amount    int                    `json:"amount" binding:"required,gt=0"`
	Reason    string                 `json:"reason" binding:"required"`
	Severity  models.PenaltySeverity `json:"severity" binding:"required,oneof=LOW MEDIUM HIGH CRITICAL"`
}

type RegisterLicenseRequest struct {
	UserID    uint   `json:"user_id" binding:"required"`
	LicenseNo string `json:"license_no" binding:"required"`
}

type RecommendedDeductionResponse struct {
	Severity models.PenaltySeverity `json:"severity"`
	Amount   int                    `json:"amount"`
}

type SweepResponse struct {
	Fixed int64 `json:"fixed"`
}
