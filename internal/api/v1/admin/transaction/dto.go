package transaction

import "github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/models"

type ManualAdjustmentRequest struct {
	UserID uint                   `json:"user_id" binding:"required"`
	Amount float64                `json:"amount" binding:"required,gt=0"`
	Type   models.TransactionType `json:"type" binding:"required,oneof=REWARD PENALTY"`
	Notes  string                 `json:"notes" binding:"required"`
}

type TransactionListResponse struct {
	Transactions []models.Transaction `json:"transactions"`
	Total        int64                `json:"total"`
	Page         int                  `json:"page"`
	Limit        int                  `json:"limit"`
}
