package wallet

import (
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/models"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/services"
)

type BalanceResponse struct {
	services.BalanceSummary
	OutstandingDebt float64 `json:"outstanding_debt"`
	Withdrawable    float64 `json:"withdrawable"`
}

type WithdrawalRequestBody struct {
	Amount         float64                `json:"amount" binding:"required,gt=0"`
	Method         string                 `json:"method" binding:"required,oneof=bkash nagad rocket bank"`
	AccountDetails map[string]interface{} `json:"account_details" binding:"required"`
}

type PayDebtResponse struct {
	TranID     string  `json:"tran_id"`
	Amount     float64 `json:"amount"`
	GatewayURL string  `json:"gateway_url"`
}

type TotalDebtResponse struct {
	TotalDebt float64 `json:"total_debt"`
}

type DebtListResponse struct {
	Debts []models.DebtRecord `json:"debts"`
}
