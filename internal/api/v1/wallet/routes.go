package wallet

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup) {
	h := NewHandler()

	wallet := r.Group("/wallet")
	{
		wallet.GET("/balance", h.GetBalance)
		wallet.GET("/transactions", h.GetTransactions)
		wallet.GET("/debts", h.GetDebts)
		wallet.GET("/debts/total", h.GetTotalDebt)
		wallet.POST("/debts/:id/pay", h.PayDebt)
		wallet.POST("/licenses/:id/reinstate", h.ReinstateLicense)
		wallet.GET("/withdrawals", h.ListWithdrawals)
		wallet.POST("/withdrawals", h.RequestWithdrawal)
		wallet.DELETE("/withdrawals/:id", h.CancelWithdrawal)
		wallet.GET("/gems", h.GetGemAccount)
	}
}
