package services

import (
	"gorm.io/gorm"

	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/database"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/models"
)

// BalanceSummary is derived purely from COMPLETED ledger rows. There is
// no cached running total; every call recomputes, which keeps the
// figure correct under concurrent writers at the cost of a scan.
type BalanceSummary struct {
	TotalRewards      float64 `json:"total_rewards"`
	TotalPenalties    float64 `json:"total_penalties"`
	CurrentBalance    float64 `json:"current_balance"`
	TotalFinePayments float64 `json:"total_fine_payments"`
	TotalDebtPayments float64 `json:"total_debt_payments"`
}

// GetBalance computes the user's balance summary from the ledger.
func GetBalance(userID uint) (*BalanceSummary, error) {
	return getBalance(database.DB, userID)
}

// getBalance runs inside the caller's transaction when one is open, so
// invariant-preserving operations read a consistent snapshot of the
// user's rows (never half of a debt-payment dual entry).
func getBalance(tx *gorm.DB, userID uint) (*BalanceSummary, error) {
	var rows []models.Transaction
	if err := tx.Where("user_id = ? AND status = ?", userID, models.TransactionStatusCompleted).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	summary := &BalanceSummary{}
	for _, row := range rows {
		sign, ok := row.Type.BalanceSign()
		if !ok {
			return nil, ErrUnknownTransactionType
		}
		switch {
		case sign > 0:
			summary.TotalRewards += row.Amount
		case sign < 0:
			summary.TotalPenalties += row.Amount
		}
		summary.CurrentBalance += float64(sign) * row.Amount

		if row.Source == models.SourceFinePayment {
			summary.TotalFinePayments += row.Amount
		}
		if row.Type == models.TransactionTypeDebtPayment {
			summary.TotalDebtPayments += row.Amount
		}
	}

	return summary, nil
}
