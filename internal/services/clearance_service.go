package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/database"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/models"
)

// ReconcileResult reports the post-clearance figures.
type ReconcileResult struct {
	Balance         float64 `json:"balance"`
	OutstandingDebt float64 `json:"outstanding_debt"`
	Applied         float64 `json:"applied"`
}

// ReconcileBalance nets a positive balance against the user's open
// debts without an explicit payment. It is an explicit operation, not a
// side effect of reading the balance: one read-modify-write transaction
// with a versioned conditional update per debt, so two callers racing
// on the same user cannot credit the same positive balance twice.
//
// Debts are cleared earliest due date first, ascending id as tiebreak.
// Each cleared portion writes a DEDUCTION row (summed, bringing the
// balance down by the applied amount) and a DEBT_PAYMENT audit row,
// both sourced AUTO_CLEARANCE; balance plus signed debt is conserved
// across the pass. A non-negative balance also means no shortfall
// remains on the ledger, so the pass resets the covered amount on
// every active debt it sees, whether or not anything was applied.
func ReconcileBalance(userID uint) (*ReconcileResult, error) {
	var out ReconcileResult
	var touched bool

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		bal, err := getBalance(tx, userID)
		if err != nil {
			return err
		}

		var debts []models.DebtRecord
		if err := tx.Where("user_id = ? AND status IN ?", userID, models.ActiveDebtStatuses).
			Order("due_date asc, id asc").Find(&debts).Error; err != nil {
			return err
		}

		var totalDebt float64
		for _, d := range debts {
			totalDebt += d.Remaining()
		}

		out = ReconcileResult{Balance: bal.CurrentBalance, OutstandingDebt: totalDebt}
		if bal.CurrentBalance < 0 || totalDebt == 0 {
			return nil
		}

		avail := bal.CurrentBalance
		for i := range debts {
			debt := debts[i]

			portion := debt.Remaining()
			if portion > avail {
				portion = avail
			}
			if portion <= 0 && debt.CoveredAmount == 0 {
				continue
			}

			newPaid := debt.PaidAmount
			newStatus := debt.Status
			if portion > 0 {
				newPaid += portion
				newStatus = models.DebtStatusPartial
				if newPaid >= debt.CurrentAmount {
					newPaid = debt.CurrentAmount
					newStatus = models.DebtStatusPaid
				}
			}

			res := tx.Model(&models.DebtRecord{}).
				Where("id = ? AND version = ?", debt.ID, debt.Version).
				Updates(map[string]interface{}{
					"paid_amount":    newPaid,
					"status":         newStatus,
					"covered_amount": 0,
					"version":        debt.Version + 1,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrConcurrentUpdate
			}
			if portion <= 0 {
				continue
			}

			deduction := &models.Transaction{
				UserID:    userID,
				Amount:    portion,
				Type:      models.TransactionTypeDeduction,
				Source:    models.SourceAutoClearance,
				Status:    models.TransactionStatusCompleted,
				Reference: fmt.Sprintf("debt:%d", debt.ID),
				Notes:     fmt.Sprintf("balance netted against debt #%d", debt.ID),
				Operator:  "system",
			}
			if err := appendTransaction(tx, deduction); err != nil {
				return err
			}

			audit := &models.Transaction{
				UserID:    userID,
				Amount:    portion,
				Type:      models.TransactionTypeDebtPayment,
				Source:    models.SourceAutoClearance,
				Status:    models.TransactionStatusCompleted,
				Reference: fmt.Sprintf("debt:%d", debt.ID),
				Notes:     fmt.Sprintf("auto-clearance applied to debt #%d", debt.ID),
				Operator:  "system",
			}
			if err := appendTransaction(tx, audit); err != nil {
				return err
			}

			avail -= portion
		}

		applied := bal.CurrentBalance - avail
		out.Balance = bal.CurrentBalance - applied
		out.OutstandingDebt = totalDebt - applied
		out.Applied = applied
		touched = applied > 0
		return nil
	})
	if err != nil {
		return nil, err
	}

	if touched {
		InvalidatePaymentHistory(userID)
	}
	return &out, nil
}
