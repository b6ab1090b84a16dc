package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/database"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/models"
)

var (
	ErrDebtNotFound     = errors.New("debt not found")
	ErrDebtForbidden    = errors.New("debt does not belong to this user")
	ErrInvalidAmount    = errors.New("payment amount must be positive")
	ErrDebtSettled      = errors.New("debt already paid or waived")
	ErrConcurrentUpdate = errors.New("record was modified concurrently, please retry")
)

// New debts fall due a month out.
const debtDueInDays = 30

// EnsureDebtForNegativeBalance converts a negative balance into a
// tracked debt. Repeated calls with an unchanged balance are no-ops:
// only the part of the shortfall not already covered by an active debt
// is added, and the earliest active debt is grown rather than
// duplicated. Remaining debt is never reduced here; that only happens
// through RecordDebtPayment, ReconcileBalance or WaiveDebt. Returns
// the earliest active debt, or nil when there is none.
func EnsureDebtForNegativeBalance(userID uint) (*models.DebtRecord, error) {
	var out *models.DebtRecord
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		bal, err := getBalance(tx, userID)
		if err != nil {
			return err
		}
		if bal.CurrentBalance >= 0 {
			return nil
		}
		shortfall := -bal.CurrentBalance

		var debts []models.DebtRecord
		if err := tx.Where("user_id = ? AND status IN ?", userID, models.ActiveDebtStatuses).
			Order("due_date asc, id asc").Find(&debts).Error; err != nil {
			return err
		}

		if len(debts) == 0 {
			debt := &models.DebtRecord{
				UserID:         userID,
				OriginalAmount: shortfall,
				CurrentAmount:  shortfall,
				CoveredAmount:  shortfall,
				Status:         models.DebtStatusOutstanding,
				DueDate:        time.Now().AddDate(0, 0, debtDueInDays),
			}
			if err := tx.Create(debt).Error; err != nil {
				return err
			}
			out = debt
			return nil
		}

		var covered float64
		for _, d := range debts {
			covered += d.CoveredAmount
		}
		untracked := shortfall - covered

		target := debts[0]
		if untracked <= 0 {
			out = &target
			return nil
		}

		// Grow the earliest active debt by the uncovered part of the
		// shortfall. Debt surviving a clearance pass stays owed even
		// though the balance no longer reflects it, so the new penalty
		// adds on top instead of resizing the record down.
		res := tx.Model(&models.DebtRecord{}).
			Where("id = ? AND version = ?", target.ID, target.Version).
			Updates(map[string]interface{}{
				"current_amount": target.CurrentAmount + untracked,
				"covered_amount": target.CoveredAmount + untracked,
				"version":        target.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrentUpdate
		}

		target.CurrentAmount += untracked
		target.CoveredAmount += untracked
		target.Version++
		out = &target
		return nil
	})
	return out, err
}

// RecordDebtPayment applies a settled external payment against a debt.
// The credited amount is clamped to the remaining debt; the ledger
// gains the dual entry described on recordDebtPayment.
func RecordDebtPayment(debtID uint, amount float64, externalRef, operator string) (*models.DebtRecord, error) {
	var out *models.DebtRecord
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		debt, err := recordDebtPayment(tx, debtID, amount, externalRef, operator)
		out = debt
		return err
	})
	if err != nil {
		return nil, err
	}
	InvalidatePaymentHistory(out.UserID)
	return out, nil
}

// recordDebtPayment is the transactional core of RecordDebtPayment.
// It writes two ledger rows per payment: a DEBT_PAYMENT row for audit
// (never summed into the balance) and an equal REWARD row sourced
// DEBT_PAYMENT, which is what actually raises the derived balance back
// toward zero. Historical PENALTY rows are never edited.
func recordDebtPayment(tx *gorm.DB, debtID uint, amount float64, externalRef, operator string) (*models.DebtRecord, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var debt models.DebtRecord
	if err := tx.First(&debt, debtID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDebtNotFound
		}
		return nil, err
	}
	if !debt.Active() {
		return nil, ErrDebtSettled
	}

	applied := amount
	if applied > debt.Remaining() {
		applied = debt.Remaining()
	}

	newPaid := debt.PaidAmount + applied
	newStatus := models.DebtStatusPartial
	if newPaid >= debt.CurrentAmount {
		newPaid = debt.CurrentAmount
		newStatus = models.DebtStatusPaid
	}
	// The credit row below fills the balance hole this portion of the
	// debt mirrored, so the covered amount shrinks with it.
	newCovered := debt.CoveredAmount - applied
	if newCovered < 0 {
		newCovered = 0
	}

	res := tx.Model(&models.DebtRecord{}).
		Where("id = ? AND version = ?", debt.ID, debt.Version).
		Updates(map[string]interface{}{
			"paid_amount":    newPaid,
			"status":         newStatus,
			"covered_amount": newCovered,
			"version":        debt.Version + 1,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrConcurrentUpdate
	}

	audit := &models.Transaction{
		UserID:    debt.UserID,
		Amount:    applied,
		Type:      models.TransactionTypeDebtPayment,
		Source:    models.SourceDebtPayment,
		Status:    models.TransactionStatusCompleted,
		Reference: externalRef,
		Notes:     fmt.Sprintf("payment against debt #%d", debt.ID),
		Operator:  operator,
	}
	if err := appendTransaction(tx, audit); err != nil {
		return nil, err
	}

	credit := &models.Transaction{
		UserID:    debt.UserID,
		Amount:    applied,
		Type:      models.TransactionTypeReward,
		Source:    models.SourceDebtPayment,
		Status:    models.TransactionStatusCompleted,
		Reference: externalRef,
		Notes:     fmt.Sprintf("balance credit for payment against debt #%d", debt.ID),
		Operator:  operator,
	}
	if err := appendTransaction(tx, credit); err != nil {
		return nil, err
	}

	debt.PaidAmount = newPaid
	debt.Status = newStatus
	debt.CoveredAmount = newCovered
	debt.Version++
	return &debt, nil
}

// WaiveDebt forgives the remaining amount. No compensating ledger entry
// is written; forgiveness is not income.
func WaiveDebt(debtID, adminID uint, notes string) (*models.DebtRecord, error) {
	var out *models.DebtRecord
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var debt models.DebtRecord
		if err := tx.First(&debt, debtID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDebtNotFound
			}
			return err
		}
		if !debt.Active() {
			return ErrDebtSettled
		}

		res := tx.Model(&models.DebtRecord{}).
			Where("id = ? AND version = ?", debt.ID, debt.Version).
			Updates(map[string]interface{}{
				"status":      models.DebtStatusWaived,
				"waived_by":   adminID,
				"waive_notes": notes,
				"version":     debt.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrentUpdate
		}

		debt.Status = models.DebtStatusWaived
		debt.WaivedBy = adminID
		debt.WaiveNotes = notes
		debt.Version++
		out = &debt
		return nil
	})
	return out, err
}

// GetUserDebts lists a user's debts, earliest due first.
func GetUserDebts(userID uint) ([]models.DebtRecord, error) {
	var debts []models.DebtRecord
	if err := database.DB.Where("user_id = ?", userID).
		Order("due_date asc, id asc").Find(&debts).Error; err != nil {
		return nil, err
	}
	return debts, nil
}

// GetTotalDebtAmount sums the remaining amount over active debts.
func GetTotalDebtAmount(userID uint) (float64, error) {
	return getTotalDebtAmount(database.DB, userID)
}

func getTotalDebtAmount(tx *gorm.DB, userID uint) (float64, error) {
	var total float64
	err := tx.Model(&models.DebtRecord{}).
		Where("user_id = ? AND status IN ?", userID, models.ActiveDebtStatuses).
		Select("COALESCE(SUM(current_amount - paid_amount), 0)").
		Scan(&total).Error
	return total, err
}
