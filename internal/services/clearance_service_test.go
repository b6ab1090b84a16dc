package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/database"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/models"
)

func TestReconcileBalance_NoOpWithoutDebtOrBalance(t *testing.T) {
	setupTestDB()
	user := seedUser("noop")
	seedTransaction(user.ID, 100, models.TransactionTypeReward, models.SourceReportApproval, models.TransactionStatusCompleted)

	res, err := ReconcileBalance(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, res.Balance)
	assert.Equal(t, 0.0, res.Applied)

	var count int64
	database.DB.Model(&models.Transaction{}).Where("source = ?", models.SourceAutoClearance).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestReconcileBalance_PartialClearance(t *testing.T) {
	setupTestDB()
	user := seedUser("partial-clear")

	// Penalty 150 against rewards 100 leaves a 50 debt.
	seedTransaction(user.ID, 100, models.TransactionTypeReward, models.SourceReportApproval, models.TransactionStatusCompleted)
	seedTransaction(user.ID, 150, models.TransactionTypePenalty, models.SourceGemPenalty, models.TransactionStatusCompleted)
	debt, _ := EnsureDebtForNegativeBalance(user.ID)
	assert.Equal(t, 50.0, debt.Remaining())

	// A later 80 reward leaves balance +30; clearing consumes all of it.
	seedTransaction(user.ID, 80, models.TransactionTypeReward, models.SourceReportApproval, models.TransactionStatusCompleted)

	res, err := ReconcileBalance(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, 30.0, res.Applied)
	assert.Equal(t, 0.0, res.Balance)
	assert.Equal(t, 20.0, res.OutstandingDebt)

	bal, _ := GetBalance(user.ID)
	assert.Equal(t, 0.0, bal.CurrentBalance)

	var updated models.DebtRecord
	database.DB.First(&updated, debt.ID)
	assert.Equal(t, models.DebtStatusPartial, updated.Status)
	assert.Equal(t, 20.0, updated.Remaining())
}

func TestReconcileBalance_FullClearanceLeavesSurplus(t *testing.T) {
	setupTestDB()
	user := seedUser("full-clear")

	seedTransaction(user.ID, 40, models.TransactionTypePenalty, models.SourceGemPenalty, models.TransactionStatusCompleted)
	debt, _ := EnsureDebtForNegativeBalance(user.ID)

	seedTransaction(user.ID, 100, models.TransactionTypeReward, models.SourceReportApproval, models.TransactionStatusCompleted)

	res, err := ReconcileBalance(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, 40.0, res.Applied)
	assert.Equal(t, 20.0, res.Balance) // 100 - 40 - 40
	assert.Equal(t, 0.0, res.OutstandingDebt)

	var updated models.DebtRecord
	database.DB.First(&updated, debt.ID)
	assert.Equal(t, models.DebtStatusPaid, updated.Status)
}

func TestReconcileBalance_WritesPairedRowsPerDebt(t *testing.T) {
	setupTestDB()
	user := seedUser("pairs")

	// Penalty 30 becomes a debt; the 50 reward leaves balance +20, so
	// only 20 can be applied against it.
	seedTransaction(user.ID, 30, models.TransactionTypePenalty, models.SourceGemPenalty, models.TransactionStatusCompleted)
	EnsureDebtForNegativeBalance(user.ID)
	seedTransaction(user.ID, 50, models.TransactionTypeReward, models.SourceReportApproval, models.TransactionStatusCompleted)

	res, err := ReconcileBalance(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, 20.0, res.Applied)

	var deductions, audits []models.Transaction
	database.DB.Where("user_id = ? AND type = ? AND source = ?",
		user.ID, models.TransactionTypeDeduction, models.SourceAutoClearance).Find(&deductions)
	database.DB.Where("user_id = ? AND type = ? AND source = ?",
		user.ID, models.TransactionTypeDebtPayment, models.SourceAutoClearance).Find(&audits)

	assert.Len(t, deductions, 1)
	assert.Len(t, audits, 1)
	assert.Equal(t, 20.0, deductions[0].Amount)
	assert.Equal(t, 20.0, audits[0].Amount)

	remaining, _ := GetTotalDebtAmount(user.ID)
	assert.Equal(t, 10.0, remaining)
}

func TestReconcileBalance_EarliestDueDateFirst(t *testing.T) {
	setupTestDB()
	user := seedUser("ordering")

	later := models.DebtRecord{
		UserID: user.ID, OriginalAmount: 40, CurrentAmount: 40,
		Status: models.DebtStatusOutstanding, DueDate: time.Now().AddDate(0, 0, 60),
	}
	earlier := models.DebtRecord{
		UserID: user.ID, OriginalAmount: 40, CurrentAmount: 40,
		Status: models.DebtStatusOutstanding, DueDate: time.Now().AddDate(0, 0, 10),
	}
	database.DB.Create(&later)
	database.DB.Create(&earlier)

	// Balance covers only one of the two debts.
	seedTransaction(user.ID, 40, models.TransactionTypeReward, models.SourceReportApproval, models.TransactionStatusCompleted)

	res, err := ReconcileBalance(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, 40.0, res.Applied)

	var earlierAfter, laterAfter models.DebtRecord
	database.DB.First(&earlierAfter, earlier.ID)
	database.DB.First(&laterAfter, later.ID)

	assert.Equal(t, models.DebtStatusPaid, earlierAfter.Status)
	assert.Equal(t, models.DebtStatusOutstanding, laterAfter.Status)
	assert.Equal(t, 40.0, laterAfter.Remaining())
}

func TestReconcileBalance_ConservesBalancePlusDebt(t *testing.T) {
	setupTestDB()
	user := seedUser("conserve")

	seedTransaction(user.ID, 150, models.TransactionTypePenalty, models.SourceGemPenalty, models.TransactionStatusCompleted)
	EnsureDebtForNegativeBalance(user.ID)
	seedTransaction(user.ID, 240, models.TransactionTypeReward, models.SourceReportApproval, models.TransactionStatusCompleted)

	balBefore, _ := GetBalance(user.ID)
	debtBefore, _ := GetTotalDebtAmount(user.ID)
	netBefore := balBefore.CurrentBalance - debtBefore

	_, err := ReconcileBalance(user.ID)
	assert.NoError(t, err)

	balAfter, _ := GetBalance(user.ID)
	debtAfter, _ := GetTotalDebtAmount(user.ID)
	netAfter := balAfter.CurrentBalance - debtAfter

	assert.InDelta(t, netBefore, netAfter, 1e-9, "clearance must conserve balance minus debt")
}
