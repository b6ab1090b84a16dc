package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/database"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/models"
)

func TestAppendTransaction_RejectsUnknownEnums(t *testing.T) {
	setupTestDB()
	user := seedUser("enums")

	err := AppendTransaction(&models.Transaction{
		UserID: user.ID,
		Amount: 10,
		Type:   models.TransactionType("REFUND"),
		Source: models.SourceManualAdjustment,
	})
	assert.ErrorIs(t, err, ErrUnknownTransactionType)

	err = AppendTransaction(&models.Transaction{
		UserID: user.ID,
		Amount: 10,
		Type:   models.TransactionTypeReward,
		Source: models.TransactionSource("CASHBACK"),
	})
	assert.ErrorIs(t, err, ErrUnknownTransactionSource)

	err = AppendTransaction(&models.Transaction{
		UserID: user.ID,
		Amount: -5,
		Type:   models.TransactionTypeReward,
		Source: models.SourceManualAdjustment,
	})
	assert.ErrorIs(t, err, ErrNegativeAmount)

	var count int64
	database.DB.Model(&models.Transaction{}).Count(&count)
	assert.Equal(t, int64(0), count, "rejected rows must never reach the ledger")
}

func TestAppendTransaction_DefaultsStatusCompleted(t *testing.T) {
	setupTestDB()
	user := seedUser("default-status")

	tr := &models.Transaction{
		UserID: user.ID,
		Amount: 10,
		Type:   models.TransactionTypeReward,
		Source: models.SourceReportApproval,
	}
	assert.NoError(t, AppendTransaction(tr))
	assert.Equal(t, models.TransactionStatusCompleted, tr.Status)
}

func TestRecordManualAdjustment_PenaltyCreatesDebt(t *testing.T) {
	setupTestDB()
	user := seedUser("adjust")

	_, err := RecordManualAdjustment(user.ID, 50, models.TransactionTypePenalty, "data correction", "admin")
	assert.NoError(t, err)

	bal, _ := GetBalance(user.ID)
	assert.Equal(t, -50.0, bal.CurrentBalance)

	total, err := GetTotalDebtAmount(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, 50.0, total, "penalty shortfall must become a tracked debt")
}

func TestRecordManualAdjustment_RejectsOtherTypes(t *testing.T) {
	setupTestDB()
	user := seedUser("adjust-type")

	_, err := RecordManualAdjustment(user.ID, 50, models.TransactionTypeDeduction, "nope", "admin")
	assert.ErrorIs(t, err, ErrInvalidAdjustmentType)

	_, err = RecordManualAdjustment(user.ID, 0, models.TransactionTypeReward, "nope", "admin")
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestFindTransactions_FilterAndPaginate(t *testing.T) {
	setupTestDB()
	user := seedUser("filter")
	other := seedUser("filter-other")

	for i := 0; i < 5; i++ {
		seedTransaction(user.ID, 10, models.TransactionTypeReward, models.SourceReportApproval, models.TransactionStatusCompleted)
	}
	seedTransaction(other.ID, 10, models.TransactionTypeReward, models.SourceReportApproval, models.TransactionStatusCompleted)
	seedTransaction(user.ID, 20, models.TransactionTypePenalty, models.SourceGemPenalty, models.TransactionStatusCompleted)

	penalty := models.TransactionTypePenalty
	rows, total, err := FindTransactions(TransactionFilter{UserID: &user.ID, Type: &penalty, Page: 1, Limit: 10})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, rows, 1)

	rows, total, err = FindTransactions(TransactionFilter{UserID: &user.ID, Page: 1, Limit: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(6), total)
	assert.Len(t, rows, 2)
}

func TestGenerateTransactionCSV(t *testing.T) {
	setupTestDB()
	user := seedUser("csv")
	tr := seedTransaction(user.ID, 12.5, models.TransactionTypeReward, models.SourceReportApproval, models.TransactionStatusCompleted)

	data, err := GenerateTransactionCSV([]models.Transaction{tr})
	assert.NoError(t, err)

	out := string(data)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Source")
	assert.Contains(t, lines[1], "12.50")
	assert.Contains(t, lines[1], "REWARD")
}
