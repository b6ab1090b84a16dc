package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/models"
)

func TestRequestWithdrawal_HappyPath(t *testing.T) {
	setupTestDB()
	user := seedUser("withdraw")
	seedTransaction(user.ID, 100, models.TransactionTypeReward, models.SourceReportApproval, models.TransactionStatusCompleted)

	req, err := RequestWithdrawal(user.ID, 60, "bkash", map[string]interface{}{"number": "01700000000"})
	assert.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusPending, req.Status)
	assert.Equal(t, 60.0, req.Amount)

	withdrawable, err := GetWithdrawableBalance(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, 40.0, withdrawable, "pending request must reserve funds")
}

func TestRequestWithdrawal_RejectsOverReservation(t *testing.T) {
	setupTestDB()
	user := seedUser("over-reserve")
	seedTransaction(user.ID, 100, models.TransactionTypeReward, models.SourceReportApproval, models.TransactionStatusCompleted)

	_, err := RequestWithdrawal(user.ID, 70, "bkash", nil)
	assert.NoError(t, err)

	// Second request may only claim the unreserved remainder.
	_, err = RequestWithdrawal(user.ID, 50, "bkash", nil)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	_, err = RequestWithdrawal(user.ID, 30, "nagad", nil)
	assert.NoError(t, err)
}

func TestRequestWithdrawal_InvalidInputs(t *testing.T) {
	setupTestDB()
	user := seedUser("invalid-withdraw")

	_, err := RequestWithdrawal(user.ID, 0, "bkash", nil)
	assert.ErrorIs(t, err, ErrInvalidWithdrawalAmount)

	_, err = RequestWithdrawal(user.ID, 10, "bkash", nil)
	assert.ErrorIs(t, err, ErrInsufficientBalance, "empty ledger means nothing is withdrawable")

	_, err = RequestWithdrawal(9999, 10, "bkash", nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRequestWithdrawal_SettlesDebtBeforeGating(t *testing.T) {
	setupTestDB()
	user := seedUser("indebted-withdraw")

	// Penalty 150 against rewards 100 leaves a 50 debt; a later 80
	// reward brings the raw row sum to +30 with the debt still open.
	seedTransaction(user.ID, 100, models.TransactionTypeReward, models.SourceReportApproval, models.TransactionStatusCompleted)
	seedTransaction(user.ID, 150, models.TransactionTypePenalty, models.SourceGemPenalty, models.TransactionStatusCompleted)
	_, err := EnsureDebtForNegativeBalance(user.ID)
	assert.NoError(t, err)
	seedTransaction(user.ID, 80, models.TransactionTypeReward, models.SourceReportApproval, models.TransactionStatusCompleted)

	// The request must clear the balance against the debt first, which
	// consumes the whole +30, so nothing is withdrawable.
	_, err = RequestWithdrawal(user.ID, 30, "bkash", nil)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	bal, _ := GetBalance(user.ID)
	assert.Equal(t, 0.0, bal.CurrentBalance)
	remaining, _ := GetTotalDebtAmount(user.ID)
	assert.Equal(t, 20.0, remaining)
}

func TestGetWithdrawableBalance_ClampedAtZero(t *testing.T) {
	setupTestDB()
	user := seedUser("clamped")
	seedTransaction(user.ID, 50, models.TransactionTypePenalty, models.SourceGemPenalty, models.TransactionStatusCompleted)

	withdrawable, err := GetWithdrawableBalance(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, withdrawable)
}

func TestCancelWithdrawal_FreesReservation(t *testing.T) {
	setupTestDB()
	user := seedUser("cancel")
	seedTransaction(user.ID, 100, models.TransactionTypeReward, models.SourceReportApproval, models.TransactionStatusCompleted)

	req, _ := RequestWithdrawal(user.ID, 80, "bkash", nil)

	assert.NoError(t, CancelWithdrawal(req.ID, user.ID))

	withdrawable, _ := GetWithdrawableBalance(user.ID)
	assert.Equal(t, 100.0, withdrawable)

	// Already cancelled.
	assert.ErrorIs(t, CancelWithdrawal(req.ID, user.ID), ErrWithdrawalNotPending)
}

func TestCancelWithdrawal_OwnershipAndExistence(t *testing.T) {
	setupTestDB()
	owner := seedUser("owner")
	intruder := seedUser("intruder")
	seedTransaction(owner.ID, 100, models.TransactionTypeReward, models.SourceReportApproval, models.TransactionStatusCompleted)

	req, _ := RequestWithdrawal(owner.ID, 10, "bkash", nil)

	assert.ErrorIs(t, CancelWithdrawal(req.ID, intruder.ID), ErrWithdrawalForbidden)
	assert.ErrorIs(t, CancelWithdrawal(9999, owner.ID), ErrWithdrawalNotFound)
}

func TestReviewWithdrawal_Transitions(t *testing.T) {
	setupTestDB()
	user := seedUser("review")
	admin := seedUser("reviewer")
	seedTransaction(user.ID, 100, models.TransactionTypeReward, models.SourceReportApproval, models.TransactionStatusCompleted)

	req, _ := RequestWithdrawal(user.ID, 30, "bkash", nil)

	approved, err := ReviewWithdrawal(req.ID, admin.ID, true, "ok")
	assert.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusApproved, approved.Status)
	assert.Equal(t, admin.ID, approved.ReviewedBy)

	// Approved requests still reserve funds.
	withdrawable, _ := GetWithdrawableBalance(user.ID)
	assert.Equal(t, 70.0, withdrawable)

	// Approval is final: neither re-review nor owner cancel.
	_, err = ReviewWithdrawal(req.ID, admin.ID, false, "changed my mind")
	assert.ErrorIs(t, err, ErrWithdrawalNotPending)
	assert.ErrorIs(t, CancelWithdrawal(req.ID, user.ID), ErrWithdrawalNotPending)
}

func TestReviewWithdrawal_RejectFreesReservation(t *testing.T) {
	setupTestDB()
	user := seedUser("rejected")
	seedTransaction(user.ID, 100, models.TransactionTypeReward, models.SourceReportApproval, models.TransactionStatusCompleted)

	req, _ := RequestWithdrawal(user.ID, 30, "bkash", nil)

	rejected, err := ReviewWithdrawal(req.ID, 1, false, "account details invalid")
	assert.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusRejected, rejected.Status)

	withdrawable, _ := GetWithdrawableBalance(user.ID)
	assert.Equal(t, 100.0, withdrawable)
}

func TestListWithdrawals_StatusFilter(t *testing.T) {
	setupTestDB()
	user := seedUser("lister")
	seedTransaction(user.ID, 100, models.TransactionTypeReward, models.SourceReportApproval, models.TransactionStatusCompleted)

	a, _ := RequestWithdrawal(user.ID, 10, "bkash", nil)
	RequestWithdrawal(user.ID, 20, "nagad", nil)
	CancelWithdrawal(a.ID, user.ID)

	pending := models.WithdrawalStatusPending
	reqs, total, err := ListWithdrawals(&pending, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, reqs, 1)

	all, err := ListUserWithdrawals(user.ID)
	assert.NoError(t, err)
	assert.Len(t, all, 2)
}
