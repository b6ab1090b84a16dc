package services

import (
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/database"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/models"
)

var (
	ErrWithdrawalNotFound      = errors.New("withdrawal request not found")
	ErrWithdrawalForbidden     = errors.New("withdrawal request does not belong to this user")
	ErrWithdrawalNotPending    = errors.New("withdrawal request is no longer pending")
	ErrInsufficientBalance     = errors.New("insufficient withdrawable balance")
	ErrInvalidWithdrawalAmount = errors.New("withdrawal amount must be positive")
)

// RequestWithdrawal validates the amount against the withdrawable
// balance and inserts a PENDING request reserving the funds. The check
// and the insert run in one transaction holding a write lock on the
// user row, so two concurrent requests that together exceed the
// withdrawable balance cannot both succeed. The request does not move
// money; payout execution is an admin-driven step.
//
// Open debts are settled against the balance first, so the gate runs
// on the settled figure; a positive raw row sum cannot be withdrawn
// while it is still owed against a tracked debt.
func RequestWithdrawal(userID uint, amount float64, method string, accountDetails map[string]interface{}) (*models.WithdrawalRequest, error) {
	if amount <= 0 {
		return nil, ErrInvalidWithdrawalAmount
	}

	if _, err := EnsureDebtForNegativeBalance(userID); err != nil {
		return nil, err
	}
	if _, err := ReconcileBalance(userID); err != nil {
		return nil, err
	}

	detailsJSON, err := json.Marshal(accountDetails)
	if err != nil {
		return nil, err
	}

	var out *models.WithdrawalRequest
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// The version bump takes a row write-lock on the user that is
		// held until commit; concurrent requests for the same user
		// serialize here.
		res := tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("version", gorm.Expr("version + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}

		withdrawable, err := getWithdrawableBalance(tx, userID)
		if err != nil {
			return err
		}
		if amount > withdrawable {
			return ErrInsufficientBalance
		}

		req := &models.WithdrawalRequest{
			UserID:         userID,
			Amount:         amount,
			Method:         method,
			AccountDetails: datatypes.JSON(detailsJSON),
			Status:         models.WithdrawalStatusPending,
		}
		if err := tx.Create(req).Error; err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetWithdrawableBalance is the balance not already reserved by
// pending or approved requests, clamped at zero.
func GetWithdrawableBalance(userID uint) (float64, error) {
	return getWithdrawableBalance(database.DB, userID)
}

func getWithdrawableBalance(tx *gorm.DB, userID uint) (float64, error) {
	bal, err := getBalance(tx, userID)
	if err != nil {
		return 0, err
	}

	var reserved float64
	err = tx.Model(&models.WithdrawalRequest{}).
		Where("user_id = ? AND status IN ?", userID,
			[]models.WithdrawalStatus{models.WithdrawalStatusPending, models.WithdrawalStatusApproved}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&reserved).Error
	if err != nil {
		return 0, err
	}

	withdrawable := bal.CurrentBalance - reserved
	if withdrawable < 0 {
		withdrawable = 0
	}
	return withdrawable, nil
}

// CancelWithdrawal cancels an owner's PENDING request, freeing the
// reserved amount immediately. APPROVED requests are final here.
func CancelWithdrawal(id, userID uint) error {
	res := database.DB.Model(&models.WithdrawalRequest{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, models.WithdrawalStatusPending).
		Update("status", models.WithdrawalStatusCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// The conditional update missed; report why.
	var req models.WithdrawalRequest
	if err := database.DB.First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWithdrawalNotFound
		}
		return err
	}
	if req.UserID != userID {
		return ErrWithdrawalForbidden
	}
	return ErrWithdrawalNotPending
}

// ReviewWithdrawal moves a PENDING request to APPROVED or REJECTED.
func ReviewWithdrawal(id, adminID uint, approve bool, notes string) (*models.WithdrawalRequest, error) {
	target := models.WithdrawalStatusRejected
	if approve {
		target = models.WithdrawalStatusApproved
	}

	res := database.DB.Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status = ?", id, models.WithdrawalStatusPending).
		Updates(map[string]interface{}{
			"status":       target,
			"reviewed_by":  adminID,
			"review_notes": notes,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var req models.WithdrawalRequest
		if err := database.DB.First(&req, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrWithdrawalNotFound
			}
			return nil, err
		}
		return nil, ErrWithdrawalNotPending
	}

	var req models.WithdrawalRequest
	if err := database.DB.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListUserWithdrawals returns a user's requests, newest first.
func ListUserWithdrawals(userID uint) ([]models.WithdrawalRequest, error) {
	var reqs []models.WithdrawalRequest
	if err := database.DB.Where("user_id = ?", userID).
		Order("created_at desc").Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// ListWithdrawals returns requests across users, optionally filtered
// by status, for the admin review queue.
func ListWithdrawals(status *models.WithdrawalStatus, page, limit int) ([]models.WithdrawalRequest, int64, error) {
	var reqs []models.WithdrawalRequest
	var total int64

	query := database.DB.Model(&models.WithdrawalRequest{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&reqs).Error; err != nil {
		return nil, 0, err
	}

	return reqs, total, nil
}
