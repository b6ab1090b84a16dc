package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/database"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/models"
)

// Gem accounts never go below the floor; policy is zero.
const GemFloor = 0

// Gems granted to a newly registered citizen.
const defaultGemGrant = 10

var (
	ErrGemAccountNotFound = errors.New("gem account not found")
	ErrInvalidGemPenalty  = errors.New("gem penalty amount must be positive")
	ErrLicenseNotFound    = errors.New("driving license not found")
	ErrUnknownSeverity    = errors.New("unknown penalty severity")
)

var recommendedDeductions = map[models.PenaltySeverity]int{
	models.SeverityLow:      1,
	models.SeverityMedium:   2,
	models.SeverityHigh:     3,
	models.SeverityCritical: 5,
}

// RecommendedDeduction is a pure severity→amount lookup.
func RecommendedDeduction(severity models.PenaltySeverity) (int, error) {
	amount, ok := recommendedDeductions[severity]
	if !ok {
		return 0, ErrUnknownSeverity
	}
	return amount, nil
}

// ApplyGemPenalty writes a PENALTY ledger row sourced GEM_PENALTY and
// deducts gems, clamped at the floor. Depletion restricts the account
// and blacklists a bound license; the restriction is one-directional,
// so recovering gems never lifts it automatically. Any balance shortfall
// caused by the penalty is converted into debt.
func ApplyGemPenalty(citizenID uint, amount int, reason string, severity models.PenaltySeverity, appliedBy string) (*models.GemAccount, error) {
	if amount <= 0 {
		return nil, ErrInvalidGemPenalty
	}
	if _, ok := recommendedDeductions[severity]; !ok {
		return nil, ErrUnknownSeverity
	}

	var out *models.GemAccount
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var acct models.GemAccount
		if err := tx.Where("user_id = ?", citizenID).First(&acct).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGemAccountNotFound
			}
			return err
		}

		newAmount := acct.Amount - amount
		if newAmount < GemFloor {
			newAmount = GemFloor
		}
		restricted := acct.IsRestricted || newAmount <= 0

		// Conditional on the amount we read, so an interleaved writer
		// cannot make this a lost update.
		res := tx.Model(&models.GemAccount{}).
			Where("id = ? AND amount = ?", acct.ID, acct.Amount).
			Updates(map[string]interface{}{
				"amount":        newAmount,
				"is_restricted": restricted,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrentUpdate
		}

		if newAmount <= 0 && acct.LicenseID != nil {
			now := time.Now()
			if err := tx.Model(&models.DrivingLicense{}).
				Where("id = ? AND status <> ?", *acct.LicenseID, models.LicenseStatusBlacklisted).
				Updates(map[string]interface{}{
					"status":         models.LicenseStatusBlacklisted,
					"blacklisted_at": now,
				}).Error; err != nil {
				return err
			}
		}

		penalty := &models.Transaction{
			UserID:   citizenID,
			Amount:   float64(amount),
			Type:     models.TransactionTypePenalty,
			Source:   models.SourceGemPenalty,
			Status:   models.TransactionStatusCompleted,
			Notes:    fmt.Sprintf("%s (severity %s)", reason, severity),
			Operator: appliedBy,
		}
		if err := appendTransaction(tx, penalty); err != nil {
			return err
		}

		acct.Amount = newAmount
		acct.IsRestricted = restricted
		out = &acct
		return nil
	})
	if err != nil {
		return nil, err
	}

	InvalidatePaymentHistory(citizenID)

	if _, err := EnsureDebtForNegativeBalance(citizenID); err != nil {
		return out, err
	}
	return out, nil
}

// GetGemAccount fetches the citizen's gem account.
func GetGemAccount(userID uint) (*models.GemAccount, error) {
	var acct models.GemAccount
	if err := database.DB.Where("user_id = ?", userID).First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGemAccountNotFound
		}
		return nil, err
	}
	return &acct, nil
}

// createGemAccount seeds a new citizen's gem account inside the
// caller's transaction.
func createGemAccount(tx *gorm.DB, userID uint) error {
	return tx.Create(&models.GemAccount{
		UserID: userID,
		Amount: defaultGemGrant,
	}).Error
}

// RegisterLicense creates a driving license for a citizen and binds it
// to their gem account so depletion can blacklist it.
func RegisterLicense(userID uint, licenseNo string) (*models.DrivingLicense, error) {
	var out *models.DrivingLicense
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		license := &models.DrivingLicense{
			UserID:    userID,
			LicenseNo: licenseNo,
			Status:    models.LicenseStatusActive,
		}
		if err := tx.Create(license).Error; err != nil {
			return err
		}

		res := tx.Model(&models.GemAccount{}).
			Where("user_id = ? AND license_id IS NULL", userID).
			Update("license_id", license.ID)
		if res.Error != nil {
			return res.Error
		}

		out = license
		return nil
	})
	return out, err
}
