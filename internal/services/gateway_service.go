package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/config"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/database"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/models"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/payment"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/payment/sslcommerz"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/pkg/logger"
)

var (
	ErrSessionNotFound       = errors.New("unknown gateway transaction")
	ErrSignatureInvalid      = errors.New("invalid gateway signature")
	ErrAmountMismatch        = errors.New("callback amount does not cover the expected amount")
	ErrGatewayFailure        = errors.New("payment gateway request failed")
	ErrLicenseNotBlacklisted = errors.New("license is not blacklisted")
)

// newGatewayDriver builds the configured driver. A variable so tests
// can substitute a fake gateway.
var newGatewayDriver = func(cfg *config.Config) payment.Driver {
	return sslcommerz.NewSSLCommerzDriver(cfg.GatewayBaseURL, cfg.GatewayStoreID, cfg.GatewayStorePasswd, cfg.GatewayTimeout)
}

// InitiateDebtPayment opens a gateway session for the remaining amount
// of a debt and returns the redirect URL.
func InitiateDebtPayment(userID, debtID uint) (*models.PaymentSession, string, error) {
	var debt models.DebtRecord
	if err := database.DB.First(&debt, debtID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrDebtNotFound
		}
		return nil, "", err
	}
	if debt.UserID != userID {
		return nil, "", ErrDebtForbidden
	}
	if !debt.Active() {
		return nil, "", ErrDebtSettled
	}

	session := &models.PaymentSession{
		TranID:  newTranID(),
		UserID:  userID,
		DebtID:  &debt.ID,
		Purpose: models.PurposeDebtPayment,
		Amount:  debt.Remaining(),
		Status:  models.PaymentSessionInitiated,
	}
	return openSession(session)
}

// InitiateLicenseReinstatement opens a gateway session for the fixed
// reinstatement fee of a blacklisted license.
func InitiateLicenseReinstatement(userID, licenseID uint) (*models.PaymentSession, string, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, "", err
	}

	var license models.DrivingLicense
	if err := database.DB.First(&license, licenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrLicenseNotFound
		}
		return nil, "", err
	}
	if license.UserID != userID {
		return nil, "", ErrDebtForbidden
	}
	if license.Status != models.LicenseStatusBlacklisted {
		return nil, "", ErrLicenseNotBlacklisted
	}

	session := &models.PaymentSession{
		TranID:    newTranID(),
		UserID:    userID,
		LicenseID: &license.ID,
		Purpose:   models.PurposeLicenseReinstatement,
		Amount:    cfg.LicenseReinstatementFee,
		Status:    models.PaymentSessionInitiated,
	}
	return openSession(session)
}

func newTranID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

func openSession(session *models.PaymentSession) (*models.PaymentSession, string, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, "", err
	}

	if err := database.DB.Create(session).Error; err != nil {
		return nil, "", err
	}

	driver := newGatewayDriver(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.GatewayTimeout)
	defer cancel()

	base := strings.TrimRight(cfg.BaseURL, "/") + "/api/v1/payment"
	gatewayURL, err := driver.CreateSession(ctx, payment.SessionRequest{
		TranID:     session.TranID,
		Amount:     session.Amount,
		CustomerID: fmt.Sprintf("%d", session.UserID),
		SuccessURL: base + "/success",
		FailURL:    base + "/fail",
		CancelURL:  base + "/cancel",
		IPNURL:     base + "/ipn",
	})
	if err != nil {
		// Bounded gateway call failed or timed out; the session falls
		// back to FAILED and the citizen can retry.
		database.DB.Model(&models.PaymentSession{}).
			Where("id = ? AND status = ?", session.ID, models.PaymentSessionInitiated).
			Update("status", models.PaymentSessionFailed)
		return nil, "", fmt.Errorf("%w: %v", ErrGatewayFailure, err)
	}

	return session, gatewayURL, nil
}

// HandleSuccessCallback consumes the synchronous success redirect. A
// replay for an already-settled session is a no-op success, never a
// double credit.
func HandleSuccessCallback(params map[string]string) error {
	data, err := verifyCallback(params)
	if err != nil {
		return err
	}
	return settleSession(data, params)
}

// HandleFailureCallback records a failed payment. No ledger mutation.
func HandleFailureCallback(params map[string]string) error {
	data, err := verifyCallback(params)
	if err != nil {
		return err
	}
	return closeSession(data, params, models.PaymentSessionFailed)
}

// HandleCancelCallback records a cancelled payment. No ledger mutation.
func HandleCancelCallback(params map[string]string) error {
	data, err := verifyCallback(params)
	if err != nil {
		return err
	}
	return closeSession(data, params, models.PaymentSessionCancelled)
}

// HandleIPN consumes the asynchronous server-to-server notification
// carrying the authoritative status. It is the backstop for lost
// synchronous redirects, so a VALID status settles even a session the
// redirect path already marked FAILED or CANCELLED.
func HandleIPN(params map[string]string) error {
	data, err := verifyCallback(params)
	if err != nil {
		return err
	}

	switch strings.ToUpper(data.Status) {
	case "VALID", "VALIDATED", "SUCCESS":
		return settleSession(data, params)
	case "FAILED":
		return closeSession(data, params, models.PaymentSessionFailed)
	case "CANCELLED", "CANCELED":
		return closeSession(data, params, models.PaymentSessionCancelled)
	default:
		return fmt.Errorf("unrecognized IPN status %q", data.Status)
	}
}

func verifyCallback(params map[string]string) (payment.CallbackData, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return payment.CallbackData{}, err
	}

	data, err := newGatewayDriver(cfg).VerifyCallback(params)
	if err != nil {
		return data, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return data, nil
}

// settleSession idempotently credits a settled payment. The status
// guard on the session row means exactly one caller performs the
// credit; everyone else observes an already-settled session and
// returns success without touching the ledger.
func settleSession(data payment.CallbackData, rawParams map[string]string) error {
	var settledUser uint

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var session models.PaymentSession
		if err := tx.Where("tran_id = ?", data.TranID).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}

		if session.Status == models.PaymentSessionSuccess {
			return nil // replay of an already-settled payment
		}

		// Validate the provider's amount exactly; a short payment is
		// rejected, an overpayment credits only the expected amount.
		if data.Amount != "" {
			got, err := decimal.NewFromString(data.Amount)
			if err != nil {
				return ErrAmountMismatch
			}
			if got.LessThan(decimal.NewFromFloat(session.Amount)) {
				return ErrAmountMismatch
			}
		}

		payloadJSON, _ := json.Marshal(rawParams)
		now := time.Now()
		res := tx.Model(&models.PaymentSession{}).
			Where("id = ? AND status <> ?", session.ID, models.PaymentSessionSuccess).
			Updates(map[string]interface{}{
				"status":     models.PaymentSessionSuccess,
				"val_id":     data.ValID,
				"payload":    datatypes.JSON(payloadJSON),
				"settled_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // lost the race to a concurrent replay
		}

		switch session.Purpose {
		case models.PurposeDebtPayment:
			if session.DebtID == nil {
				break
			}
			// recordDebtPayment clamps the credit to the remaining
			// debt, so a session opened before an auto-clearance pass
			// cannot over-credit.
			if _, err := recordDebtPayment(tx, *session.DebtID, session.Amount, session.TranID, "gateway"); err != nil {
				if errors.Is(err, ErrDebtSettled) {
					return nil // debt settled through another path
				}
				return err
			}

		case models.PurposeLicenseReinstatement:
			if session.LicenseID == nil {
				break
			}
			if err := tx.Model(&models.DrivingLicense{}).
				Where("id = ? AND status = ?", *session.LicenseID, models.LicenseStatusBlacklisted).
				Updates(map[string]interface{}{
					"status":         models.LicenseStatusActive,
					"blacklisted_at": nil,
				}).Error; err != nil {
				return err
			}
			audit := &models.Transaction{
				UserID:    session.UserID,
				Amount:    session.Amount,
				Type:      models.TransactionTypeDebtPayment,
				Source:    models.SourceLicenseReinstatement,
				Status:    models.TransactionStatusCompleted,
				Reference: session.TranID,
				Notes:     "license reinstatement fee",
				Operator:  "gateway",
			}
			if err := appendTransaction(tx, audit); err != nil {
				return err
			}
		}

		settledUser = session.UserID
		return nil
	})
	if err != nil {
		return err
	}

	if settledUser != 0 {
		InvalidatePaymentHistory(settledUser)
		// The payment credit may leave a positive balance alongside
		// other open debts; reconcile immediately.
		if _, err := ReconcileBalance(settledUser); err != nil && logger.Log != nil {
			logger.Log.Error("post-settlement reconcile failed",
				zap.Uint("user_id", settledUser), zap.Error(err))
		}
	}
	return nil
}

// closeSession moves an INITIATED session to FAILED or CANCELLED.
// Sessions already settled or closed are left untouched; the provider
// retries callbacks, so a miss here is bookkeeping, not an error.
func closeSession(data payment.CallbackData, rawParams map[string]string, target models.PaymentSessionStatus) error {
	payloadJSON, _ := json.Marshal(rawParams)
	res := database.DB.Model(&models.PaymentSession{}).
		Where("tran_id = ? AND status = ?", data.TranID, models.PaymentSessionInitiated).
		Updates(map[string]interface{}{
			"status":  target,
			"payload": datatypes.JSON(payloadJSON),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := database.DB.Model(&models.PaymentSession{}).
		Where("tran_id = ?", data.TranID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrSessionNotFound
	}
	return nil
}
