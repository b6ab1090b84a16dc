package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/database"
	"github.com/muddasirfaiyaj66/nirapoth-backend-sub000/internal/models"
)

var (
	ErrUnknownTransactionType   = errors.New("unknown transaction type")
	ErrUnknownTransactionSource = errors.New("unknown transaction source")
	ErrNegativeAmount           = errors.New("transaction amount must not be negative")
	ErrInvalidAdjustmentType    = errors.New("manual adjustments must be REWARD or PENALTY")
)

// appendTransaction validates and inserts one ledger row inside the
// caller's transaction. Every ledger write in the system funnels
// through here so an unmapped type or source can never reach the
// store and silently fall out of the balance sums.
func appendTransaction(tx *gorm.DB, t *models.Transaction) error {
	if _, ok := t.Type.BalanceSign(); !ok {
		return ErrUnknownTransactionType
	}
	if !t.Source.Valid() {
		return ErrUnknownTransactionSource
	}
	if t.Status == "" {
		t.Status = models.TransactionStatusCompleted
	}
	if !t.Status.Valid() {
		return fmt.Errorf("invalid transaction status %q", t.Status)
	}
	if t.Amount < 0 {
		return ErrNegativeAmount
	}
	return tx.Create(t).Error
}

// AppendTransaction inserts a single ledger row and invalidates the
// user's cached payment history.
func AppendTransaction(t *models.Transaction) error {
	if err := appendTransaction(database.DB, t); err != nil {
		return err
	}
	InvalidatePaymentHistory(t.UserID)
	return nil
}

// RecordManualAdjustment writes an admin-initiated REWARD or PENALTY
// row and converts any resulting shortfall into debt.
func RecordManualAdjustment(userID uint, amount float64, txType models.TransactionType, notes, operator string) (*models.Transaction, error) {
	if txType != models.TransactionTypeReward && txType != models.TransactionTypePenalty {
		return nil, ErrInvalidAdjustmentType
	}
	if amount <= 0 {
		return nil, ErrNegativeAmount
	}

	t := &models.Transaction{
		UserID:   userID,
		Amount:   amount,
		Type:     txType,
		Source:   models.SourceManualAdjustment,
		Status:   models.TransactionStatusCompleted,
		Notes:    notes,
		Operator: operator,
	}
	if err := AppendTransaction(t); err != nil {
		return nil, err
	}

	if _, err := EnsureDebtForNegativeBalance(userID); err != nil {
		return t, err
	}
	return t, nil
}

// TransactionFilter defines criteria for filtering ledger rows
type TransactionFilter struct {
	UserID    *uint
	Type      *models.TransactionType
	Source    *models.TransactionSource
	Status    *models.TransactionStatus
	StartTime *time.Time
	EndTime   *time.Time
	Page      int
	Limit     int
}

// FindTransactions retrieves a paginated list of ledger rows with filtering
func FindTransactions(filter TransactionFilter) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	query := database.DB.Model(&models.Transaction{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Source != nil {
		query = query.Where("source = ?", *filter.Source)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.StartTime != nil {
		query = query.Where("created_at >= ?", *filter.StartTime)
	}
	if filter.EndTime != nil {
		query = query.Where("created_at <= ?", *filter.EndTime)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.Order("created_at desc").Limit(filter.Limit).Offset(offset).Find(&transactions).Error; err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

// GenerateTransactionCSV generates a CSV export of ledger rows
func GenerateTransactionCSV(transactions []models.Transaction) ([]byte, error) {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{
		"ID", "Time", "User ID", "Type", "Source", "Status",
		"Amount", "Reference", "Operator", "Notes",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, t := range transactions {
		record := []string{
			fmt.Sprintf("%d", t.ID),
			t.CreatedAt.Format(time.RFC3339Nano),
			fmt.Sprintf("%d", t.UserID),
			string(t.Type),
			string(t.Source),
			string(t.Status),
			fmt.Sprintf("%.2f", t.Amount),
			t.Reference,
			t.Operator,
			t.Notes,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}
