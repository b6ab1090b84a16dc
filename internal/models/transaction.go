package models

import "time"

type TransactionType string

const (
	TransactionTypeReward      TransactionType = "REWARD"
	TransactionTypeBonus       TransactionType = "BONUS"
	TransactionTypePenalty     TransactionType = "PENALTY"
	TransactionTypeDeduction   TransactionType = "DEDUCTION"
	TransactionTypeDebtPayment TransactionType = "DEBT_PAYMENT"
)

type TransactionSource string

const (
	SourceReportApproval       TransactionSource = "REPORT_APPROVAL"
	SourceFinePayment          TransactionSource = "FINE_PAYMENT"
	SourceDebtPayment          TransactionSource = "DEBT_PAYMENT"
	SourceGemPenalty           TransactionSource = "GEM_PENALTY"
	SourceManualAdjustment     TransactionSource = "MANUAL_ADJUSTMENT"
	SourceAutoClearance        TransactionSource = "AUTO_CLEARANCE"
	SourceLicenseReinstatement TransactionSource = "LICENSE_REINSTATEMENT"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// balanceSign maps every transaction type to its contribution to the
// derived balance. DEBT_PAYMENT rows are audit trail only; the credit
// side of a debt payment is the paired REWARD row sourced DEBT_PAYMENT.
// An unmapped type is rejected on write rather than silently dropped
// from the sums.
var balanceSign = map[TransactionType]int{
	TransactionTypeReward:      1,
	TransactionTypeBonus:       1,
	TransactionTypePenalty:     -1,
	TransactionTypeDeduction:   -1,
	TransactionTypeDebtPayment: 0,
}

// BalanceSign returns the sign with which rows of this type enter the
// balance sum, and whether the type is known at all.
func (t TransactionType) BalanceSign() (int, bool) {
	sign, ok := balanceSign[t]
	return sign, ok
}

func (s TransactionSource) Valid() bool {
	switch s {
	case SourceReportApproval, SourceFinePayment, SourceDebtPayment,
		SourceGemPenalty, SourceManualAdjustment, SourceAutoClearance,
		SourceLicenseReinstatement:
		return true
	}
	return false
}

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed:
		return true
	}
	return false
}

// Transaction is one append-only monetary event. Amount is always a
// non-negative magnitude; the type decides the direction. Rows are
// never edited once COMPLETED; corrections are new offsetting rows.
type Transaction struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"precision:3" json:"created_at"`

	UserID    uint              `gorm:"index;not null" json:"user_id"`
	Amount    float64           `gorm:"type:decimal(20,8);not null" json:"amount"`
	Type      TransactionType   `gorm:"type:varchar(20);index;not null" json:"type"`
	Source    TransactionSource `gorm:"type:varchar(30);index;not null" json:"source"`
	Status    TransactionStatus `gorm:"type:varchar(20);index;not null;default:'COMPLETED'" json:"status"`
	Reference string            `gorm:"type:varchar(64);index" json:"reference"` // external tran id or debt id
	Notes     string            `gorm:"type:text" json:"notes"`
	Operator  string            `gorm:"type:varchar(100)" json:"operator"` // username or 'system'
}
