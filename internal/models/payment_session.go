package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentSessionStatus string

const (
	PaymentSessionInitiated PaymentSessionStatus = "INITIATED"
	PaymentSessionSuccess   PaymentSessionStatus = "SUCCESS"
	PaymentSessionFailed    PaymentSessionStatus = "FAILED"
	PaymentSessionCancelled PaymentSessionStatus = "CANCELLED"
)

type PaymentPurpose string

const (
	PurposeDebtPayment          PaymentPurpose = "DEBT_PAYMENT"
	PurposeLicenseReinstatement PaymentPurpose = "LICENSE_REINSTATEMENT"
)

// PaymentSession tracks one external gateway transaction. TranID is
// our identifier echoed back by every callback; the unique index plus
// the status guard in the reconciler make replayed callbacks no-ops.
type PaymentSession struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TranID    string               `gorm:"uniqueIndex;type:varchar(64);not null" json:"tran_id"`
	UserID    uint                 `gorm:"index;not null" json:"user_id"`
	DebtID    *uint                `gorm:"index" json:"debt_id,omitempty"`
	LicenseID *uint                `gorm:"index" json:"license_id,omitempty"`
	Purpose   PaymentPurpose       `gorm:"type:varchar(30);not null" json:"purpose"`
	Amount    float64              `gorm:"type:decimal(20,8);not null" json:"amount"`
	Status    PaymentSessionStatus `gorm:"type:varchar(20);index;not null;default:'INITIATED'" json:"status"`
	ValID     string               `gorm:"type:varchar(64)" json:"val_id,omitempty"`
	Payload   datatypes.JSON       `json:"-"` // raw callback payload, kept for audit
	SettledAt *time.Time           `json:"settled_at,omitempty"`
}
