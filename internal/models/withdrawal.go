package models

import (
	"time"

	"gorm.io/datatypes"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "PENDING"
	WithdrawalStatusApproved  WithdrawalStatus = "APPROVED"
	WithdrawalStatusRejected  WithdrawalStatus = "REJECTED"
	WithdrawalStatusCancelled WithdrawalStatus = "CANCELLED"
)

// WithdrawalRequest reserves funds against the withdrawable balance
// while PENDING or APPROVED. Admins move it PENDING→APPROVED/REJECTED;
// only the owner may cancel, and only while still PENDING.
type WithdrawalRequest struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID         uint             `gorm:"index;not null" json:"user_id"`
	Amount         float64          `gorm:"type:decimal(20,8);not null" json:"amount"`
	Method         string           `gorm:"type:varchar(30);not null" json:"method"` // e.g. bkash, nagad, bank
	AccountDetails datatypes.JSON   `json:"account_details"`
	Status         WithdrawalStatus `gorm:"type:varchar(20);index;not null;default:'PENDING'" json:"status"`
	ReviewedBy     uint             `gorm:"default:0" json:"reviewed_by,omitempty"`
	ReviewNotes    string           `gorm:"type:text" json:"review_notes,omitempty"`
}

func (s WithdrawalStatus) Reserved() bool {
	return s == WithdrawalStatusPending || s == WithdrawalStatusApproved
}
