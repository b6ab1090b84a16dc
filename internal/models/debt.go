package models

import "time"

type DebtStatus string

const (
	DebtStatusOutstanding DebtStatus = "OUTSTANDING"
	DebtStatusPartial     DebtStatus = "PARTIAL"
	DebtStatusPaid        DebtStatus = "PAID"
	DebtStatusWaived      DebtStatus = "WAIVED"
)

// ActiveDebtStatuses are the statuses a debt can still be paid against.
var ActiveDebtStatuses = []DebtStatus{DebtStatusOutstanding, DebtStatusPartial}

// DebtRecord tracks money a citizen owes because penalties exceeded
// rewards. PaidAmount only ever grows until the record reaches PAID or
// WAIVED. Version guards concurrent writers: every mutation is a
// conditional update on the version read.
type DebtRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID         uint    `gorm:"index;not null" json:"user_id"`
	OriginalAmount float64 `gorm:"type:decimal(20,8);not null" json:"original_amount"`
	CurrentAmount  float64 `gorm:"type:decimal(20,8);not null" json:"current_amount"`
	PaidAmount     float64 `gorm:"type:decimal(20,8);not null;default:0" json:"paid_amount"`
	// CoveredAmount is the part of the remaining amount still mirrored
	// by a negative ledger balance. Shortfall tracking adds debt only
	// beyond the covered sum; clearance resets it once the balance is
	// non-negative, since no shortfall remains on the ledger then.
	CoveredAmount float64    `gorm:"type:decimal(20,8);not null;default:0" json:"-"`
	Status        DebtStatus `gorm:"type:varchar(20);index;not null;default:'OUTSTANDING'" json:"status"`
	DueDate       time.Time  `gorm:"index" json:"due_date"`
	LateFees      float64    `gorm:"type:decimal(20,8);not null;default:0" json:"late_fees"`
	WaivedBy      uint       `gorm:"default:0" json:"waived_by,omitempty"`
	WaiveNotes    string     `gorm:"type:text" json:"waive_notes,omitempty"`
	Version       int        `gorm:"default:1" json:"-"`
}

// Remaining is the amount still owed. Invariant: never negative.
func (d *DebtRecord) Remaining() float64 {
	return d.CurrentAmount - d.PaidAmount
}

func (d *DebtRecord) Active() bool {
	return d.Status == DebtStatusOutstanding || d.Status == DebtStatusPartial
}
