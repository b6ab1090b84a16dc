package models

import "time"

type PenaltySeverity string

const (
	SeverityLow      PenaltySeverity = "LOW"
	SeverityMedium   PenaltySeverity = "MEDIUM"
	SeverityHigh     PenaltySeverity = "HIGH"
	SeverityCritical PenaltySeverity = "CRITICAL"
)

type LicenseStatus string

const (
	LicenseStatusActive      LicenseStatus = "ACTIVE"
	LicenseStatusBlacklisted LicenseStatus = "BLACKLISTED"
)

// GemAccount holds a citizen's driving-privilege credits. Invariant:
// amount <= 0 implies IsRestricted. The reverse does not hold; admins
// may keep an account restricted even after its gems recover.
type GemAccount struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID       uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	LicenseID    *uint `gorm:"index" json:"license_id,omitempty"`
	Amount       int   `gorm:"not null;default:0" json:"amount"`
	IsRestricted bool  `gorm:"not null;default:false" json:"is_restricted"`
}

// DrivingLicense transitions to BLACKLISTED when the bound gem account
// is depleted. A blacklisted license requires the fixed reinstatement
// fee, paid through the payment gateway, before the citizen may reapply
// for a driving test.
type DrivingLicense struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID        uint          `gorm:"index;not null" json:"user_id"`
	LicenseNo     string        `gorm:"uniqueIndex;type:varchar(40);not null" json:"license_no"`
	Status        LicenseStatus `gorm:"type:varchar(20);index;not null;default:'ACTIVE'" json:"status"`
	BlacklistedAt *time.Time    `json:"blacklisted_at,omitempty"`
}
