package models

import "time"

const (
	RoleCitizen = "citizen"
	RoleAdmin   = "admin"
)

type User struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	FullName  string `gorm:"type:varchar(100)"`
	Role      string `gorm:"not null;default:'citizen'"`
	Version   int    `gorm:"default:1"`
}
