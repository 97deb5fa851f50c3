// Package entity defines the domain entities for the auth feature.
package entity

import (
	"hrms_backend/internal/shared/authz"
	"hrms_backend/internal/shared/base"
)

// User is a registered account.
type User struct {
	base.Entity

	// Email is unique across all users, soft-deleted ones included.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// PasswordHash is a bcrypt hash; the raw password is never stored.
	PasswordHash string `gorm:"size:255;not null"`

	FirstName string     `gorm:"size:100;not null"`
	LastName  string     `gorm:"size:100;not null"`
	Role      authz.Role `gorm:"size:50;not null"`
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "users"
}
