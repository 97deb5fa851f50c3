// Package base defines the fields shared by every persisted entity.
package base

import "time"

// Entity carries the identity, soft-delete marker and timestamps of a persisted record.
// The persistence layer owns these fields; application code only touches domain fields.
type Entity struct {
	// ID is assigned by storage on insert.
	ID uint `gorm:"primaryKey"`

	// IsDeleted marks the record as soft-deleted.
	// Rows with IsDeleted=true are hidden from every default query (see platform/db.RegisterSoftDelete).
	IsDeleted bool `gorm:"not null;default:false;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
