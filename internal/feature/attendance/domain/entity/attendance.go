// Package entity defines the domain entities for the attendance feature.
package entity

import (
	"time"

	"hrms_backend/internal/shared/base"
)

// Status is the attendance state recorded for a check-in.
type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusLate    Status = "Late"
)

// DefaultStatus is assigned to new records.
const DefaultStatus = StatusPresent

// MaxNotesLength is the maximum number of characters allowed in Notes.
const MaxNotesLength = 500

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	}
	return false
}

// Attendance is a single check-in record of an employee.
type Attendance struct {
	base.Entity

	// EmployeeID references the employee owning the record.
	EmployeeID uint `gorm:"not null;index"`

	CheckInTime  time.Time `gorm:"not null"`
	CheckOutTime *time.Time

	// WorkingHours is CheckOutTime - CheckInTime, nil until the employee checks out.
	WorkingHours *time.Duration

	Status Status  `gorm:"size:20;not null;default:Present"`
	Notes  *string `gorm:"size:500"`
}

// TableName returns the table name for GORM.
func (Attendance) TableName() string {
	return "attendances"
}

// CheckOut sets the check-out time and recomputes WorkingHours.
// A nil checkOut clears both.
func (a *Attendance) CheckOut(checkOut *time.Time) {
	a.CheckOutTime = checkOut
	a.WorkingHours = WorkingHoursBetween(a.CheckInTime, checkOut)
}

// WorkingHoursBetween returns the span between check-in and check-out,
// or nil when there is no check-out yet or it precedes the check-in.
func WorkingHoursBetween(checkIn time.Time, checkOut *time.Time) *time.Duration {
	if checkOut == nil || checkOut.Before(checkIn) {
		return nil
	}
	d := checkOut.Sub(checkIn)
	return &d
}
