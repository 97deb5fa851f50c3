package usecase

import "errors"

var (
	// ErrAttendanceNotFound is returned when an id does not resolve to a live (non-deleted) record.
	ErrAttendanceNotFound = errors.New("attendance record not found")

	// ErrEmployeeNotFound is returned when the employee directory does not know the employee.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrInvalidInput is returned when a required field is missing or a field is too long.
	ErrInvalidInput = errors.New("invalid attendance input")

	// ErrInvalidStatus is returned when a status is not Present, Absent or Late.
	ErrInvalidStatus = errors.New("status must be one of Present, Absent, Late")

	// ErrInvalidCheckOut is returned when the check-out time precedes the check-in time.
	ErrInvalidCheckOut = errors.New("check-out time must not be before check-in time")
)
