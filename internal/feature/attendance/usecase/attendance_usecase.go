// Package usecase implements the business logic for the attendance feature.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"hrms_backend/internal/feature/attendance/domain/entity"
)

// AttendanceRepository abstracts the persistence layer for attendance records.
// Implementations only ever see live records; soft-deleted rows are filtered by the gateway.
type AttendanceRepository interface {
	// Create persists a new record and fills its ID and timestamps.
	Create(ctx context.Context, a *entity.Attendance) error

	// FindByID returns ErrAttendanceNotFound when the record is absent or soft-deleted.
	FindByID(ctx context.Context, id uint) (*entity.Attendance, error)

	// FindByEmployeeID returns the employee's records, newest check-in first.
	FindByEmployeeID(ctx context.Context, employeeID uint) ([]entity.Attendance, error)

	// Update writes the mutable fields (check-out, working hours, status, notes) of a.
	// It returns ErrAttendanceNotFound when no live record has a.ID.
	Update(ctx context.Context, a *entity.Attendance) error

	// SoftDelete flags the record as deleted.
	// It returns ErrAttendanceNotFound when no live record has id.
	SoftDelete(ctx context.Context, id uint) error
}

// EmployeeDirectory answers whether an employee exists.
// It is owned by another service; the attendance feature only consults it.
type EmployeeDirectory interface {
	Exists(ctx context.Context, employeeID uint) (bool, error)
}

// CreateInput carries the fields accepted when recording a check-in.
type CreateInput struct {
	EmployeeID  uint
	CheckInTime time.Time
	Notes       *string
}

// UpdateInput carries the fields an update replaces.
type UpdateInput struct {
	CheckOutTime *time.Time
	Status       entity.Status
	Notes        *string
}

// AttendanceUsecase provides the attendance record operations.
type AttendanceUsecase struct {
	repo      AttendanceRepository
	employees EmployeeDirectory
	now       func() time.Time
}

// NewAttendanceUsecase creates an AttendanceUsecase.
func NewAttendanceUsecase(repo AttendanceRepository, employees EmployeeDirectory) *AttendanceUsecase {
	return &AttendanceUsecase{repo: repo, employees: employees, now: time.Now}
}

func validateNotes(notes *string) error {
	if notes != nil && utf8.RuneCountInString(*notes) > entity.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, entity.MaxNotesLength)
	}
	return nil
}

// CreateAttendance records a check-in for an existing employee.
// The new record starts as Present with no check-out and no working hours.
func (u *AttendanceUsecase) CreateAttendance(ctx context.Context, in CreateInput) (*entity.Attendance, error) {
	if in.EmployeeID == 0 {
		return nil, fmt.Errorf("%w: employeeId is required", ErrInvalidInput)
	}
	if in.CheckInTime.IsZero() {
		return nil, fmt.Errorf("%w: checkInTime is required", ErrInvalidInput)
	}
	if err := validateNotes(in.Notes); err != nil {
		return nil, err
	}

	ok, err := u.employees.Exists(ctx, in.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up employee %d: %w", in.EmployeeID, err)
	}
	if !ok {
		return nil, ErrEmployeeNotFound
	}

	a := &entity.Attendance{
		EmployeeID:  in.EmployeeID,
		CheckInTime: in.CheckInTime,
		Status:      entity.DefaultStatus,
		Notes:       in.Notes,
	}
	if err := u.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create attendance: %w", err)
	}
	return a, nil
}

// UpdateAttendance replaces check-out, status and notes of a live record and
// recomputes WorkingHours. Nothing is written when validation fails.
func (u *AttendanceUsecase) UpdateAttendance(ctx context.Context, id uint, in UpdateInput) (*entity.Attendance, error) {
	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if err := validateNotes(in.Notes); err != nil {
		return nil, err
	}

	a, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CheckOutTime != nil && in.CheckOutTime.Before(a.CheckInTime) {
		return nil, ErrInvalidCheckOut
	}

	a.CheckOut(in.CheckOutTime)
	a.Status = in.Status
	a.Notes = in.Notes
	a.UpdatedAt = u.now()

	if err := u.repo.Update(ctx, a); err != nil {
		if errors.Is(err, ErrAttendanceNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update attendance %d: %w", id, err)
	}
	return a, nil
}

// GetAttendanceByID returns a live record.
func (u *AttendanceUsecase) GetAttendanceByID(ctx context.Context, id uint) (*entity.Attendance, error) {
	return u.repo.FindByID(ctx, id)
}

// GetAttendanceByEmployee returns every live record of an employee.
// An employee without records yields an empty slice, not an error.
func (u *AttendanceUsecase) GetAttendanceByEmployee(ctx context.Context, employeeID uint) ([]entity.Attendance, error) {
	records, err := u.repo.FindByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for employee %d: %w", employeeID, err)
	}
	if records == nil {
		records = []entity.Attendance{}
	}
	return records, nil
}

// DeleteAttendance soft-deletes a record. A second delete of the same id reports ErrAttendanceNotFound.
func (u *AttendanceUsecase) DeleteAttendance(ctx context.Context, id uint) (bool, error) {
	if err := u.repo.SoftDelete(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}
