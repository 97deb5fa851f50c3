// Package adapters provides repository and collaborator implementations for the attendance feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"hrms_backend/internal/feature/attendance/domain/entity"
	"hrms_backend/internal/feature/attendance/usecase"
)

// attendanceGorm is the GORM implementation of usecase.AttendanceRepository.
// The soft-delete filter is applied by the callbacks installed with db.RegisterSoftDelete,
// so none of the queries below mention is_deleted except SoftDelete itself.
type attendanceGorm struct {
	db *gorm.DB
}

var _ usecase.AttendanceRepository = (*attendanceGorm)(nil)

// NewAttendanceRepository creates a GORM-backed attendance repository.
func NewAttendanceRepository(db *gorm.DB) *attendanceGorm {
	return &attendanceGorm{db: db}
}

// Create inserts a.
func (r *attendanceGorm) Create(ctx context.Context, a *entity.Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// FindByID returns usecase.ErrAttendanceNotFound for unknown or soft-deleted ids.
func (r *attendanceGorm) FindByID(ctx context.Context, id uint) (*entity.Attendance, error) {
	var a entity.Attendance
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrAttendanceNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByEmployeeID returns the employee's records ordered by check-in time, newest first.
func (r *attendanceGorm) FindByEmployeeID(ctx context.Context, employeeID uint) ([]entity.Attendance, error) {
	records := []entity.Attendance{}
	if err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("check_in_time DESC").
		Order("id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Update writes the fields an update is allowed to change.
func (r *attendanceGorm) Update(ctx context.Context, a *entity.Attendance) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Attendance{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"check_out_time": a.CheckOutTime,
			"working_hours":  a.WorkingHours,
			"status":         a.Status,
			"notes":          a.Notes,
			"updated_at":     a.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrAttendanceNotFound
	}
	return nil
}

// SoftDelete flags a live record as deleted. Already-deleted rows are invisible to the
// update, so deleting twice yields usecase.ErrAttendanceNotFound.
func (r *attendanceGorm) SoftDelete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Attendance{}).
		Where("id = ?", id).
		Update("is_deleted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrAttendanceNotFound
	}
	return nil
}
