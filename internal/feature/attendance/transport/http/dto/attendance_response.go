package dto

import (
	"fmt"
	"time"

	"hrms_backend/internal/feature/attendance/domain/entity"
)

// AttendanceRes is the JSON shape of an attendance record.
type AttendanceRes struct {
	ID           uint       `json:"id"`
	EmployeeID   uint       `json:"employeeId"`
	CheckInTime  time.Time  `json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime"`
	WorkingHours *string    `json:"workingHours"` // hh:mm:ss
	Status       string     `json:"status"`
	Notes        *string    `json:"notes"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// FromEntity converts a domain record into its response DTO.
func FromEntity(a *entity.Attendance) AttendanceRes {
	res := AttendanceRes{
		ID:          a.ID,
		EmployeeID:  a.EmployeeID,
		CheckInTime: a.CheckInTime.UTC(),
		Status:      string(a.Status),
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt.UTC(),
		UpdatedAt:   a.UpdatedAt.UTC(),
	}
	if a.CheckOutTime != nil {
		out := a.CheckOutTime.UTC()
		res.CheckOutTime = &out
	}
	if a.WorkingHours != nil {
		s := FormatDuration(*a.WorkingHours)
		res.WorkingHours = &s
	}
	return res
}

// FromEntities converts a slice of records, never returning nil.
func FromEntities(records []entity.Attendance) []AttendanceRes {
	out := make([]AttendanceRes, 0, len(records))
	for i := range records {
		out = append(out, FromEntity(&records[i]))
	}
	return out
}

// FormatDuration renders d as hh:mm:ss. Hours are not wrapped at 24.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
