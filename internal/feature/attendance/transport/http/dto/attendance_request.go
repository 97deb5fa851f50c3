// Package dto defines data transfer objects for the attendance feature's HTTP transport layer.
package dto

import "time"

// CreateAttendanceReq is the request body for POST /api/attendance.
type CreateAttendanceReq struct {
	EmployeeID  uint      `json:"employeeId" binding:"required,gt=0"`
	CheckInTime time.Time `json:"checkInTime" binding:"required"`
	Notes       *string   `json:"notes" binding:"omitempty,max=500"`
}

// UpdateAttendanceReq is the request body for PUT /api/attendance/{id}.
// Every field replaces the stored value; an absent checkOutTime clears it.
type UpdateAttendanceReq struct {
	CheckOutTime *time.Time `json:"checkOutTime"`
	Status       string     `json:"status" binding:"required,oneof=Present Absent Late"`
	Notes        *string    `json:"notes" binding:"omitempty,max=500"`
}
