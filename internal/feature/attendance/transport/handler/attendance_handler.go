// Package handler provides the HTTP handlers for the attendance feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"hrms_backend/internal/api"
	"hrms_backend/internal/feature/attendance/domain/entity"
	"hrms_backend/internal/feature/attendance/transport/http/dto"
	"hrms_backend/internal/feature/attendance/usecase"
	"hrms_backend/internal/platform/http/middleware"
	"hrms_backend/internal/platform/metrics"
)

// AttendanceUsecase defines the attendance operations the handler depends on.
type AttendanceUsecase interface {
	CreateAttendance(ctx context.Context, in usecase.CreateInput) (*entity.Attendance, error)
	UpdateAttendance(ctx context.Context, id uint, in usecase.UpdateInput) (*entity.Attendance, error)
	GetAttendanceByID(ctx context.Context, id uint) (*entity.Attendance, error)
	GetAttendanceByEmployee(ctx context.Context, employeeID uint) ([]entity.Attendance, error)
	DeleteAttendance(ctx context.Context, id uint) (bool, error)
}

// EventRecorder counts attendance operations by outcome.
type EventRecorder interface {
	RecordAttendanceEvent(operation, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordAttendanceEvent(string, string) {}

// AttendanceHandler serves /api/attendance.
// Every response body is an api.Response envelope.
type AttendanceHandler struct {
	uc     AttendanceUsecase
	events EventRecorder
}

// NewAttendanceHandler creates an AttendanceHandler. events may be nil.
func NewAttendanceHandler(uc AttendanceUsecase, events EventRecorder) *AttendanceHandler {
	if events == nil {
		events = noopRecorder{}
	}
	return &AttendanceHandler{uc: uc, events: events}
}

// Create handles POST /api/attendance.
func (h *AttendanceHandler) Create(c *gin.Context) {
	var req dto.CreateAttendanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create attendance validation failed", "error", err, "request_id", middleware.GetRequestID(c))
		c.JSON(http.StatusBadRequest, api.Fail[*dto.AttendanceRes]("invalid request", err.Error()))
		return
	}

	a, err := h.uc.CreateAttendance(c.Request.Context(), usecase.CreateInput{
		EmployeeID:  req.EmployeeID,
		CheckInTime: req.CheckInTime,
		Notes:       req.Notes,
	})
	if err != nil {
		h.events.RecordAttendanceEvent("create", metrics.OutcomeFailure)
		h.fail(c, "create attendance failed", err, http.StatusBadRequest)
		return
	}

	h.events.RecordAttendanceEvent("create", metrics.OutcomeSuccess)
	slog.Info("attendance created", "id", a.ID, "employee_id", a.EmployeeID, "request_id", middleware.GetRequestID(c))
	res := dto.FromEntity(a)
	c.JSON(http.StatusOK, api.OK(&res, "Attendance recorded successfully"))
}

// Update handles PUT /api/attendance/:id.
func (h *AttendanceHandler) Update(c *gin.Context) {
	id, err := api.PathUint(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Fail[*dto.AttendanceRes]("invalid request", err.Error()))
		return
	}

	var req dto.UpdateAttendanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update attendance validation failed", "error", err, "id", id, "request_id", middleware.GetRequestID(c))
		c.JSON(http.StatusBadRequest, api.Fail[*dto.AttendanceRes]("invalid request", err.Error()))
		return
	}

	a, err := h.uc.UpdateAttendance(c.Request.Context(), id, usecase.UpdateInput{
		CheckOutTime: req.CheckOutTime,
		Status:       entity.Status(req.Status),
		Notes:        req.Notes,
	})
	if err != nil {
		h.events.RecordAttendanceEvent("update", metrics.OutcomeFailure)
		h.fail(c, "update attendance failed", err, http.StatusBadRequest)
		return
	}

	h.events.RecordAttendanceEvent("update", metrics.OutcomeSuccess)
	res := dto.FromEntity(a)
	c.JSON(http.StatusOK, api.OK(&res, "Attendance updated successfully"))
}

// Get handles GET /api/attendance/:id.
func (h *AttendanceHandler) Get(c *gin.Context) {
	id, err := api.PathUint(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Fail[*dto.AttendanceRes]("invalid request", err.Error()))
		return
	}

	a, err := h.uc.GetAttendanceByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "get attendance failed", err, http.StatusNotFound)
		return
	}

	res := dto.FromEntity(a)
	c.JSON(http.StatusOK, api.OK(&res, "Attendance retrieved successfully"))
}

// ListByEmployee handles GET /api/attendance/employee/:employeeId.
func (h *AttendanceHandler) ListByEmployee(c *gin.Context) {
	employeeID, err := api.PathUint(c, "employeeId")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Fail[[]dto.AttendanceRes]("invalid request", err.Error()))
		return
	}

	records, err := h.uc.GetAttendanceByEmployee(c.Request.Context(), employeeID)
	if err != nil {
		slog.Error("list attendance failed", "error", err, "employee_id", employeeID, "request_id", middleware.GetRequestID(c))
		c.JSON(http.StatusInternalServerError, api.Fail[[]dto.AttendanceRes]("internal server error"))
		return
	}

	c.JSON(http.StatusOK, api.OK(dto.FromEntities(records), "Attendance records retrieved successfully"))
}

// Delete handles DELETE /api/attendance/:id.
func (h *AttendanceHandler) Delete(c *gin.Context) {
	id, err := api.PathUint(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.Fail[bool]("invalid request", err.Error()))
		return
	}

	ok, err := h.uc.DeleteAttendance(c.Request.Context(), id)
	if err != nil {
		h.events.RecordAttendanceEvent("delete", metrics.OutcomeFailure)
		if isExpected(err) {
			slog.Warn("delete attendance failed", "error", err, "id", id, "request_id", middleware.GetRequestID(c))
			c.JSON(http.StatusNotFound, api.Fail[bool](err.Error()))
			return
		}
		slog.Error("delete attendance failed", "error", err, "id", id, "request_id", middleware.GetRequestID(c))
		c.JSON(http.StatusInternalServerError, api.Fail[bool]("internal server error"))
		return
	}

	h.events.RecordAttendanceEvent("delete", metrics.OutcomeSuccess)
	c.JSON(http.StatusOK, api.OK(ok, "Attendance deleted successfully"))
}

// fail writes expected usecase errors with status and anything else as a 500.
func (h *AttendanceHandler) fail(c *gin.Context, msg string, err error, status int) {
	if isExpected(err) {
		slog.Warn(msg, "error", err, "request_id", middleware.GetRequestID(c))
		c.JSON(status, api.Fail[*dto.AttendanceRes](err.Error()))
		return
	}
	slog.Error(msg, "error", err, "request_id", middleware.GetRequestID(c))
	c.JSON(http.StatusInternalServerError, api.Fail[*dto.AttendanceRes]("internal server error"))
}

func isExpected(err error) bool {
	return errors.Is(err, usecase.ErrInvalidInput) ||
		errors.Is(err, usecase.ErrInvalidStatus) ||
		errors.Is(err, usecase.ErrInvalidCheckOut) ||
		errors.Is(err, usecase.ErrEmployeeNotFound) ||
		errors.Is(err, usecase.ErrAttendanceNotFound)
}
