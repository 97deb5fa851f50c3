// Package di provides dependency injection factories for creating application components.
package di

import (
	"log/slog"

	"hrms_backend/internal/feature/attendance/adapters"
	"hrms_backend/internal/feature/attendance/usecase"
	"hrms_backend/internal/platform/config"
	infrahttp "hrms_backend/internal/platform/http"
)

// NewEmployeeDirectory returns the employee service client when a URL is configured.
// Otherwise every positive employee id is accepted.
func NewEmployeeDirectory(cfg config.ServicesConfig) usecase.EmployeeDirectory {
	if cfg.EmployeeServiceURL == "" {
		slog.Warn("EMPLOYEE_SERVICE_URL is not set, employee ids are not verified")
		return adapters.NewAnyEmployeeDirectory()
	}
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return adapters.NewEmployeeServiceDirectory(cfg.EmployeeServiceURL, httpClient)
}
