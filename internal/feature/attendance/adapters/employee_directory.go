package adapters

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"hrms_backend/internal/feature/attendance/usecase"
)

// employeeServiceDirectory asks the employee service whether an employee exists.
// GET {baseURL}/api/employees/{id}: 200 means yes, 404 means no, anything else is an error.
type employeeServiceDirectory struct {
	baseURL string
	client  *http.Client
}

var _ usecase.EmployeeDirectory = (*employeeServiceDirectory)(nil)

// NewEmployeeServiceDirectory creates a directory backed by the employee service at baseURL.
func NewEmployeeServiceDirectory(baseURL string, client *http.Client) *employeeServiceDirectory {
	return &employeeServiceDirectory{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Exists reports whether the employee service knows employeeID.
func (d *employeeServiceDirectory) Exists(ctx context.Context, employeeID uint) (bool, error) {
	endpoint, err := url.JoinPath(d.baseURL, "api", "employees", strconv.FormatUint(uint64(employeeID), 10))
	if err != nil {
		return false, fmt.Errorf("failed to build employee url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("employee service request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("employee service returned status %d", resp.StatusCode)
	}
}

// anyEmployeeDirectory accepts every non-zero id.
// It stands in for the employee service when none is configured.
type anyEmployeeDirectory struct{}

var _ usecase.EmployeeDirectory = anyEmployeeDirectory{}

// NewAnyEmployeeDirectory returns a directory that trusts any positive employee id.
func NewAnyEmployeeDirectory() anyEmployeeDirectory {
	return anyEmployeeDirectory{}
}

// Exists reports whether employeeID is non-zero.
func (anyEmployeeDirectory) Exists(_ context.Context, employeeID uint) (bool, error) {
	return employeeID > 0, nil
}
