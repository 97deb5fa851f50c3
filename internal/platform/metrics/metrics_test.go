package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCategorizeStatus(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{200, "2xx"},
		{304, "3xx"},
		{404, "4xx"},
		{503, "5xx"},
		{100, "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, categorizeStatus(tt.code))
	}
}

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/attendance/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/attendance/1", "/api/attendance/2", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	body := scrape(t, m)
	assert.Contains(t, body, `hrms_http_requests_total{endpoint="/api/attendance/:id",method="GET",status="4xx"} 2`)
	assert.NotContains(t, body, `endpoint="/healthz"`)
}

func TestBusinessCounters(t *testing.T) {
	m := New()

	m.RecordAttendanceEvent("create", OutcomeSuccess)
	m.RecordAttendanceEvent("create", OutcomeSuccess)
	m.RecordAuthEvent("login", OutcomeFailure)

	body := scrape(t, m)
	assert.Contains(t, body, `hrms_attendance_events_total{operation="create",outcome="success"} 2`)
	assert.Contains(t, body, `hrms_auth_events_total{operation="login",outcome="failure"} 1`)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordAttendanceEvent("create", OutcomeSuccess)
		m.RecordAuthEvent("login", OutcomeSuccess)
	})
}

// scrape renders m through its /metrics handler.
func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/metrics", m.Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestHandler_ExposesGoCollector(t *testing.T) {
	body := scrape(t, New())
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
