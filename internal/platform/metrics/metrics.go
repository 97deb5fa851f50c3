// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hrms"

// Outcome labels for business events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds every collector the service records into.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AttendanceEventsTotal *prometheus.CounterVec
	AuthEventsTotal       *prometheus.CounterVec
}

// New creates a dedicated registry with the Go and process collectors and registers
// the service metrics on it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "endpoint"},
		),
		AttendanceEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "attendance_events_total",
				Help:      "Attendance operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		AuthEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_events_total",
				Help:      "Authentication operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
	}
}

// RegisterDBStats exports connection pool statistics for db.
func (m *Metrics) RegisterDBStats(db *sql.DB, name string) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Registry returns the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	return gin.WrapH(h)
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.safeExecute("RecordHTTPRequest", func() {
		m.HTTPRequestsTotal.WithLabelValues(method, endpoint, categorizeStatus(statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	})
}

// RecordAttendanceEvent counts an attendance operation.
func (m *Metrics) RecordAttendanceEvent(operation, outcome string) {
	m.safeExecute("RecordAttendanceEvent", func() {
		m.AttendanceEventsTotal.WithLabelValues(operation, outcome).Inc()
	})
}

// RecordAuthEvent counts an authentication operation.
func (m *Metrics) RecordAuthEvent(operation, outcome string) {
	m.safeExecute("RecordAuthEvent", func() {
		m.AuthEventsTotal.WithLabelValues(operation, outcome).Inc()
	})
}

// safeExecute keeps a metrics failure from taking down a request.
func (m *Metrics) safeExecute(op string, fn func()) {
	if m == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("metrics operation panicked", "operation", op, "panic", r)
		}
	}()
	fn()
}

func categorizeStatus(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}

// ShouldSkipEndpoint reports whether path is excluded from request metrics.
func ShouldSkipEndpoint(path string) bool {
	return path == "/metrics" || path == "/healthz" || path == "/readyz"
}

// Middleware records request count and latency labelled by route pattern.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ShouldSkipEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start))
	}
}
