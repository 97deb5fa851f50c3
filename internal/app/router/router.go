// Package router builds the gin engine and mounts every route.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	attendancehandler "hrms_backend/internal/feature/attendance/transport/handler"
	authhandler "hrms_backend/internal/feature/auth/transport/handler"
	platformhandler "hrms_backend/internal/platform/http/handler"
	"hrms_backend/internal/platform/http/middleware"
	jwtmw "hrms_backend/internal/platform/jwt"
	"hrms_backend/internal/platform/metrics"
	"hrms_backend/internal/shared/authz"
	"hrms_backend/internal/shared/ratelimiter"
)

// Deps are the collaborators the routes need. Metrics, AuthLimiter and Ready may be nil.
type Deps struct {
	Attendance  *attendancehandler.AttendanceHandler
	Auth        *authhandler.AuthHandler
	Tokens      jwtmw.TokenParser
	Enforcer    *authz.Enforcer
	Metrics     *metrics.Metrics
	AuthLimiter *ratelimiter.RateLimiter
	Ready       map[string]platformhandler.Pinger
	CORSOrigins []string
}

// NewRouter builds the gin engine with every middleware and route.
func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID())
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}
	if c, ok := corsConfig(d.CORSOrigins); ok {
		r.Use(cors.New(c))
	}

	// Public
	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)
	r.GET("/readyz", platformhandler.Ready(d.Ready))
	if d.Metrics != nil {
		r.GET("/metrics", d.Metrics.Handler())
	}

	auth := r.Group("/api/auth")
	if d.AuthLimiter != nil {
		auth.Use(d.AuthLimiter.Middleware())
	}
	{
		auth.POST("/login", d.Auth.Login)
		auth.POST("/register", jwtmw.OptionalAuth(d.Tokens), d.Auth.Register)
		auth.POST("/validate", d.Auth.Validate)
	}

	// Bearer token required
	attendance := r.Group("/api/attendance")
	attendance.Use(jwtmw.AuthRequired(d.Tokens))
	{
		allRoles := authz.RequirePolicy(d.Enforcer, authz.PolicyAllRoles, jwtmw.RoleFrom)
		employerOrAdmin := authz.RequirePolicy(d.Enforcer, authz.PolicyEmployerOrAdmin, jwtmw.RoleFrom)

		attendance.POST("", allRoles, d.Attendance.Create)
		attendance.PUT("/:id", employerOrAdmin, d.Attendance.Update)
		attendance.GET("/:id", allRoles, d.Attendance.Get)
		attendance.GET("/employee/:employeeId", allRoles, d.Attendance.ListByEmployee)
		attendance.DELETE("/:id", employerOrAdmin, d.Attendance.Delete)
	}

	return r
}

// corsConfig returns false when no origin is allowed. "*" allows every origin.
func corsConfig(origins []string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c, true
		}
	}
	c.AllowOrigins = origins
	return c, true
}
