package di

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"hrms_backend/internal/app/router"
	attendancehandler "hrms_backend/internal/feature/attendance/transport/handler"
	attendanceusecase "hrms_backend/internal/feature/attendance/usecase"
	authadapters "hrms_backend/internal/feature/auth/adapters"
	authhandler "hrms_backend/internal/feature/auth/transport/handler"
	authusecase "hrms_backend/internal/feature/auth/usecase"
	"hrms_backend/internal/platform/config"
	platformhandler "hrms_backend/internal/platform/http/handler"
	jwtmw "hrms_backend/internal/platform/jwt"
	"hrms_backend/internal/platform/metrics"
	"hrms_backend/internal/shared/authz"
	"hrms_backend/internal/shared/ratelimiter"
)

// Container holds the wired application graph.
type Container struct {
	Tokens            *jwtmw.Generator
	Enforcer          *authz.Enforcer
	Metrics           *metrics.Metrics
	AuthLimiter       *ratelimiter.RateLimiter
	AttendanceHandler *attendancehandler.AttendanceHandler
	AuthHandler       *authhandler.AuthHandler

	auth        authhandler.AuthUsecase
	ready       map[string]platformhandler.Pinger
	corsOrigins []string
}

// NewContainer wires every feature on top of db. rdb may be nil, in which case
// attendance lookups are not cached. m may be nil to disable metrics.
func NewContainer(cfg *config.Config, db *gorm.DB, rdb *redis.Client, m *metrics.Metrics) (*Container, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	enforcer, err := authz.NewDefaultEnforcer()
	if err != nil {
		return nil, err
	}

	tokens := jwtmw.NewGenerator(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration)

	// Repository
	attendanceRepo := NewAttendanceRepository(rdb, cfg.Redis.CacheTTL, db)
	userRepo := authadapters.NewUserRepository(db)

	// Usecase
	attendanceUC := attendanceusecase.NewAttendanceUsecase(attendanceRepo, NewEmployeeDirectory(cfg.Services))
	authUC := authusecase.NewAuthUsecase(userRepo, tokens, tokens)

	// Handler
	var attendanceEvents attendancehandler.EventRecorder
	var authEvents authhandler.EventRecorder
	if m != nil {
		attendanceEvents = m
		authEvents = m
	}

	ready := map[string]platformhandler.Pinger{"database": sqlDB}
	if rdb != nil {
		ready["redis"] = redisPinger{rdb}
	}

	return &Container{
		Tokens:            tokens,
		Enforcer:          enforcer,
		Metrics:           m,
		AuthLimiter:       newAuthLimiter(cfg.RateLimit),
		AttendanceHandler: attendancehandler.NewAttendanceHandler(attendanceUC, attendanceEvents),
		AuthHandler:       authhandler.NewAuthHandler(authUC, enforcer, authEvents),
		auth:              authUC,
		ready:             ready,
		corsOrigins:       cfg.Server.CORSOrigins,
	}, nil
}

// SeedAdmin creates the Admin account used to register Employer and Admin users.
// An existing account with that email is left untouched.
func (c *Container) SeedAdmin(ctx context.Context, email, password string) error {
	_, err := c.auth.Register(ctx, authusecase.RegisterInput{
		Email:     email,
		Password:  password,
		FirstName: "System",
		LastName:  "Admin",
		Role:      authz.RoleAdmin,
	})
	if err != nil && !errors.Is(err, authusecase.ErrEmailAlreadyExists) {
		return fmt.Errorf("failed to seed admin %s: %w", email, err)
	}
	return nil
}

// Router builds the gin engine for the container.
func (c *Container) Router() *gin.Engine {
	return router.NewRouter(router.Deps{
		Attendance:  c.AttendanceHandler,
		Auth:        c.AuthHandler,
		Tokens:      c.Tokens,
		Enforcer:    c.Enforcer,
		Metrics:     c.Metrics,
		AuthLimiter: c.AuthLimiter,
		Ready:       c.ready,
		CORSOrigins: c.corsOrigins,
	})
}

// newAuthLimiter returns nil when rate limiting is switched off.
func newAuthLimiter(cfg config.RateLimitConfig) *ratelimiter.RateLimiter {
	if cfg.AuthPerMinute <= 0 {
		return nil
	}
	rl := ratelimiter.DefaultConfig()
	rl.Rate = rate.Limit(cfg.AuthPerMinute / 60.0)
	if cfg.AuthBurst > 0 {
		rl.Burst = cfg.AuthBurst
	}
	return ratelimiter.NewRateLimiter(rl)
}

type redisPinger struct{ rdb *redis.Client }

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}
