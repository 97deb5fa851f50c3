// Package db opens and configures the GORM connection shared by every feature.
package db

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	attendanceentity "hrms_backend/internal/feature/attendance/domain/entity"
	authentity "hrms_backend/internal/feature/auth/domain/entity"
)

// retryInterval is the pause between connection attempts in ConnectWithRetry.
const retryInterval = 3 * time.Second

// Config holds PostgreSQL connection settings.
type Config struct {
	User         string `yaml:"user" env:"DB_USER"`
	Password     string `yaml:"password" env:"DB_PASSWORD"`
	Name         string `yaml:"name" env:"DB_NAME"`
	Host         string `yaml:"host" env:"DB_HOST"`
	Port         string `yaml:"port" env:"DB_PORT"`
	SSLMode      string `yaml:"ssl_mode" env:"DB_SSLMODE"`
	InstanceName string `yaml:"instance_connection_name" env:"INSTANCE_CONNECTION_NAME"`

	MaxOpenConns    int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT"`
	RunMigrations   bool          `yaml:"run_migrations" env:"RUN_MIGRATIONS"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Host:            "localhost",
		Port:            "5432",
		SSLMode:         "disable",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnectTimeout:  60 * time.Second,
	}
}

// LoadConfigFromEnv reads database settings from environment variables on top of DefaultConfig.
func LoadConfigFromEnv() Config {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("invalid database environment, using defaults", "error", err)
	}
	return cfg
}

// BuildDSN returns the PostgreSQL DSN for cfg.
// A Cloud SQL instance name takes precedence over Host/Port and connects through the unix socket.
func BuildDSN(cfg Config) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	if cfg.InstanceName != "" {
		return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.InstanceName, cfg.User, cfg.Password, cfg.Name, sslMode)
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslMode)
}

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry calls open until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

// NewGormConfig returns the gorm settings used by every connection, tests included.
// TranslateError maps driver unique violations to gorm.ErrDuplicatedKey.
func NewGormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

func openPostgres(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), NewGormConfig())
}

// Open connects to PostgreSQL, tunes the pool, installs the soft-delete gateway
// and migrates the schema when cfg.RunMigrations is set.
func Open(cfg Config) (*gorm.DB, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), timeout, openPostgres)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := RegisterSoftDelete(db); err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate creates or updates the tables of every feature.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&attendanceentity.Attendance{},
		&authentity.User{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
