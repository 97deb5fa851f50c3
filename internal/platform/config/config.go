// Package config loads the server configuration: defaults, then an optional YAML file,
// then environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"hrms_backend/internal/platform/db"
)

// EnvConfigPath names the variable that points at the YAML file.
const EnvConfigPath = "CONFIG_PATH"

// DefaultPath is read when CONFIG_PATH is unset. A missing file is not an error.
const DefaultPath = "config.yaml"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  db.Config       `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Services  ServicesConfig  `yaml:"services"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" env:"PORT"`
	LogLevel        string        `yaml:"log_level" env:"LOG_LEVEL"`
	CORSOrigins     []string      `yaml:"cors_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

type RedisConfig struct {
	Host     string        `yaml:"host" env:"REDIS_HOST"`
	Port     string        `yaml:"port" env:"REDIS_PORT"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"CACHE_TTL"`
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return r.Host + ":" + port
}

type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	JWTExpiration time.Duration `yaml:"jwt_expiration" env:"JWT_EXPIRATION"`
	// AdminEmail and AdminPassword seed the first Admin account at startup.
	AdminEmail    string `yaml:"admin_email" env:"ADMIN_EMAIL"`
	AdminPassword string `yaml:"admin_password" env:"ADMIN_PASSWORD"`
}

type ServicesConfig struct {
	EmployeeServiceURL string        `yaml:"employee_service_url" env:"EMPLOYEE_SERVICE_URL"`
	Timeout            time.Duration `yaml:"timeout" env:"SERVICE_TIMEOUT"`
}

type RateLimitConfig struct {
	AuthPerMinute float64 `yaml:"auth_per_minute" env:"RATE_LIMIT_AUTH_PER_MINUTE"`
	AuthBurst     int     `yaml:"auth_burst" env:"RATE_LIMIT_AUTH_BURST"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			LogLevel:        "info",
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Database: db.DefaultConfig(),
		Redis: RedisConfig{
			Port:     "6379",
			CacheTTL: 5 * time.Minute,
		},
		Auth: AuthConfig{
			JWTExpiration: time.Hour,
		},
		Services: ServicesConfig{
			Timeout: 10 * time.Second,
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute: 30,
			AuthBurst:     10,
		},
	}
}

// Load reads .env when present, then path (or CONFIG_PATH, or config.yaml), then the environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var problems []string
	if c.Auth.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if c.Auth.JWTExpiration <= 0 {
		problems = append(problems, "JWT_EXPIRATION must be positive")
	}
	if (c.Auth.AdminEmail == "") != (c.Auth.AdminPassword == "") {
		problems = append(problems, "ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d", c.Server.Port))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (s ServerConfig) SlogLevel() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
