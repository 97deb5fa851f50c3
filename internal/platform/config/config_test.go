package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsWithSecretFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, time.Hour, cfg.Auth.JWTExpiration)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, "", cfg.Redis.Addr())
	assert.Equal(t, 30.0, cfg.RateLimit.AuthPerMinute)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFile(t, "config.yaml", `
server:
  port: 9000
  log_level: debug
  cors_origins: ["https://hr.example.com"]
database:
  host: db.internal
  name: hrms
redis:
  host: cache.internal
auth:
  jwt_secret: from-yaml
  jwt_expiration: 30m
services:
  employee_service_url: http://employees:8080
`)
	t.Setenv("DB_HOST", "db.override")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, slog.LevelDebug, cfg.Server.SlogLevel())
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "db.override", cfg.Database.Host)
	assert.Equal(t, "hrms", cfg.Database.Name)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "cache.internal:6380", cfg.Redis.Addr())
	assert.Equal(t, "from-yaml", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.JWTExpiration)
	assert.Equal(t, "http://employees:8080", cfg.Services.EmployeeServiceURL)
}

func TestLoad_PathFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFile(t, "custom.yaml", "auth:\n  jwt_secret: abc\nserver:\n  port: 7000\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_SECRET=from-dotenv\n"), 0o600))
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Auth.JWTSecret)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeFile(t, "config.yaml", "server: [unterminated")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("PORT", "not-a-number")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Auth.JWTSecret = "x"
	assert.NoError(t, cfg.Validate())

	cfg.Server.Port = 0
	cfg.Auth.JWTExpiration = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_EXPIRATION must be positive")
	assert.Contains(t, err.Error(), "invalid port 0")
}

func TestValidate_AdminSeedNeedsBothFields(t *testing.T) {
	cfg := Default()
	cfg.Auth.JWTSecret = "x"
	cfg.Auth.AdminEmail = "admin@example.com"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_EMAIL and ADMIN_PASSWORD must be set together")

	cfg.Auth.AdminPassword = "password123"
	assert.NoError(t, cfg.Validate())
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ServerConfig{LogLevel: in}.SlogLevel(), in)
	}
}
