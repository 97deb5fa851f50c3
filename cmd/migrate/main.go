// Command migrate creates or updates the HRMS tables and exits.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	platformdb "hrms_backend/internal/platform/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found, using system environment variables")
	}

	cfg := platformdb.LoadConfigFromEnv()
	cfg.RunMigrations = true

	db, err := platformdb.Open(cfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	slog.Info("migration completed")
}
