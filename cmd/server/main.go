package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"hrms_backend/internal/app/di"
	"hrms_backend/internal/platform/config"
	platformdb "hrms_backend/internal/platform/db"
	"hrms_backend/internal/platform/metrics"
	infraredis "hrms_backend/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run returns instead of exiting so deferred closes always run.
func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Server.SlogLevel(),
	})))

	// db
	db, err := platformdb.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(context.Background(), infraredis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}); err != nil {
		slog.Warn("Redis unavailable, running without cache", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	m := metrics.New()
	if err := m.RegisterDBStats(sqlDB, cfg.Database.Name); err != nil {
		slog.Warn("failed to register database metrics", "error", err)
	}

	container, err := di.NewContainer(cfg, db, rdb, m)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	if cfg.Auth.AdminEmail != "" {
		if err := container.SeedAdmin(context.Background(), cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			return err
		}
	}

	stop := make(chan struct{})
	defer close(stop)
	if container.AuthLimiter != nil {
		go container.AuthLimiter.Run(stop)
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           container.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return serve(srv, quit, cfg.Server.ShutdownTimeout)
}

// serve runs srv until it fails or quit fires, then shuts it down within timeout.
func serve(srv *http.Server, quit <-chan os.Signal, timeout time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
