// Package redis opens the Redis client used by the attendance cache.
package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotConfigured is returned when no address is given.
var ErrNotConfigured = errors.New("redis address not configured")

const pingTimeout = 3 * time.Second

// Options are the connection settings for NewRedisClient.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings. Callers run without a cache when it fails.
func NewRedisClient(ctx context.Context, opts Options) (*redis.Client, error) {
	if opts.Addr == "" {
		return nil, ErrNotConfigured
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", opts.Addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", opts.Addr)
	return rdb, nil
}
