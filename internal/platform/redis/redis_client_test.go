package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient_Success(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := NewRedisClient(context.Background(), Options{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	require.NoError(t, rdb.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewRedisClient_Password(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("pw")

	_, err := NewRedisClient(context.Background(), Options{Addr: mr.Addr()})
	assert.Error(t, err)

	rdb, err := NewRedisClient(context.Background(), Options{Addr: mr.Addr(), Password: "pw"})
	require.NoError(t, err)
	_ = rdb.Close()
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	rdb, err := NewRedisClient(context.Background(), Options{Addr: addr})
	assert.Error(t, err)
	assert.Nil(t, rdb)
}

func TestNewRedisClient_NotConfigured(t *testing.T) {
	_, err := NewRedisClient(context.Background(), Options{})
	assert.True(t, errors.Is(err, ErrNotConfigured))
}
