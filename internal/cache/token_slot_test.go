package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/sku_console/internal/credential"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := NewRedisClientFrom(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = rc.Close() })
	return mr, rc
}

func TestTokenSlot_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, rc := newTestRedis(t)
	slot := NewTokenSlot(rc, credential.DefaultKey, 0)

	got, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, slot.Save(ctx, "tok-1"))
	stored, err := mr.Get(credential.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", stored)

	got, err = slot.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got)

	require.NoError(t, slot.Remove(ctx))
	assert.False(t, mr.Exists(credential.DefaultKey))
}

func TestTokenSlot_TTL(t *testing.T) {
	ctx := context.Background()
	mr, rc := newTestRedis(t)
	slot := NewTokenSlot(rc, "k", time.Minute)

	require.NoError(t, slot.Save(ctx, "tok"))
	assert.Equal(t, time.Minute, mr.TTL("k"))

	mr.FastForward(2 * time.Minute)
	got, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTokenSlot_BacksCredentialStore(t *testing.T) {
	ctx := context.Background()
	_, rc := newTestRedis(t)
	slot := NewTokenSlot(rc, credential.DefaultKey, 0)
	require.NoError(t, slot.Save(ctx, "persisted"))

	store, err := credential.Open(ctx, slot)
	require.NoError(t, err)
	tok, ok := store.Credential()
	assert.True(t, ok)
	assert.Equal(t, "persisted", tok)
}
