package cache

import (
	"context"
	"fmt"
	"time"
)

// TokenSlot persists the bearer credential under one fixed Redis key. It
// satisfies credential.Slot.
type TokenSlot struct {
	redis *RedisClient
	key   string
	ttl   time.Duration
}

// NewTokenSlot creates a TokenSlot. A ttl of zero keeps the token until it is
// removed; expiry is still judged from the token's own exp claim.
func NewTokenSlot(redis *RedisClient, key string, ttl time.Duration) *TokenSlot {
	return &TokenSlot{redis: redis, key: key, ttl: ttl}
}

// Load returns the stored token or "" when none is stored.
func (s *TokenSlot) Load(ctx context.Context) (string, error) {
	v, _, err := s.redis.Get(ctx, s.key)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}
	return v, nil
}

// Save stores token, replacing any prior value.
func (s *TokenSlot) Save(ctx context.Context, token string) error {
	if err := s.redis.Set(ctx, s.key, token, s.ttl); err != nil {
		return fmt.Errorf("failed to set token: %w", err)
	}
	return nil
}

// Remove deletes the stored token.
func (s *TokenSlot) Remove(ctx context.Context) error {
	return s.redis.Delete(ctx, s.key)
}
