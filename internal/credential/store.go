// Package credential holds the bearer token that gates every authenticated
// call to the SKU backend.
//
// The token is read from its Slot once when the Store is opened and cached in
// memory afterwards; writes go through to the Slot. All reads are synchronous
// so the controller can consult the store before every action.
package credential

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

// Store owns the single persisted credential.
type Store struct {
	mu    sync.RWMutex
	slot  Slot
	token string
	now   func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open loads any previously persisted token from slot.
func Open(ctx context.Context, slot Slot, opts ...Option) (*Store, error) {
	s := &Store{slot: slot, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	token, err := slot.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}
	s.token = token
	return s, nil
}

// SetCredential persists token, replacing any prior value.
func (s *Store) SetCredential(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.slot.Save(ctx, token); err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}
	s.token = token
	return nil
}

// Credential returns the stored token and whether one is present.
func (s *Store) Credential() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// ClearCredential removes the persisted token. The in-memory copy is dropped
// even if the slot fails, so a rejected token is never reused.
func (s *Store) ClearCredential(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if err := s.slot.Remove(ctx); err != nil {
		return fmt.Errorf("failed to remove credential: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a token is present and its exp claim lies
// in the future. Undecodable tokens and tokens without exp count as expired.
func (s *Store) IsAuthenticated() bool {
	exp, ok := s.Expiry()
	if !ok {
		return false
	}
	return s.now().Before(exp)
}

// Expiry decodes the exp claim of the stored token without verifying its
// signature; the backend is the only party that can verify it.
func (s *Store) Expiry() (time.Time, bool) {
	token, ok := s.Credential()
	if !ok {
		return time.Time{}, false
	}
	return ExpiryOf(token)
}

// ExpiryOf returns the exp claim of a JWT. Fractional seconds are kept;
// jwt.NumericDate would round them away.
func ExpiryOf(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser(jwt.WithJSONNumber()).ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	num, ok := claims["exp"].(json.Number)
	if !ok {
		return time.Time{}, false
	}
	secs, err := decimal.NewFromString(num.String())
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(0, secs.Shift(9).IntPart()), true
}

// AuthHeader returns the Authorization header for outbound requests, or an
// empty map when no token is stored.
func (s *Store) AuthHeader() map[string]string {
	token, ok := s.Credential()
	if !ok {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + token}
}
