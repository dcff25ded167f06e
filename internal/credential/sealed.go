package credential

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// ErrUnsealable is returned when a stored value cannot be opened with the
// configured secret.
var ErrUnsealable = errors.New("stored credential cannot be unsealed")

// SealedSlot encrypts the token before handing it to the wrapped Slot so a
// copied credential file or Redis dump does not leak a usable bearer token.
type SealedSlot struct {
	inner Slot
	key   [32]byte
}

// NewSealedSlot derives the sealing key from secret. salt should be stable
// per deployment; the storage key name is a reasonable choice.
func NewSealedSlot(inner Slot, secret, salt string) *SealedSlot {
	s := &SealedSlot{inner: inner}
	copy(s.key[:], argon2.IDKey([]byte(secret), []byte(salt), 1, 19*1024, 1, 32))
	return s
}

// Load opens the stored token. A value sealed under another secret reads as
// no credential, forcing a fresh login.
func (s *SealedSlot) Load(ctx context.Context) (string, error) {
	stored, err := s.inner.Load(ctx)
	if err != nil || stored == "" {
		return "", err
	}
	token, err := s.open(stored)
	if err != nil {
		log.Warn().Err(err).Msg("Discarding stored credential")
		return "", nil
	}
	return token, nil
}

// Save seals token and stores it.
func (s *SealedSlot) Save(ctx context.Context, token string) error {
	sealed, err := s.seal(token)
	if err != nil {
		return err
	}
	return s.inner.Save(ctx, sealed)
}

// Remove deletes the stored value.
func (s *SealedSlot) Remove(ctx context.Context) error {
	return s.inner.Remove(ctx)
}

func (s *SealedSlot) seal(token string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	out := secretbox.Seal(nonce[:], []byte(token), &nonce, &s.key)
	return base64.RawURLEncoding.EncodeToString(out), nil
}

func (s *SealedSlot) open(stored string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(stored)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrUnsealable
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrUnsealable
	}
	return string(plain), nil
}
