package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// DefaultKey is the storage key the bearer token is persisted under.
const DefaultKey = "linen_havens_auth_token"

// Slot is a single persisted value. Load returns "" with a nil error when
// nothing is stored.
type Slot interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Remove(ctx context.Context) error
}

// MemorySlot keeps the token in process memory only.
type MemorySlot struct {
	mu    sync.Mutex
	value string
}

// NewMemorySlot returns an empty MemorySlot.
func NewMemorySlot() *MemorySlot { return &MemorySlot{} }

func (m *MemorySlot) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, nil
}

func (m *MemorySlot) Save(_ context.Context, token string) error {
	m.mu.Lock()
	m.value = token
	m.mu.Unlock()
	return nil
}

func (m *MemorySlot) Remove(context.Context) error {
	m.mu.Lock()
	m.value = ""
	m.mu.Unlock()
	return nil
}

// FileSlot persists the token in a small JSON key/value file, so other keys
// written by other tools in the same file are left alone.
type FileSlot struct {
	mu   sync.Mutex
	path string
	key  string
}

// NewFileSlot returns a slot stored at path under key.
func NewFileSlot(path, key string) *FileSlot {
	if key == "" {
		key = DefaultKey
	}
	return &FileSlot{path: path, key: key}
}

func (f *FileSlot) Load(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return "", err
	}
	return entries[f.key], nil
}

func (f *FileSlot) Save(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return err
	}
	entries[f.key] = token
	return f.write(entries)
}

func (f *FileSlot) Remove(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := entries[f.key]; !ok {
		return nil
	}
	delete(entries, f.key)
	if len(entries) == 0 {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove credential file: %w", err)
		}
		return nil
	}
	return f.write(entries)
}

func (f *FileSlot) read() (map[string]string, error) {
	entries := make(map[string]string)
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}
	if len(raw) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode credential file: %w", err)
	}
	return entries, nil
}

// write replaces the file atomically through a temp file in the same directory.
func (f *FileSlot) write(entries map[string]string) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode credential file: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create credential dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".credential-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close credential file: %w", err)
	}
	return os.Rename(tmp.Name(), f.path)
}
