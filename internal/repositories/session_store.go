package repositories

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when a session key was never written.
var ErrNotFound = errors.New("entry not found")

// SessionStore is the per-session key/value hand-off between wizard steps.
// Values are opaque bytes; the profile repository owns their encoding.
type SessionStore interface {
	Get(ctx context.Context, token, key string) ([]byte, error)
	Put(ctx context.Context, token, key string, value []byte) error
	Clear(ctx context.Context, token string) error
	Close() error
}

type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]map[string][]byte
}

func NewMemoryStore() SessionStore {
	return &memoryStore{entries: make(map[string]map[string][]byte)}
}

func (m *memoryStore) Get(ctx context.Context, token, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.entries[token][key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *memoryStore) Put(ctx context.Context, token, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.entries[token]
	if !ok {
		session = make(map[string][]byte)
		m.entries[token] = session
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	session[key] = stored
	return nil
}

func (m *memoryStore) Clear(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, token)
	return nil
}

func (m *memoryStore) Close() error {
	return nil
}
