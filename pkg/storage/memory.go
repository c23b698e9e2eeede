package storage

import (
	"context"
	"iter"
	"slices"
	"strings"
	"sync"
)

// MemoryStorage implements KV in process memory. It is strongly consistent
// and is used for development and tests.
type MemoryStorage struct {
	entries map[string][]byte
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new memory storage instance
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		entries: make(map[string][]byte),
	}
}

// Get returns a copy of the stored value
func (m *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, exists := m.entries[key]
	if !exists {
		return nil, ErrNotFound
	}
	return slices.Clone(value), nil
}

// Put stores a copy of value under key
func (m *MemoryStorage) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = slices.Clone(value)
	return nil
}

// Delete removes key from memory
func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

// List yields a sorted snapshot of the keys under prefix
func (m *MemoryStorage) List(ctx context.Context, prefix string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		m.mu.RLock()
		keys := make([]string, 0, len(m.entries))
		for key := range m.entries {
			if strings.HasPrefix(key, prefix) {
				keys = append(keys, key)
			}
		}
		m.mu.RUnlock()
		slices.Sort(keys)

		for _, key := range keys {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			if !yield(key, nil) {
				return
			}
		}
	}
}

// Close is a no-op for memory storage
func (m *MemoryStorage) Close() error {
	return nil
}

var _ KV = (*MemoryStorage)(nil)
