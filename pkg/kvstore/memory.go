package kvstore

import (
	"context"
	"sync"
)

// MemoryStore implements Store with a map guarded by a RWMutex.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]string
	closed  bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{records: make(map[string]string)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", ErrClosed
	}
	v, ok := m.records[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.records[key] = value
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.records, key)
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return ErrClosed
	}
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	clear(m.records)
	return nil
}

// Close marks the store closed. Subsequent calls fail with ErrClosed.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Len returns the number of stored records.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
