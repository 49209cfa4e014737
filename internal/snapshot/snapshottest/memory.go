// Package snapshottest provides an in-memory snapshot.Storage for tests of
// packages that persist through snapshots.
package snapshottest

import (
	"context"
	"sync"

	"atelier/internal/snapshot"
)

// Storage keeps snapshots in process memory. Stored and returned bytes are
// copies, so callers may reuse their buffers.
type Storage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ snapshot.Storage = (*Storage)(nil)

// NewStorage creates an empty in-memory storage.
func NewStorage() *Storage {
	return &Storage{data: make(map[string][]byte)}
}

func (m *Storage) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.data[key]
	if !ok {
		return nil, snapshot.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *Storage) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte(nil), data...)
	return nil
}
