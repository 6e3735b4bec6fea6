package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests and single-instance runs.
// TTLs are ignored.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key, field string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.data[key][field]
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, key, field, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data[key] == nil {
		m.data[key] = make(map[string]string)
	}
	m.data[key][field] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}
