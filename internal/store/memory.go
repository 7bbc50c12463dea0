package store

import (
	"sync"
)

// MemoryBackend is a concurrency-safe in-memory key/value backend.
// Contents are lost on restart; use it for tests and throwaway runs.
type MemoryBackend struct {
	mu sync.RWMutex

	// key: slot name, value: encoded payload
	data map[string]string
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		data: make(map[string]string),
	}
}

// Get returns the value stored under key.
func (m *MemoryBackend) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores value under key, replacing any previous value.
func (m *MemoryBackend) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}

// Close is a no-op.
func (m *MemoryBackend) Close() error {
	return nil
}
