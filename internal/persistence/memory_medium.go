package persistence

import (
	"slices"
	"sync"
)

// MemoryMedium is a process-local medium. Data survives for the lifetime of
// the value only.
type MemoryMedium struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{items: make(map[string][]byte)}
}

func (m *MemoryMedium) Available() bool { return true }

func (m *MemoryMedium) GetItem(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.items[key]
	return slices.Clone(val), ok, nil
}

func (m *MemoryMedium) SetItem(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = slices.Clone(value)
	return nil
}

func (m *MemoryMedium) Close() error { return nil }

// unavailableMedium stands for an environment with no durable storage.
type unavailableMedium struct{}

func (unavailableMedium) Available() bool                        { return false }
func (unavailableMedium) GetItem(_ string) ([]byte, bool, error) { return nil, false, nil }
func (unavailableMedium) SetItem(_ string, _ []byte) error       { return nil }
func (unavailableMedium) Close() error                           { return nil }
