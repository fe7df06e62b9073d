package store

import (
	"context"
	"sync"
)

// MemoryBackend holds the blob in process memory.
type MemoryBackend struct {
	mu     sync.Mutex
	data   []byte
	writes int
	err    error
}

// NewMemoryBackend returns a backend seeded with data (nil for empty).
func NewMemoryBackend(data []byte) *MemoryBackend {
	return &MemoryBackend{data: cloneBytes(data)}
}

func (m *MemoryBackend) Read(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneBytes(m.data), nil
}

func (m *MemoryBackend) Write(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data = cloneBytes(data)
	m.writes++
	return nil
}

func (m *MemoryBackend) Close() error { return nil }

// FailWrites makes subsequent writes return err; nil restores them.
func (m *MemoryBackend) FailWrites(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Writes returns the number of successful writes.
func (m *MemoryBackend) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
