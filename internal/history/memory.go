package history

import (
	"context"
	"sync"
)

// MemoryBackend keeps history in process (history.backend: memory). Nothing survives
// the process.
type MemoryBackend struct {
	mu    sync.Mutex
	links []string
}

func NewMemoryBackend(seed ...string) *MemoryBackend {
	return &MemoryBackend{links: append([]string(nil), seed...)}
}

func (m *MemoryBackend) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return joinLines(m.links), nil
}

func (m *MemoryBackend) Append(_ context.Context, links []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = append(m.links, links...)
	return nil
}

func (m *MemoryBackend) Close() error { return nil }
