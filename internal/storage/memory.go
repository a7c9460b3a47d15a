package storage

import (
	"context"
	"sync"
)

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string][]byte)}
}

// MemoryKV is an in-process stand-in for the durable store, used in tests
// and by the stub binary when no redis is configured.
type MemoryKV struct {
	m       sync.RWMutex
	entries map[string][]byte
}

func (s *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	data, ok := s.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	s.m.Lock()
	defer s.m.Unlock()
	data := make([]byte, len(value))
	copy(data, value)
	s.entries[key] = data
	return nil
}

func (s *MemoryKV) Delete(_ context.Context, key string) error {
	s.m.Lock()
	defer s.m.Unlock()
	delete(s.entries, key)
	return nil
}
