package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*Window
}

// NewMemoryStore creates an empty in-memory window store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]*Window)}
}

func (s *MemoryStore) Window(ctx context.Context, key string) (*Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[key]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (s *MemoryStore) Reset(ctx context.Context, key string, start time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows[key] = &Window{Start: start.UTC(), Count: 1}
	return nil
}

func (s *MemoryStore) Increment(ctx context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[key]
	if !ok {
		return 0, ErrWindowNotFound
	}
	w.Count++
	return w.Count, nil
}
