package usage

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]int
}

// NewMemoryStore creates an empty in-memory usage store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[string]int)}
}

func key(accountID, date string, action Action) string {
	return accountID + ":" + date + ":" + string(action)
}

func (s *MemoryStore) Count(ctx context.Context, accountID, date string, action Action) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[key(accountID, date, action)], nil
}

func (s *MemoryStore) Increment(ctx context.Context, accountID, date string, action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[key(accountID, date, action)]++
	return nil
}
