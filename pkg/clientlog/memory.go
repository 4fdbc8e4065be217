package clientlog

import (
	"context"
	"sync"
)

// MemoryStore keeps reports in memory for tests.
type MemoryStore struct {
	mu      sync.Mutex
	reports []Report

	// FailSave, when set, makes Save return this error.
	FailSave error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(ctx context.Context, r Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSave != nil {
		return s.FailSave
	}
	s.reports = append(s.reports, r)
	return nil
}

// Reports returns a copy of everything saved so far.
func (s *MemoryStore) Reports() []Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Report, len(s.reports))
	copy(out, s.reports)
	return out
}
