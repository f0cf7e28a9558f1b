package resultstore

import (
	"context"
	"sync"
	"time"

	"github.com/rehabscope/rehabscope/internal/domain/analysis"
)

type memoryEntry struct {
	result    analysis.Result
	expiresAt time.Time
}

// MemoryStore is an in-memory analysis.ResultStore used for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryStore constructs a store backed by memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// SaveResult implements analysis.ResultStore.
func (s *MemoryStore) SaveResult(_ context.Context, result analysis.Result, ttl time.Duration) error {
	expires := time.Time{}
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[result.ID] = memoryEntry{result: result, expiresAt: expires}
	return nil
}

// GetResult implements analysis.ResultStore.
func (s *MemoryStore) GetResult(_ context.Context, id string) (analysis.Result, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return analysis.Result{}, false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
		return analysis.Result{}, false, nil
	}
	return entry.result, true, nil
}
