package devotionstore

import (
	"context"
	"sync"
	"time"

	"github.com/mannadev/scriptura/internal/domain/devotion"
)

type entry struct {
	payload   devotion.ProcessedDevotion
	expiresAt time.Time
}

// MemoryStore is an in-memory devotion.Store for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[int]entry
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[int]entry)}
}

// GetDevotion implements devotion.Store.
func (s *MemoryStore) GetDevotion(_ context.Context, day int) (devotion.ProcessedDevotion, bool, error) {
	s.mu.RLock()
	record, ok := s.entries[day]
	s.mu.RUnlock()
	if !ok {
		return devotion.ProcessedDevotion{}, false, nil
	}
	if !record.expiresAt.IsZero() && record.expiresAt.Before(time.Now()) {
		s.mu.Lock()
		delete(s.entries, day)
		s.mu.Unlock()
		return devotion.ProcessedDevotion{}, false, nil
	}
	return record.payload, true, nil
}

// SaveDevotion implements devotion.Store.
func (s *MemoryStore) SaveDevotion(_ context.Context, record devotion.ProcessedDevotion, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.entries[record.Day] = entry{payload: record, expiresAt: exp}
	return nil
}

var _ devotion.Store = (*MemoryStore)(nil)
