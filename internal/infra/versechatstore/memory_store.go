package versechatstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mannadev/scriptura/internal/domain/versechat"
)

type answerEntry struct {
	payload   versechat.AnswerRecord
	expiresAt time.Time
}

// MemoryStore is an in-memory versechat.Store for tests/dev.
type MemoryStore struct {
	mu       sync.RWMutex
	answers  map[int64]answerEntry
	trending map[string]int64
	displays map[string]string
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		answers:  make(map[int64]answerEntry),
		trending: make(map[string]int64),
		displays: make(map[string]string),
	}
}

// GetAnswer implements versechat.Store.
func (s *MemoryStore) GetAnswer(_ context.Context, questionID int64) (versechat.AnswerRecord, bool, error) {
	if questionID <= 0 {
		return versechat.AnswerRecord{}, false, nil
	}
	s.mu.RLock()
	record, ok := s.answers[questionID]
	s.mu.RUnlock()
	if !ok {
		return versechat.AnswerRecord{}, false, nil
	}
	if !record.expiresAt.IsZero() && record.expiresAt.Before(time.Now()) {
		s.mu.Lock()
		delete(s.answers, questionID)
		s.mu.Unlock()
		return versechat.AnswerRecord{}, false, nil
	}
	return record.payload, true, nil
}

// SaveAnswer implements versechat.Store.
func (s *MemoryStore) SaveAnswer(_ context.Context, record versechat.AnswerRecord, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.answers[record.QuestionID] = answerEntry{payload: record, expiresAt: exp}
	return nil
}

// IncrementQuery implements versechat.Store.
func (s *MemoryStore) IncrementQuery(_ context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trending[canonical]++
	if _, exists := s.displays[canonical]; !exists {
		s.displays[canonical] = display
	}
	return nil
}

// TopQueries implements versechat.Store.
func (s *MemoryStore) TopQueries(_ context.Context, limit int) ([]versechat.TrendingQuery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = len(s.trending)
	}
	items := make([]versechat.TrendingQuery, 0, len(s.trending))
	for canonical, count := range s.trending {
		display := s.displays[canonical]
		if display == "" {
			display = canonical
		}
		items = append(items, versechat.TrendingQuery{Query: display, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Query < items[j].Query
		}
		return items[i].Count > items[j].Count
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

var _ versechat.Store = (*MemoryStore)(nil)
