package versechatrepo

import (
	"context"
	"math"
	"sync"

	"github.com/mannadev/scriptura/internal/domain/versechat"
)

type memoryQuestion struct {
	record    versechat.QuestionRecord
	embedding []float32
}

// MemoryRepository is an in-memory QuestionRepository used for tests/dev.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64

	records map[int64]memoryQuestion
	byText  map[string]int64
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:  1,
		records: make(map[int64]memoryQuestion),
		byText:  make(map[string]int64),
	}
}

// FindExact implements versechat.QuestionRepository.
func (r *MemoryRepository) FindExact(_ context.Context, question string) (versechat.QuestionRecord, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byText[question]
	if !ok {
		return versechat.QuestionRecord{}, false, nil
	}
	return r.records[id].record, true, nil
}

// FindNearest implements versechat.QuestionRepository.
func (r *MemoryRepository) FindNearest(_ context.Context, embedding []float32) (versechat.SimilarityMatch, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var (
		best   versechat.SimilarityMatch
		hasAny bool
	)
	for _, candidate := range r.records {
		dist := euclideanDistance(embedding, candidate.embedding)
		if !hasAny || dist < best.Distance {
			hasAny = true
			best = versechat.SimilarityMatch{Question: candidate.record, Distance: dist}
		}
	}
	if !hasAny {
		return versechat.SimilarityMatch{}, false, nil
	}
	return best, true, nil
}

// InsertQuestion implements versechat.QuestionRepository.
func (r *MemoryRepository) InsertQuestion(_ context.Context, question, reference string, embedding []float32) (versechat.QuestionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record := versechat.QuestionRecord{
		ID:           r.nextID,
		QuestionText: question,
		Reference:    reference,
	}
	r.nextID++
	vector := make([]float32, len(embedding))
	copy(vector, embedding)
	r.records[record.ID] = memoryQuestion{record: record, embedding: vector}
	r.byText[question] = record.ID
	return record, nil
}

func euclideanDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		diff := float64(a[i]) - float64(b[i])
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

var _ versechat.QuestionRepository = (*MemoryRepository)(nil)
