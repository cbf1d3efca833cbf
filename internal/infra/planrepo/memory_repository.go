package planrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/mannadev/scriptura/internal/domain/readingplan"
)

// MemoryRepository is an in-memory readingplan.Repository for tests/dev.
type MemoryRepository struct {
	mu       sync.RWMutex
	plans    map[string]readingplan.Plan
	progress map[string]readingplan.Progress
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		plans:    make(map[string]readingplan.Plan),
		progress: make(map[string]readingplan.Progress),
	}
}

// SavePlan implements readingplan.Repository.
func (r *MemoryRepository) SavePlan(_ context.Context, plan readingplan.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[plan.ID] = plan
	return nil
}

// GetPlan implements readingplan.Repository.
func (r *MemoryRepository) GetPlan(_ context.Context, id string) (readingplan.Plan, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	plan, ok := r.plans[id]
	return plan, ok, nil
}

// ListPlans implements readingplan.Repository.
func (r *MemoryRepository) ListPlans(_ context.Context) ([]readingplan.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	plans := make([]readingplan.Plan, 0, len(r.plans))
	for _, plan := range r.plans {
		plans = append(plans, plan)
	}
	sort.Slice(plans, func(i, j int) bool {
		if plans[i].CreatedAt.Equal(plans[j].CreatedAt) {
			return plans[i].ID < plans[j].ID
		}
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
	return plans, nil
}

// GetProgress implements readingplan.Repository.
func (r *MemoryRepository) GetProgress(_ context.Context, planID string) (readingplan.Progress, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	progress, ok := r.progress[planID]
	return progress, ok, nil
}

// SaveProgress implements readingplan.Repository.
func (r *MemoryRepository) SaveProgress(_ context.Context, progress readingplan.Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress[progress.PlanID] = progress
	return nil
}

var _ readingplan.Repository = (*MemoryRepository)(nil)
