package readingplan

import "context"

// Repository persists plans and per-plan progress.
type Repository interface {
	SavePlan(ctx context.Context, plan Plan) error
	GetPlan(ctx context.Context, id string) (Plan, bool, error)
	ListPlans(ctx context.Context) ([]Plan, error)
	GetProgress(ctx context.Context, planID string) (Progress, bool, error)
	SaveProgress(ctx context.Context, progress Progress) error
}
