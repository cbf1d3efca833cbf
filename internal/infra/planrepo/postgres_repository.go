package planrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mannadev/scriptura/internal/domain/readingplan"
)

// PostgresRepository implements readingplan.Repository using pgx. The daily
// readings are stored as an opaque JSONB document next to the plan metadata.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// SavePlan upserts the plan row.
func (r *PostgresRepository) SavePlan(ctx context.Context, plan readingplan.Plan) error {
	readings, err := json.Marshal(plan.Readings)
	if err != nil {
		return fmt.Errorf("encode readings: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO reading_plans (id, name, plan_type, start_date, duration_days, is_active, readings, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			plan_type = EXCLUDED.plan_type,
			start_date = EXCLUDED.start_date,
			duration_days = EXCLUDED.duration_days,
			is_active = EXCLUDED.is_active,
			readings = EXCLUDED.readings
	`, plan.ID, plan.Name, string(plan.PlanType), plan.StartDate, plan.DurationDays, plan.IsActive, readings, plan.CreatedAt)
	return err
}

// GetPlan fetches one plan by id.
func (r *PostgresRepository) GetPlan(ctx context.Context, id string) (readingplan.Plan, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, plan_type, start_date, duration_days, is_active, readings, created_at
		FROM reading_plans
		WHERE id = $1
	`, id)
	plan, err := scanPlan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return readingplan.Plan{}, false, nil
	}
	if err != nil {
		return readingplan.Plan{}, false, err
	}
	return plan, true, nil
}

// ListPlans returns every plan, newest first.
func (r *PostgresRepository) ListPlans(ctx context.Context) ([]readingplan.Plan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, plan_type, start_date, duration_days, is_active, readings, created_at
		FROM reading_plans
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []readingplan.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

// GetProgress fetches the progress record for a plan.
func (r *PostgresRepository) GetProgress(ctx context.Context, planID string) (readingplan.Progress, bool, error) {
	var (
		progress  readingplan.Progress
		completed []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT plan_id, current_day, completed_days, updated_at
		FROM plan_progress
		WHERE plan_id = $1
	`, planID).Scan(&progress.PlanID, &progress.CurrentDay, &completed, &progress.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return readingplan.Progress{}, false, nil
	}
	if err != nil {
		return readingplan.Progress{}, false, err
	}
	if len(completed) > 0 {
		if err := json.Unmarshal(completed, &progress.CompletedDays); err != nil {
			return readingplan.Progress{}, false, fmt.Errorf("decode completed days: %w", err)
		}
	}
	return progress, true, nil
}

// SaveProgress upserts the progress record.
func (r *PostgresRepository) SaveProgress(ctx context.Context, progress readingplan.Progress) error {
	completed, err := json.Marshal(progress.CompletedDays)
	if err != nil {
		return fmt.Errorf("encode completed days: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO plan_progress (plan_id, current_day, completed_days, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (plan_id) DO UPDATE SET
			current_day = EXCLUDED.current_day,
			completed_days = EXCLUDED.completed_days,
			updated_at = EXCLUDED.updated_at
	`, progress.PlanID, progress.CurrentDay, completed, progress.UpdatedAt)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (readingplan.Plan, error) {
	var (
		plan     readingplan.Plan
		planType string
		readings []byte
	)
	if err := row.Scan(&plan.ID, &plan.Name, &planType, &plan.StartDate, &plan.DurationDays, &plan.IsActive, &readings, &plan.CreatedAt); err != nil {
		return readingplan.Plan{}, err
	}
	plan.PlanType = readingplan.PlanType(planType)
	if len(readings) > 0 {
		if err := json.Unmarshal(readings, &plan.Readings); err != nil {
			return readingplan.Plan{}, fmt.Errorf("decode readings: %w", err)
		}
	}
	return plan, nil
}

var _ readingplan.Repository = (*PostgresRepository)(nil)
