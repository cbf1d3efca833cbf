package planrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mannadev/scriptura/internal/domain/readingplan"
)

func TestMemoryRepositoryRoundTrip(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	plan := readingplan.Plan{
		ID:        "plan-1",
		Name:      "Gospels in 89 days",
		PlanType:  readingplan.PlanGospels,
		CreatedAt: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.SavePlan(ctx, plan))

	got, found, err := repo.GetPlan(ctx, "plan-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, plan, got)

	_, found, err = repo.GetPlan(ctx, "plan-2")
	require.NoError(t, err)
	require.False(t, found)

	progress := readingplan.Progress{PlanID: "plan-1", CurrentDay: 3, CompletedDays: []int{1, 2}}
	require.NoError(t, repo.SaveProgress(ctx, progress))

	gotProgress, found, err := repo.GetProgress(ctx, "plan-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, progress, gotProgress)
}

func TestMemoryRepositoryListNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SavePlan(ctx, readingplan.Plan{ID: "older", CreatedAt: base}))
	require.NoError(t, repo.SavePlan(ctx, readingplan.Plan{ID: "newer", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.SavePlan(ctx, readingplan.Plan{ID: "a-tie", CreatedAt: base}))

	plans, err := repo.ListPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	require.Equal(t, "newer", plans[0].ID)
	require.Equal(t, "a-tie", plans[1].ID)
	require.Equal(t, "older", plans[2].ID)
}
