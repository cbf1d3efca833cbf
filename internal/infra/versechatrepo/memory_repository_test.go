package versechatrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryExactLookup(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	record, err := repo.InsertQuestion(ctx, "What is grace?", "Ephesians 2:8", []float32{0.1, 0.2})
	require.NoError(t, err)
	require.Equal(t, int64(1), record.ID)

	got, found, err := repo.FindExact(ctx, "What is grace?")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, record, got)

	_, found, err = repo.FindExact(ctx, "what is grace?")
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemoryRepositoryNearest(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	_, found, err := repo.FindNearest(ctx, []float32{1, 0})
	require.NoError(t, err)
	require.False(t, found)

	far, err := repo.InsertQuestion(ctx, "far question", "", []float32{10, 10})
	require.NoError(t, err)
	near, err := repo.InsertQuestion(ctx, "near question", "", []float32{1, 1})
	require.NoError(t, err)

	match, found, err := repo.FindNearest(ctx, []float32{1, 0})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, near.ID, match.Question.ID)
	require.InDelta(t, 1.0, match.Distance, 1e-9)

	match, found, err = repo.FindNearest(ctx, []float32{10, 9})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, far.ID, match.Question.ID)
}
