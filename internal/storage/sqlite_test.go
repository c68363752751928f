package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxforge/rxforge/internal/anneal"
	"github.com/rxforge/rxforge/internal/examples"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRun(t *testing.T) (*examples.Set, anneal.Config, *anneal.Result) {
	t.Helper()
	set, err := examples.New([]string{"123", "456"}, []string{"abc"})
	require.NoError(t, err)

	cfg := anneal.DefaultConfig()
	cfg.Seed = 7

	result := &anneal.Result{
		BestPatternText:     "[0-9]{3}",
		Score:               0.93,
		Complexity:          7,
		Iterations:          0,
		ConvergenceReason:   anneal.ReasonPerfect,
		PositiveMatchCount:  2,
		NegativeRejectCount: 1,
	}
	return set, cfg, result
}

func TestSaveAndGetRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	set, cfg, result := sampleRun(t)

	id, err := store.SaveRun(ctx, set, cfg, result)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	run, err := store.GetRun(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, run)

	assert.Equal(t, id, run.ID)
	assert.Equal(t, set.Positives, run.Positives)
	assert.Equal(t, set.Negatives, run.Negatives)
	assert.Equal(t, string(cfg.Profile), run.Profile)
	assert.Equal(t, string(cfg.CoolingSchedule), run.Schedule)
	assert.Equal(t, string(cfg.Dialect), run.Dialect)
	assert.Equal(t, int64(7), run.Seed)
	assert.Equal(t, *result, run.Result)
	assert.False(t, run.CreatedAt.IsZero())
}

func TestGetRunMissing(t *testing.T) {
	store := openTestStore(t)

	run, err := store.GetRun(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, run)
}

func TestListRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	set, cfg, result := sampleRun(t)

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := store.SaveRun(ctx, set, cfg, result)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	listed := make(map[string]bool, len(runs))
	for _, run := range runs {
		listed[run.ID] = true
	}
	for _, id := range ids {
		assert.True(t, listed[id], "run %s missing from listing", id)
	}

	limited, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestListRunsEmpty(t *testing.T) {
	store := openTestStore(t)

	runs, err := store.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
