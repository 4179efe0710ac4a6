package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/gbinews"
	"github.com/fwojciec/gbinews/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunService_CreateRun(t *testing.T) {
	t.Parallel()

	t.Run("creates run with generated ID and start time", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)

		run := &gbinews.Run{Source: "index"}
		require.NoError(t, svc.CreateRun(context.Background(), run))

		assert.NotEmpty(t, run.ID, "ID should be generated")
		assert.False(t, run.StartedAt.IsZero(), "StartedAt should be set")
		assert.True(t, run.FinishedAt.IsZero())
	})

	t.Run("returns error for invalid run", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)

		err := svc.CreateRun(context.Background(), &gbinews.Run{})
		require.Error(t, err)
		assert.Equal(t, gbinews.EINVALID, gbinews.ErrorCode(err))
	})
}

func TestRunService_FinishRun(t *testing.T) {
	t.Parallel()

	t.Run("stores counters and finish time", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		run := &gbinews.Run{Source: "sitemap"}
		require.NoError(t, svc.CreateRun(ctx, run))

		run.Found, run.Skipped, run.Saved, run.Failed = 10, 4, 5, 1
		require.NoError(t, svc.FinishRun(ctx, run))

		runs, err := svc.FindRuns(ctx, gbinews.RunFilter{ID: &run.ID})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		got := runs[0]
		assert.Equal(t, "sitemap", got.Source)
		assert.Equal(t, 10, got.Found)
		assert.Equal(t, 4, got.Skipped)
		assert.Equal(t, 5, got.Saved)
		assert.Equal(t, 1, got.Failed)
		assert.False(t, got.FinishedAt.IsZero())
	})

	t.Run("returns ENOTFOUND for unknown run", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)

		err := svc.FinishRun(context.Background(), &gbinews.Run{ID: "missing", Source: "index"})
		require.Error(t, err)
		assert.Equal(t, gbinews.ENOTFOUND, gbinews.ErrorCode(err))
	})
}

func TestRunService_FindRuns(t *testing.T) {
	t.Parallel()

	t.Run("returns most recent first", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		first := &gbinews.Run{Source: "index"}
		second := &gbinews.Run{Source: "sitemap"}
		require.NoError(t, svc.CreateRun(ctx, first))
		require.NoError(t, svc.CreateRun(ctx, second))

		runs, err := svc.FindRuns(ctx, gbinews.RunFilter{})
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, second.ID, runs[0].ID)
		assert.Equal(t, first.ID, runs[1].ID)
		assert.True(t, runs[0].FinishedAt.IsZero(), "unfinished run has no finish time")
	})

	t.Run("applies limit", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewRunService(db)
		ctx := context.Background()

		for range 3 {
			require.NoError(t, svc.CreateRun(ctx, &gbinews.Run{Source: "index"}))
		}

		runs, err := svc.FindRuns(ctx, gbinews.RunFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, runs, 2)
	})
}
