package state_test

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modlauncher/internal/pipeline"
	"modlauncher/internal/settings"
	"modlauncher/internal/state"
	"modlauncher/internal/testsupport"
)

func TestOpenCreatesDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	assert.Equal(t, cfg.StatePath(), store.Path())
	assert.FileExists(t, store.Path())
	require.NoError(t, store.Close())

	reopened, err := state.Open(cfg.Paths.StateDir)
	require.NoError(t, err)
	require.NoError(t, reopened.Close())
}

func TestOpenRejectsOtherSchemaVersion(t *testing.T) {
	dir := t.TempDir()
	store, err := state.Open(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	db, err := sql.Open("sqlite", filepath.Join(dir, state.FileName))
	require.NoError(t, err)
	_, err = db.Exec("UPDATE schema_version SET version = 99")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = state.Open(dir)
	assert.ErrorIs(t, err, state.ErrSchemaMismatch)
}

func TestSettingsCRUD(t *testing.T) {
	ctx := context.Background()
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "a", "1"))
	require.NoError(t, store.Set(ctx, "a", "2"))
	require.NoError(t, store.Set(ctx, "b", "x"))

	value, ok, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", value)

	require.NoError(t, store.Delete(ctx, "b"))
	require.NoError(t, store.Delete(ctx, "b"))

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "2"}, all)
}

func TestStoreBacksSettingsService(t *testing.T) {
	ctx := context.Background()
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	svc := settings.New(store, settings.Defaults{Language: "english"})

	require.NoError(t, svc.SetDvar(ctx, "developer", "1"))
	args, err := svc.RunArgs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"+set", "developer", "1"}, args)
}

func TestRecordAndListRuns(t *testing.T) {
	ctx := context.Background()
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		res := pipeline.Result{
			RunID:      fmt.Sprintf("run-%d", i),
			Kind:       pipeline.KindConversion,
			Outcome:    pipeline.OutcomeSucceeded,
			Started:    2,
			Counts:     pipeline.Counts{Total: 2, Succeeded: 1, Skipped: 1},
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + time.Second),
		}
		require.NoError(t, store.RecordRun(ctx, res, "Files Processed: 2"))
	}
	failed := pipeline.Result{
		RunID:      "run-cancel",
		Kind:       pipeline.KindCommands,
		Outcome:    pipeline.OutcomeFailed,
		Cancelled:  true,
		Aborted:    true,
		Started:    1,
		Counts:     pipeline.Counts{Total: 4},
		StartedAt:  base.Add(time.Hour),
		FinishedAt: base.Add(time.Hour + time.Second),
	}
	require.NoError(t, store.RecordRun(ctx, failed, ""))

	runs, err := store.RecentRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-cancel", runs[0].RunID)
	assert.True(t, runs[0].Cancelled)
	assert.True(t, runs[0].Aborted)
	assert.Equal(t, pipeline.OutcomeFailed, runs[0].Outcome)
	assert.Equal(t, pipeline.KindCommands, runs[0].Kind)
	assert.Equal(t, 4, runs[0].Counts.Total)
	assert.Empty(t, runs[0].Summary)
	assert.Equal(t, time.Second, runs[0].Duration())

	assert.Equal(t, "run-2", runs[1].RunID)
	assert.Equal(t, pipeline.Counts{Total: 2, Succeeded: 1, Skipped: 1}, runs[1].Counts)
	assert.Equal(t, "Files Processed: 2", runs[1].Summary)

	removed, err := store.PruneRuns(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)

	runs, err = store.RecentRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-cancel", runs[0].RunID)
}

func TestRecordRunRequiresID(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	assert.Error(t, store.RecordRun(context.Background(), pipeline.Result{}, ""))
}

func TestRunsWithinOneSecondKeepChronologicalOrder(t *testing.T) {
	ctx := context.Background()
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	base := time.Date(2024, 5, 1, 12, 0, 5, 0, time.UTC)
	offsets := map[string]time.Duration{
		"whole":  0,
		"tenths": 300 * time.Millisecond,
		"half":   500 * time.Millisecond,
		"later":  510 * time.Millisecond,
	}
	for id, offset := range offsets {
		require.NoError(t, store.RecordRun(ctx, pipeline.Result{
			RunID:      id,
			Kind:       pipeline.KindCommands,
			Outcome:    pipeline.OutcomeSucceeded,
			StartedAt:  base.Add(-time.Second),
			FinishedAt: base.Add(offset),
		}, ""))
	}

	runs, err := store.RecentRuns(ctx, 0)
	require.NoError(t, err)
	ids := make([]string, 0, len(runs))
	for _, run := range runs {
		ids = append(ids, run.RunID)
	}
	assert.Equal(t, []string{"later", "half", "tenths", "whole"}, ids)
	assert.True(t, base.Add(510*time.Millisecond).Equal(runs[0].FinishedAt))

	_, err = store.PruneRuns(ctx, 2)
	require.NoError(t, err)
	runs, err = store.RecentRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "later", runs[0].RunID)
	assert.Equal(t, "half", runs[1].RunID)
}
