package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delivery-pipeline/internal/model"
)

func openTestLog(t *testing.T) *RunLog {
	t.Helper()
	runLog, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { runLog.Close() })

	clock := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	runLog.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return runLog
}

func TestRunLog_Lifecycle(t *testing.T) {
	ctx := context.Background()
	runLog := openTestLog(t)
	require.NoError(t, runLog.Ping(ctx))

	require.NoError(t, runLog.CreateRun(ctx, "run-1", model.RunSpec{FileName: "ruta.xls", Format: "xls", TopN: 15}))
	require.NoError(t, runLog.UpdateRunStatus(ctx, "run-1", model.RunRunning))

	start := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	require.NoError(t, runLog.SaveStageProgress(ctx, "run-1", model.StageMetrics{
		StageName: model.StageLoad, StartTime: start, EndTime: start.Add(time.Second),
		Duration: time.Second, RecordsProcessed: 120,
	}))
	require.NoError(t, runLog.SaveStageProgress(ctx, "run-1", model.StageMetrics{
		StageName: model.StageSegment, StartTime: start, EndTime: start, RecordsProcessed: 120,
	}))

	require.NoError(t, runLog.CompleteRun(ctx, "run-1", &model.Report{
		SourceRows: 120, TotalRecords: 100, DroppedRows: 20, DeliveredCount: 80, IncidentCount: 15,
	}))

	run, err := runLog.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, "ruta.xls", run.FileName)
	assert.Equal(t, "xls", run.Format)
	assert.Equal(t, 15, run.TopN)
	assert.Equal(t, model.RunCompleted, run.Status)
	assert.Equal(t, 120, run.SourceRows)
	assert.Equal(t, 100, run.TotalRecords)
	assert.Equal(t, 20, run.DroppedRows)
	assert.Equal(t, 80, run.DeliveredCount)
	assert.Equal(t, 15, run.IncidentCount)
	assert.Empty(t, run.Error)
	assert.True(t, run.UpdatedAt.After(run.CreatedAt))

	require.Len(t, run.Stages, 2)
	assert.Equal(t, model.StageLoad, run.Stages[0].StageName)
	assert.Equal(t, time.Second, run.Stages[0].Duration)
	assert.Equal(t, 120, run.Stages[0].RecordsProcessed)
	assert.True(t, start.Equal(run.Stages[0].StartTime))
	assert.Equal(t, model.StageSegment, run.Stages[1].StageName)
}

func TestRunLog_FailRun(t *testing.T) {
	ctx := context.Background()
	runLog := openTestLog(t)

	require.NoError(t, runLog.CreateRun(ctx, "run-1", model.RunSpec{Format: "xlsx"}))
	require.NoError(t, runLog.FailRun(ctx, "run-1", errors.New("cannot load xlsx spreadsheet: zip: not a valid zip file")))

	run, err := runLog.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, model.RunFailed, run.Status)
	assert.Contains(t, run.Error, "not a valid zip file")
	assert.Empty(t, run.Stages)
}

func TestRunLog_NotFound(t *testing.T) {
	ctx := context.Background()
	runLog := openTestLog(t)

	_, err := runLog.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	assert.ErrorIs(t, runLog.UpdateRunStatus(ctx, "missing", model.RunRunning), ErrRunNotFound)
	assert.ErrorIs(t, runLog.FailRun(ctx, "missing", nil), ErrRunNotFound)
}

func TestRunLog_ListRuns(t *testing.T) {
	ctx := context.Background()
	runLog := openTestLog(t)

	runs, err := runLog.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, runs)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, runLog.CreateRun(ctx, id, model.RunSpec{Format: "csv"}))
	}

	runs, err = runLog.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{runs[0].ID, runs[1].ID, runs[2].ID})
	assert.Equal(t, model.RunPending, runs[0].Status)
	assert.Nil(t, runs[0].Stages)

	runs, err = runLog.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestRunLog_DuplicateRun(t *testing.T) {
	ctx := context.Background()
	runLog := openTestLog(t)

	require.NoError(t, runLog.CreateRun(ctx, "run-1", model.RunSpec{}))
	assert.Error(t, runLog.CreateRun(ctx, "run-1", model.RunSpec{}))
}
