package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"delivery-pipeline/internal/model"
)

// ErrRunNotFound is returned when a run id is not in the log
var ErrRunNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	file_name TEXT NOT NULL DEFAULT '',
	format TEXT NOT NULL DEFAULT '',
	top_n INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	source_rows INTEGER NOT NULL DEFAULT 0,
	total_records INTEGER NOT NULL DEFAULT 0,
	dropped_rows INTEGER NOT NULL DEFAULT 0,
	delivered_count INTEGER NOT NULL DEFAULT 0,
	incident_count INTEGER NOT NULL DEFAULT 0,
	error_message TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS run_stages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES runs(id),
	stage_name TEXT NOT NULL,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	duration_ns INTEGER NOT NULL,
	records_processed INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_run_stages_run_id ON run_stages(run_id);
`

// RunLog persists run metadata in SQLite. Only counts and timings are kept;
// uploaded rows and derived records never reach the database.
type RunLog struct {
	db  *sqlx.DB
	now func() time.Time
}

// Open connects to dsn (":memory:" for a process-local log) and creates the
// tables if needed.
func Open(dsn string) (*RunLog, error) {
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	// one connection keeps an in-memory database alive and serializes writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create run log schema: %w", err)
	}
	return &RunLog{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close releases the database
func (s *RunLog) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable
func (s *RunLog) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateRun stores a new run in pending state
func (s *RunLog) CreateRun(ctx context.Context, runID string, spec model.RunSpec) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, file_name, format, top_n, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, spec.FileName, spec.Format, spec.TopN, model.RunPending, now, now)
	return err
}

// UpdateRunStatus moves a run to status
func (s *RunLog) UpdateRunStatus(ctx context.Context, runID, status string) error {
	return s.update(ctx, runID, `UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`,
		status, s.now(), runID)
}

// SaveStageProgress appends one finished stage
func (s *RunLog) SaveStageProgress(ctx context.Context, runID string, stage model.StageMetrics) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO run_stages (run_id, stage_name, start_time, end_time, duration_ns, records_processed)
		VALUES (?, ?, ?, ?, ?, ?)`,
		runID, stage.StageName, stage.StartTime.UTC(), stage.EndTime.UTC(),
		int64(stage.Duration), stage.RecordsProcessed)
	return err
}

// CompleteRun records the report's counts and marks the run completed
func (s *RunLog) CompleteRun(ctx context.Context, runID string, report *model.Report) error {
	return s.update(ctx, runID, `
		UPDATE runs
		SET status = ?, source_rows = ?, total_records = ?, dropped_rows = ?,
			delivered_count = ?, incident_count = ?, updated_at = ?
		WHERE id = ?`,
		model.RunCompleted, report.SourceRows, report.TotalRecords, report.DroppedRows,
		report.DeliveredCount, report.IncidentCount, s.now(), runID)
}

// FailRun marks the run failed with runErr's message
func (s *RunLog) FailRun(ctx context.Context, runID string, runErr error) error {
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	return s.update(ctx, runID, `UPDATE runs SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		model.RunFailed, msg, s.now(), runID)
}

// ListRuns returns the most recent runs first; limit <= 0 means all
func (s *RunLog) ListRuns(ctx context.Context, limit int) ([]model.RunInfo, error) {
	query := `SELECT id, file_name, format, top_n, status, source_rows, total_records, dropped_rows,
		delivered_count, incident_count, error_message, created_at, updated_at
		FROM runs ORDER BY created_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	runs := []model.RunInfo{}
	if err := s.db.SelectContext(ctx, &runs, query, args...); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetRun fetches one run together with its stages
func (s *RunLog) GetRun(ctx context.Context, runID string) (*model.RunInfo, error) {
	var run model.RunInfo
	err := s.db.GetContext(ctx, &run, `
		SELECT id, file_name, format, top_n, status, source_rows, total_records, dropped_rows,
			delivered_count, incident_count, error_message, created_at, updated_at
		FROM runs WHERE id = ?`, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	stages, err := s.runStages(ctx, runID)
	if err != nil {
		return nil, err
	}
	run.Stages = stages
	return &run, nil
}

type stageRow struct {
	StageName        string    `db:"stage_name"`
	StartTime        time.Time `db:"start_time"`
	EndTime          time.Time `db:"end_time"`
	DurationNS       int64     `db:"duration_ns"`
	RecordsProcessed int       `db:"records_processed"`
}

func (s *RunLog) runStages(ctx context.Context, runID string) ([]model.StageMetrics, error) {
	var rows []stageRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT stage_name, start_time, end_time, duration_ns, records_processed
		FROM run_stages WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}

	stages := make([]model.StageMetrics, 0, len(rows))
	for _, r := range rows {
		stages = append(stages, model.StageMetrics{
			StageName:        r.StageName,
			StartTime:        r.StartTime,
			EndTime:          r.EndTime,
			Duration:         time.Duration(r.DurationNS),
			RecordsProcessed: r.RecordsProcessed,
		})
	}
	return stages, nil
}

func (s *RunLog) update(ctx context.Context, runID, query string, args ...interface{}) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}
