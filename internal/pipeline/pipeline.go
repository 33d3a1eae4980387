package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"delivery-pipeline/internal/infrastructure"
	"delivery-pipeline/internal/model"
)

// RunStore keeps the run log. Only run metadata is stored, never records.
type RunStore interface {
	CreateRun(ctx context.Context, runID string, spec model.RunSpec) error
	UpdateRunStatus(ctx context.Context, runID, status string) error
	SaveStageProgress(ctx context.Context, runID string, stage model.StageMetrics) error
	CompleteRun(ctx context.Context, runID string, report *model.Report) error
	FailRun(ctx context.Context, runID string, runErr error) error
}

// Options configures a Runner
type Options struct {
	TopPostalCodes int
	DayFirst       bool
	MaxRows        int
}

// Runner executes load -> segment -> attribute -> normalize -> aggregate for
// one upload at a time. A Runner holds no per-run state and may be shared.
type Runner struct {
	opts     Options
	store    RunStore
	observer StageObserver
	logger   *slog.Logger
	newID    func() string
}

// NewRunner builds a runner. store and observer may be nil.
func NewRunner(opts Options, store RunStore, observer StageObserver, logger *slog.Logger) *Runner {
	if opts.TopPostalCodes <= 0 {
		opts.TopPostalCodes = DefaultTopPostalCodes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		opts:     opts,
		store:    store,
		observer: observer,
		logger:   logger,
		newID:    func() string { return uuid.New().String() },
	}
}

// Run processes one spreadsheet. Either the full report is returned or a
// single error; a *LoadError means the upload itself is unreadable.
func (r *Runner) Run(ctx context.Context, spec model.RunSpec, src io.Reader) (report *model.Report, err error) {
	runID := r.newID()
	ctx = infrastructure.WithRunID(ctx, runID)
	logger := r.logger.With(slog.String("run_id", runID))

	format, err := ParseFormat(spec.Format)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	spec.Format = string(format)
	if spec.TopN <= 0 {
		spec.TopN = r.opts.TopPostalCodes
	}

	r.storeCall(ctx, logger, "create run", func() error { return r.store.CreateRun(ctx, runID, spec) })
	tracker := NewPipelineTracker(runID, r.observer)
	logger.InfoContext(ctx, "pipeline started",
		slog.String("file", spec.FileName),
		slog.String("format", spec.Format))

	defer func() {
		if err != nil {
			tracker.Fail()
			logger.ErrorContext(ctx, "pipeline failed",
				slog.String("error", err.Error()),
				slog.Duration("duration", tracker.Duration()))
			r.storeCall(ctx, logger, "fail run", func() error { return r.store.FailRun(context.WithoutCancel(ctx), runID, err) })
		}
	}()

	// --- LOAD ---
	r.storeCall(ctx, logger, "update status", func() error { return r.store.UpdateRunStatus(ctx, runID, model.RunLoading) })
	tracker.StartStage(model.StageLoad)
	grid, err := LoadGrid(src, format, LoadOptions{MaxRows: r.opts.MaxRows})
	if err != nil {
		return nil, err
	}
	r.endStage(ctx, logger, tracker, model.StageLoad, len(grid))
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline cancelled after load: %w", err)
	}

	r.storeCall(ctx, logger, "update status", func() error { return r.store.UpdateRunStatus(ctx, runID, model.RunRunning) })

	// --- SEGMENT ---
	tracker.StartStage(model.StageSegment)
	segments := Segment(grid)
	r.endStage(ctx, logger, tracker, model.StageSegment, len(segments))

	// --- ATTRIBUTE ---
	tracker.StartStage(model.StageAttribute)
	drivers := AttributeDrivers(grid)
	r.endStage(ctx, logger, tracker, model.StageAttribute, len(drivers))
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline cancelled after attribution: %w", err)
	}

	// --- NORMALIZE ---
	tracker.StartStage(model.StageNormalize)
	records, stats, err := Normalize(grid, segments, drivers, NormalizeOptions{
		Timestamps: TimestampParser{DayFirst: r.opts.DayFirst},
	})
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	for _, rowErr := range stats.Errors {
		logger.DebugContext(ctx, "row dropped", slog.String("reason", rowErr.Error()))
	}
	if stats.Dropped > 0 {
		logger.InfoContext(ctx, "rows without usable timestamp dropped",
			slog.Int("dropped", stats.Dropped),
			slog.Int("blank_timestamp", stats.DroppedForMissingTimestamp()))
	}
	r.endStage(ctx, logger, tracker, model.StageNormalize, len(records))
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline cancelled after normalization: %w", err)
	}

	// --- AGGREGATE ---
	tracker.StartStage(model.StageAggregate)
	report = BuildReport(records, spec.TopN)
	report.RunID = runID
	report.FileName = spec.FileName
	report.Format = spec.Format
	report.SourceRows = stats.SourceRows
	report.DroppedRows = stats.Dropped
	r.endStage(ctx, logger, tracker, model.StageAggregate, len(report.Summary))

	tracker.Complete()
	report.Stages = tracker.Stages()
	report.GeneratedAt = time.Now().UTC()

	r.storeCall(ctx, logger, "complete run", func() error { return r.store.CompleteRun(ctx, runID, report) })
	logger.InfoContext(ctx, "pipeline completed",
		slog.Int("source_rows", report.SourceRows),
		slog.Int("records", report.TotalRecords),
		slog.Int("dropped_rows", report.DroppedRows),
		slog.Int("delivered", report.DeliveredCount),
		slog.Int("incidents", report.IncidentCount),
		slog.Duration("duration", tracker.Duration()))
	return report, nil
}

// BuildReport runs every aggregation over records. Run metadata is left for
// the caller to fill in.
func BuildReport(records []model.NormalizedRecord, topN int) *model.Report {
	if topN <= 0 {
		topN = DefaultTopPostalCodes
	}
	agg := NewAggregator(records)
	return &model.Report{
		TotalRecords:   agg.Len(),
		DeliveredCount: agg.CountBySegment(model.SegmentDelivered),
		IncidentCount:  agg.CountBySegment(model.SegmentIncident),
		TopPostalCodes: agg.TopPostalCodes(model.SegmentIncident, topN),
		HourlySeries:   agg.HourlySeries(),
		Summary:        agg.DriverPostalDaySummary(),
		Records:        records,
	}
}

func (r *Runner) endStage(ctx context.Context, logger *slog.Logger, tracker *PipelineTracker, stage string, processed int) {
	metrics := tracker.EndStage(stage, processed)
	logger.DebugContext(ctx, "stage completed",
		slog.String("stage", stage),
		slog.Int("records", processed),
		slog.Duration("duration", metrics.Duration))
	r.storeCall(ctx, logger, "save stage", func() error { return r.store.SaveStageProgress(ctx, tracker.RunID, metrics) })
}

// storeCall runs a run-log write. The run log is best effort: failures are
// logged and never fail the pipeline.
func (r *Runner) storeCall(ctx context.Context, logger *slog.Logger, what string, fn func() error) {
	if r.store == nil {
		return
	}
	if err := fn(); err != nil {
		logger.WarnContext(ctx, "run log write failed",
			slog.String("op", what),
			slog.String("error", err.Error()))
	}
}
