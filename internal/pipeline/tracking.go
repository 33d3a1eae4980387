package pipeline

import (
	"sync"
	"time"

	"delivery-pipeline/internal/model"
)

// StageObserver is told about every finished stage
type StageObserver interface {
	StageCompleted(runID string, stage model.StageMetrics)
}

// PipelineTracker records per-stage timings for one run
type PipelineTracker struct {
	RunID     string
	StartTime time.Time
	EndTime   time.Time
	Status    string

	mu       sync.RWMutex
	stages   []model.StageMetrics
	open     map[string]time.Time
	observer StageObserver
	now      func() time.Time
}

// NewPipelineTracker starts tracking a run
func NewPipelineTracker(runID string, observer StageObserver) *PipelineTracker {
	pt := &PipelineTracker{
		RunID:    runID,
		Status:   model.RunRunning,
		open:     make(map[string]time.Time),
		observer: observer,
		now:      time.Now,
	}
	pt.StartTime = pt.now()
	return pt
}

// StartStage marks the beginning of a stage
func (pt *PipelineTracker) StartStage(stage string) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.open[stage] = pt.now()
}

// EndStage closes a stage and returns its metrics
func (pt *PipelineTracker) EndStage(stage string, recordsProcessed int) model.StageMetrics {
	pt.mu.Lock()
	end := pt.now()
	start, ok := pt.open[stage]
	if !ok {
		start = end
	}
	delete(pt.open, stage)

	metrics := model.StageMetrics{
		StageName:        stage,
		StartTime:        start,
		EndTime:          end,
		Duration:         end.Sub(start),
		RecordsProcessed: recordsProcessed,
	}
	pt.stages = append(pt.stages, metrics)
	observer := pt.observer
	pt.mu.Unlock()

	if observer != nil {
		observer.StageCompleted(pt.RunID, metrics)
	}
	return metrics
}

// Complete marks the run as completed
func (pt *PipelineTracker) Complete() {
	pt.finish(model.RunCompleted)
}

// Fail marks the run as failed
func (pt *PipelineTracker) Fail() {
	pt.finish(model.RunFailed)
}

func (pt *PipelineTracker) finish(status string) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.Status = status
	pt.EndTime = pt.now()
}

// Stages returns a copy of the finished stages in completion order
func (pt *PipelineTracker) Stages() []model.StageMetrics {
	pt.mu.RLock()
	defer pt.mu.RUnlock()
	out := make([]model.StageMetrics, len(pt.stages))
	copy(out, pt.stages)
	return out
}

// Duration is the wall time of the run so far, or in total once finished
func (pt *PipelineTracker) Duration() time.Duration {
	pt.mu.RLock()
	defer pt.mu.RUnlock()
	if pt.EndTime.IsZero() {
		return pt.now().Sub(pt.StartTime)
	}
	return pt.EndTime.Sub(pt.StartTime)
}
