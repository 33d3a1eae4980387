package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"delivery-pipeline/internal/model"
)

// Upload outcomes used as the status label
const (
	StatusOK      = "ok"
	StatusInvalid = "invalid"
	StatusError   = "error"
)

// Metrics holds the pipeline's Prometheus collectors on a private registry
type Metrics struct {
	registry       *prometheus.Registry
	uploadsTotal   *prometheus.CounterVec
	recordsTotal   *prometheus.CounterVec
	droppedTotal   prometheus.Counter
	stageDuration  *prometheus.HistogramVec
	stageProcessed *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		uploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_uploads_total",
			Help: "Total uploads processed by outcome.",
		}, []string{"status"}),
		recordsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_records_total",
			Help: "Normalized records produced, by segment.",
		}, []string{"segment"}),
		droppedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pipeline_rows_dropped_total",
			Help: "Source rows dropped for lacking a usable timestamp.",
		}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "Histogram of pipeline stage durations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		stageProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_stage_items_total",
			Help: "Items emitted by each pipeline stage.",
		}, []string{"stage"}),
	}

	m.registry.MustRegister(
		m.uploadsTotal,
		m.recordsTotal,
		m.droppedTotal,
		m.stageDuration,
		m.stageProcessed,
	)
	return m
}

// StageCompleted records a finished stage
func (m *Metrics) StageCompleted(_ string, stage model.StageMetrics) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage.StageName).Observe(stage.Duration.Seconds())
	m.stageProcessed.WithLabelValues(stage.StageName).Add(float64(stage.RecordsProcessed))
}

// UploadFinished counts an upload outcome; report may be nil on failure
func (m *Metrics) UploadFinished(status string, report *model.Report) {
	if m == nil {
		return
	}
	m.uploadsTotal.WithLabelValues(status).Inc()
	if report == nil {
		return
	}
	m.droppedTotal.Add(float64(report.DroppedRows))
	for _, rec := range report.Records {
		m.recordsTotal.WithLabelValues(string(rec.Segment)).Inc()
	}
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
