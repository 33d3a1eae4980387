package model

import "time"

// Run statuses recorded in the run log
const (
	RunPending   = "pending"
	RunLoading   = "loading"
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// Stage names, in execution order
const (
	StageLoad      = "load"
	StageSegment   = "segment"
	StageAttribute = "attribute"
	StageNormalize = "normalize"
	StageAggregate = "aggregate"
)

// RunSpec describes one upload to process
type RunSpec struct {
	FileName string `json:"file_name"`
	Format   string `json:"format"` // xls, xlsx, csv
	TopN     int    `json:"top_n"`
}

// StageMetrics represents metrics for a specific pipeline stage
type StageMetrics struct {
	StageName        string        `json:"stage_name"`
	StartTime        time.Time     `json:"start_time"`
	EndTime          time.Time     `json:"end_time"`
	Duration         time.Duration `json:"duration"`
	RecordsProcessed int           `json:"records_processed"`
}

// Report is everything the presentation layer renders for one upload.
type Report struct {
	RunID          string             `json:"run_id"`
	FileName       string             `json:"file_name"`
	Format         string             `json:"format"`
	SourceRows     int                `json:"source_rows"`
	DroppedRows    int                `json:"dropped_rows"`
	TotalRecords   int                `json:"total_records"`
	DeliveredCount int                `json:"delivered_count"`
	IncidentCount  int                `json:"incident_count"`
	TopPostalCodes []PostalCodeCount  `json:"top_postal_codes"`
	HourlySeries   HourlySeries       `json:"hourly_series"`
	Summary        []SummaryRow       `json:"summary"`
	Records        []NormalizedRecord `json:"records"`
	Stages         []StageMetrics     `json:"stages"`
	GeneratedAt    time.Time          `json:"generated_at"`
}

// RunInfo is one row of the run log. It holds counts only, never records.
type RunInfo struct {
	ID             string         `json:"id" db:"id"`
	FileName       string         `json:"file_name" db:"file_name"`
	Format         string         `json:"format" db:"format"`
	TopN           int            `json:"top_n" db:"top_n"`
	Status         string         `json:"status" db:"status"`
	SourceRows     int            `json:"source_rows" db:"source_rows"`
	TotalRecords   int            `json:"total_records" db:"total_records"`
	DroppedRows    int            `json:"dropped_rows" db:"dropped_rows"`
	DeliveredCount int            `json:"delivered_count" db:"delivered_count"`
	IncidentCount  int            `json:"incident_count" db:"incident_count"`
	Error          string         `json:"error,omitempty" db:"error_message"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
	Stages         []StageMetrics `json:"stages,omitempty" db:"-"`
}
