package model

import (
	"sort"
	"time"
)

// PostalCodeCount is one bar of the incident postal code chart
type PostalCodeCount struct {
	PostalCode string `json:"postal_code"`
	Frequency  int    `json:"frequency"`
}

// HourlySeries maps hour of day to per-segment counts. Only hours present in
// the data appear.
type HourlySeries map[int]map[SegmentLabel]int

// Hours returns the hours present, ascending
func (s HourlySeries) Hours() []int {
	hours := make([]int, 0, len(s))
	for h := range s {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	return hours
}

// SummaryRow is one line of the driver / postal code / day table
type SummaryRow struct {
	Driver         string `json:"driver"`
	PostalCode     string `json:"postal_code"`
	Day            Date   `json:"day"`
	DeliveredCount int    `json:"delivered_count"`
	IncidentCount  int    `json:"incident_count"`
	Total          int    `json:"total"`
}

// ExportResult represents the result of an export operation
type ExportResult struct {
	Type        string    `json:"type"` // "xlsx", "json"
	Path        string    `json:"path"` // file path, empty when streamed
	RecordCount int       `json:"record_count"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
