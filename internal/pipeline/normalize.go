package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"delivery-pipeline/internal/model"
)

// NormalizeOptions tunes record normalization
type NormalizeOptions struct {
	Timestamps TimestampParser
}

// NormalizeStats counts what normalization kept and dropped
type NormalizeStats struct {
	SourceRows int
	Kept       int
	Dropped    int
	// Errors holds one RowParseError per dropped row, in row order.
	Errors []*RowParseError
}

// Normalize turns the grid plus its per-row segment and driver labels into
// records. Rows without a parseable timestamp are dropped; survivors keep
// source order. Missing drivers become "SIN ASIGNAR", unknown segments
// become "DESCONOCIDO", driver names are uppercased.
func Normalize(grid model.RawGrid, segments []model.SegmentLabel, drivers []model.OptionalDriver, opts NormalizeOptions) ([]model.NormalizedRecord, NormalizeStats, error) {
	if len(segments) != len(grid) || len(drivers) != len(grid) {
		return nil, NormalizeStats{}, fmt.Errorf("label length mismatch: %d rows, %d segments, %d drivers",
			len(grid), len(segments), len(drivers))
	}

	stats := NormalizeStats{SourceRows: len(grid)}
	records := make([]model.NormalizedRecord, 0, len(grid))

	for i, row := range grid {
		ts, err := opts.Timestamps.Parse(row.TimestampCell())
		if err != nil {
			stats.Dropped++
			stats.Errors = append(stats.Errors, &RowParseError{
				Row:   i,
				Value: row.TimestampCell().String(),
				Err:   err,
			})
			continue
		}

		records = append(records, model.NormalizedRecord{
			Row:        i,
			Timestamp:  ts,
			PostalCode: CleanPostalCode(row.DriverOrPostal()),
			Driver:     fillDriver(drivers[i]),
			Segment:    fillSegment(segments[i]),
			Hour:       ts.Hour(),
			Day:        model.DateOf(ts),
		})
	}

	stats.Kept = len(records)
	return records, stats, nil
}

func fillDriver(d model.OptionalDriver) string {
	if !d.Valid {
		return model.UnassignedDriver
	}
	return strings.ToUpper(d.Name)
}

func fillSegment(s model.SegmentLabel) model.SegmentLabel {
	if s == model.SegmentUnknown {
		return model.SegmentUnassigned
	}
	return s
}

// DroppedForMissingTimestamp counts dropped rows whose timestamp cell was
// empty, as opposed to present but unparseable.
func (s NormalizeStats) DroppedForMissingTimestamp() int {
	n := 0
	for _, e := range s.Errors {
		if errors.Is(e, ErrNoTimestamp) {
			n++
		}
	}
	return n
}
