package pipeline

import (
	"sort"

	"delivery-pipeline/internal/model"
)

// DefaultTopPostalCodes is how many incident postal codes the chart shows
const DefaultTopPostalCodes = 15

// Aggregator answers read-only questions over a normalized record set.
type Aggregator struct {
	records []model.NormalizedRecord
}

// NewAggregator wraps records; the slice must not be modified afterwards
func NewAggregator(records []model.NormalizedRecord) *Aggregator {
	return &Aggregator{records: records}
}

// Len is the total number of records
func (a *Aggregator) Len() int { return len(a.records) }

// CountBySegment counts records carrying label
func (a *Aggregator) CountBySegment(label model.SegmentLabel) int {
	n := 0
	for _, rec := range a.records {
		if rec.Segment == label {
			n++
		}
	}
	return n
}

// TopPostalCodes returns the n most frequent postal codes among records of
// segment, most frequent first. Equal frequencies keep first-seen order.
func (a *Aggregator) TopPostalCodes(segment model.SegmentLabel, n int) []model.PostalCodeCount {
	if n <= 0 {
		return []model.PostalCodeCount{}
	}

	index := make(map[string]int)
	counts := make([]model.PostalCodeCount, 0)
	for _, rec := range a.records {
		if rec.Segment != segment {
			continue
		}
		if i, ok := index[rec.PostalCode]; ok {
			counts[i].Frequency++
			continue
		}
		index[rec.PostalCode] = len(counts)
		counts = append(counts, model.PostalCodeCount{PostalCode: rec.PostalCode, Frequency: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Frequency > counts[j].Frequency
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// HourlySeries counts records per hour of day and segment. Every segment that
// occurs anywhere in the data is present, zero-filled, for each hour.
func (a *Aggregator) HourlySeries() model.HourlySeries {
	series := make(model.HourlySeries)
	seen := make(map[model.SegmentLabel]bool)

	for _, rec := range a.records {
		seen[rec.Segment] = true
		byLabel, ok := series[rec.Hour]
		if !ok {
			byLabel = make(map[model.SegmentLabel]int)
			series[rec.Hour] = byLabel
		}
		byLabel[rec.Segment]++
	}

	for _, byLabel := range series {
		for label := range seen {
			if _, ok := byLabel[label]; !ok {
				byLabel[label] = 0
			}
		}
	}
	return series
}

type summaryKey struct {
	driver string
	postal string
	day    model.Date
}

// DriverPostalDaySummary cross-tabulates delivered and incident counts per
// driver, postal code and day, sorted by those three keys. Rows whose only
// records are of unknown segment still appear, with zero counts.
func (a *Aggregator) DriverPostalDaySummary() []model.SummaryRow {
	rows := make(map[summaryKey]*model.SummaryRow)
	for _, rec := range a.records {
		key := summaryKey{driver: rec.Driver, postal: rec.PostalCode, day: rec.Day}
		row, ok := rows[key]
		if !ok {
			row = &model.SummaryRow{Driver: rec.Driver, PostalCode: rec.PostalCode, Day: rec.Day}
			rows[key] = row
		}
		switch rec.Segment {
		case model.SegmentDelivered:
			row.DeliveredCount++
		case model.SegmentIncident:
			row.IncidentCount++
		}
	}

	summary := make([]model.SummaryRow, 0, len(rows))
	for _, row := range rows {
		row.Total = row.DeliveredCount + row.IncidentCount
		summary = append(summary, *row)
	}
	sortSummary(summary)
	return summary
}

func sortSummary(rows []model.SummaryRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Driver != b.Driver {
			return a.Driver < b.Driver
		}
		if a.PostalCode != b.PostalCode {
			return a.PostalCode < b.PostalCode
		}
		return a.Day.Before(b.Day)
	})
}
