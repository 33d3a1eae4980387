package pipeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delivery-pipeline/internal/model"
)

func rec(driver, postal string, seg model.SegmentLabel, day, hour int) model.NormalizedRecord {
	ts := time.Date(2024, 1, day, hour, 0, 0, 0, time.UTC)
	return model.NormalizedRecord{
		Timestamp:  ts,
		PostalCode: postal,
		Driver:     driver,
		Segment:    seg,
		Hour:       hour,
		Day:        model.DateOf(ts),
	}
}

func sampleRecords() []model.NormalizedRecord {
	D, I := model.SegmentDelivered, model.SegmentIncident
	return []model.NormalizedRecord{
		rec("ANA", "28001", D, 5, 9),
		rec("ANA", "28001", I, 5, 10),
		rec("ANA", "28002", I, 5, 10),
		rec("LUIS", "28002", I, 6, 11),
		rec("LUIS", "28003", D, 6, 11),
		rec("LUIS", "28002", I, 6, 12),
		rec(model.UnassignedDriver, "28009", model.SegmentUnassigned, 6, 12),
	}
}

func TestAggregator_Counts(t *testing.T) {
	agg := NewAggregator(sampleRecords())

	assert.Equal(t, 7, agg.Len())
	assert.Equal(t, 2, agg.CountBySegment(model.SegmentDelivered))
	assert.Equal(t, 4, agg.CountBySegment(model.SegmentIncident))
	assert.Equal(t, 1, agg.CountBySegment(model.SegmentUnassigned))
}

func TestAggregator_TopPostalCodes(t *testing.T) {
	agg := NewAggregator(sampleRecords())

	top := agg.TopPostalCodes(model.SegmentIncident, 15)
	assert.Equal(t, []model.PostalCodeCount{
		{PostalCode: "28002", Frequency: 3},
		{PostalCode: "28001", Frequency: 1},
	}, top)

	assert.Equal(t, []model.PostalCodeCount{{PostalCode: "28002", Frequency: 3}},
		agg.TopPostalCodes(model.SegmentIncident, 1))
	assert.Empty(t, agg.TopPostalCodes(model.SegmentIncident, 0))
	assert.Empty(t, agg.TopPostalCodes("OTRO", 5))
}

func TestAggregator_TopPostalCodes_BoundedAndSorted(t *testing.T) {
	var records []model.NormalizedRecord
	for i := 0; i < 30; i++ {
		for j := 0; j <= i%7; j++ {
			records = append(records, rec("ANA", fmt.Sprintf("%05d", 28000+i), model.SegmentIncident, 5, 9))
		}
	}
	agg := NewAggregator(records)

	top := agg.TopPostalCodes(model.SegmentIncident, DefaultTopPostalCodes)

	require.Len(t, top, DefaultTopPostalCodes)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Frequency, top[i].Frequency)
	}
}

func TestAggregator_TopPostalCodes_TiesKeepFirstSeen(t *testing.T) {
	I := model.SegmentIncident
	agg := NewAggregator([]model.NormalizedRecord{
		rec("A", "3", I, 5, 9),
		rec("A", "1", I, 5, 9),
		rec("A", "2", I, 5, 9),
	})

	top := agg.TopPostalCodes(I, 3)

	assert.Equal(t, []string{"3", "1", "2"}, []string{top[0].PostalCode, top[1].PostalCode, top[2].PostalCode})
}

func TestAggregator_HourlySeries(t *testing.T) {
	agg := NewAggregator(sampleRecords())

	series := agg.HourlySeries()

	assert.Equal(t, []int{9, 10, 11, 12}, series.Hours())
	assert.Equal(t, map[model.SegmentLabel]int{
		model.SegmentDelivered:  1,
		model.SegmentIncident:   0,
		model.SegmentUnassigned: 0,
	}, series[9])
	assert.Equal(t, 2, series[10][model.SegmentIncident])
	assert.Equal(t, 1, series[11][model.SegmentDelivered])
	assert.Equal(t, 1, series[11][model.SegmentIncident])
	assert.Equal(t, 1, series[12][model.SegmentUnassigned])
	_, present := series[13]
	assert.False(t, present)
}

func TestAggregator_HourlySeries_Empty(t *testing.T) {
	assert.Empty(t, NewAggregator(nil).HourlySeries())
}

func TestAggregator_DriverPostalDaySummary(t *testing.T) {
	agg := NewAggregator(sampleRecords())

	summary := agg.DriverPostalDaySummary()

	jan5 := model.Date{Year: 2024, Month: 1, Day: 5}
	jan6 := model.Date{Year: 2024, Month: 1, Day: 6}
	assert.Equal(t, []model.SummaryRow{
		{Driver: "ANA", PostalCode: "28001", Day: jan5, DeliveredCount: 1, IncidentCount: 1, Total: 2},
		{Driver: "ANA", PostalCode: "28002", Day: jan5, DeliveredCount: 0, IncidentCount: 1, Total: 1},
		{Driver: "LUIS", PostalCode: "28002", Day: jan6, DeliveredCount: 0, IncidentCount: 2, Total: 2},
		{Driver: "LUIS", PostalCode: "28003", Day: jan6, DeliveredCount: 1, IncidentCount: 0, Total: 1},
		{Driver: model.UnassignedDriver, PostalCode: "28009", Day: jan6},
	}, summary)

	for _, row := range summary {
		assert.Equal(t, row.DeliveredCount+row.IncidentCount, row.Total)
	}
}

func TestAggregator_SummarySortsDays(t *testing.T) {
	D := model.SegmentDelivered
	agg := NewAggregator([]model.NormalizedRecord{
		rec("ANA", "1", D, 9, 9),
		rec("ANA", "1", D, 2, 9),
		rec("ANA", "1", D, 9, 10),
	})

	summary := agg.DriverPostalDaySummary()

	require.Len(t, summary, 2)
	assert.Equal(t, 2, summary[0].Day.Day)
	assert.Equal(t, 9, summary[1].Day.Day)
	assert.Equal(t, 2, summary[1].DeliveredCount)
}
