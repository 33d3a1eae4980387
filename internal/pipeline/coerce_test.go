package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delivery-pipeline/internal/model"
)

func TestTimestampParser_Text(t *testing.T) {
	dayFirst := TimestampParser{DayFirst: true}
	monthFirst := TimestampParser{DayFirst: false}

	tests := []struct {
		name   string
		parser TimestampParser
		in     string
		want   time.Time
	}{
		{"iso datetime", dayFirst, "2024-01-05 10:00", time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)},
		{"iso seconds", dayFirst, "2024-01-05 10:00:30", time.Date(2024, 1, 5, 10, 0, 30, 0, time.UTC)},
		{"iso T", dayFirst, "2024-01-05T23:59:00", time.Date(2024, 1, 5, 23, 59, 0, 0, time.UTC)},
		{"iso date only", dayFirst, "2024-01-05", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"iso ignores day first", monthFirst, "2024-01-05 10:00", time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)},
		{"day first slash", dayFirst, "05/01/2024 10:30", time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC)},
		{"month first slash", monthFirst, "05/01/2024 10:30", time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)},
		{"day first falls back to month first", dayFirst, "12/25/2024", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)},
		{"day first dashes", dayFirst, "5-1-2024 08:15", time.Date(2024, 1, 5, 8, 15, 0, 0, time.UTC)},
		{"dots", dayFirst, "05.01.2024", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"surrounding spaces", dayFirst, "  2024-01-05 10:00 ", time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)},
		{"serial as text", dayFirst, "45296.4375", time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC)},
		{"whole day serial as text", dayFirst, "45297", time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.parser.Parse(model.StringCell(tt.in))
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestTimestampParser_ExcelSerial(t *testing.T) {
	p := TimestampParser{DayFirst: true}

	got, err := p.Parse(model.NumberCell(45296.4375))
	require.NoError(t, err)
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.January, got.Month())
	assert.Equal(t, 5, got.Day())
	assert.Equal(t, 10, got.Hour())
	assert.Equal(t, 30, got.Minute())
}

func TestTimestampParser_Errors(t *testing.T) {
	p := TimestampParser{DayFirst: true}

	tests := []struct {
		name string
		cell model.Cell
		want error
	}{
		{"empty cell", model.Cell{}, ErrNoTimestamp},
		{"blank text", model.StringCell("   "), ErrNoTimestamp},
		{"not a date", model.StringCell("not a date"), ErrBadTimestamp},
		{"impossible date", model.StringCell("2024-02-30 10:00"), ErrBadTimestamp},
		{"zero serial", model.NumberCell(0), ErrBadTimestamp},
		{"negative serial", model.NumberCell(-3), ErrBadTimestamp},
		{"serial past 9999", model.NumberCell(3e6), ErrBadTimestamp},
		{"year-month rendering", model.StringCell("2024.01"), ErrBadTimestamp},
		{"nan text", model.StringCell("NaN"), ErrBadTimestamp},
		{"negative serial text", model.StringCell("-5"), ErrBadTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(tt.cell)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCleanPostalCode(t *testing.T) {
	tests := []struct {
		name string
		cell model.Cell
		want string
	}{
		{"float text", model.StringCell("28045.0"), "28045"},
		{"numeric cell", model.NumberCell(28045), "28045"},
		{"plain text", model.StringCell("08001"), "08001"},
		{"trimmed", model.StringCell("  28001 "), "28001"},
		{"empty", model.Cell{}, ""},
		{"driver header value", model.StringCell("1 JUAN PEREZ"), "1 JUAN PEREZ"},
		// ".0" is removed wherever it occurs, not only as a suffix
		{"inner .0 also removed", model.StringCell("10.05"), "105"},
		{"repeated", model.StringCell("1.0.0"), "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanPostalCode(tt.cell))
		})
	}
}
