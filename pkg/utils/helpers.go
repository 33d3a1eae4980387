package utils

import (
	"strconv"
	"strings"
	"time"

	"delivery-pipeline/internal/model"
)

// ParseDuration safely parses duration string like "5m"
func ParseDuration(d string, fallback time.Duration) time.Duration {
	if d == "" {
		return fallback
	}
	duration, err := time.ParseDuration(d)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

// ParseCell classifies the raw value of a numeric spreadsheet cell: blank is
// empty, anything that parses as a float is a number, the rest is text. Use
// TextCell for values the source stores as text.
func ParseCell(s string) model.Cell {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return model.Cell{}
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !isSpecialFloat(trimmed) {
		return model.NumberCell(f)
	}
	return model.StringCell(s)
}

// TextCell wraps a text value. Blank text is an empty cell; anything else
// stays a string, digits included, so "08001" keeps its leading zero.
func TextCell(s string) model.Cell {
	if strings.TrimSpace(s) == "" {
		return model.Cell{}
	}
	return model.StringCell(s)
}

// TextRow wraps every value of a row as text
func TextRow(values []string) model.RawRow {
	row := make(model.RawRow, len(values))
	for i, v := range values {
		row[i] = TextCell(v)
	}
	return row
}

// isSpecialFloat catches words strconv accepts as floats ("inf", "nan", ...)
func isSpecialFloat(s string) bool {
	lower := strings.ToLower(strings.TrimLeft(s, "+-"))
	return strings.HasPrefix(lower, "inf") || lower == "nan"
}
