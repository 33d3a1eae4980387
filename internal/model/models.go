package model

import (
	"fmt"
	"time"
)

// SegmentLabel is the section a row belongs to
type SegmentLabel string

const (
	SegmentUnknown   SegmentLabel = ""
	SegmentDelivered SegmentLabel = "Entregas Efectuadas"
	SegmentIncident  SegmentLabel = "Incidencias"
	// SegmentUnassigned replaces SegmentUnknown at normalization.
	SegmentUnassigned SegmentLabel = "DESCONOCIDO"
)

// Section marker text searched in column 0 and the driver marker searched in column 4.
const (
	MarkerDelivered = "ENTREGAS EFECTUADAS"
	MarkerIncident  = "INCIDENCIAS"
	MarkerDriver    = "CONDUCTOR"
)

// UnassignedDriver is the driver of rows that precede any driver header
const UnassignedDriver = "SIN ASIGNAR"

// OptionalDriver is a driver name that may be absent. Absence is only
// resolved to UnassignedDriver when records are normalized.
type OptionalDriver struct {
	Name  string `json:"name"`
	Valid bool   `json:"valid"`
}

// Driver returns a present driver name
func Driver(name string) OptionalDriver { return OptionalDriver{Name: name, Valid: true} }

// NoDriver is the absent driver
var NoDriver = OptionalDriver{}

// Date is a calendar day without time or zone
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Before reports whether d is earlier than o
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// MarshalJSON renders the date as "2006-01-02"
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses "2006-01-02"
func (d *Date) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return fmt.Errorf("invalid date %s: %w", b, err)
	}
	*d = DateOf(t)
	return nil
}

// NormalizedRecord is one surviving row after normalization.
type NormalizedRecord struct {
	Row        int          `json:"row"` // zero-based source row index
	Timestamp  time.Time    `json:"timestamp"`
	PostalCode string       `json:"postal_code"`
	Driver     string       `json:"driver"`
	Segment    SegmentLabel `json:"segment"`
	Hour       int          `json:"hour"`
	Day        Date         `json:"day"`
}
