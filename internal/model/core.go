package model

import (
	"math"
	"strconv"
	"strings"
)

// Column positions of the delivery export layout.
const (
	ColSectionMarker  = 0
	ColDriverMarker   = 4
	ColDriverOrPostal = 5
	ColTimestamp      = 9
)

// CellKind tells which variant a Cell holds
type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
)

// Cell is a single raw spreadsheet value: a string, a number or nothing.
type Cell struct {
	Kind CellKind `json:"kind"`
	Str  string   `json:"str,omitempty"`
	Num  float64  `json:"num,omitempty"`
}

// StringCell wraps s as a string cell
func StringCell(s string) Cell { return Cell{Kind: CellString, Str: s} }

// NumberCell wraps f as a number cell
func NumberCell(f float64) Cell { return Cell{Kind: CellNumber, Num: f} }

// IsEmpty reports whether the cell holds no value
func (c Cell) IsEmpty() bool { return c.Kind == CellEmpty }

// IsString reports whether the cell holds text
func (c Cell) IsString() bool { return c.Kind == CellString }

// IsNumber reports whether the cell holds a number
func (c Cell) IsNumber() bool { return c.Kind == CellNumber }

// String stringifies the cell. Empty cells become "". Integral numbers keep a
// trailing ".0" because the export tool writes numeric columns as floats.
func (c Cell) String() string {
	switch c.Kind {
	case CellString:
		return c.Str
	case CellNumber:
		if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) {
			return strconv.FormatFloat(c.Num, 'f', -1, 64)
		}
		s := strconv.FormatFloat(c.Num, 'f', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s
	default:
		return ""
	}
}

// RawRow is one spreadsheet row. Column meaning is positional and depends on
// the row type, so access goes through At or the named accessors.
type RawRow []Cell

// At returns the cell at column i, or an empty cell past the row width.
func (r RawRow) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return Cell{}
	}
	return r[i]
}

// SectionMarker holds "ENTREGAS EFECTUADAS" / "INCIDENCIAS" on section rows.
func (r RawRow) SectionMarker() Cell { return r.At(ColSectionMarker) }

// DriverMarker holds "CONDUCTOR" on driver header rows.
func (r RawRow) DriverMarker() Cell { return r.At(ColDriverMarker) }

// DriverOrPostal is the driver name on driver header rows and the postal code
// on record rows.
func (r RawRow) DriverOrPostal() Cell { return r.At(ColDriverOrPostal) }

// TimestampCell is the delivery/incident date and time.
func (r RawRow) TimestampCell() Cell { return r.At(ColTimestamp) }

// RawGrid is the whole sheet in source order. Order matters: segment and
// driver attribution follow scan order.
type RawGrid []RawRow

// Width returns the widest row length
func (g RawGrid) Width() int {
	w := 0
	for _, row := range g {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}
