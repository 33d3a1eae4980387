package pipeline

import (
	"strings"

	"delivery-pipeline/internal/model"
)

// Segment labels every row by the section marker range it falls in.
//
// With d the first row whose column 0 contains "ENTREGAS EFECTUADAS" and i the
// first row containing "INCIDENCIAS": rows [d, i) are delivered (up to the end
// of the grid when there is no i), rows [i, end) are incidents and win any
// overlap, everything else stays unknown. Later repeats of either marker are
// ignored.
func Segment(grid model.RawGrid) []model.SegmentLabel {
	labels := make([]model.SegmentLabel, len(grid))

	delivered := findMarkerRow(grid, model.MarkerDelivered)
	incident := findMarkerRow(grid, model.MarkerIncident)

	if delivered >= 0 {
		end := len(grid)
		if incident >= 0 {
			end = incident
		}
		for row := delivered; row < end; row++ {
			labels[row] = model.SegmentDelivered
		}
	}
	if incident >= 0 {
		for row := incident; row < len(grid); row++ {
			labels[row] = model.SegmentIncident
		}
	}
	return labels
}

// findMarkerRow returns the first row whose section cell contains marker, or -1
func findMarkerRow(grid model.RawGrid, marker string) int {
	for i, row := range grid {
		if strings.Contains(row.SectionMarker().String(), marker) {
			return i
		}
	}
	return -1
}
