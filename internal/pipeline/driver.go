package pipeline

import (
	"regexp"
	"strings"

	"delivery-pipeline/internal/model"
)

var (
	// "CONDUCTOR: 12 ANA" -> "ANA"; greedy up to the last colon.
	labelledPrefix = regexp.MustCompile(`^.*:\s*\d*\s*`)
	// "1 JUAN PEREZ" -> "JUAN PEREZ"
	numberPrefix = regexp.MustCompile(`^\s*\d+\s+`)
)

// AttributeDrivers carries the driver of each "CONDUCTOR" header row forward
// onto every following row until the next header. Rows before the first
// header get no driver.
//
// A header whose name cell is empty or not text resets the active driver to
// absent, and that absence is carried forward like any name.
func AttributeDrivers(grid model.RawGrid) []model.OptionalDriver {
	drivers := make([]model.OptionalDriver, len(grid))

	active := model.NoDriver
	for i, row := range grid {
		if strings.Contains(row.DriverMarker().String(), model.MarkerDriver) {
			active = driverFromHeader(row.DriverOrPostal())
		}
		drivers[i] = active
	}
	return drivers
}

func driverFromHeader(cell model.Cell) model.OptionalDriver {
	if !cell.IsString() {
		return model.NoDriver
	}
	return model.Driver(CleanDriverName(cell.Str))
}

// CleanDriverName strips the "label: number " prefix of a driver header
// value and trims it.
func CleanDriverName(raw string) string {
	if strings.Contains(raw, ":") {
		raw = labelledPrefix.ReplaceAllString(raw, "")
	} else {
		raw = numberPrefix.ReplaceAllString(raw, "")
	}
	return strings.TrimSpace(raw)
}
