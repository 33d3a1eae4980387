package pipeline

import (
	"delivery-pipeline/internal/model"
	"delivery-pipeline/pkg/utils"
)

// row builds a row the way a typed sheet reads it: numeric values are
// number cells, the rest text.
func row(values ...string) model.RawRow {
	r := make(model.RawRow, len(values))
	for i, v := range values {
		r[i] = utils.ParseCell(v)
	}
	return r
}

// recordRow builds a 10 column row with a postal code and a timestamp
func recordRow(postal, timestamp string) model.RawRow {
	return row("x", "x", "x", "x", "x", postal, "x", "x", "x", timestamp)
}

// driverRow builds a "CONDUCTOR" header row
func driverRow(name, timestamp string) model.RawRow {
	return row("x", "x", "x", "x", "CONDUCTOR", name, "x", "x", "x", timestamp)
}

// scenarioGrid is the four row export used across tests
func scenarioGrid() model.RawGrid {
	return model.RawGrid{
		row("ENTREGAS EFECTUADAS"),
		driverRow("1 JUAN PEREZ", "2024-01-05 10:00"),
		row("INCIDENCIAS"),
		recordRow("28001", "2024-01-05 11:00"),
	}
}
