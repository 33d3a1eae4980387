package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"delivery-pipeline/internal/model"
)

// Sheet names of the exported workbook
const (
	SheetSummary = "Resumen"
	SheetRecords = "Registros"
	SheetTopCP   = "CP Incidencias"
	SheetHourly  = "Por Hora"
	SheetMetrics = "Metricas"
)

// ExportManager writes a report to files or streams
type ExportManager struct {
	Report *model.Report
}

// NewExportManager wraps report for export
func NewExportManager(report *model.Report) *ExportManager {
	return &ExportManager{Report: report}
}

// ExportToFile writes the report to path; the extension picks the format
// (.json, anything else is xlsx).
func (em *ExportManager) ExportToFile(path string) model.ExportResult {
	result := model.ExportResult{
		Path:        path,
		RecordCount: len(em.Report.Summary),
		Timestamp:   time.Now(),
	}

	err := func() error {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
		}
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		defer file.Close()

		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			result.Type = "json"
			return em.WriteJSON(file)
		default:
			result.Type = "xlsx"
			return em.WriteXLSX(file)
		}
	}()

	result.Success = err == nil
	if err != nil {
		result.Error = err.Error()
		result.RecordCount = 0
	}
	return result
}

// WriteJSON encodes the report as indented JSON
func (em *ExportManager) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(em.Report); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteXLSX builds the workbook (summary table, records, top postal codes,
// hourly series, headline metrics) and writes it to w.
func (em *ExportManager) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetRecords, SheetTopCP, SheetHourly, SheetMetrics} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	writers := []struct {
		sheet string
		rows  [][]interface{}
	}{
		{SheetSummary, em.summaryRows()},
		{SheetRecords, em.recordRows()},
		{SheetTopCP, em.topPostalRows()},
		{SheetHourly, em.hourlyRows()},
		{SheetMetrics, em.metricRows()},
	}
	for _, sw := range writers {
		if err := writeRows(f, sw.sheet, sw.rows); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func (em *ExportManager) summaryRows() [][]interface{} {
	rows := [][]interface{}{{"Repartidor", "CP", "Dia",
		string(model.SegmentDelivered), string(model.SegmentIncident), "Total"}}
	for _, s := range em.Report.Summary {
		rows = append(rows, []interface{}{s.Driver, s.PostalCode, s.Day.String(),
			s.DeliveredCount, s.IncidentCount, s.Total})
	}
	return rows
}

func (em *ExportManager) recordRows() [][]interface{} {
	rows := [][]interface{}{{"Fecha", "CP", "Repartidor", "Estado", "Hora", "Dia"}}
	for _, r := range em.Report.Records {
		rows = append(rows, []interface{}{r.Timestamp.Format("2006-01-02 15:04:05"), r.PostalCode,
			r.Driver, string(r.Segment), r.Hour, r.Day.String()})
	}
	return rows
}

func (em *ExportManager) topPostalRows() [][]interface{} {
	rows := [][]interface{}{{"CP", "Frecuencia"}}
	for _, p := range em.Report.TopPostalCodes {
		rows = append(rows, []interface{}{p.PostalCode, p.Frequency})
	}
	return rows
}

func (em *ExportManager) hourlyRows() [][]interface{} {
	labelSet := make(map[model.SegmentLabel]bool)
	for _, byLabel := range em.Report.HourlySeries {
		for label := range byLabel {
			labelSet[label] = true
		}
	}
	labels := make([]model.SegmentLabel, 0, len(labelSet))
	for label := range labelSet {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	header := []interface{}{"Hora"}
	for _, label := range labels {
		header = append(header, string(label))
	}
	rows := [][]interface{}{header}
	for _, hour := range em.Report.HourlySeries.Hours() {
		row := []interface{}{hour}
		for _, label := range labels {
			row = append(row, em.Report.HourlySeries[hour][label])
		}
		rows = append(rows, row)
	}
	return rows
}

func (em *ExportManager) metricRows() [][]interface{} {
	return [][]interface{}{
		{"Total Registros", em.Report.TotalRecords},
		{string(model.SegmentDelivered), em.Report.DeliveredCount},
		{string(model.SegmentIncident), em.Report.IncidentCount},
		{"Filas descartadas", em.Report.DroppedRows},
	}
}
