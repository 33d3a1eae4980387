package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"delivery-pipeline/internal/model"
)

func scenarioReport(t *testing.T) *model.Report {
	t.Helper()
	report, err := newTestRunner(nil, nil).Run(context.Background(), model.RunSpec{FileName: "ruta.csv", Format: "csv"},
		strings.NewReader(scenarioCSV))
	require.NoError(t, err)
	return report
}

func TestExportManager_WriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExportManager(scenarioReport(t)).WriteXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetRecords, SheetTopCP, SheetHourly, SheetMetrics}, f.GetSheetList())

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, []string{"Repartidor", "CP", "Dia", "Entregas Efectuadas", "Incidencias", "Total"}, summary[0])
	assert.Equal(t, []string{"JUAN PEREZ", "28001", "2024-01-05", "1", "1", "2"}, summary[2])

	records, err := f.GetRows(SheetRecords)
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, "2024-01-05 10:30:00", records[2][0])

	top, err := f.GetRows(SheetTopCP)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"CP", "Frecuencia"}, {"28001", "1"}}, top)

	hourly, err := f.GetRows(SheetHourly)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Hora", "Entregas Efectuadas", "Incidencias"},
		{"10", "2", "0"},
		{"11", "0", "1"},
	}, hourly)

	metrics, err := f.GetRows(SheetMetrics)
	require.NoError(t, err)
	assert.Equal(t, []string{"Total Registros", "3"}, metrics[0])
}

func TestExportManager_ExportToFile(t *testing.T) {
	dir := t.TempDir()
	em := NewExportManager(scenarioReport(t))

	jsonPath := filepath.Join(dir, "out", "report.json")
	res := em.ExportToFile(jsonPath)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "json", res.Type)
	assert.Equal(t, 2, res.RecordCount)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var decoded model.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 3, decoded.TotalRecords)
	assert.Equal(t, model.Date{Year: 2024, Month: 1, Day: 5}, decoded.Summary[0].Day)

	xlsxPath := filepath.Join(dir, "ruta_resumen.xlsx")
	res = em.ExportToFile(xlsxPath)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "xlsx", res.Type)
	assert.FileExists(t, xlsxPath)
}

func TestExportManager_ExportToFileFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	res := NewExportManager(&model.Report{}).ExportToFile(filepath.Join(blocker, "report.json"))

	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.Equal(t, 0, res.RecordCount)
}
