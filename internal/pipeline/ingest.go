package pipeline

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/shakinm/xlsReader/xls/record"
	"github.com/shakinm/xlsReader/xls/structure"
	"github.com/xuri/excelize/v2"

	"delivery-pipeline/internal/model"
	"delivery-pipeline/pkg/utils"
)

// Format is the declared spreadsheet format of an upload
type Format string

const (
	FormatXLS  Format = "xls"
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DefaultMaxRows caps how many rows are read from a legacy .xls sheet
const DefaultMaxRows = 100000

// ParseFormat validates a declared format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))); f {
	case FormatXLS, FormatXLSX, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %q", s)
	}
}

// FormatFromFilename picks the format from the file extension. Unknown
// extensions fall back to the legacy .xls export format.
func FormatFromFilename(name string) Format {
	if f, err := ParseFormat(filepath.Ext(name)); err == nil {
		return f
	}
	return FormatXLS
}

// LoadOptions tunes grid loading
type LoadOptions struct {
	MaxRows int // row cap for .xls sheets; <= 0 means DefaultMaxRows
}

// LoadGrid reads the first sheet of a spreadsheet into a RawGrid. No header
// row is consumed: every row is data. Cells keep the type they have in the
// source: text stays text even when it looks numeric ("08001"), numbers stay
// numbers. Any failure is a *LoadError.
func LoadGrid(r io.Reader, format Format, opts LoadOptions) (model.RawGrid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Format: format, Err: fmt.Errorf("failed to read upload: %w", err)}
	}
	if len(data) == 0 {
		return nil, &LoadError{Format: format, Err: errors.New("file is empty")}
	}

	var grid model.RawGrid
	switch format {
	case FormatXLS:
		grid, err = readXLS(data, opts.MaxRows)
	case FormatXLSX:
		grid, err = readXLSX(data)
	case FormatCSV:
		grid, err = readCSV(data)
	default:
		err = fmt.Errorf("unsupported format: %q", format)
	}
	if err != nil {
		return nil, &LoadError{Format: format, Err: err}
	}
	if len(grid) == 0 {
		return nil, &LoadError{Format: format, Err: ErrEmptyGrid}
	}
	return grid, nil
}

// ------------------- XLS (BIFF) -------------------
func readXLS(data []byte, maxRows int) (grid model.RawGrid, err error) {
	// the BIFF reader panics on some truncated files
	defer func() {
		if r := recover(); r != nil {
			grid, err = nil, fmt.Errorf("malformed xls workbook: %v", r)
		}
	}()

	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xls workbook: %w", err)
	}
	if workbook.GetNumberSheets() == 0 {
		return nil, errors.New("no worksheet found")
	}
	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("no worksheet found: %w", err)
	}

	n := sheet.GetNumberRows()
	if n > maxRows {
		n = maxRows
	}
	grid = make(model.RawGrid, 0, n)
	for i := 0; i < n; i++ {
		row, err := sheet.GetRow(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", i, err)
		}
		cols := row.GetCols()
		cells := make(model.RawRow, len(cols))
		for c, col := range cols {
			cells[c] = xlsCell(col)
		}
		grid = append(grid, trimTrailingBlanks(cells))
	}
	return trimTrailingEmptyRows(grid), nil
}

// xlsCell maps a BIFF cell record to a Cell. NUMBER and RK records carry the
// raw value, so date-formatted cells come through as excel serials.
func xlsCell(col structure.CellData) model.Cell {
	switch col.(type) {
	case *record.Number, *record.Rk:
		return model.NumberCell(col.GetFloat64())
	case *record.LabelSSt, *record.LabelBIFF8, *record.LabelBIFF5, *record.BoolErr:
		return utils.TextCell(col.GetString())
	default:
		return model.Cell{}
	}
}

// ------------------- XLSX -------------------
func readXLSX(data []byte) (model.RawGrid, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("no worksheet found")
	}

	// Raw values keep dates as serial numbers instead of locale formatted text.
	rows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}

	grid := make(model.RawGrid, len(rows))
	for i, values := range rows {
		cells := make(model.RawRow, len(values))
		for c, value := range values {
			if strings.TrimSpace(value) == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, i+1)
			if err != nil {
				return nil, err
			}
			cellType, err := file.GetCellType(sheetName, ref)
			if err != nil {
				return nil, fmt.Errorf("failed to read cell type of %s: %w", ref, err)
			}
			cells[c] = xlsxCell(value, cellType)
		}
		grid[i] = cells
	}
	return grid, nil
}

// xlsxCell classifies a raw value by its stored cell type. Only numeric
// cells (no type attribute or "n") become numbers; shared and inline
// strings stay text whatever they contain.
func xlsxCell(value string, cellType excelize.CellType) model.Cell {
	switch cellType {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		return utils.ParseCell(value)
	default:
		return utils.TextCell(value)
	}
}

// ------------------- CSV -------------------
// CSV has no cell types: every value is text and numeric coercion is left
// to the normalizer.
func readCSV(data []byte) (model.RawGrid, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV read error: %w", err)
	}

	grid := make(model.RawGrid, len(rows))
	for i, values := range rows {
		grid[i] = utils.TextRow(values)
	}
	return grid, nil
}

func trimTrailingBlanks(row model.RawRow) model.RawRow {
	end := len(row)
	for end > 0 && row[end-1].IsEmpty() {
		end--
	}
	return row[:end]
}

func trimTrailingEmptyRows(grid model.RawGrid) model.RawGrid {
	end := len(grid)
	for end > 0 && len(grid[end-1]) == 0 {
		end--
	}
	return grid[:end]
}
