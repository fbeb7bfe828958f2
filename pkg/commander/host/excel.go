package host

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/emrergn-hash/excel-commander/pkg/commander/config"
)

// Workbook implements Bridge over a local .xlsx file via excelize.
// Writes accumulate in memory and are persisted by Flush.
type Workbook struct {
	f     *excelize.File
	path  string
	sheet string

	// Selection rectangle, 1-based inclusive coordinates.
	startCol, startRow int
	endCol, endRow     int

	dirty bool
}

// Detect opens the configured workbook and resolves the selection.
// It is the startup readiness gate: any failure here means the session runs
// without a host and selection-dependent actions fail with ErrHostUnavailable.
func Detect(cfg config.Config) (*Workbook, error) {
	if cfg.Workbook == "" {
		return nil, ErrHostUnavailable
	}
	return Open(cfg.Workbook, cfg.Sheet, cfg.Selection)
}

// Open opens a workbook with an explicit sheet and A1-style selection.
// An empty sheet name resolves to the workbook's active sheet.
func Open(path, sheet, selection string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHostUnavailable, err)
	}

	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		f.Close()
		return nil, fmt.Errorf("%w: sheet %q not found", ErrHostUnavailable, sheet)
	}

	c1, r1, c2, r2, err := parseSelection(selection)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Workbook{
		f:        f,
		path:     path,
		sheet:    sheet,
		startCol: c1,
		startRow: r1,
		endCol:   c2,
		endRow:   r2,
	}, nil
}

// parseSelection resolves "B2" or "A1:C4" into rectangle coordinates.
// A single cell is a 1x1 selection.
func parseSelection(ref string) (c1, r1, c2, r2 int, err error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, 0, 0, 0, fmt.Errorf("%w: empty reference", ErrInvalidSelection)
	}

	parts := strings.SplitN(ref, ":", 2)
	c1, r1, err = excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}
	c2, r2 = c1, r1
	if len(parts) == 2 {
		c2, r2, err = excelize.CellNameToCoordinates(parts[1])
		if err != nil {
			return 0, 0, 0, 0, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
		}
	}
	if c2 < c1 || r2 < r1 {
		return 0, 0, 0, 0, fmt.Errorf("%w: %s is not top-left to bottom-right", ErrInvalidSelection, ref)
	}
	return c1, r1, c2, r2, nil
}

// Sheet returns the worksheet the selection lives on.
func (w *Workbook) Sheet() string {
	return w.sheet
}

// SelectionRef returns the selection as an A1-style reference.
func (w *Workbook) SelectionRef() string {
	top, _ := excelize.CoordinatesToCellName(w.startCol, w.startRow)
	if w.startCol == w.endCol && w.startRow == w.endRow {
		return top
	}
	bottom, _ := excelize.CoordinatesToCellName(w.endCol, w.endRow)
	return top + ":" + bottom
}

// ActiveCell returns the top-left cell of the selection as text.
func (w *Workbook) ActiveCell(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cell, err := excelize.CoordinatesToCellName(w.startCol, w.startRow)
	if err != nil {
		return "", err
	}
	// A formula cell reads back as the formula text, marker included.
	if formula, err := w.f.GetCellFormula(w.sheet, cell); err == nil && formula != "" {
		if !strings.HasPrefix(formula, "=") {
			formula = "=" + formula
		}
		return formula, nil
	}
	return w.f.GetCellValue(w.sheet, cell)
}

// WriteActiveCell overwrites the top-left cell of the selection.
// A value starting with the formula marker is written as a formula.
func (w *Workbook) WriteActiveCell(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(w.startCol, w.startRow)
	if err != nil {
		return err
	}
	if strings.HasPrefix(value, "=") {
		err = w.f.SetCellFormula(w.sheet, cell, value)
	} else {
		err = w.f.SetCellValue(w.sheet, cell, value)
	}
	if err != nil {
		return err
	}
	w.dirty = true
	return nil
}

// SelectedRange reads the full selection rectangle, coercing each cell value.
func (w *Workbook) SelectedRange(ctx context.Context) (Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	grid := make(Grid, 0, w.endRow-w.startRow+1)
	for row := w.startRow; row <= w.endRow; row++ {
		cells := make([]any, 0, w.endCol-w.startCol+1)
		for col := w.startCol; col <= w.endCol; col++ {
			cellName, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return nil, err
			}
			value, err := w.f.GetCellValue(w.sheet, cellName)
			if err != nil {
				return nil, err
			}
			cells = append(cells, parseValue(value))
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

// WriteSelectedRange writes the grid anchored at the selection's top-left.
// No shape validation is performed.
func (w *Workbook) WriteSelectedRange(ctx context.Context, grid Grid) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for rowIdx, row := range grid {
		for colIdx, value := range row {
			cellName, err := excelize.CoordinatesToCellName(w.startCol+colIdx, w.startRow+rowIdx)
			if err != nil {
				return err
			}
			if err := w.f.SetCellValue(w.sheet, cellName, value); err != nil {
				return err
			}
		}
	}
	w.dirty = true
	return nil
}

// Flush saves pending writes back to the workbook file.
func (w *Workbook) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !w.dirty {
		return nil
	}
	if err := w.f.Save(); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	w.dirty = false
	return nil
}

// Close releases the workbook. Pending unflushed writes are discarded.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// parseValue attempts to parse a cell string as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
