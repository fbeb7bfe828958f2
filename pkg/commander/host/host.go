// Package host provides access to the spreadsheet acting as the add-in host.
// The Bridge interface models the host selection capability; the excelize
// implementation backs it with a local .xlsx workbook.
package host

import (
	"context"
	"errors"
)

// ErrHostUnavailable indicates no host workbook was detected at startup.
var ErrHostUnavailable = errors.New("host workbook not available")

// ErrInvalidSelection indicates the configured selection reference is not
// a valid cell or range.
var ErrInvalidSelection = errors.New("invalid selection reference")

// Grid is a rectangular block of cell values, row-major.
// Values are int64, float64 or string.
type Grid [][]any

// HasData reports whether any cell in the grid holds a non-empty value.
func (g Grid) HasData() bool {
	for _, row := range g {
		for _, cell := range row {
			if s, ok := cell.(string); ok && s == "" {
				continue
			}
			if cell == nil {
				continue
			}
			return true
		}
	}
	return false
}

// Bridge is the host selection capability: four reads/writes against the
// current selection plus one batch synchronization primitive.
type Bridge interface {
	// ActiveCell returns the first cell of the selection as text,
	// empty when the cell holds nothing.
	ActiveCell(ctx context.Context) (string, error)
	// WriteActiveCell overwrites the first cell of the selection.
	WriteActiveCell(ctx context.Context, value string) error
	// SelectedRange returns the full rectangular grid of the selection.
	SelectedRange(ctx context.Context) (Grid, error)
	// WriteSelectedRange overwrites cells starting at the selection's
	// top-left corner. The caller is responsible for shape compatibility.
	WriteSelectedRange(ctx context.Context, grid Grid) error
	// Flush persists pending writes as one batch.
	Flush(ctx context.Context) error
	// Close releases the underlying workbook.
	Close() error
}
