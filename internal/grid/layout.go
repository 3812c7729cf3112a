// internal/grid/layout.go
package grid

import "errors"

// Layout is the row/line grammar of a telemetry stream: every logical row
// arrives as LinesPerRow consecutive lines of ValuesPerLine numbers.
type Layout struct {
	TotalRows     int
	ValuesPerLine int
	LinesPerRow   int
}

// DefaultLayout is the grid of a default 100-step device scan, two lines
// of 50 values per row.
var DefaultLayout = Layout{TotalRows: 100, ValuesPerLine: 50, LinesPerRow: 2}

// RowWidth is the number of values in one assembled row.
func (l Layout) RowWidth() int { return l.ValuesPerLine * l.LinesPerRow }

// Validate rejects layouts that cannot describe a grid.
func (l Layout) Validate() error {
	if l.TotalRows <= 0 {
		return errors.New("grid: total rows must be > 0")
	}
	if l.ValuesPerLine <= 0 {
		return errors.New("grid: values per line must be > 0")
	}
	if l.LinesPerRow <= 0 {
		return errors.New("grid: lines per row must be > 0")
	}
	return nil
}

// LayoutFor splits a rows x cols matrix into lines of valuesPerLine values.
// cols must be a multiple of valuesPerLine.
func LayoutFor(rows, cols, valuesPerLine int) (Layout, error) {
	if valuesPerLine <= 0 || cols%valuesPerLine != 0 {
		return Layout{}, errors.New("grid: columns must be a positive multiple of values per line")
	}
	return Layout{TotalRows: rows, ValuesPerLine: valuesPerLine, LinesPerRow: cols / valuesPerLine}, nil
}
