// internal/grid/matrix.go
package grid

import "fmt"

// Matrix is a dense row-major grid of float64 values.
// It is sized once at construction; no dimension is hard-coded.
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix allocates a zeroed rows x cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("grid: negative dimensions %dx%d", rows, cols))
	}
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// FromRows builds a matrix from equal-length rows.
func FromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return NewMatrix(0, 0), nil
	}
	m := NewMatrix(len(rows), len(rows[0]))
	for i, r := range rows {
		if len(r) != m.cols {
			return nil, fmt.Errorf("grid: row %d has %d values, want %d", i, len(r), m.cols)
		}
		copy(m.data[i*m.cols:], r)
	}
	return m, nil
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) At(r, c int) float64 { return m.data[m.index(r, c)] }

func (m *Matrix) Set(r, c int, v float64) { m.data[m.index(r, c)] = v }

// Row returns a view of row r. Writes through the view modify the matrix.
func (m *Matrix) Row(r int) []float64 {
	if r < 0 || r >= m.rows {
		panic(fmt.Sprintf("grid: row %d out of range [0,%d)", r, m.rows))
	}
	return m.data[r*m.cols : (r+1)*m.cols : (r+1)*m.cols]
}

// SetRow copies vals into row r.
func (m *Matrix) SetRow(r int, vals []float64) error {
	if len(vals) != m.cols {
		return fmt.Errorf("grid: row width %d, want %d", len(vals), m.cols)
	}
	copy(m.Row(r), vals)
	return nil
}

// Equal reports whether both matrices have the same shape and identical values.
func (m *Matrix) Equal(o *Matrix) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i := range m.data {
		if m.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

func (m *Matrix) index(r, c int) int {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		panic(fmt.Sprintf("grid: index (%d,%d) out of range %dx%d", r, c, m.rows, m.cols))
	}
	return r*m.cols + c
}
