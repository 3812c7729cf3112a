// internal/grid/serialize.go
package grid

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Serialize writes m row-major, one row per line, values joined by delim.
// Values keep full float64 precision. Lines carry no trailing delimiter and
// the output ends with a newline.
func Serialize(w io.Writer, m *Matrix, delim string) error {
	bw := bufio.NewWriter(w)
	for r := 0; r < m.Rows(); r++ {
		if err := writeValues(bw, m.Row(r), delim); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Format is Serialize into a string.
func Format(m *Matrix, delim string) string {
	var sb strings.Builder
	_ = Serialize(&sb, m, delim)
	return sb.String()
}

// Encode writes m in the telemetry row/line grammar Parse reads: each row
// becomes consecutive lines of valuesPerLine space-separated values.
func Encode(w io.Writer, m *Matrix, valuesPerLine int) error {
	l, err := LayoutFor(m.Rows(), m.Cols(), valuesPerLine)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for r := 0; r < m.Rows(); r++ {
		row := m.Row(r)
		for c := 0; c < l.LinesPerRow; c++ {
			if err := writeValues(bw, row[c*valuesPerLine:(c+1)*valuesPerLine], " "); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func writeValues(bw *bufio.Writer, vals []float64, delim string) error {
	var buf []byte
	for i, v := range vals {
		if i > 0 {
			if _, err := bw.WriteString(delim); err != nil {
				return err
			}
		}
		buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.WriteByte('\n')
}
