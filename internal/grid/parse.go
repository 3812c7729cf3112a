// internal/grid/parse.go
package grid

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseError reports why a telemetry stream could not be reconstructed.
// Row and ChunkLine are zero-based; Line is the 1-based physical line number
// in the stream (0 when the stream ended).
type ParseError struct {
	Reason    string
	Row       int
	ChunkLine int
	Line      int
	Err       error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("grid: parse: %s (row=%d chunk_line=%d", e.Reason, e.Row, e.ChunkLine)
	if e.Line > 0 {
		msg += fmt.Sprintf(" line=%d", e.Line)
	}
	msg += ")"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrShortStream is wrapped by the ParseError returned when the stream ends early.
var ErrShortStream = errors.New("stream ended before all rows were read")

// spacerLen is the raw line length (terminator included) below which a
// line is a spacer.
const spacerLen = 2

// Parse reconstructs a TotalRows x RowWidth matrix from a telemetry stream.
//
// The stream is read once, top to bottom. Spacer lines are skipped without
// consuming a chunk slot. Every other line must hold exactly ValuesPerLine
// numbers. Any failure returns a *ParseError and no matrix.
func Parse(r io.Reader, l Layout) (*Matrix, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	br := bufio.NewReader(r)
	m := NewMatrix(l.TotalRows, l.RowWidth())
	lineNo := 0

	for row := 0; row < l.TotalRows; row++ {
		dst := m.Row(row)

		for chunk := 0; chunk < l.LinesPerRow; {
			raw, err := br.ReadString('\n')
			if raw == "" && err != nil {
				if errors.Is(err, io.EOF) {
					err = ErrShortStream
				}
				return nil, &ParseError{Reason: "read failed", Row: row, ChunkLine: chunk, Err: err}
			}
			lineNo++

			if len(raw) < spacerLen {
				continue
			}

			fields := strings.Fields(raw)
			if len(fields) != l.ValuesPerLine {
				return nil, &ParseError{
					Reason:    fmt.Sprintf("found %d values, want %d", len(fields), l.ValuesPerLine),
					Row:       row,
					ChunkLine: chunk,
					Line:      lineNo,
				}
			}

			base := chunk * l.ValuesPerLine
			for k, f := range fields {
				v, err := strconv.ParseFloat(f, 64)
				if err != nil {
					return nil, &ParseError{
						Reason:    fmt.Sprintf("bad value %q at field %d", f, k),
						Row:       row,
						ChunkLine: chunk,
						Line:      lineNo,
						Err:       err,
					}
				}
				dst[base+k] = v
			}
			chunk++
		}
	}

	return m, nil
}
