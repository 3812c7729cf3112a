// internal/grid/grid_test.go
package grid

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequenceMatrix(rows, cols int) *Matrix {
	m := NewMatrix(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			m.Set(r, c, float64(r*cols+c)/7+math.Pi*float64(r-c))
		}
	}
	return m
}

func TestParse_RoundTrip(t *testing.T) {
	m := sequenceMatrix(6, 6)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m, 3))

	got, err := Parse(&buf, Layout{TotalRows: 6, ValuesPerLine: 3, LinesPerRow: 2})
	require.NoError(t, err)
	assert.True(t, m.Equal(got), "round trip changed values")
}

func TestParse_DefaultLayoutRoundTrip(t *testing.T) {
	m := sequenceMatrix(DefaultLayout.TotalRows, DefaultLayout.RowWidth())

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m, DefaultLayout.ValuesPerLine))

	got, err := Parse(&buf, DefaultLayout)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Rows())
	assert.Equal(t, 100, got.Cols())
	assert.True(t, m.Equal(got))
}

func TestParse_SkipsSpacerLines(t *testing.T) {
	in := "\n1 2\n\n3 4\n\n\n5 6\n7 8\n2D Voltage Scan Completed.\n"

	got, err := Parse(strings.NewReader(in), Layout{TotalRows: 2, ValuesPerLine: 2, LinesPerRow: 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4}, got.Row(0))
	assert.Equal(t, []float64{5, 6, 7, 8}, got.Row(1))
}

func TestParse_CRLFAndTabs(t *testing.T) {
	in := "1\t2\r\n3 4\r\n"

	got, err := Parse(strings.NewReader(in), Layout{TotalRows: 1, ValuesPerLine: 2, LinesPerRow: 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4}, got.Row(0))
}

func TestParse_FinalLineWithoutNewline(t *testing.T) {
	got, err := Parse(strings.NewReader("1 2\n3 4"), Layout{TotalRows: 2, ValuesPerLine: 2, LinesPerRow: 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, got.Row(1))
}

func TestParse_TooFewValues(t *testing.T) {
	in := "1 2\n3 4\n5 6\n7\n"

	got, err := Parse(strings.NewReader(in), Layout{TotalRows: 2, ValuesPerLine: 2, LinesPerRow: 2})
	assert.Nil(t, got)

	var pe *ParseError
	require.True(t, errors.As(err, &pe), "err=%v", err)
	assert.Equal(t, 1, pe.Row)
	assert.Equal(t, 1, pe.ChunkLine)
	assert.Equal(t, 4, pe.Line)
}

func TestParse_TooManyValues(t *testing.T) {
	_, err := Parse(strings.NewReader("1 2 3\n"), Layout{TotalRows: 1, ValuesPerLine: 2, LinesPerRow: 1})

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 0, pe.Row)
	assert.Equal(t, 0, pe.ChunkLine)
}

func TestParse_BadNumberIsNotZeroed(t *testing.T) {
	_, err := Parse(strings.NewReader("1 x\n"), Layout{TotalRows: 1, ValuesPerLine: 2, LinesPerRow: 1})

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, pe.Reason, `"x"`)
}

func TestParse_ShortStream(t *testing.T) {
	in := "1 2\n\n3 4\n"

	got, err := Parse(strings.NewReader(in), Layout{TotalRows: 2, ValuesPerLine: 2, LinesPerRow: 2})
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, ErrShortStream))

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Row)
	assert.Equal(t, 0, pe.ChunkLine)
}

func TestParse_InvalidLayout(t *testing.T) {
	_, err := Parse(strings.NewReader(""), Layout{TotalRows: 1, ValuesPerLine: 0, LinesPerRow: 1})
	assert.Error(t, err)
}

func TestSerialize_Format(t *testing.T) {
	m, err := FromRows([][]float64{{1, 2.5, -3}, {0.1, 1e21, 4}})
	require.NoError(t, err)

	assert.Equal(t, "1,2.5,-3\n0.1,1e+21,4\n", Format(m, ","))
	assert.Equal(t, "1 2.5 -3\n0.1 1e+21 4\n", Format(m, " "))
}

func TestSerialize_FullPrecision(t *testing.T) {
	m, err := FromRows([][]float64{{1.0 / 3, 2.0 / 3}})
	require.NoError(t, err)

	out := Format(m, ",")
	assert.False(t, strings.HasSuffix(strings.TrimSuffix(out, "\n"), ","))
	assert.Equal(t, "0.3333333333333333,0.6666666666666666\n", out)
}

func TestEncode_RejectsUnevenSplit(t *testing.T) {
	assert.Error(t, Encode(&bytes.Buffer{}, NewMatrix(2, 5), 2))
}

func TestFromRows_Ragged(t *testing.T) {
	_, err := FromRows([][]float64{{1, 2}, {3}})
	assert.Error(t, err)
}
