// internal/archive/archive_test.go
package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/rasterscan/internal/status"
)

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "db", "history.db"))
	require.NoError(t, err)
	defer s.Close()

	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	for i, code := range []uint16{status.CodeOK, status.CodeTimedOut, status.CodeParse} {
		_, err := s.Record(ctx, status.Snapshot{
			Mode:      status.ModeDevice,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			EndedAt:   base.Add(time.Duration(i)*time.Minute + 30*time.Second),
			Plan:      "x=0.5..-0.5",
			Code:      code,
			Rows:      100,
			Cols:      100,
		})
		require.NoError(t, err)
	}

	got, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, status.CodeParse, got[0].Code)
	assert.Equal(t, status.CodeTimedOut, got[1].Code)
	assert.Equal(t, 30*time.Second, got[0].Duration())
	assert.Equal(t, 100, got[0].Rows)
}

func TestRecent_SubSecondOrder(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "h.db"))
	require.NoError(t, err)
	defer s.Close()

	// RFC3339Nano drops trailing zeros, so these sort wrongly as text
	base := time.Date(2026, 10, 1, 12, 0, 5, 0, time.UTC)
	offsets := []time.Duration{0, 100 * time.Millisecond, 120 * time.Millisecond, 500 * time.Millisecond}
	for _, off := range offsets {
		_, err := s.Record(ctx, status.Snapshot{
			Mode:      status.ModeHost,
			StartedAt: base.Add(off),
			EndedAt:   base.Add(off),
		})
		require.NoError(t, err)
	}

	got, err := s.Recent(ctx, len(offsets))
	require.NoError(t, err)
	require.Len(t, got, len(offsets))
	for i, snap := range got {
		assert.True(t, snap.StartedAt.Equal(base.Add(offsets[len(offsets)-1-i])), "row %d started %v", i, snap.StartedAt)
	}
}

func TestRecent_ZeroLimit(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "h.db"))
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
