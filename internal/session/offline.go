// internal/session/offline.go
package session

import (
	"context"
	"os"

	"github.com/tamzrod/rasterscan/internal/grid"
	"github.com/tamzrod/rasterscan/internal/status"
)

// Reconstruct parses a previously persisted telemetry file of a
// steps x steps scan, writes the matrix file and plots it. No device is
// touched. An empty path means the configured telemetry file.
func (s *Session) Reconstruct(ctx context.Context, path string, steps int) (*Report, error) {
	if path == "" {
		path = s.cfg.Output.TelemetryFile
	}

	rep := s.begin(status.ModeOffline, "")
	rep.TelemetryPath = path

	m, err := s.reconstruct(path, steps)
	if err == nil {
		err = s.writeMatrix(rep, m)
	}
	if err == nil {
		rep.Matrix = m
		if fi, serr := os.Stat(path); serr == nil {
			rep.TelemetryBytes = fi.Size()
		}
		s.renderPlot(ctx, rep)
	}
	return s.finish(ctx, rep, err)
}

func (s *Session) reconstruct(path string, steps int) (*grid.Matrix, error) {
	layout, err := BuildLayout(s.cfg, steps)
	if err != nil {
		if steps < 2 {
			return nil, err
		}
		// host sweeps write rows that do not split evenly as one line each
		layout = grid.Layout{TotalRows: steps, ValuesPerLine: steps, LinesPerRow: 1}
	}
	return parseTelemetry(path, layout)
}
