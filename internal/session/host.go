// internal/session/host.go
package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tamzrod/rasterscan/internal/device"
	"github.com/tamzrod/rasterscan/internal/grid"
	"github.com/tamzrod/rasterscan/internal/scan"
	"github.com/tamzrod/rasterscan/internal/status"
)

// RunHost sweeps plan point by point from the host, writes the matrix file
// and plots it. Both axes end at 0V whatever happens after the plan is
// accepted.
func (s *Session) RunHost(ctx context.Context, plan scan.Plan) (*Report, error) {
	rep := s.begin(status.ModeHost, plan.String())
	m, err := s.runHost(ctx, rep, plan)
	rep.Matrix = m
	return s.finish(ctx, rep, err)
}

func (s *Session) runHost(ctx context.Context, rep *Report, plan scan.Plan) (*grid.Matrix, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if s.dev == nil {
		return nil, errors.New("session: host sweep needs a device")
	}

	axes, err := BuildAxes(s.cfg)
	if err != nil {
		return nil, err
	}
	setup, err := BuildWrites(s.cfg.Axes.CounterSetup, s.regs)
	if err != nil {
		return nil, err
	}

	if err := device.Apply(s.dev, setup); err != nil {
		err = fmt.Errorf("session: counter setup: %w", err)
		if rerr := scan.ResetAxes(s.dev, axes); rerr != nil {
			err = errors.Join(err, rerr)
		}
		return nil, err
	}

	log := s.log.With().Str("session", status.ModeHost).Logger()
	m, err := scan.RunHostSweep(s.dev, plan, axes, scan.SweepOptions{
		Logger: log,
		OnSample: func(p scan.Sample) {
			log.Trace().Int("row", p.Row).Int("col", p.Col).
				Float64("x", p.X).Float64("y", p.Y).Float64("count", p.Count).
				Msg("sample")
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.writeMatrix(rep, m); err != nil {
		return nil, err
	}

	if s.cfg.Output.HostTelemetry {
		if err := s.writeHostTelemetry(rep, m); err != nil {
			return nil, err
		}
	}

	s.renderPlot(ctx, rep)
	return m, nil
}

// writeHostTelemetry persists m in the telemetry row/line grammar so it can
// be reconstructed offline. Rows that do not split evenly go out one line each.
func (s *Session) writeHostTelemetry(rep *Report, m *grid.Matrix) error {
	vpl := s.cfg.Layout.ValuesPerLine
	if vpl <= 0 || m.Cols()%vpl != 0 {
		vpl = m.Cols()
	}

	path := s.cfg.Output.TelemetryFile
	var n countingWriter
	if err := writeFile(path, func(w io.Writer) error {
		n.w = w
		return grid.Encode(&n, m, vpl)
	}); err != nil {
		return err
	}
	rep.TelemetryPath = path
	rep.TelemetryBytes = n.n
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
