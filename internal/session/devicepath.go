// internal/session/devicepath.go
package session

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/tamzrod/rasterscan/internal/grid"
	"github.com/tamzrod/rasterscan/internal/scan"
	"github.com/tamzrod/rasterscan/internal/status"
	"github.com/tamzrod/rasterscan/internal/telemetry"
)

// RunDevice arms the on-device script with plan, drains its telemetry into
// the telemetry file and reconstructs the matrix from that file.
//
// On timeout the abort write is the only safety action and the partial
// telemetry file is kept. After any other drain outcome both axes are
// written back to 0V on a best-effort basis when telemetry.reset_axes is set.
func (s *Session) RunDevice(ctx context.Context, plan scan.Plan) (*Report, error) {
	rep := s.begin(status.ModeDevice, plan.String())
	m, err := s.runDevice(ctx, rep, plan)
	rep.Matrix = m
	return s.finish(ctx, rep, err)
}

func (s *Session) runDevice(ctx context.Context, rep *Report, plan scan.Plan) (*grid.Matrix, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	layout, err := BuildLayout(s.cfg, plan.Steps)
	if err != nil {
		return nil, err
	}
	if s.dev == nil {
		return nil, errors.New("session: device scan needs a device")
	}

	log := s.log.With().Str("session", status.ModeDevice).Logger()

	dc, err := BuildDrainConfig(s.cfg, s.regs, s.echo, log)
	if err != nil {
		return nil, err
	}
	drainer, err := telemetry.New(dc, s.dev)
	if err != nil {
		return nil, err
	}

	// The telemetry file is opened before any hardware I/O.
	path := s.cfg.Output.TelemetryFile
	f, err := createFile(path)
	if err != nil {
		return nil, err
	}
	rep.TelemetryPath = path

	if fl := s.cfg.Telemetry.FlushOnArm; fl == nil || *fl {
		if _, err := drainer.Flush(); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("session: flush stale telemetry: %w", err)
		}
	}

	if err := scan.Arm(s.dev, plan, BuildScriptRegisters(s.cfg)); err != nil {
		_ = f.Close()
		return nil, err
	}
	log.Info().Str("plan", plan.String()).Msg("device script armed")

	res, derr := drainer.Drain(f)
	rep.TelemetryBytes = res.Bytes
	cerr := f.Close()

	if res.Outcome != telemetry.TimedOut {
		s.resetAfterDrain(log)
	}

	switch {
	case derr != nil && res.Outcome == telemetry.SinkFailed:
		return nil, &FileError{Op: "write", Path: path, Err: derr}
	case derr != nil:
		return nil, derr
	case cerr != nil:
		return nil, &FileError{Op: "close", Path: path, Err: cerr}
	}

	m, err := parseTelemetry(path, layout)
	if err != nil {
		return nil, err
	}
	if err := s.writeMatrix(rep, m); err != nil {
		return nil, err
	}
	s.renderPlot(ctx, rep)
	return m, nil
}

// resetAfterDrain writes 0V to both axes. Failures are logged only.
func (s *Session) resetAfterDrain(log zerolog.Logger) {
	if r := s.cfg.Telemetry.ResetAxes; r != nil && !*r {
		return
	}
	axes, err := BuildAxes(s.cfg)
	if err == nil {
		err = scan.ResetAxes(s.dev, axes)
	}
	if err != nil {
		log.Warn().Err(err).Msg("axis reset after drain failed")
	}
}

// parseTelemetry reconstructs layout from a telemetry file.
func parseTelemetry(path string, layout grid.Layout) (*grid.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	return grid.Parse(f, layout)
}
