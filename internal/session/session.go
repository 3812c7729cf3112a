// internal/session/session.go

// Package session owns one scan run end to end: the device handle, the
// output files and the post-steps. Nothing is kept in package state.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/rasterscan/internal/config"
	"github.com/tamzrod/rasterscan/internal/device"
	"github.com/tamzrod/rasterscan/internal/grid"
	"github.com/tamzrod/rasterscan/internal/plot"
	"github.com/tamzrod/rasterscan/internal/status"
)

// Recorder persists session snapshots. *archive.Store implements it.
type Recorder interface {
	Record(ctx context.Context, snap status.Snapshot) (int64, error)
}

// Options are the collaborators of a Session. The zero value is usable.
type Options struct {
	Logger zerolog.Logger

	// Echo receives a copy of telemetry when telemetry.echo is set.
	Echo io.Writer

	// Archive, when set, records every finished session.
	Archive Recorder

	now    func() time.Time
	render func(ctx context.Context, c plot.Config, out io.Writer) error
}

// Session is one scan run against one device.
// It is not safe for concurrent use.
type Session struct {
	cfg     *config.Config
	dev     device.Device
	regs    device.RegisterMap
	log     zerolog.Logger
	echo    io.Writer
	archive Recorder

	now    func() time.Time
	render func(ctx context.Context, c plot.Config, out io.Writer) error
}

// Report is what a finished session hands back to the caller.
type Report struct {
	status.Snapshot

	// Matrix is nil unless the session produced one.
	Matrix *grid.Matrix
}

// FileError is a failure to open, write or close an output file.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("session: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// FilePath identifies the file for status classification.
func (e *FileError) FilePath() string { return e.Path }

// New builds a session. dev may be nil for offline reconstruction.
func New(c *config.Config, dev device.Device, opts Options) (*Session, error) {
	if c == nil {
		return nil, errors.New("session: config required")
	}
	regs, err := BuildRegisters(c)
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:     c,
		dev:     dev,
		regs:    regs,
		log:     opts.Logger,
		echo:    opts.Echo,
		archive: opts.Archive,
		now:     opts.now,
		render:  opts.render,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.render == nil {
		s.render = plot.Render
	}
	return s, nil
}

// Registers returns the resolved register table.
func (s *Session) Registers() device.RegisterMap { return s.regs }

func (s *Session) begin(mode, plan string) *Report {
	return &Report{Snapshot: status.Snapshot{
		Mode:      mode,
		StartedAt: s.now(),
		Plan:      plan,
	}}
}

// finish stamps the outcome, archives the snapshot and logs the result.
// Archive failures are logged only.
func (s *Session) finish(ctx context.Context, rep *Report, err error) (*Report, error) {
	rep.EndedAt = s.now()
	rep.Record(err)
	if err != nil {
		rep.Matrix = nil
	}

	if s.archive != nil {
		if _, aerr := s.archive.Record(ctx, rep.Snapshot); aerr != nil {
			s.log.Warn().Err(aerr).Msg("archive record failed")
		}
	}

	ev := s.log.Info()
	if err != nil {
		ev = s.log.Error().Err(err)
	}
	ev.Str("session", rep.Mode).
		Str("outcome", status.Name(rep.Code)).
		Dur("elapsed", rep.Duration()).
		Msg("session finished")

	return rep, err
}

// writeMatrix serializes m to the configured matrix file.
func (s *Session) writeMatrix(rep *Report, m *grid.Matrix) error {
	path := s.cfg.Output.MatrixFile
	if err := writeFile(path, func(w io.Writer) error {
		return grid.Serialize(w, m, s.cfg.Output.Delimiter)
	}); err != nil {
		return err
	}
	rep.MatrixPath = path
	rep.Rows, rep.Cols = m.Rows(), m.Cols()
	s.log.Info().Str("path", path).Int("rows", m.Rows()).Int("cols", m.Cols()).Msg("matrix written")
	return nil
}

// renderPlot runs the plotting post-step. Failures land in rep.PlotError only.
func (s *Session) renderPlot(ctx context.Context, rep *Report) {
	if p := s.cfg.Output.Plot.Enabled; p != nil && !*p {
		return
	}

	pc := BuildPlotConfig(s.cfg)
	err := plot.WriteScript(pc)
	if err == nil {
		err = s.render(ctx, pc, nil)
	}
	if err != nil {
		rep.PlotError = err.Error()
		s.log.Warn().Err(err).Msg("plot failed")
		return
	}
	rep.ImagePath = pc.Image
	s.log.Info().Str("path", pc.Image).Msg("plot written")
}

func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &FileError{Op: "create", Path: path, Err: err}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, &FileError{Op: "create", Path: path, Err: err}
	}
	return f, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return &FileError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &FileError{Op: "close", Path: path, Err: err}
	}
	return nil
}
