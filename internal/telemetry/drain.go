// internal/telemetry/drain.go
package telemetry

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/rasterscan/internal/device"
	"github.com/tamzrod/rasterscan/internal/poller"
)

// Config is the drain's runtime config.
type Config struct {
	CountRegister string
	DataRegister  string
	Sentinel      string

	IdleTimeout  time.Duration
	PollInterval time.Duration

	// Abort is written once when the idle window is exceeded.
	// It must carry a resolved address.
	Abort device.Write

	// SpanChunks also matches a sentinel split across two chunks by searching
	// the new chunk prefixed with the tail of the previous one. Off by default:
	// each chunk is searched on its own.
	SpanChunks bool

	// Echo, when set, receives a copy of every chunk. Write errors are ignored.
	Echo io.Writer

	Logger zerolog.Logger
}

// Drainer reads the device's debug channel until the sentinel shows up.
type Drainer struct {
	cfg  Config
	src  Source
	poll *poller.Poller
}

// New validates cfg and builds a Drainer.
func New(cfg Config, src Source) (*Drainer, error) {
	if src == nil {
		return nil, errors.New("telemetry: source required")
	}
	if cfg.CountRegister == "" || cfg.DataRegister == "" {
		return nil, errors.New("telemetry: count and data registers required")
	}
	if cfg.Sentinel == "" {
		return nil, errors.New("telemetry: sentinel required")
	}

	p, err := poller.New(poller.Config{
		Interval:    cfg.PollInterval,
		IdleTimeout: cfg.IdleTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}

	return &Drainer{cfg: cfg, src: src, poll: p}, nil
}

// Drain polls the byte count, reads each pending chunk, persists it to sink
// and stops as soon as a chunk contains the sentinel.
//
// The idle clock restarts on every non-empty read. When it runs out the abort
// write is issued exactly once and ErrTimedOut is returned; bytes already
// written to sink are kept.
func (d *Drainer) Drain(sink io.Writer) (Result, error) {
	var (
		res      Result
		tail     []byte
		sentinel = []byte(d.cfg.Sentinel)
		log      = d.cfg.Logger
		start    = time.Now()
	)

	step := func() (poller.Progress, error) {
		chunk, err := d.readChunk()
		if err != nil {
			return poller.Idle, err
		}
		if chunk == nil {
			return poller.Idle, nil
		}

		if _, err := sink.Write(chunk); err != nil {
			return poller.Idle, &SinkError{Err: err}
		}
		if d.cfg.Echo != nil {
			_, _ = d.cfg.Echo.Write(chunk)
		}

		res.Bytes += int64(len(chunk))
		res.Chunks++

		haystack := chunk
		if d.cfg.SpanChunks && len(tail) > 0 {
			haystack = append(append([]byte(nil), tail...), chunk...)
		}
		if bytes.Contains(haystack, sentinel) {
			return poller.Done, nil
		}
		if d.cfg.SpanChunks {
			tail = keepTail(haystack, len(sentinel)-1)
		}
		return poller.Data, nil
	}

	err := d.poll.Run(step)
	res.Elapsed = time.Since(start)

	var (
		re *ReadError
		se *SinkError
	)
	switch {
	case err == nil:
		res.Outcome = Completed
		log.Info().Int64("bytes", res.Bytes).Int("chunks", res.Chunks).Msg("telemetry complete")
		return res, nil

	case errors.Is(err, poller.ErrIdleTimeout):
		res.Outcome = TimedOut
		res.Aborted = true
		log.Warn().Dur("idle", d.cfg.IdleTimeout).Int64("bytes", res.Bytes).Msg("telemetry idle, aborting device script")
		a := d.cfg.Abort
		if aerr := d.src.WriteAddress(a.Address, a.Type, a.Value); aerr != nil {
			return res, errors.Join(ErrTimedOut, fmt.Errorf("telemetry: abort write: %w", aerr))
		}
		return res, ErrTimedOut

	case errors.As(err, &re):
		res.Outcome = ReadFailed
		return res, err

	case errors.As(err, &se):
		res.Outcome = SinkFailed
		return res, err

	default:
		res.Outcome = ReadFailed
		return res, err
	}
}

// Flush reads and discards whatever is pending on the debug channel.
func (d *Drainer) Flush() (int, error) {
	chunk, err := d.readChunk()
	if err != nil {
		return 0, err
	}
	if len(chunk) > 0 {
		d.cfg.Logger.Debug().Int("bytes", len(chunk)).Msg("discarded stale telemetry")
	}
	return len(chunk), nil
}

// readChunk performs one count read and, when non-zero, one byte-array read
// of exactly that many bytes. It returns nil when nothing is pending.
func (d *Drainer) readChunk() ([]byte, error) {
	count, err := d.src.ReadName(d.cfg.CountRegister)
	if err != nil {
		return nil, &ReadError{Register: d.cfg.CountRegister, Err: err}
	}
	n := int(count)
	if n <= 0 {
		return nil, nil
	}

	data, err := d.src.ReadByteArray(d.cfg.DataRegister, n)
	if err != nil {
		return nil, &ReadError{Register: d.cfg.DataRegister, Err: err}
	}
	if len(data) < n {
		return nil, &ReadError{
			Register: d.cfg.DataRegister,
			Err:      fmt.Errorf("short read: got=%d want=%d", len(data), n),
		}
	}

	// Sized count+1; buf[n] is a zero terminator slot and is never returned.
	buf := make([]byte, n+1)
	copy(buf, data[:n])
	return buf[:n:n], nil
}

func keepTail(b []byte, n int) []byte {
	if n <= 0 {
		return nil
	}
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return append([]byte(nil), b...)
}
