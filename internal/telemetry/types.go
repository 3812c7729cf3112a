// internal/telemetry/types.go
package telemetry

import (
	"errors"
	"fmt"
	"time"

	"github.com/tamzrod/rasterscan/internal/device"
)

// Source is the slice of the device the drain talks to: the debug channel
// register pair and the abort write.
type Source interface {
	ReadName(name string) (float64, error)
	ReadByteArray(name string, n int) ([]byte, error)
	WriteAddress(addr uint16, typ device.DataType, value float64) error
}

// Outcome is how a drain ended.
type Outcome int

const (
	Completed Outcome = iota
	TimedOut
	ReadFailed
	SinkFailed
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case TimedOut:
		return "timed_out"
	case ReadFailed:
		return "read_failed"
	case SinkFailed:
		return "sink_failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result summarizes one drain.
type Result struct {
	Outcome Outcome
	Bytes   int64
	Chunks  int
	Elapsed time.Duration

	// Aborted is true when the abort write was issued.
	Aborted bool
}

// ErrTimedOut is returned when no telemetry arrived within the idle window.
var ErrTimedOut = errors.New("telemetry: timed out waiting for data")

// ReadError wraps the transport failure that ended a drain. The failing read
// is not retried.
type ReadError struct {
	Register string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("telemetry: read %s: %v", e.Register, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// SinkError wraps a failure to persist received bytes.
type SinkError struct {
	Err error
}

func (e *SinkError) Error() string { return fmt.Sprintf("telemetry: persist: %v", e.Err) }

func (e *SinkError) Unwrap() error { return e.Err }
