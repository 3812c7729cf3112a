// internal/poller/types.go
package poller

import "errors"

// Progress is what one poll step observed.
type Progress int

const (
	// Idle means nothing arrived. The idle clock keeps running.
	Idle Progress = iota
	// Data means something arrived. The idle clock is reset.
	Data
	// Done ends the loop successfully.
	Done
)

func (p Progress) String() string {
	switch p {
	case Idle:
		return "idle"
	case Data:
		return "data"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Step performs one poll. A non-nil error ends the loop immediately.
type Step func() (Progress, error)

// ErrIdleTimeout is returned by Run when no Data was seen for longer than the idle window.
var ErrIdleTimeout = errors.New("poller: idle timeout")
