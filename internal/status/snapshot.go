// internal/status/snapshot.go
package status

import "time"

// Snapshot is the summary of one finished session.
// It contains no logic; it is what the archive stores and the CLI prints.
type Snapshot struct {
	Mode      string
	StartedAt time.Time
	EndedAt   time.Time

	Plan string

	Code  uint16
	Error string

	TelemetryBytes int64
	Rows, Cols     int

	TelemetryPath string
	MatrixPath    string
	ImagePath     string

	// PlotError is set when the plotting post-step failed. It does not
	// affect Code.
	PlotError string
}

// Duration is the wall time of the session.
func (s Snapshot) Duration() time.Duration { return s.EndedAt.Sub(s.StartedAt) }
