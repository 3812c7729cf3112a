// internal/status/encode.go
package status

import (
	"errors"

	"github.com/tamzrod/rasterscan/internal/device"
	"github.com/tamzrod/rasterscan/internal/grid"
	"github.com/tamzrod/rasterscan/internal/scan"
	"github.com/tamzrod/rasterscan/internal/telemetry"
)

// FileError marks a failure to open or write an output file.
type FileError interface {
	error
	FilePath() string
}

// ConfigError marks a config load or validation failure.
type ConfigError interface {
	error
	ConfigPath() string
}

// Classify maps an error to an outcome code without assuming a single
// concrete type. Timeouts win over transport errors so an abort-write
// failure after a timeout still reads as a timeout.
func Classify(err error) uint16 {
	if err == nil {
		return CodeOK
	}

	var (
		pe *grid.ParseError
		te *device.TransportError
		re *telemetry.ReadError
		fe FileError
		ce ConfigError
	)

	switch {
	case errors.Is(err, scan.ErrInvalidPlan):
		return CodeInvalidPlan
	case errors.Is(err, telemetry.ErrTimedOut):
		return CodeTimedOut
	case errors.As(err, &pe):
		return CodeParse
	case errors.As(err, &fe):
		return CodeFileIO
	case errors.As(err, &ce):
		return CodeConfig
	case errors.As(err, &te), errors.As(err, &re):
		return CodeTransport
	}

	return CodeGeneric
}

// Record fills the outcome fields of s from err.
func (s *Snapshot) Record(err error) {
	s.Code = Classify(err)
	if err != nil {
		s.Error = err.Error()
	}
}
