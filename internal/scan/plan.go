// internal/scan/plan.go
package scan

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DAC output limits. Values outside are clamped before they reach hardware.
const (
	MinVolts = -5.0
	MaxVolts = 5.0
)

// ErrInvalidPlan is returned for plans that cannot be scanned. No hardware I/O
// happens for a rejected plan.
var ErrInvalidPlan = errors.New("scan: invalid plan")

// Plan is a linear raster over two voltage axes. Immutable once built.
type Plan struct {
	XStart, YStart float64
	XEnd, YEnd     float64
	Steps          int
	DwellMs        float64
}

// NewPlan validates the step count. Every other value passes through unchecked.
func NewPlan(xStart, yStart, xEnd, yEnd float64, steps int, dwellMs float64) (Plan, error) {
	if steps < 2 {
		return Plan{}, fmt.Errorf("%w: steps must be at least 2, got %d", ErrInvalidPlan, steps)
	}
	return Plan{
		XStart:  xStart,
		YStart:  yStart,
		XEnd:    xEnd,
		YEnd:    yEnd,
		Steps:   steps,
		DwellMs: dwellMs,
	}, nil
}

// Validate re-checks the step count of a plan built without NewPlan.
func (p Plan) Validate() error {
	if p.Steps < 2 {
		return fmt.Errorf("%w: steps must be at least 2, got %d", ErrInvalidPlan, p.Steps)
	}
	return nil
}

// XStep is the voltage increment between columns.
func (p Plan) XStep() float64 { return (p.XEnd - p.XStart) / float64(p.Steps-1) }

// YStep is the voltage increment between rows.
func (p Plan) YStep() float64 { return (p.YEnd - p.YStart) / float64(p.Steps-1) }

// X is the clamped X voltage for column col.
func (p Plan) X(col int) float64 { return Clamp(p.XStart + float64(col)*p.XStep()) }

// Y is the clamped Y voltage for row row.
func (p Plan) Y(row int) float64 { return Clamp(p.YStart + float64(row)*p.YStep()) }

// Dwell converts DwellMs into whole seconds plus a nanosecond remainder,
// keeping sub-millisecond precision.
func (p Plan) Dwell() time.Duration {
	sec := int64(p.DwellMs / 1000)
	nsec := int64(math.Round((p.DwellMs - float64(sec)*1000) * 1e6))
	return time.Duration(sec)*time.Second + time.Duration(nsec)
}

func (p Plan) String() string {
	return fmt.Sprintf("x=%g..%g y=%g..%g steps=%d dwell=%gms", p.XStart, p.XEnd, p.YStart, p.YEnd, p.Steps, p.DwellMs)
}

// Clamp limits v to the DAC range.
func Clamp(v float64) float64 {
	if v > MaxVolts {
		return MaxVolts
	}
	if v < MinVolts {
		return MinVolts
	}
	return v
}
