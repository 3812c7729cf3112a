// internal/scan/sweep.go
package scan

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/rasterscan/internal/device"
	"github.com/tamzrod/rasterscan/internal/grid"
)

// Axes names the registers the host sweep drives and samples.
type Axes struct {
	Y       device.Register
	X       device.Register
	Counter device.Register
}

// Sample is one raster cell.
type Sample struct {
	Row, Col int
	X, Y     float64
	Count    float64
}

// SweepOptions tunes a host sweep. The zero value is usable.
type SweepOptions struct {
	Logger zerolog.Logger

	// OnSample is called after each authoritative counter read.
	OnSample func(Sample)

	sleep func(time.Duration)
}

// RunHostSweep drives the raster point by point from the host and returns a
// Steps x Steps matrix of counter values.
//
// Both axes are written back to 0V when the sweep ends, including when it
// fails part way. On failure no matrix is returned.
func RunHostSweep(dev device.Device, plan Plan, axes Axes, opts SweepOptions) (m *grid.Matrix, err error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	sleep := opts.sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	log := opts.Logger
	dwell := plan.Dwell()

	defer func() {
		if rerr := ResetAxes(dev, axes); rerr != nil {
			log.Error().Err(rerr).Msg("axis reset failed")
			m = nil
			err = errors.Join(err, rerr)
		}
	}()

	out := grid.NewMatrix(plan.Steps, plan.Steps)

	log.Info().Str("plan", plan.String()).Msg("host sweep started")

	for i := 0; i < plan.Steps; i++ {
		y := plan.Y(i)
		if err := dev.WriteAddress(axes.Y.Address, axes.Y.Type, y); err != nil {
			return nil, fmt.Errorf("scan: write y (row=%d): %w", i, err)
		}

		for j := 0; j < plan.Steps; j++ {
			x := plan.X(j)
			if err := dev.WriteAddress(axes.X.Address, axes.X.Type, x); err != nil {
				return nil, fmt.Errorf("scan: write x (row=%d col=%d): %w", i, j, err)
			}

			// Pre-read flushes the stale count; its value is not kept.
			if _, err := dev.ReadAddress(axes.Counter.Address, axes.Counter.Type); err != nil {
				return nil, fmt.Errorf("scan: pre-read counter (row=%d col=%d): %w", i, j, err)
			}

			sleep(dwell)

			count, err := dev.ReadAddress(axes.Counter.Address, axes.Counter.Type)
			if err != nil {
				return nil, fmt.Errorf("scan: read counter (row=%d col=%d): %w", i, j, err)
			}
			out.Set(i, j, count)

			if opts.OnSample != nil {
				opts.OnSample(Sample{Row: i, Col: j, X: x, Y: y, Count: count})
			}
		}

		log.Debug().Int("row", i).Float64("y", y).Msg("row complete")
	}

	log.Info().Int("rows", plan.Steps).Int("cols", plan.Steps).Msg("host sweep complete")
	return out, nil
}

// ResetAxes writes 0V to both axes. Both writes are attempted even if the first fails.
func ResetAxes(dev device.Device, axes Axes) error {
	yerr := dev.WriteAddress(axes.Y.Address, axes.Y.Type, 0)
	xerr := dev.WriteAddress(axes.X.Address, axes.X.Type, 0)
	if yerr != nil || xerr != nil {
		return fmt.Errorf("scan: reset axes: %w", errors.Join(yerr, xerr))
	}
	return nil
}
