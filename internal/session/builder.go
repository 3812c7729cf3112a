// internal/session/builder.go
package session

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/rasterscan/internal/config"
	"github.com/tamzrod/rasterscan/internal/device"
	dmodbus "github.com/tamzrod/rasterscan/internal/device/modbus"
	"github.com/tamzrod/rasterscan/internal/grid"
	"github.com/tamzrod/rasterscan/internal/plot"
	"github.com/tamzrod/rasterscan/internal/scan"
	"github.com/tamzrod/rasterscan/internal/telemetry"
)

// Assumes config has already passed Validate and Normalize.

// BuildRegisters merges config overrides onto the built-in register table.
func BuildRegisters(c *config.Config) (device.RegisterMap, error) {
	overrides := make(device.RegisterMap, len(c.Device.Registers))
	for name, r := range c.Device.Registers {
		typ, err := device.ParseDataType(r.Type)
		if err != nil {
			return nil, fmt.Errorf("session: register %s: %w", name, err)
		}
		overrides[name] = device.Register{Address: r.Address, Type: typ}
	}
	return device.DefaultRegisters().Merge(overrides), nil
}

// OpenDevice connects to the configured device. The caller owns Close.
func OpenDevice(c *config.Config, regs device.RegisterMap, log zerolog.Logger) (*dmodbus.Client, error) {
	d := c.Device
	return dmodbus.Open(dmodbus.Config{
		Transport:       d.Transport,
		Endpoint:        d.Endpoint,
		UnitID:          d.UnitID,
		Timeout:         time.Duration(d.TimeoutMs) * time.Millisecond,
		BaudRate:        d.BaudRate,
		DataBits:        d.DataBits,
		Parity:          d.Parity,
		StopBits:        d.StopBits,
		ConnectAttempts: uint(d.ConnectAttempts),
		ConnectDelay:    time.Duration(d.ConnectDelayMs) * time.Millisecond,
		Registers:       regs,
		Logger:          log,
	})
}

// BuildPlan returns the configured default plan.
func BuildPlan(c *config.Config) (scan.Plan, error) {
	s := c.Scan
	return scan.NewPlan(*s.XStart, *s.YStart, *s.XEnd, *s.YEnd, *s.Steps, *s.DwellMs)
}

// BuildAxes converts the host sweep registers.
func BuildAxes(c *config.Config) (scan.Axes, error) {
	y, err := buildRegister(c.Axes.Y)
	if err != nil {
		return scan.Axes{}, fmt.Errorf("session: axes.y: %w", err)
	}
	x, err := buildRegister(c.Axes.X)
	if err != nil {
		return scan.Axes{}, fmt.Errorf("session: axes.x: %w", err)
	}
	counter, err := buildRegister(c.Axes.Counter)
	if err != nil {
		return scan.Axes{}, fmt.Errorf("session: axes.counter: %w", err)
	}
	return scan.Axes{Y: y, X: x, Counter: counter}, nil
}

// BuildWrites resolves a write sequence against regs.
func BuildWrites(ws []config.WriteConfig, regs device.RegisterMap) ([]device.Write, error) {
	out := make([]device.Write, 0, len(ws))
	for i, w := range ws {
		dw, err := buildWrite(w, regs)
		if err != nil {
			return nil, fmt.Errorf("session: write %d: %w", i, err)
		}
		out = append(out, dw)
	}
	return out, nil
}

// BuildScriptRegisters names the on-device script's parameter registers.
func BuildScriptRegisters(c *config.Config) scan.ScriptRegisters {
	s := c.Script
	return scan.ScriptRegisters{
		XStart:  s.XStart,
		YStart:  s.YStart,
		XEnd:    s.XEnd,
		YEnd:    s.YEnd,
		Steps:   s.Steps,
		Dwell:   s.Dwell,
		RunFlag: s.RunFlag,
	}
}

// BuildDrainConfig converts the telemetry section.
func BuildDrainConfig(c *config.Config, regs device.RegisterMap, echo io.Writer, log zerolog.Logger) (telemetry.Config, error) {
	t := c.Telemetry
	abort, err := buildWrite(t.Abort, regs)
	if err != nil {
		return telemetry.Config{}, fmt.Errorf("session: telemetry.abort: %w", err)
	}

	var interval time.Duration
	if t.PollIntervalMs != nil {
		interval = time.Duration(*t.PollIntervalMs * float64(time.Millisecond))
	}

	dc := telemetry.Config{
		CountRegister: t.CountRegister,
		DataRegister:  t.DataRegister,
		Sentinel:      t.Sentinel,
		IdleTimeout:   time.Duration(t.IdleTimeoutMs) * time.Millisecond,
		PollInterval:  interval,
		Abort:         abort,
		SpanChunks:    t.SpanChunks,
		Logger:        log,
	}
	if t.Echo {
		dc.Echo = echo
	}
	return dc, nil
}

// BuildLayout is the telemetry grammar of a steps x steps scan. The device
// script emits whole lines only, so steps must be a multiple of
// layout.values_per_line.
func BuildLayout(c *config.Config, steps int) (grid.Layout, error) {
	if steps < 2 {
		return grid.Layout{}, fmt.Errorf("%w: steps must be >= 2, got %d", scan.ErrInvalidPlan, steps)
	}
	vpl := c.Layout.ValuesPerLine
	l, err := grid.LayoutFor(steps, steps, vpl)
	if err != nil {
		return grid.Layout{}, fmt.Errorf("%w: steps %d is not a multiple of layout.values_per_line %d", scan.ErrInvalidPlan, steps, vpl)
	}
	return l, nil
}

// BuildPlotConfig converts the plot section.
func BuildPlotConfig(c *config.Config) plot.Config {
	o := c.Output
	return plot.Config{
		Command:   o.Plot.Command,
		Script:    o.Plot.Script,
		Image:     o.Plot.Image,
		Matrix:    o.MatrixFile,
		Delimiter: o.Delimiter,
		Width:     o.Plot.Width,
		Height:    o.Plot.Height,
	}
}

func buildRegister(r config.RegisterConfig) (device.Register, error) {
	typ, err := device.ParseDataType(r.Type)
	if err != nil {
		return device.Register{}, err
	}
	return device.Register{Address: r.Address, Type: typ}, nil
}

func buildWrite(w config.WriteConfig, regs device.RegisterMap) (device.Write, error) {
	if w.Name != "" {
		return regs.Resolve(device.Write{Name: w.Name, Value: w.Value})
	}
	typ, err := device.ParseDataType(w.Type)
	if err != nil {
		return device.Write{}, err
	}
	return device.Write{Address: w.Address, Type: typ, Value: w.Value}, nil
}
