// internal/config/defaults.go
package config

import "strings"

// Defaults match the bench setup.
const (
	DefaultTransport       = "tcp"
	DefaultUnitID          = 1
	DefaultTimeoutMs       = 1000
	DefaultConnectAttempts = 3
	DefaultConnectDelayMs  = 500

	DefaultXStart  = 0.5
	DefaultYStart  = 0.5
	DefaultXEnd    = -0.5
	DefaultYEnd    = -0.5
	DefaultSteps   = 100
	DefaultDwellMs = 2.0

	DefaultSentinel       = "2D Voltage Scan Completed."
	DefaultIdleTimeoutMs  = 10000
	DefaultPollIntervalMs = 1.0

	DefaultValuesPerLine = 50

	DefaultTelemetryFile = "lua_output.txt"
	DefaultMatrixFile    = "heatmap.csv"
	DefaultDelimiter     = ","
	DefaultPlotCommand   = "gnuplot"
	DefaultPlotScript    = "plot.gp"
	DefaultPlotImage     = "heatmap.png"
	DefaultPlotWidth     = 800
	DefaultPlotHeight    = 600
)

// ApplyDefaults fills every unset field. It never overrides a set value.
func ApplyDefaults(cfg *Config) {
	d := &cfg.Device
	setString(&d.Transport, DefaultTransport)
	if d.UnitID == 0 {
		d.UnitID = DefaultUnitID
	}
	setInt(&d.TimeoutMs, DefaultTimeoutMs)
	setInt(&d.ConnectAttempts, DefaultConnectAttempts)
	setInt(&d.ConnectDelayMs, DefaultConnectDelayMs)
	if strings.EqualFold(d.Transport, "rtu") {
		setInt(&d.BaudRate, 19200)
		setInt(&d.DataBits, 8)
		setString(&d.Parity, "E")
		setInt(&d.StopBits, 1)
	}

	s := &cfg.Scan
	setFloatPtr(&s.XStart, DefaultXStart)
	setFloatPtr(&s.YStart, DefaultYStart)
	setFloatPtr(&s.XEnd, DefaultXEnd)
	setFloatPtr(&s.YEnd, DefaultYEnd)
	setFloatPtr(&s.DwellMs, DefaultDwellMs)
	if s.Steps == nil {
		v := DefaultSteps
		s.Steps = &v
	}

	a := &cfg.Axes
	setRegister(&a.Y, 30008, "float32")
	setRegister(&a.X, 30010, "float32")
	setRegister(&a.Counter, 3136, "uint32")
	if a.CounterSetup == nil {
		a.CounterSetup = []WriteConfig{
			{Name: "DIO16_EF_ENABLE", Value: 0},
			{Name: "DIO16_EF_INDEX", Value: 7},
			{Name: "DIO16_EF_ENABLE", Value: 1},
		}
	}

	sc := &cfg.Script
	setString(&sc.XStart, "USER_RAM0_F32")
	setString(&sc.YStart, "USER_RAM1_F32")
	setString(&sc.XEnd, "USER_RAM2_F32")
	setString(&sc.YEnd, "USER_RAM3_F32")
	setString(&sc.Steps, "USER_RAM0_U16")
	setString(&sc.Dwell, "USER_RAM4_F32")
	setString(&sc.RunFlag, "USER_RAM2_U16")

	t := &cfg.Telemetry
	setString(&t.CountRegister, "LUA_DEBUG_NUM_BYTES")
	setString(&t.DataRegister, "LUA_DEBUG_DATA")
	setString(&t.Sentinel, DefaultSentinel)
	setInt(&t.IdleTimeoutMs, DefaultIdleTimeoutMs)
	setFloatPtr(&t.PollIntervalMs, DefaultPollIntervalMs)
	setBoolPtr(&t.FlushOnArm, true)
	setBoolPtr(&t.ResetAxes, true)
	if t.Abort.Name == "" && t.Abort.Address == 0 {
		t.Abort = WriteConfig{Name: "SYSTEM_REBOOT", Value: 0x4C4A0000}
	}

	setInt(&cfg.Layout.ValuesPerLine, DefaultValuesPerLine)

	o := &cfg.Output
	setString(&o.Dir, ".")
	setString(&o.TelemetryFile, DefaultTelemetryFile)
	setString(&o.MatrixFile, DefaultMatrixFile)
	setString(&o.Delimiter, DefaultDelimiter)

	p := &o.Plot
	setBoolPtr(&p.Enabled, true)
	setString(&p.Command, DefaultPlotCommand)
	setString(&p.Script, DefaultPlotScript)
	setString(&p.Image, DefaultPlotImage)
	setInt(&p.Width, DefaultPlotWidth)
	setInt(&p.Height, DefaultPlotHeight)
}

func setString(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if *dst == 0 {
		*dst = v
	}
}

func setFloatPtr(dst **float64, v float64) {
	if *dst == nil {
		*dst = &v
	}
}

func setBoolPtr(dst **bool, v bool) {
	if *dst == nil {
		*dst = &v
	}
}

func setRegister(dst *RegisterConfig, addr uint16, typ string) {
	if dst.Address == 0 && dst.Type == "" {
		dst.Address = addr
		dst.Type = typ
	}
}
