// internal/config/validate.go
package config

import (
	"fmt"
	"strings"

	"github.com/tamzrod/rasterscan/internal/device"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if err := validate(cfg); err != nil {
		return &Error{Err: err}
	}
	return nil
}

func validate(cfg *Config) error {
	// ------------------------------------------------------------
	// DEVICE
	// ------------------------------------------------------------

	switch strings.ToLower(cfg.Device.Transport) {
	case "tcp", "rtu":
	default:
		return fmt.Errorf("device.transport %q must be tcp or rtu", cfg.Device.Transport)
	}
	if cfg.Device.TimeoutMs < 0 {
		return fmt.Errorf("device.timeout_ms must be >= 0")
	}
	if cfg.Device.ConnectAttempts < 1 {
		return fmt.Errorf("device.connect_attempts must be >= 1")
	}

	for name, r := range cfg.Device.Registers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("device.registers: empty register name")
		}
		if _, err := device.ParseDataType(r.Type); err != nil {
			return fmt.Errorf("device.registers[%s]: %v", name, err)
		}
	}

	known := func(name string) bool {
		if _, ok := cfg.Device.Registers[name]; ok {
			return true
		}
		_, ok := device.DefaultRegisters()[name]
		return ok
	}

	// ------------------------------------------------------------
	// SCAN DEFAULTS (only the step count is checked)
	// ------------------------------------------------------------

	if cfg.Scan.Steps != nil && *cfg.Scan.Steps < 2 {
		return fmt.Errorf("scan.steps must be at least 2, got %d", *cfg.Scan.Steps)
	}

	// ------------------------------------------------------------
	// HOST SWEEP REGISTERS
	// ------------------------------------------------------------

	for label, r := range map[string]RegisterConfig{
		"axes.y":       cfg.Axes.Y,
		"axes.x":       cfg.Axes.X,
		"axes.counter": cfg.Axes.Counter,
	} {
		t, err := device.ParseDataType(r.Type)
		if err != nil {
			return fmt.Errorf("%s: %v", label, err)
		}
		if t == device.Byte {
			return fmt.Errorf("%s: byte registers cannot hold a value", label)
		}
	}
	if cfg.Axes.X.Address == cfg.Axes.Y.Address {
		return fmt.Errorf("axes.x and axes.y share address %d", cfg.Axes.X.Address)
	}

	for i, w := range cfg.Axes.CounterSetup {
		if err := validateWrite(w, known); err != nil {
			return fmt.Errorf("axes.counter_setup[%d]: %v", i, err)
		}
	}

	// ------------------------------------------------------------
	// DEVICE SCRIPT REGISTERS
	// ------------------------------------------------------------

	for label, name := range map[string]string{
		"script.x_start":  cfg.Script.XStart,
		"script.y_start":  cfg.Script.YStart,
		"script.x_end":    cfg.Script.XEnd,
		"script.y_end":    cfg.Script.YEnd,
		"script.steps":    cfg.Script.Steps,
		"script.dwell":    cfg.Script.Dwell,
		"script.run_flag": cfg.Script.RunFlag,
	} {
		if !known(name) {
			return fmt.Errorf("%s: unknown register %q", label, name)
		}
	}

	// ------------------------------------------------------------
	// TELEMETRY
	// ------------------------------------------------------------

	t := cfg.Telemetry
	if !known(t.CountRegister) {
		return fmt.Errorf("telemetry.count_register: unknown register %q", t.CountRegister)
	}
	if !known(t.DataRegister) {
		return fmt.Errorf("telemetry.data_register: unknown register %q", t.DataRegister)
	}
	if t.Sentinel == "" {
		return fmt.Errorf("telemetry.sentinel must not be empty")
	}
	if t.IdleTimeoutMs <= 0 {
		return fmt.Errorf("telemetry.idle_timeout_ms must be > 0")
	}
	if t.PollIntervalMs != nil && *t.PollIntervalMs < 0 {
		return fmt.Errorf("telemetry.poll_interval_ms must be >= 0")
	}
	if err := validateWrite(t.Abort, known); err != nil {
		return fmt.Errorf("telemetry.abort: %v", err)
	}

	// ------------------------------------------------------------
	// GRID LAYOUT
	// ------------------------------------------------------------

	if cfg.Layout.ValuesPerLine <= 0 {
		return fmt.Errorf("layout.values_per_line must be > 0")
	}

	// ------------------------------------------------------------
	// OUTPUT
	// ------------------------------------------------------------

	o := cfg.Output
	if o.Delimiter == "" {
		return fmt.Errorf("output.delimiter must not be empty")
	}
	if strings.ContainsAny(o.Delimiter, "\r\n") {
		return fmt.Errorf("output.delimiter must not contain line breaks")
	}
	if o.TelemetryFile == "" || o.MatrixFile == "" {
		return fmt.Errorf("output.telemetry_file and output.matrix_file are required")
	}
	if o.TelemetryFile == o.MatrixFile {
		return fmt.Errorf("output.telemetry_file and output.matrix_file must differ")
	}
	if o.Plot.Width <= 0 || o.Plot.Height <= 0 {
		return fmt.Errorf("output.plot: width and height must be > 0")
	}

	return nil
}

func validateWrite(w WriteConfig, known func(string) bool) error {
	if w.Name != "" {
		if !known(w.Name) {
			return fmt.Errorf("unknown register %q", w.Name)
		}
		return nil
	}
	if w.Address == 0 {
		return fmt.Errorf("name or address required")
	}
	t, err := device.ParseDataType(w.Type)
	if err != nil {
		return err
	}
	if t == device.Byte {
		return fmt.Errorf("byte registers cannot be written as values")
	}
	return nil
}
