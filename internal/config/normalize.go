// internal/config/normalize.go
package config

import (
	"path/filepath"
	"strings"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	cfg.Device.Transport = strings.ToLower(cfg.Device.Transport)
	cfg.Device.Parity = strings.ToUpper(cfg.Device.Parity)

	for name, r := range cfg.Device.Registers {
		r.Type = strings.ToLower(strings.TrimSpace(r.Type))
		cfg.Device.Registers[name] = r
	}

	// ------------------------------------------------------------
	// OUTPUT PATHS
	// ------------------------------------------------------------

	// Relative file names live under output.dir.
	o := &cfg.Output
	o.TelemetryFile = under(o.Dir, o.TelemetryFile)
	o.MatrixFile = under(o.Dir, o.MatrixFile)
	o.Plot.Script = under(o.Dir, o.Plot.Script)
	o.Plot.Image = under(o.Dir, o.Plot.Image)
}

func under(dir, name string) string {
	if dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}
