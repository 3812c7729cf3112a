// internal/config/config.go
package config

type Config struct {
	Device    DeviceConfig    `yaml:"device"`
	Scan      ScanConfig      `yaml:"scan"`
	Axes      AxesConfig      `yaml:"axes"`
	Script    ScriptConfig    `yaml:"script"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Layout    LayoutConfig    `yaml:"layout"`
	Output    OutputConfig    `yaml:"output"`
	Archive   ArchiveConfig   `yaml:"archive"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	Transport string `yaml:"transport"` // tcp | rtu
	Endpoint  string `yaml:"endpoint"`  // host:port, or serial port for rtu
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`

	// RTU only
	BaudRate int    `yaml:"baud_rate"`
	DataBits int    `yaml:"data_bits"`
	Parity   string `yaml:"parity"`
	StopBits int    `yaml:"stop_bits"`

	ConnectAttempts int `yaml:"connect_attempts"`
	ConnectDelayMs  int `yaml:"connect_delay_ms"`

	// Added to (or replacing entries of) the built-in register table.
	Registers map[string]RegisterConfig `yaml:"registers"`
}

type RegisterConfig struct {
	Address uint16 `yaml:"address"`
	Type    string `yaml:"type"`
}

// WriteConfig is one register write. Name wins over Address/Type.
type WriteConfig struct {
	Name    string  `yaml:"name"`
	Address uint16  `yaml:"address"`
	Type    string  `yaml:"type"`
	Value   float64 `yaml:"value"`
}

// ---- SCAN (default plan; CLI flags override) ----

type ScanConfig struct {
	XStart  *float64 `yaml:"x_start"`
	YStart  *float64 `yaml:"y_start"`
	XEnd    *float64 `yaml:"x_end"`
	YEnd    *float64 `yaml:"y_end"`
	Steps   *int     `yaml:"steps"`
	DwellMs *float64 `yaml:"dwell_ms"`
}

// ---- HOST SWEEP ----

type AxesConfig struct {
	Y       RegisterConfig `yaml:"y"`
	X       RegisterConfig `yaml:"x"`
	Counter RegisterConfig `yaml:"counter"`

	// Run in order before a host sweep.
	CounterSetup []WriteConfig `yaml:"counter_setup"`
}

// ---- DEVICE SCRIPT ----

type ScriptConfig struct {
	XStart  string `yaml:"x_start"`
	YStart  string `yaml:"y_start"`
	XEnd    string `yaml:"x_end"`
	YEnd    string `yaml:"y_end"`
	Steps   string `yaml:"steps"`
	Dwell   string `yaml:"dwell"`
	RunFlag string `yaml:"run_flag"`
}

// ---- TELEMETRY ----

type TelemetryConfig struct {
	CountRegister  string      `yaml:"count_register"`
	DataRegister   string      `yaml:"data_register"`
	Sentinel       string      `yaml:"sentinel"`
	IdleTimeoutMs  int         `yaml:"idle_timeout_ms"`
	PollIntervalMs *float64    `yaml:"poll_interval_ms"`
	SpanChunks     bool        `yaml:"span_chunks"`
	FlushOnArm     *bool       `yaml:"flush_on_arm"`
	ResetAxes      *bool       `yaml:"reset_axes"` // 0V after a drain that did not time out
	Echo           bool        `yaml:"echo"`
	Abort          WriteConfig `yaml:"abort"`
}

// ---- GRID ----

// Rows and lines per row follow the plan's steps.
type LayoutConfig struct {
	ValuesPerLine int `yaml:"values_per_line"`
}

// ---- OUTPUT ----

type OutputConfig struct {
	Dir           string     `yaml:"dir"`
	TelemetryFile string     `yaml:"telemetry_file"`
	MatrixFile    string     `yaml:"matrix_file"`
	Delimiter     string     `yaml:"delimiter"`
	HostTelemetry bool       `yaml:"host_telemetry"` // also write host sweeps in telemetry format
	Plot          PlotConfig `yaml:"plot"`
}

type PlotConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Command string `yaml:"command"`
	Script  string `yaml:"script"`
	Image   string `yaml:"image"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
}

// ---- ARCHIVE ----

type ArchiveConfig struct {
	Path string `yaml:"path"` // empty disables the archive
}
