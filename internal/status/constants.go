// internal/status/constants.go
package status

// Session outcome codes. These values are persisted in the archive and
// returned as the CLI exit code; they MUST NOT be renumbered.

// ---- SUCCESS ----

// CodeOK is a session that produced its matrix.
const CodeOK uint16 = 0

// ---- FAILURES ----

// CodeGeneric is any failure without a more specific class.
const CodeGeneric uint16 = 1

// CodeInvalidPlan is a plan rejected before any hardware I/O.
const CodeInvalidPlan uint16 = 2

// CodeTransport is a failed register read or write.
const CodeTransport uint16 = 3

// CodeTimedOut is a telemetry drain that exceeded its idle window.
const CodeTimedOut uint16 = 4

// CodeParse is a telemetry stream that could not be reconstructed.
const CodeParse uint16 = 5

// CodeFileIO is an output file that could not be opened or written.
const CodeFileIO uint16 = 6

// CodeConfig is a config file that failed to load or validate.
const CodeConfig uint16 = 7

// ---- MODES ----

const (
	ModeHost    = "host"
	ModeDevice  = "device"
	ModeOffline = "parse"
)

// Name returns a short label for a code.
func Name(code uint16) string {
	switch code {
	case CodeOK:
		return "ok"
	case CodeInvalidPlan:
		return "invalid_plan"
	case CodeTransport:
		return "transport_error"
	case CodeTimedOut:
		return "timed_out"
	case CodeParse:
		return "parse_error"
	case CodeFileIO:
		return "file_io_error"
	case CodeConfig:
		return "config_error"
	default:
		return "error"
	}
}
