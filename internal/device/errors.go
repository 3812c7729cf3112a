// internal/device/errors.go
package device

import "fmt"

// NoErrorAddress is reported when the device did not identify a failing address.
const NoErrorAddress = -1

// TransportError is any failed register access.
// It is surfaced as-is; nothing at this layer retries.
type TransportError struct {
	Op       string // "read", "write", "read-bytes"
	Register string // register name, empty for raw addresses
	Address  uint16

	// ErrorAddress is the address the device blamed, or NoErrorAddress.
	ErrorAddress int

	Err error
}

func (e *TransportError) Error() string {
	if e.Register != "" {
		return fmt.Sprintf("device: %s %s (addr=%d): %v", e.Op, e.Register, e.Address, e.Err)
	}
	return fmt.Sprintf("device: %s addr=%d: %v", e.Op, e.Address, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ErrorCode lets status classification pick up a device-reported address.
func (e *TransportError) ErrorCode() uint16 {
	if e.ErrorAddress > 0 && e.ErrorAddress <= 0xFFFF {
		return uint16(e.ErrorAddress)
	}
	return 0
}
