// internal/device/device.go
package device

// Device is the register interface of one DAQ session.
// Implementations are not safe for concurrent use: a scan owns the
// device exclusively and drives it from a single goroutine.
type Device interface {
	WriteName(name string, value float64) error
	WriteAddress(addr uint16, typ DataType, value float64) error
	ReadName(name string) (float64, error)
	ReadAddress(addr uint16, typ DataType) (float64, error)

	// ReadByteArray reads exactly n bytes from a byte-stream register.
	// On failure the returned error is a *TransportError whose ErrorAddress
	// carries the address reported by the device, if any.
	ReadByteArray(name string, n int) ([]byte, error)
}

// Apply performs a sequence of writes in order and stops at the first failure.
func Apply(d Device, writes []Write) error {
	for _, w := range writes {
		var err error
		if w.Name != "" {
			err = d.WriteName(w.Name, w.Value)
		} else {
			err = d.WriteAddress(w.Address, w.Type, w.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
