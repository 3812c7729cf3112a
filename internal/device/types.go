// internal/device/types.go
package device

import (
	"fmt"
	"strings"
)

// DataType is the on-wire type of a register.
// Numeric values follow the vendor's type codes.
type DataType uint8

const (
	Uint16  DataType = 0
	Uint32  DataType = 1
	Int32   DataType = 2
	Float32 DataType = 3
	Byte    DataType = 99
)

// Words returns the number of 16-bit Modbus registers a value occupies.
// Byte registers are streams and report 0.
func (t DataType) Words() int {
	switch t {
	case Uint16:
		return 1
	case Uint32, Int32, Float32:
		return 2
	default:
		return 0
	}
}

func (t DataType) String() string {
	switch t {
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Int32:
		return "int32"
	case Float32:
		return "float32"
	case Byte:
		return "byte"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// ParseDataType accepts the names used in config files.
func ParseDataType(s string) (DataType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uint16", "u16":
		return Uint16, nil
	case "uint32", "u32":
		return Uint32, nil
	case "int32", "i32":
		return Int32, nil
	case "float32", "f32":
		return Float32, nil
	case "byte":
		return Byte, nil
	default:
		return 0, fmt.Errorf("device: unknown data type %q", s)
	}
}

// Register is one addressable location on the device.
type Register struct {
	Address uint16
	Type    DataType
}

// Write is a single register write, used for setup sequences and the abort write.
type Write struct {
	Name    string // resolved through the register map when Address is unset
	Address uint16
	Type    DataType
	Value   float64
}
