// internal/device/codec.go
package device

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encode packs a value into big-endian register bytes.
// Integer types truncate toward zero, matching the vendor library.
func Encode(typ DataType, v float64) ([]byte, error) {
	switch typ {
	case Uint16:
		b := make([]byte, 2)
		binary.BigEndian.PutUint16(b, uint16(v))
		return b, nil
	case Uint32:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(v))
		return b, nil
	case Int32:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, uint32(int32(v)))
		return b, nil
	case Float32:
		b := make([]byte, 4)
		binary.BigEndian.PutUint32(b, math.Float32bits(float32(v)))
		return b, nil
	default:
		return nil, fmt.Errorf("device: cannot encode %s", typ)
	}
}

// Decode unpacks big-endian register bytes.
func Decode(typ DataType, b []byte) (float64, error) {
	need := typ.Words() * 2
	if need == 0 {
		return 0, fmt.Errorf("device: cannot decode %s", typ)
	}
	if len(b) < need {
		return 0, fmt.Errorf("device: short %s payload: got=%d want=%d", typ, len(b), need)
	}

	switch typ {
	case Uint16:
		return float64(binary.BigEndian.Uint16(b)), nil
	case Uint32:
		return float64(binary.BigEndian.Uint32(b)), nil
	case Int32:
		return float64(int32(binary.BigEndian.Uint32(b))), nil
	default:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(b))), nil
	}
}
