// internal/device/registers.go
package device

import (
	"fmt"
	"sort"
)

// Names of registers used by the scan protocol.
const (
	LuaRun           = "LUA_RUN"
	LuaDebugNumBytes = "LUA_DEBUG_NUM_BYTES"
	LuaDebugData     = "LUA_DEBUG_DATA"
	SystemReboot     = "SYSTEM_REBOOT"
)

// RebootKey is the value the device requires on SYSTEM_REBOOT before it acts.
const RebootKey = 0x4C4A0000

// RegisterMap resolves register names to addresses.
type RegisterMap map[string]Register

// DefaultRegisters returns the built-in register table for T-series devices.
func DefaultRegisters() RegisterMap {
	m := RegisterMap{
		LuaRun:           {Address: 6000, Type: Uint32},
		LuaDebugNumBytes: {Address: 6910, Type: Uint32},
		LuaDebugData:     {Address: 6210, Type: Byte},
		SystemReboot:     {Address: 61998, Type: Uint32},

		"DIO16_EF_ENABLE": {Address: 44032, Type: Uint32},
		"DIO16_EF_INDEX":  {Address: 44132, Type: Uint32},
		"DIO16_EF_READ_A": {Address: 3032, Type: Uint32},

		"TDAC4": {Address: 30008, Type: Float32},
		"TDAC5": {Address: 30010, Type: Float32},
	}

	// USER_RAM scratch area.
	for i := 0; i < 8; i++ {
		m[fmt.Sprintf("USER_RAM%d_F32", i)] = Register{Address: uint16(46000 + 2*i), Type: Float32}
	}
	for i := 0; i < 4; i++ {
		m[fmt.Sprintf("USER_RAM%d_U16", i)] = Register{Address: uint16(46180 + i), Type: Uint16}
	}

	return m
}

// Lookup resolves one name.
func (m RegisterMap) Lookup(name string) (Register, error) {
	r, ok := m[name]
	if !ok {
		return Register{}, fmt.Errorf("device: unknown register %q", name)
	}
	return r, nil
}

// Merge returns a copy of m with overrides applied on top.
func (m RegisterMap) Merge(overrides RegisterMap) RegisterMap {
	out := make(RegisterMap, len(m)+len(overrides))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Names returns the register names in sorted order.
func (m RegisterMap) Names() []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Resolve fills the address and type of w from the map when w is named.
func (m RegisterMap) Resolve(w Write) (Write, error) {
	if w.Name == "" {
		return w, nil
	}
	r, err := m.Lookup(w.Name)
	if err != nil {
		return Write{}, err
	}
	w.Address = r.Address
	w.Type = r.Type
	return w, nil
}
