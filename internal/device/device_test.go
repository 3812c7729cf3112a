// internal/device/device_test.go
package device

import (
	"errors"
	"testing"
)

type recordingDevice struct {
	named  []string
	addrs  []uint16
	failOn string
	values []float64
}

func (d *recordingDevice) WriteName(name string, v float64) error {
	if name == d.failOn {
		return errors.New("boom")
	}
	d.named = append(d.named, name)
	d.values = append(d.values, v)
	return nil
}

func (d *recordingDevice) WriteAddress(addr uint16, typ DataType, v float64) error {
	d.addrs = append(d.addrs, addr)
	d.values = append(d.values, v)
	return nil
}

func (d *recordingDevice) ReadName(string) (float64, error)              { return 0, nil }
func (d *recordingDevice) ReadAddress(uint16, DataType) (float64, error) { return 0, nil }
func (d *recordingDevice) ReadByteArray(string, int) ([]byte, error)     { return nil, nil }

func TestApply_InOrderAndStopsOnFailure(t *testing.T) {
	d := &recordingDevice{failOn: "B"}

	err := Apply(d, []Write{
		{Name: "A", Value: 0},
		{Address: 100, Type: Uint32, Value: 7},
		{Name: "B", Value: 1},
		{Name: "C", Value: 2},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(d.named) != 1 || d.named[0] != "A" {
		t.Fatalf("named writes = %v, want [A]", d.named)
	}
	if len(d.addrs) != 1 || d.addrs[0] != 100 {
		t.Fatalf("addressed writes = %v, want [100]", d.addrs)
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	cases := []struct {
		typ DataType
		v   float64
	}{
		{Uint16, 100},
		{Uint32, 1279918080},
		{Int32, -42},
		{Float32, -0.75},
	}
	for _, c := range cases {
		b, err := Encode(c.typ, c.v)
		if err != nil {
			t.Fatalf("%s encode: %v", c.typ, err)
		}
		if len(b) != c.typ.Words()*2 {
			t.Fatalf("%s: %d bytes, want %d", c.typ, len(b), c.typ.Words()*2)
		}
		got, err := Decode(c.typ, b)
		if err != nil {
			t.Fatalf("%s decode: %v", c.typ, err)
		}
		if got != c.v {
			t.Fatalf("%s: got=%v want=%v", c.typ, got, c.v)
		}
	}
}

func TestCodec_RebootKeyBytes(t *testing.T) {
	b, err := Encode(Uint32, RebootKey)
	if err != nil {
		t.Fatal(err)
	}
	if string(b[:2]) != "LJ" || b[2] != 0 || b[3] != 0 {
		t.Fatalf("unexpected reboot key encoding % x", b)
	}
}

func TestDecode_Short(t *testing.T) {
	if _, err := Decode(Float32, []byte{1, 2}); err == nil {
		t.Fatalf("expected short payload error")
	}
	if _, err := Encode(Byte, 1); err == nil {
		t.Fatalf("byte registers must not encode as values")
	}
}

func TestRegisterMap_MergeAndResolve(t *testing.T) {
	m := DefaultRegisters().Merge(RegisterMap{
		"USER_RAM0_F32": {Address: 1, Type: Uint16},
		"CUSTOM":        {Address: 2, Type: Float32},
	})

	r, err := m.Lookup("USER_RAM0_F32")
	if err != nil || r.Address != 1 {
		t.Fatalf("override not applied: %+v err=%v", r, err)
	}
	if _, err := DefaultRegisters().Lookup("CUSTOM"); err == nil {
		t.Fatalf("merge must not mutate the base map")
	}

	w, err := m.Resolve(Write{Name: "CUSTOM", Value: 3})
	if err != nil {
		t.Fatal(err)
	}
	if w.Address != 2 || w.Type != Float32 {
		t.Fatalf("resolve: %+v", w)
	}
}

func TestParseDataType(t *testing.T) {
	for in, want := range map[string]DataType{"F32": Float32, "uint32": Uint32, "byte": Byte, " u16 ": Uint16} {
		got, err := ParseDataType(in)
		if err != nil || got != want {
			t.Fatalf("ParseDataType(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseDataType("double"); err == nil {
		t.Fatalf("expected error")
	}
}
