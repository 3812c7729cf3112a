// internal/status/encode_test.go
package status

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tamzrod/rasterscan/internal/device"
	"github.com/tamzrod/rasterscan/internal/grid"
	"github.com/tamzrod/rasterscan/internal/scan"
	"github.com/tamzrod/rasterscan/internal/telemetry"
)

type fileErr struct{ path string }

func (e fileErr) Error() string    { return "cannot open " + e.path }
func (e fileErr) FilePath() string { return e.path }

func TestClassify(t *testing.T) {
	transport := &device.TransportError{Op: "read", Address: 1, Err: errors.New("eof")}

	cases := []struct {
		name string
		err  error
		want uint16
	}{
		{"nil", nil, CodeOK},
		{"plan", fmt.Errorf("wrap: %w", scan.ErrInvalidPlan), CodeInvalidPlan},
		{"timeout", telemetry.ErrTimedOut, CodeTimedOut},
		{"timeout+abort failure", errors.Join(telemetry.ErrTimedOut, transport), CodeTimedOut},
		{"parse", &grid.ParseError{Reason: "x"}, CodeParse},
		{"transport", fmt.Errorf("scan: %w", transport), CodeTransport},
		{"read", &telemetry.ReadError{Register: "R", Err: transport}, CodeTransport},
		{"file", fmt.Errorf("session: %w", fileErr{path: "/x"}), CodeFileIO},
		{"other", errors.New("?"), CodeGeneric},
	}

	for _, c := range cases {
		if got := Classify(c.err); got != c.want {
			t.Fatalf("%s: got=%d (%s) want=%d (%s)", c.name, got, Name(got), c.want, Name(c.want))
		}
	}
}

func TestSnapshotRecord(t *testing.T) {
	var s Snapshot
	s.Record(telemetry.ErrTimedOut)
	if s.Code != CodeTimedOut || s.Error == "" {
		t.Fatalf("unexpected snapshot: %+v", s)
	}

	var ok Snapshot
	ok.Record(nil)
	if ok.Code != CodeOK || ok.Error != "" {
		t.Fatalf("unexpected snapshot: %+v", ok)
	}
}
