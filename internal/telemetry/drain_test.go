// internal/telemetry/drain_test.go
package telemetry

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/rasterscan/internal/device"
)

const sentinel = "2D Voltage Scan Completed."

// ---- fake debug channel ----

// fakeSource serves a script of polls: a nil entry is a zero byte count,
// anything else is one pending chunk.
type fakeSource struct {
	script [][]byte
	pos    int

	pending []byte

	countErr error
	bytesErr error

	byteReads int
	aborts    []device.Write
}

func (f *fakeSource) ReadName(name string) (float64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	if f.pos >= len(f.script) {
		return 0, nil
	}
	f.pending = f.script[f.pos]
	f.pos++
	return float64(len(f.pending)), nil
}

func (f *fakeSource) ReadByteArray(name string, n int) ([]byte, error) {
	f.byteReads++
	if f.bytesErr != nil {
		return nil, f.bytesErr
	}
	out := f.pending[:n]
	f.pending = nil
	return out, nil
}

func (f *fakeSource) WriteAddress(addr uint16, typ device.DataType, v float64) error {
	f.aborts = append(f.aborts, device.Write{Address: addr, Type: typ, Value: v})
	return nil
}

func testConfig() Config {
	return Config{
		CountRegister: device.LuaDebugNumBytes,
		DataRegister:  device.LuaDebugData,
		Sentinel:      sentinel,
		IdleTimeout:   50 * time.Millisecond,
		PollInterval:  time.Millisecond,
		Abort:         device.Write{Address: 61998, Type: device.Uint32, Value: device.RebootKey},
	}
}

func newTestDrainer(t *testing.T, cfg Config, src Source) *Drainer {
	t.Helper()
	d, err := New(cfg, src)
	require.NoError(t, err)
	return d
}

// ---- tests ----

func TestNew_Validation(t *testing.T) {
	cfg := testConfig()
	cfg.Sentinel = ""
	_, err := New(cfg, &fakeSource{})
	assert.Error(t, err)

	cfg = testConfig()
	cfg.IdleTimeout = 0
	_, err = New(cfg, &fakeSource{})
	assert.Error(t, err)

	_, err = New(testConfig(), nil)
	assert.Error(t, err)
}

func TestDrain_CompletesOnSentinel(t *testing.T) {
	src := &fakeSource{script: [][]byte{
		nil,
		[]byte("1 2 3\n"),
		nil, nil,
		[]byte("4 5 6\n" + sentinel + "\n"),
		[]byte("never read"),
	}}
	var sink bytes.Buffer

	res, err := newTestDrainer(t, testConfig(), src).Drain(&sink)
	require.NoError(t, err)
	assert.Equal(t, Completed, res.Outcome)
	assert.Equal(t, 2, res.Chunks)
	assert.Equal(t, "1 2 3\n4 5 6\n"+sentinel+"\n", sink.String())
	assert.Equal(t, int64(sink.Len()), res.Bytes)
	assert.Equal(t, 2, src.byteReads)
	assert.Empty(t, src.aborts)
}

func TestDrain_SentinelInFirstChunkStopsImmediately(t *testing.T) {
	src := &fakeSource{script: [][]byte{
		[]byte(sentinel),
		[]byte("more"),
		[]byte("and more"),
	}}

	res, err := newTestDrainer(t, testConfig(), src).Drain(&bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Chunks)
	assert.Equal(t, 1, src.pos, "count register polled after sentinel")
}

func TestDrain_TimesOutAndAbortsOnce(t *testing.T) {
	src := &fakeSource{script: [][]byte{[]byte("partial 1 2\n")}}
	var sink bytes.Buffer

	start := time.Now()
	res, err := newTestDrainer(t, testConfig(), src).Drain(&sink)

	assert.True(t, errors.Is(err, ErrTimedOut))
	assert.Equal(t, TimedOut, res.Outcome)
	assert.True(t, res.Aborted)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	require.Len(t, src.aborts, 1)
	assert.Equal(t, device.Write{Address: 61998, Type: device.Uint32, Value: device.RebootKey}, src.aborts[0])
	assert.Equal(t, "partial 1 2\n", sink.String(), "partial telemetry must be kept")
}

func TestDrain_DataResetsIdleWindow(t *testing.T) {
	cfg := testConfig()
	cfg.IdleTimeout = 200 * time.Millisecond
	cfg.PollInterval = 10 * time.Millisecond

	var script [][]byte
	for i := 0; i < 6; i++ {
		script = append(script, nil, nil, nil, nil, nil, []byte("x\n"))
	}
	script = append(script, []byte(sentinel))
	src := &fakeSource{script: script}

	start := time.Now()
	res, err := newTestDrainer(t, cfg, src).Drain(&bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, Completed, res.Outcome)
	assert.Greater(t, time.Since(start), cfg.IdleTimeout)
	assert.Empty(t, src.aborts)
}

func TestDrain_SplitSentinelNotMatchedPerChunk(t *testing.T) {
	src := &fakeSource{script: [][]byte{
		[]byte("data\n2D Voltage Sc"),
		[]byte("an Completed.\n"),
	}}
	var sink bytes.Buffer

	res, err := newTestDrainer(t, testConfig(), src).Drain(&sink)
	assert.True(t, errors.Is(err, ErrTimedOut))
	assert.Equal(t, TimedOut, res.Outcome)
	assert.Contains(t, sink.String(), sentinel, "bytes are still persisted verbatim")
}

func TestDrain_SplitSentinelMatchedWithSpanChunks(t *testing.T) {
	cfg := testConfig()
	cfg.SpanChunks = true
	src := &fakeSource{script: [][]byte{
		[]byte("data\n2D Vol"),
		[]byte("tage Sc"),
		[]byte("an Completed.\n"),
	}}

	res, err := newTestDrainer(t, cfg, src).Drain(&bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, Completed, res.Outcome)
	assert.Equal(t, 3, res.Chunks)
}

func TestDrain_CountReadErrorNotRetried(t *testing.T) {
	boom := errors.New("link down")
	src := &fakeSource{countErr: boom}

	res, err := newTestDrainer(t, testConfig(), src).Drain(&bytes.Buffer{})
	assert.Equal(t, ReadFailed, res.Outcome)
	assert.True(t, errors.Is(err, boom))

	var re *ReadError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, device.LuaDebugNumBytes, re.Register)
	assert.Empty(t, src.aborts)
}

func TestDrain_ByteReadError(t *testing.T) {
	src := &fakeSource{script: [][]byte{[]byte("abc")}, bytesErr: errors.New("crc")}

	res, err := newTestDrainer(t, testConfig(), src).Drain(&bytes.Buffer{})
	assert.Equal(t, ReadFailed, res.Outcome)

	var re *ReadError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, device.LuaDebugData, re.Register)
	assert.Equal(t, 1, src.byteReads)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestDrain_SinkFailure(t *testing.T) {
	src := &fakeSource{script: [][]byte{[]byte("abc")}}

	res, err := newTestDrainer(t, testConfig(), src).Drain(failingWriter{})
	assert.Equal(t, SinkFailed, res.Outcome)

	var se *SinkError
	assert.True(t, errors.As(err, &se))
}

func TestDrain_PersistsControlBytesAndEchoes(t *testing.T) {
	raw := []byte("a\x00b\r\n\x1b[0m" + sentinel)
	src := &fakeSource{script: [][]byte{raw}}
	cfg := testConfig()
	var echo, sink bytes.Buffer
	cfg.Echo = &echo

	_, err := newTestDrainer(t, cfg, src).Drain(&sink)
	require.NoError(t, err)
	assert.Equal(t, raw, sink.Bytes())
	assert.Equal(t, raw, echo.Bytes())
}

func TestFlush_DiscardsPending(t *testing.T) {
	src := &fakeSource{script: [][]byte{[]byte("stale output"), []byte("fresh")}}
	d := newTestDrainer(t, testConfig(), src)

	n, err := d.Flush()
	require.NoError(t, err)
	assert.Equal(t, len("stale output"), n)

	var sink bytes.Buffer
	src.script = append(src.script, []byte(sentinel))
	_, err = d.Drain(&sink)
	require.NoError(t, err)
	assert.Equal(t, "fresh"+sentinel, sink.String())
}

func TestFlush_Empty(t *testing.T) {
	n, err := newTestDrainer(t, testConfig(), &fakeSource{}).Flush()
	require.NoError(t, err)
	assert.Zero(t, n)
}
