// internal/device/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/avast/retry-go"
	"github.com/goburrow/modbus"
	"github.com/rs/zerolog"

	"github.com/tamzrod/rasterscan/internal/device"
)

// maxReadWords is the largest register count one read request may carry.
const maxReadWords = 125

// registerClient is the subset of modbus.Client the device adapter uses.
type registerClient interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// Client implements device.Device over Modbus TCP or RTU.
// One Client is one device session; it is not safe for concurrent use.
type Client struct {
	client registerClient
	closer io.Closer
	regs   device.RegisterMap
}

var _ device.Device = (*Client)(nil)

// Config is minimal transport config.
type Config struct {
	Transport string // "tcp" or "rtu"
	Endpoint  string // host:port for tcp, serial port path for rtu
	UnitID    uint8
	Timeout   time.Duration

	// RTU only.
	BaudRate int
	DataBits int
	Parity   string
	StopBits int

	ConnectAttempts uint
	ConnectDelay    time.Duration

	Registers device.RegisterMap
	Logger    zerolog.Logger
}

type connector interface {
	modbus.ClientHandler
	Connect() error
	Close() error
}

// Open connects to the device. The connect step is attempted up to
// ConnectAttempts times; register traffic afterwards is never retried.
func Open(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("device modbus: endpoint required")
	}
	if cfg.ConnectAttempts == 0 {
		cfg.ConnectAttempts = 1
	}
	if cfg.Registers == nil {
		cfg.Registers = device.DefaultRegisters()
	}

	var h connector
	switch cfg.Transport {
	case "", "tcp":
		th := modbus.NewTCPClientHandler(cfg.Endpoint)
		th.Timeout = cfg.Timeout
		th.SlaveId = cfg.UnitID
		h = th
	case "rtu":
		rh := modbus.NewRTUClientHandler(cfg.Endpoint)
		rh.Timeout = cfg.Timeout
		rh.SlaveId = cfg.UnitID
		rh.BaudRate = cfg.BaudRate
		rh.DataBits = cfg.DataBits
		rh.Parity = cfg.Parity
		rh.StopBits = cfg.StopBits
		h = rh
	default:
		return nil, fmt.Errorf("device modbus: unsupported transport %q", cfg.Transport)
	}

	log := cfg.Logger
	err := retry.Do(
		h.Connect,
		retry.Attempts(cfg.ConnectAttempts),
		retry.Delay(cfg.ConnectDelay),
		retry.DelayType(retry.FixedDelay),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Uint("attempt", n+1).Str("endpoint", cfg.Endpoint).Msg("device connect failed")
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("device modbus: connect %s: %w", cfg.Endpoint, err)
	}

	log.Info().Str("endpoint", cfg.Endpoint).Str("transport", cfg.Transport).Msg("device connected")

	return &Client{
		client: modbus.NewClient(h),
		closer: h,
		regs:   cfg.Registers,
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// ---- device.Device ----

func (c *Client) WriteName(name string, value float64) error {
	r, err := c.regs.Lookup(name)
	if err != nil {
		return &device.TransportError{Op: "write", Register: name, ErrorAddress: device.NoErrorAddress, Err: err}
	}
	if err := c.write(r.Address, r.Type, value); err != nil {
		return &device.TransportError{Op: "write", Register: name, Address: r.Address, ErrorAddress: errorAddress(err, r.Address), Err: err}
	}
	return nil
}

func (c *Client) WriteAddress(addr uint16, typ device.DataType, value float64) error {
	if err := c.write(addr, typ, value); err != nil {
		return &device.TransportError{Op: "write", Address: addr, ErrorAddress: errorAddress(err, addr), Err: err}
	}
	return nil
}

func (c *Client) ReadName(name string) (float64, error) {
	r, err := c.regs.Lookup(name)
	if err != nil {
		return 0, &device.TransportError{Op: "read", Register: name, ErrorAddress: device.NoErrorAddress, Err: err}
	}
	v, err := c.read(r.Address, r.Type)
	if err != nil {
		return 0, &device.TransportError{Op: "read", Register: name, Address: r.Address, ErrorAddress: errorAddress(err, r.Address), Err: err}
	}
	return v, nil
}

func (c *Client) ReadAddress(addr uint16, typ device.DataType) (float64, error) {
	v, err := c.read(addr, typ)
	if err != nil {
		return 0, &device.TransportError{Op: "read", Address: addr, ErrorAddress: errorAddress(err, addr), Err: err}
	}
	return v, nil
}

// ReadByteArray reads n bytes from a byte-stream register in frames of at
// most maxReadWords registers. An odd trailing byte is padding and dropped.
func (c *Client) ReadByteArray(name string, n int) ([]byte, error) {
	r, err := c.regs.Lookup(name)
	if err != nil {
		return nil, &device.TransportError{Op: "read-bytes", Register: name, ErrorAddress: device.NoErrorAddress, Err: err}
	}
	if r.Type != device.Byte {
		return nil, &device.TransportError{
			Op: "read-bytes", Register: name, Address: r.Address, ErrorAddress: device.NoErrorAddress,
			Err: fmt.Errorf("register type is %s, want byte", r.Type),
		}
	}
	if n <= 0 {
		return nil, nil
	}

	out := make([]byte, 0, n)
	for len(out) < n {
		take := n - len(out)
		if take > maxReadWords*2 {
			take = maxReadWords * 2
		}
		qty := uint16((take + 1) / 2)

		p, err := c.client.ReadHoldingRegisters(r.Address, qty)
		if err != nil {
			return nil, &device.TransportError{Op: "read-bytes", Register: name, Address: r.Address, ErrorAddress: errorAddress(err, r.Address), Err: err}
		}
		if len(p) < take {
			return nil, &device.TransportError{
				Op: "read-bytes", Register: name, Address: r.Address, ErrorAddress: device.NoErrorAddress,
				Err: fmt.Errorf("short byte payload: got=%d want=%d", len(p), take),
			}
		}
		out = append(out, p[:take]...)
	}
	return out, nil
}

// ---- internal helpers ----

func (c *Client) write(addr uint16, typ device.DataType, value float64) error {
	payload, err := device.Encode(typ, value)
	if err != nil {
		return err
	}
	_, err = c.client.WriteMultipleRegisters(addr, uint16(typ.Words()), payload)
	return err
}

func (c *Client) read(addr uint16, typ device.DataType) (float64, error) {
	words := typ.Words()
	if words == 0 {
		return 0, fmt.Errorf("cannot read %s as a value", typ)
	}
	p, err := c.client.ReadHoldingRegisters(addr, uint16(words))
	if err != nil {
		return 0, err
	}
	return device.Decode(typ, p)
}

// errorAddress reports addr when the device itself rejected the request.
// Transport-level failures carry no address.
func errorAddress(err error, addr uint16) int {
	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return int(addr)
	}
	return device.NoErrorAddress
}
