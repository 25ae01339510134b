// internal/transport/goburrow.go
package transport

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/goburrow/modbus"
	"github.com/goburrow/serial"

	"github.com/tamzrod/modbus-master/internal/config"
)

// Goburrow is the production Dialer backed by github.com/goburrow/modbus.
type Goburrow struct{}

var _ Dialer = Goburrow{}

// handler is the part of the library's client handlers a session drives.
type handler interface {
	modbus.ClientHandler
	Connect() error
	Close() error
}

// session is a mutable-slave wrapper around one library handler.
// The library reconnects lazily inside each call, so Flush simply closes.
type session struct {
	h        handler
	client   modbus.Client
	recovery ErrorRecovery

	setSlave   func(byte)
	setTimeout func(time.Duration)
}

// NewRTU prepares a serial session. The port is not opened.
func (Goburrow) NewRTU(cfg config.RTU, hook FrameHook) (Session, error) {
	dev := strings.TrimSpace(cfg.Device)
	if dev == "" {
		return nil, ErrInvalidDevice
	}
	parity, err := rtuParity(cfg.Parity)
	if err != nil {
		return nil, err
	}
	if cfg.Baud <= 0 || cfg.DataBits < 5 || cfg.DataBits > 8 || (cfg.StopBits != 1 && cfg.StopBits != 2) {
		return nil, fmt.Errorf("%w: baud=%d data_bits=%d stop_bits=%d",
			ErrInvalidParams, cfg.Baud, cfg.DataBits, cfg.StopBits)
	}

	h := modbus.NewRTUClientHandler(dev)
	h.BaudRate = cfg.Baud
	h.DataBits = cfg.DataBits
	h.StopBits = cfg.StopBits
	h.Parity = parity
	h.Timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
	h.RS485 = rs485(cfg.RTS)
	h.Logger = newFrameLogger(hook)

	s := &session{
		h:        h,
		client:   modbus.NewClient(h),
		setSlave: func(id byte) { h.SlaveId = id },
		setTimeout: func(d time.Duration) {
			if d == h.Timeout {
				return
			}
			// The serial read timeout is fixed when the port opens; re-open lazily.
			h.Timeout = d
			_ = h.Close()
		},
	}
	return s, nil
}

// NewTCP prepares a TCP session. No connection is made.
func (Goburrow) NewTCP(cfg config.TCP, hook FrameHook) (Session, error) {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		return nil, ErrBlankHost
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: port=%d", ErrInvalidParams, cfg.Port)
	}

	h := modbus.NewTCPClientHandler(net.JoinHostPort(host, strconv.Itoa(cfg.Port)))
	h.Timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
	h.Logger = newFrameLogger(hook)

	s := &session{
		h:          h,
		client:     modbus.NewClient(h),
		setSlave:   func(id byte) { h.SlaveId = id },
		setTimeout: func(d time.Duration) { h.Timeout = d },
	}
	return s, nil
}

func rtuParity(p string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(p)) {
	case "N", "NONE", "":
		return "N", nil
	case "E", "EVEN":
		return "E", nil
	case "O", "ODD":
		return "O", nil
	}
	return "", fmt.Errorf("%w: parity=%q", ErrInvalidParams, p)
}

// rs485 maps the RTS setting onto the serial driver's RS485 control.
func rs485(mode string) serial.RS485Config {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case config.RTSUp:
		return serial.RS485Config{Enabled: true, RtsHighDuringSend: true}
	case config.RTSDown:
		return serial.RS485Config{Enabled: true, RtsHighAfterSend: true}
	}
	return serial.RS485Config{}
}

// ---- Session ----

func (s *session) SetSlave(id int) error {
	if id < 1 || id > 247 {
		return fmt.Errorf("%w: %d", ErrInvalidSlave, id)
	}
	s.setSlave(byte(id))
	return nil
}

func (s *session) Connect() error                     { return s.h.Connect() }
func (s *session) SetErrorRecovery(r ErrorRecovery)   { s.recovery = r }
func (s *session) SetResponseTimeout(d time.Duration) { s.setTimeout(d) }
func (s *session) Flush() error                       { return s.h.Close() }
func (s *session) Close() error                       { return s.h.Close() }

func (s *session) ReadBits(addr, qty uint16, dst []uint8) (int, error) {
	res, err := s.do(func() ([]byte, error) { return s.client.ReadCoils(addr, qty) })
	if err != nil {
		return 0, err
	}
	return unpackBits(res, int(qty), dst), nil
}

func (s *session) ReadInputBits(addr, qty uint16, dst []uint8) (int, error) {
	res, err := s.do(func() ([]byte, error) { return s.client.ReadDiscreteInputs(addr, qty) })
	if err != nil {
		return 0, err
	}
	return unpackBits(res, int(qty), dst), nil
}

func (s *session) ReadRegisters(addr, qty uint16, dst []uint16) (int, error) {
	res, err := s.do(func() ([]byte, error) { return s.client.ReadHoldingRegisters(addr, qty) })
	if err != nil {
		return 0, err
	}
	return unpackRegisters(res, dst[:min(int(qty), len(dst))]), nil
}

func (s *session) ReadInputRegisters(addr, qty uint16, dst []uint16) (int, error) {
	res, err := s.do(func() ([]byte, error) { return s.client.ReadInputRegisters(addr, qty) })
	if err != nil {
		return 0, err
	}
	return unpackRegisters(res, dst[:min(int(qty), len(dst))]), nil
}

func (s *session) WriteBit(addr uint16, on bool) (int, error) {
	var v uint16
	if on {
		v = 0xFF00
	}
	if _, err := s.do(func() ([]byte, error) { return s.client.WriteSingleCoil(addr, v) }); err != nil {
		return 0, err
	}
	return 1, nil
}

func (s *session) WriteRegister(addr, value uint16) (int, error) {
	if _, err := s.do(func() ([]byte, error) { return s.client.WriteSingleRegister(addr, value) }); err != nil {
		return 0, err
	}
	return 1, nil
}

func (s *session) WriteBits(addr uint16, src []uint8) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}
	payload := packBits(src)
	res, err := s.do(func() ([]byte, error) {
		return s.client.WriteMultipleCoils(addr, uint16(len(src)), payload)
	})
	if err != nil {
		return 0, err
	}
	return echoedQuantity(res), nil
}

func (s *session) WriteRegisters(addr uint16, src []uint16) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}
	payload := packRegisters(src)
	res, err := s.do(func() ([]byte, error) {
		return s.client.WriteMultipleRegisters(addr, uint16(len(src)), payload)
	})
	if err != nil {
		return 0, err
	}
	return echoedQuantity(res), nil
}

// do runs one library call and applies the configured recovery.
func (s *session) do(call func() ([]byte, error)) ([]byte, error) {
	res, err := call()
	if err == nil {
		return res, nil
	}

	if s.recovery&RecoveryLink != 0 && IsLinkError(err) {
		_ = s.h.Close()
		if res, err = call(); err == nil {
			return res, nil
		}
	}

	var me *modbus.ModbusError
	if s.recovery&RecoveryProtocol != 0 && !errors.As(err, &me) && !IsLinkError(err) {
		_ = s.h.Close()
	}
	return nil, err
}
