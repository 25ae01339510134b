// internal/transport/transport.go
package transport

import (
	"errors"
	"time"

	"github.com/tamzrod/modbus-master/internal/config"
)

// FrameHook receives every physical frame seen on the wire.
// Implementations must not retain the slices.
type FrameHook interface {
	OnTxFrame(b []byte)
	OnRxFrame(b []byte)
}

// ErrorRecovery selects what a session does on its own after a failure.
type ErrorRecovery uint8

const (
	RecoveryNone ErrorRecovery = 0

	// RecoveryLink closes and re-opens the link after a transport error and
	// retries the call once.
	RecoveryLink ErrorRecovery = 1 << 0

	// RecoveryProtocol drops buffered input after an invalid or missing reply.
	RecoveryProtocol ErrorRecovery = 1 << 1
)

// Session is an open (or openable) transport handle bound to one device.
//
// Primitive calls return the number of items transferred. A non-nil error
// means the transport failed; otherwise a count different from the request
// is a short transfer. Sessions are not safe for concurrent use.
type Session interface {
	SetSlave(id int) error
	Connect() error
	SetErrorRecovery(r ErrorRecovery)
	SetResponseTimeout(d time.Duration)

	ReadBits(addr, qty uint16, dst []uint8) (int, error)            // FC 1
	ReadInputBits(addr, qty uint16, dst []uint8) (int, error)       // FC 2
	ReadRegisters(addr, qty uint16, dst []uint16) (int, error)      // FC 3
	ReadInputRegisters(addr, qty uint16, dst []uint16) (int, error) // FC 4
	WriteBit(addr uint16, on bool) (int, error)                     // FC 5
	WriteRegister(addr, value uint16) (int, error)                  // FC 6
	WriteBits(addr uint16, src []uint8) (int, error)                // FC 15
	WriteRegisters(addr uint16, src []uint16) (int, error)          // FC 16

	// Flush discards pending buffered data to resynchronize framing.
	Flush() error
	Close() error
}

// Dialer creates sessions. Creation validates parameters only; no I/O
// happens until Session.Connect.
type Dialer interface {
	NewRTU(cfg config.RTU, hook FrameHook) (Session, error)
	NewTCP(cfg config.TCP, hook FrameHook) (Session, error)
}

var (
	ErrInvalidDevice = errors.New("transport: invalid serial device")
	ErrInvalidParams = errors.New("transport: invalid line parameters")
	ErrBlankHost     = errors.New("transport: blank host")
	ErrInvalidSlave  = errors.New("transport: slave id out of range 1..247")
)
