// internal/transport/describe.go
package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"

	"github.com/goburrow/modbus"
	"github.com/goburrow/serial"
)

// Describe renders a transport error as the short text shown in the traffic
// log. Well-known link conditions get fixed wording; everything else falls
// back to the error's own text.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case IsTimeout(err):
		return "Timeout"
	case errors.Is(err, syscall.ECONNRESET):
		return "Connection reset"
	case errors.Is(err, syscall.ECONNREFUSED):
		return "Connection refused"
	case errors.Is(err, syscall.EPIPE):
		return "Socket error"
	}

	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return fmt.Sprintf("%s (exception %d)", ExceptionText(me.ExceptionCode), me.ExceptionCode)
	}
	return err.Error()
}

// ExceptionText names a Modbus exception code.
func ExceptionText(code byte) string {
	switch code {
	case modbus.ExceptionCodeIllegalFunction:
		return "Illegal function"
	case modbus.ExceptionCodeIllegalDataAddress:
		return "Illegal data address"
	case modbus.ExceptionCodeIllegalDataValue:
		return "Illegal data value"
	case modbus.ExceptionCodeServerDeviceFailure:
		return "Slave device or server failure"
	case modbus.ExceptionCodeAcknowledge:
		return "Acknowledge"
	case modbus.ExceptionCodeServerDeviceBusy:
		return "Slave device or server is busy"
	case modbus.ExceptionCodeMemoryParityError:
		return "Memory parity error"
	case modbus.ExceptionCodeGatewayPathUnavailable:
		return "Gateway path unavailable"
	case modbus.ExceptionCodeGatewayTargetDeviceFailedToRespond:
		return "Target device failed to respond"
	}
	return "Unknown exception"
}

// IsTimeout reports whether err is a response or I/O timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, serial.ErrTimeout) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// IsLinkError reports whether err means the link itself is gone
// (as opposed to a bad or missing reply on a healthy link).
func IsLinkError(err error) bool {
	if err == nil || IsTimeout(err) {
		return false
	}
	switch {
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.EPIPE):
		return true
	}
	var oe *net.OpError
	return errors.As(err, &oe)
}
