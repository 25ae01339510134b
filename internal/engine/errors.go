// internal/engine/errors.go
package engine

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures.
type Kind int

const (
	KindUnknown Kind = iota
	KindContextCreationFailed
	KindInvalidSlaveID
	KindConnectFailed
	KindBlankAddress
	KindTransactionIO
	KindTransactionCountMismatch
	KindInvalidRequest
)

func (k Kind) String() string {
	switch k {
	case KindContextCreationFailed:
		return "context creation failed"
	case KindInvalidSlaveID:
		return "invalid slave id"
	case KindConnectFailed:
		return "connect failed"
	case KindBlankAddress:
		return "blank address"
	case KindTransactionIO:
		return "transaction i/o error"
	case KindTransactionCountMismatch:
		return "transaction count mismatch"
	case KindInvalidRequest:
		return "invalid request"
	}
	return "unknown"
}

// Error is returned by connect and transaction operations.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("engine: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("engine: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return KindUnknown
}

var (
	// ErrBusy means another transaction holds the line. Nothing was done.
	ErrBusy = errors.New("engine: transaction in flight")

	ErrNotConnected = errors.New("engine: not connected")

	// ErrNoItems means the register table is empty.
	ErrNoItems = errors.New("engine: no items configured")
)
