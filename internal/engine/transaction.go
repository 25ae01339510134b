// internal/engine/transaction.go
package engine

import (
	"fmt"

	"github.com/tamzrod/modbus-master/internal/format"
	"github.com/tamzrod/modbus-master/internal/status"
	"github.com/tamzrod/modbus-master/internal/store"
	"github.com/tamzrod/modbus-master/internal/transport"
)

const countMismatchText = "Number of registers returned does not match number of registers requested!"

// Execute runs one transaction. It returns ErrBusy, with no other effect,
// when another transaction holds the line. Otherwise the packet counter is
// incremented before anything else, including for unknown function codes.
// A request that does not address exactly the configured table is rejected
// as invalid before anything is sent.
func (e *Engine) Execute(req Request) error {
	return e.execute(req, false)
}

// execute is Execute with the caller marked: polled is set for poll cycles.
func (e *Engine) execute(req Request, polled bool) error {
	if !e.opMu.TryLock() {
		return ErrBusy
	}

	e.counters.AddPacket()
	err := e.transaction(req)

	if polled {
		e.pollNotifying.Store(true)
		defer e.pollNotifying.Store(false)
	}
	e.release(true)
	return err
}

// Transact runs the last configured request.
func (e *Engine) Transact() error {
	if e.store.Len() == 0 {
		e.notifier.Diagnostic(status.Warning, "Request failed. Add items to Registers Table.")
		return ErrNoItems
	}
	return e.Execute(e.Request())
}

// transaction dispatches by function code. Caller holds opMu.
func (e *Engine) transaction(req Request) error {
	fc := req.Function
	if !fc.IsRead() && !fc.IsWrite() {
		e.log.Debug().Uint8("fc", uint8(fc)).Msg("unknown function code, nothing sent")
		return nil
	}

	base := e.BaseAddr()
	if err := req.Validate(base); err != nil {
		return e.invalid(err)
	}

	sess := e.session()
	if sess == nil {
		e.notify(status.Warning, "Request failed. Not connected.")
		return ErrNotConnected
	}

	// the request must address exactly the configured table
	if req.Address != e.store.Start() || req.Quantity() != e.store.Len() {
		return e.invalid(fmt.Errorf("request %d items at %d does not match the table of %d items at %d",
			req.Quantity(), req.Address, e.store.Len(), e.store.Start()))
	}

	if err := sess.SetSlave(req.SlaveID); err != nil {
		return e.failed(sess, opName(fc), req.Quantity(), 0, err)
	}

	addr := req.Address + base
	e.log.Info().Stringer("fc", fc).Uint16("address", addr).Int("count", req.Quantity()).Msg("transaction")

	if fc.IsRead() {
		return e.read(sess, fc, addr, req.Quantity())
	}
	return e.write(sess, fc, addr, req.Quantity())
}

// read fills the store on an exact count. Caller holds opMu.
func (e *Engine) read(sess transport.Session, fc format.FunctionCode, addr uint16, n int) error {
	var (
		ret int
		err error
	)

	switch fc {
	case format.ReadCoils:
		ret, err = sess.ReadBits(addr, uint16(n), e.bits)
	case format.ReadDiscreteInputs:
		ret, err = sess.ReadInputBits(addr, uint16(n), e.bits)
	case format.ReadHoldingRegisters:
		ret, err = sess.ReadRegisters(addr, uint16(n), e.words)
	case format.ReadInputRegisters:
		ret, err = sess.ReadInputRegisters(addr, uint16(n), e.words)
	}

	if err != nil || ret != n {
		return e.failed(sess, "read", n, ret, err)
	}

	for i := 0; i < n; i++ {
		if fc.Is16Bit() {
			e.store.SetValue(i, e.words[i])
		} else {
			e.store.SetValue(i, uint16(e.bits[i]))
		}
	}
	e.setHealth(status.HealthOK, "")
	return nil
}

// write sends store values. Single writes use cell 0. Caller holds opMu.
func (e *Engine) write(sess transport.Session, fc format.FunctionCode, addr uint16, n int) error {
	var (
		ret int
		err error
	)

	switch fc {
	case format.WriteSingleCoil:
		ret, err = sess.WriteBit(addr, e.store.Value(0) != 0)
	case format.WriteSingleRegister:
		ret, err = sess.WriteRegister(addr, e.store.Value(0))
	case format.WriteMultipleCoils:
		vals := e.store.Values(n)
		bits := make([]uint8, n)
		for i, v := range vals {
			if v != 0 {
				bits[i] = 1
			}
		}
		ret, err = sess.WriteBits(addr, bits)
	case format.WriteMultipleRegisters:
		ret, err = sess.WriteRegisters(addr, e.store.Values(n))
	}

	if err != nil || ret != n {
		return e.failed(sess, "write", n, ret, err)
	}

	e.traffic.AddLine("values written correctly.")
	e.setHealth(status.HealthOK, "")
	return nil
}

// failed is the common failure path: cells go invalid, one error is
// counted, the session is flushed. The connection stays open.
func (e *Engine) failed(sess transport.Session, op string, want, got int, err error) error {
	e.store.SetAllInvalid()
	e.counters.AddError()

	var (
		text string
		out  *Error
	)
	if err != nil {
		text = transport.Describe(err)
		out = &Error{Kind: KindTransactionIO, Op: op, Err: err}
	} else {
		text = fmt.Sprintf("%s (%d of %d)", countMismatchText, got, want)
		out = &Error{Kind: KindTransactionCountMismatch, Op: op, Err: fmt.Errorf("returned %d, requested %d", got, want)}
	}

	e.traffic.AddError(text)
	e.notify(status.Error, fmt.Sprintf("%s data failed. Error : %s", titleOp(op), text))
	e.log.Error().Err(out).Msg("transaction failed")

	if ferr := sess.Flush(); ferr != nil {
		e.log.Warn().Err(ferr).Msg("flush")
	}
	e.setHealth(status.HealthError, text)
	return out
}

// invalid rejects a request before anything is sent. Caller holds opMu.
func (e *Engine) invalid(err error) error {
	e.traffic.AddError(err.Error())
	e.notify(status.Warning, "Request failed. "+err.Error())
	e.log.Warn().Err(err).Msg("invalid request")
	return &Error{Kind: KindInvalidRequest, Op: "execute", Err: err}
}

func opName(fc format.FunctionCode) string {
	if fc.IsRead() {
		return "read"
	}
	return "write"
}

func titleOp(op string) string {
	if op == "read" {
		return "Read"
	}
	return "Write"
}

// withWidth keeps the user's base and sign but follows the function's unit width.
func withWidth(d store.Display, fc format.FunctionCode) store.Display {
	d.Is16Bit = fc.Is16Bit()
	return d
}

// ---- configure ----

// Configure reshapes the register table for req. For write functions on a
// connected session the current device values are read back once (coils for
// coil writes, holding registers for register writes).
func (e *Engine) Configure(req Request) error {
	fc := req.Function
	if fc.Valid() {
		if err := req.Validate(e.BaseAddr()); err != nil {
			e.notifier.Diagnostic(status.Warning, "Request failed. "+err.Error())
			return &Error{Kind: KindInvalidRequest, Op: "configure", Err: err}
		}
	}

	e.opMu.Lock()

	e.mu.Lock()
	e.req = req
	e.mu.Unlock()

	e.store.Configure(req.Address, uint16(req.Quantity()), fc.IsWrite())
	e.store.SetDisplay(withWidth(e.store.Display(), fc))

	var err error
	if sess := e.session(); sess != nil {
		if back, ok := fc.ReadBack(); ok {
			if err = sess.SetSlave(req.SlaveID); err != nil {
				err = e.failed(sess, "read", req.Quantity(), 0, err)
			} else {
				err = e.read(sess, back, req.Address+e.BaseAddr(), req.Quantity())
			}
		}
	}

	e.release(true)
	return err
}

// AddItems re-applies the last configured request.
func (e *Engine) AddItems() error {
	return e.Configure(e.Request())
}
