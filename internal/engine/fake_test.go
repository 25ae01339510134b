// internal/engine/fake_test.go
package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/tamzrod/modbus-master/internal/config"
	"github.com/tamzrod/modbus-master/internal/status"
	"github.com/tamzrod/modbus-master/internal/transport"
)

// fakeSession scripts transport results and records calls.
type fakeSession struct {
	mu   sync.Mutex
	hook transport.FrameHook

	// scripted
	ret        int   // -1 means "return the requested count"
	err        error // returned by every primitive
	connectErr error
	slaveErr   error
	regs       []uint16 // served by register reads
	bits       []uint8  // served by bit reads
	block      chan struct{}

	// recorded
	calls    []string
	addrs    []uint16
	slaves   []int
	written  []uint16
	flushes  int
	closes   int
	timeout  time.Duration
	recovery transport.ErrorRecovery
}

func newFakeSession() *fakeSession { return &fakeSession{ret: -1} }

func (f *fakeSession) record(call string, addr uint16) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.addrs = append(f.addrs, addr)
	f.mu.Unlock()

	if f.block != nil {
		<-f.block
	}
	if f.hook != nil {
		f.hook.OnTxFrame([]byte{0x01, 0x03})
		f.hook.OnRxFrame([]byte{0x01, 0x03, 0x00})
	}
}

func (f *fakeSession) result(n int) (int, error) {
	if f.err != nil {
		return -1, f.err
	}
	if f.ret >= 0 {
		return f.ret, nil
	}
	return n, nil
}

func (f *fakeSession) SetSlave(id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slaves = append(f.slaves, id)
	return f.slaveErr
}

func (f *fakeSession) Connect() error                             { return f.connectErr }
func (f *fakeSession) SetErrorRecovery(r transport.ErrorRecovery) { f.recovery = r }
func (f *fakeSession) SetResponseTimeout(d time.Duration)         { f.timeout = d }

func (f *fakeSession) ReadBits(addr, qty uint16, dst []uint8) (int, error) {
	f.record("read_bits", addr)
	for i := 0; i < int(qty) && i < len(f.bits); i++ {
		dst[i] = f.bits[i]
	}
	return f.result(int(qty))
}

func (f *fakeSession) ReadInputBits(addr, qty uint16, dst []uint8) (int, error) {
	f.record("read_input_bits", addr)
	for i := 0; i < int(qty) && i < len(f.bits); i++ {
		dst[i] = f.bits[i]
	}
	return f.result(int(qty))
}

func (f *fakeSession) ReadRegisters(addr, qty uint16, dst []uint16) (int, error) {
	f.record("read_registers", addr)
	copy(dst[:qty], f.regs)
	return f.result(int(qty))
}

func (f *fakeSession) ReadInputRegisters(addr, qty uint16, dst []uint16) (int, error) {
	f.record("read_input_registers", addr)
	copy(dst[:qty], f.regs)
	return f.result(int(qty))
}

func (f *fakeSession) WriteBit(addr uint16, on bool) (int, error) {
	f.record("write_bit", addr)
	v := uint16(0)
	if on {
		v = 1
	}
	f.written = []uint16{v}
	return f.result(1)
}

func (f *fakeSession) WriteRegister(addr, value uint16) (int, error) {
	f.record("write_register", addr)
	f.written = []uint16{value}
	return f.result(1)
}

func (f *fakeSession) WriteBits(addr uint16, src []uint8) (int, error) {
	f.record("write_bits", addr)
	f.written = f.written[:0]
	for _, b := range src {
		f.written = append(f.written, uint16(b))
	}
	return f.result(len(src))
}

func (f *fakeSession) WriteRegisters(addr uint16, src []uint16) (int, error) {
	f.record("write_registers", addr)
	f.written = append([]uint16(nil), src...)
	return f.result(len(src))
}

func (f *fakeSession) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
	return nil
}

func (f *fakeSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return nil
}

func (f *fakeSession) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSession) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

// fakeDialer hands out one prepared session.
type fakeDialer struct {
	sess    *fakeSession
	err     error
	rtu     []config.RTU
	tcp     []config.TCP
	created int
}

func (d *fakeDialer) NewRTU(cfg config.RTU, hook transport.FrameHook) (transport.Session, error) {
	d.rtu = append(d.rtu, cfg)
	if d.err != nil {
		return nil, d.err
	}
	d.created++
	d.sess.hook = hook
	return d.sess, nil
}

func (d *fakeDialer) NewTCP(cfg config.TCP, hook transport.FrameHook) (transport.Session, error) {
	d.tcp = append(d.tcp, cfg)
	if d.err != nil {
		return nil, d.err
	}
	d.created++
	d.sess.hook = hook
	return d.sess, nil
}

// recNotifier counts refreshes and keeps diagnostics.
type recNotifier struct {
	mu        sync.Mutex
	refreshes int
	diags     []diag
}

type diag struct {
	sev status.Severity
	msg string
}

func (n *recNotifier) Refresh() {
	n.mu.Lock()
	n.refreshes++
	n.mu.Unlock()
}

func (n *recNotifier) Diagnostic(sev status.Severity, msg string) {
	n.mu.Lock()
	n.diags = append(n.diags, diag{sev, msg})
	n.mu.Unlock()
}

func (n *recNotifier) refreshCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.refreshes
}

func (n *recNotifier) last() diag {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.diags) == 0 {
		return diag{}
	}
	return n.diags[len(n.diags)-1]
}

// callbackNotifier records like recNotifier, then hands each diagnostic to onDiag.
type callbackNotifier struct {
	recNotifier
	onDiag func(diag)
}

func (n *callbackNotifier) Diagnostic(sev status.Severity, msg string) {
	n.recNotifier.Diagnostic(sev, msg)
	if n.onDiag != nil {
		n.onDiag(diag{sev, msg})
	}
}

var errLink = errors.New("link down")

var fixedNow = time.Date(2024, 3, 1, 12, 30, 45, 123e6, time.UTC)

// newTestEngine returns an engine wired to fakes.
func newTestEngine() (*Engine, *fakeDialer, *recNotifier) {
	d := &fakeDialer{sess: newFakeSession()}
	n := &recNotifier{}
	e := New(
		WithDialer(d),
		WithNotifier(n),
		WithClock(func() time.Time { return fixedNow }),
	)
	return e, d, n
}

func tcpConfig() config.TCP {
	return config.TCP{Host: "192.168.001.010", Port: 502, TimeoutMs: 1000}
}

func rtuConfig() config.RTU {
	return config.RTU{Device: "/dev/ttyUSB0", Baud: 9600, Parity: "N", DataBits: 8, StopBits: 1, TimeoutMs: 1000}
}
