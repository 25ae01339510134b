// internal/engine/engine.go
package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-master/internal/format"
	"github.com/tamzrod/modbus-master/internal/poller"
	"github.com/tamzrod/modbus-master/internal/status"
	"github.com/tamzrod/modbus-master/internal/store"
	"github.com/tamzrod/modbus-master/internal/traffic"
	"github.com/tamzrod/modbus-master/internal/transport"
)

// Engine owns one transport session, the register table and the traffic log.
//
// Every transport use is serialized by opMu: Execute gives up when it is held,
// connect, disconnect and configure wait for it.
type Engine struct {
	opMu sync.Mutex

	mu        sync.RWMutex
	sess      transport.Session
	connected bool
	endpoint  string
	timeout   time.Duration
	slave     int
	baseAddr  uint16
	req       Request
	health    uint16
	lastErr   string

	// mode is read from frame hooks while a transaction runs.
	mode atomic.Value // string

	// notes are queued while opMu is held and delivered after it is released.
	notes []note
	// pollNotifying is set while a poll cycle delivers its notes.
	pollNotifying atomic.Bool

	dialer   transport.Dialer
	notifier Notifier
	log      zerolog.Logger

	store    *store.Store
	traffic  *traffic.Log
	counters status.Counters
	poller   *poller.Scheduler

	// scratch buffers sized for the largest read
	bits  []uint8
	words []uint16
}

// Option configures an Engine.
type Option func(*Engine)

func WithDialer(d transport.Dialer) Option {
	return func(e *Engine) { e.dialer = d }
}

func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithClock sets the traffic log time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.traffic.SetClock(now) }
}

// WithTimeout sets the response timeout used before the first connect,
// so the poll interval rule holds for a disconnected engine too.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

func WithMaxLogLines(n int) Option {
	return func(e *Engine) { e.traffic.SetMax(n) }
}

// New returns a disconnected engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		slave:    1,
		health:   status.HealthDisconnected,
		dialer:   transport.Goburrow{},
		notifier: NopNotifier{},
		log:      zerolog.Nop(),
		store:    store.New(),
		traffic:  traffic.New(traffic.DefaultMax),
		poller:   poller.New(),
		bits:     make([]uint8, format.MaxBitCount),
		words:    make([]uint16, format.MaxRegisterCount),
		req:      Request{SlaveID: 1, Function: format.ReadCoils, Count: 1},
	}
	e.mode.Store("")

	for _, opt := range opts {
		opt(e)
	}
	if e.notifier == nil {
		e.notifier = NopNotifier{}
	}
	e.log = e.log.With().Str("component", "engine").Logger()
	return e
}

// ---- accessors ----

func (e *Engine) Store() *store.Store   { return e.store }
func (e *Engine) Traffic() *traffic.Log { return e.traffic }

func (e *Engine) IsConnected() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.connected
}

// Mode returns "RTU", "TCP" or "" when disconnected.
func (e *Engine) Mode() string {
	return e.mode.Load().(string)
}

func (e *Engine) Timeout() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.timeout
}

// SetTimeout changes the response timeout. A live session picks it up at once.
func (e *Engine) SetTimeout(d time.Duration) {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.mu.Lock()
	e.timeout = d
	sess := e.sess
	e.mu.Unlock()

	if sess != nil {
		sess.SetResponseTimeout(d)
	}
}

// SetSlave sets the unit id used when a serial session is opened.
func (e *Engine) SetSlave(id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.slave = id
}

func (e *Engine) Slave() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.slave
}

// SetBaseAddr sets the offset added to every request address on the wire.
func (e *Engine) SetBaseAddr(base uint16) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.baseAddr = base
}

func (e *Engine) BaseAddr() uint16 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.baseAddr
}

// Request returns the last configured request.
func (e *Engine) Request() Request {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.req
}

func (e *Engine) SetMaxLogLines(n int) { e.traffic.SetMax(n) }

// ---- counters ----

func (e *Engine) Packets() uint64 { return e.counters.Packets() }
func (e *Engine) Errors() uint64  { return e.counters.Errors() }

// ResetCounters zeroes both counters and raises one refresh.
func (e *Engine) ResetCounters() {
	e.counters.Reset()
	e.notifier.Refresh()
}

// Status returns a read-only snapshot for rendering.
func (e *Engine) Status() status.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return status.Snapshot{
		Mode:      e.Mode(),
		Endpoint:  e.endpoint,
		Connected: e.connected,
		Health:    e.health,
		Packets:   e.counters.Packets(),
		Errors:    e.counters.Errors(),
		LastError: e.lastErr,
	}
}

func (e *Engine) setHealth(h uint16, lastErr string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.health = h
	if h == status.HealthError {
		e.lastErr = lastErr
	}
}

// session returns the live session or nil.
func (e *Engine) session() transport.Session {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.connected {
		return nil
	}
	return e.sess
}

// ---- transport.FrameHook ----

var _ transport.FrameHook = (*Engine)(nil)

func (e *Engine) OnTxFrame(b []byte) {
	e.traffic.AddFrame(traffic.Tx, e.Mode(), b)
	e.log.Debug().Str("dir", "tx").Hex("frame", b).Msg("frame")
}

func (e *Engine) OnRxFrame(b []byte) {
	e.traffic.AddFrame(traffic.Rx, e.Mode(), b)
	e.log.Debug().Str("dir", "rx").Hex("frame", b).Msg("frame")
}
