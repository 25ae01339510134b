// internal/poller/poller.go
package poller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler is a dumb, clock-driven trigger.
// It owns no transport: every cycle is delegated to the Tick it was started with.
type Scheduler struct {
	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}

	ticks   atomic.Uint64
	skipped atomic.Uint64
	failed  atomic.Uint64
}

// New returns an Idle scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Start begins firing tick every interval. The interval must be at least
// twice the transaction timeout; otherwise nothing changes. Starting a
// running scheduler restarts it with the new parameters without waiting
// for the old loop's in-flight cycle.
func (s *Scheduler) Start(interval, timeout time.Duration, tick Tick) error {
	if tick == nil {
		return ErrNilTick
	}
	if interval <= 0 || interval < 2*timeout {
		return fmt.Errorf("%w: interval=%s timeout=%s", ErrIntervalTooShort, interval, timeout)
	}

	s.halt()

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.state = Running
	s.ticks.Store(0)
	s.skipped.Store(0)
	s.failed.Store(0)

	go s.run(ctx, interval, tick, s.done)
	return nil
}

// Stop halts the loop and waits for any in-flight cycle. Safe to call
// when idle.
func (s *Scheduler) Stop() {
	if done := s.halt(); done != nil {
		<-done
	}
}

// Cancel halts the loop without waiting for an in-flight cycle. It is the
// only way to stop the scheduler from inside a Tick.
func (s *Scheduler) Cancel() {
	s.halt()
}

func (s *Scheduler) halt() chan struct{} {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.state = Idle
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	return done
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) Stats() Stats {
	return Stats{
		Ticks:   s.ticks.Load(),
		Skipped: s.skipped.Load(),
		Failed:  s.failed.Load(),
	}
}
