// internal/poller/runner.go
package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// run is the ticker loop. One goroutine per Start.
// No overlap: a tick that finds the previous cycle still running is dropped,
// never queued. No retries.
func (s *Scheduler) run(ctx context.Context, interval time.Duration, tick Tick, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		wg   sync.WaitGroup
		busy atomic.Bool
	)
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !busy.CompareAndSwap(false, true) {
				s.skipped.Add(1)
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer busy.Store(false)
				s.cycle(ctx, tick)
			}()
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context, tick Tick) {
	// Stop may have raced the ticker.
	if ctx.Err() != nil {
		return
	}

	err := tick()
	switch {
	case err == nil:
		s.ticks.Add(1)
	case errors.Is(err, ErrSkipped):
		s.skipped.Add(1)
	default:
		s.ticks.Add(1)
		s.failed.Add(1)
	}
}
