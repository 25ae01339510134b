// internal/engine/poll.go
package engine

import (
	"errors"
	"time"

	"github.com/tamzrod/modbus-master/internal/poller"
	"github.com/tamzrod/modbus-master/internal/status"
)

// PollStart runs the last configured request every intervalMs. The interval
// must be at least twice the response timeout. The request is frozen at
// start; a later Configure that reshapes the table makes the ticks fail as
// invalid requests until polling is restarted.
func (e *Engine) PollStart(intervalMs int) error {
	if e.store.Len() == 0 {
		e.notifier.Diagnostic(status.Warning, "Request failed. Add items to Registers Table.")
		return ErrNoItems
	}

	req := e.Request()
	interval := time.Duration(intervalMs) * time.Millisecond

	err := e.poller.Start(interval, e.Timeout(), func() error {
		err := e.execute(req, true)
		if errors.Is(err, ErrBusy) {
			return poller.ErrSkipped
		}
		return err
	})
	if err != nil {
		e.notifier.Diagnostic(status.Error, "Scan rate should be at least 2 * Timeout.")
		e.log.Error().Err(err).Int("interval_ms", intervalMs).Msg("poll start rejected")
		return err
	}

	e.log.Info().Int("interval_ms", intervalMs).Msg("polling")
	return nil
}

// PollStop halts polling and waits for an in-flight cycle.
func (e *Engine) PollStop() {
	e.stopPolling()
}

// stopPolling halts the scheduler. Called back from a poll cycle's own
// notifications it only cancels: that cycle is past its transaction and
// waiting for it would never return.
func (e *Engine) stopPolling() {
	if e.pollNotifying.Load() {
		e.poller.Cancel()
		return
	}
	e.poller.Stop()
}

func (e *Engine) Polling() bool {
	return e.poller.State() == poller.Running
}

func (e *Engine) PollStats() poller.Stats {
	return e.poller.Stats()
}
