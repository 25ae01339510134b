// internal/poller/types.go
package poller

import "errors"

// State is the scheduler lifecycle.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Tick performs one poll cycle. Returning ErrSkipped marks the cycle as
// skipped rather than failed.
type Tick func() error

// Stats counts what the loop did since the last Start.
type Stats struct {
	Ticks   uint64 // cycles that ran
	Skipped uint64 // cycles dropped because one was already in flight
	Failed  uint64 // cycles whose Tick returned an error
}

var (
	// ErrIntervalTooShort rejects a start whose interval is below twice the timeout.
	ErrIntervalTooShort = errors.New("poller: interval must be at least twice the timeout")

	ErrNilTick = errors.New("poller: tick required")

	// ErrSkipped is returned by a Tick that found the line busy.
	ErrSkipped = errors.New("poller: cycle skipped")
)
