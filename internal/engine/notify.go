// internal/engine/notify.go
package engine

import "github.com/tamzrod/modbus-master/internal/status"

// Notifier is how the engine tells the presentation layer something changed.
// Calls may arrive from the poll goroutine. They are made with no engine
// lock held, so an implementation may call back into the engine, say to
// Disconnect on an error.
type Notifier interface {
	// Refresh means engine state changed and views should re-render.
	Refresh()

	// Diagnostic raises a human-readable banner.
	Diagnostic(sev status.Severity, msg string)
}

// NopNotifier discards every notification.
type NopNotifier struct{}

func (NopNotifier) Refresh()                           {}
func (NopNotifier) Diagnostic(status.Severity, string) {}

type note struct {
	sev status.Severity
	msg string
}

// notify queues a diagnostic. Caller holds opMu.
func (e *Engine) notify(sev status.Severity, msg string) {
	e.notes = append(e.notes, note{sev, msg})
}

// release unlocks opMu, then delivers the queued diagnostics and, when
// refresh is set, one refresh. A notifier may call back into the engine.
func (e *Engine) release(refresh bool) {
	notes := e.notes
	e.notes = nil
	e.opMu.Unlock()

	for _, n := range notes {
		e.notifier.Diagnostic(n.sev, n.msg)
	}
	if refresh {
		e.notifier.Refresh()
	}
}
