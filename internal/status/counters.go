// internal/status/counters.go
package status

import "sync/atomic"

// Counters tracks packets sent and failed transactions.
// Safe for concurrent use.
type Counters struct {
	packets atomic.Uint64
	errors  atomic.Uint64
}

func (c *Counters) AddPacket() { c.packets.Add(1) }
func (c *Counters) AddError()  { c.errors.Add(1) }

func (c *Counters) Packets() uint64 { return c.packets.Load() }
func (c *Counters) Errors() uint64  { return c.errors.Load() }

// Reset zeroes both counters.
func (c *Counters) Reset() {
	c.packets.Store(0)
	c.errors.Store(0)
}
