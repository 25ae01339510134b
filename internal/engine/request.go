// internal/engine/request.go
package engine

import (
	"fmt"

	"github.com/tamzrod/modbus-master/internal/format"
)

// Request describes one Modbus transaction. It is copied by value.
type Request struct {
	SlaveID  int
	Function format.FunctionCode
	Address  uint16
	Count    uint16
}

// Quantity is the number of items on the wire. Single writes always move one.
func (r Request) Quantity() int {
	if r.Function.IsSingle() {
		return 1
	}
	return int(r.Count)
}

// Validate checks the request against the Modbus limits for its function.
// base is added to Address on the wire.
func (r Request) Validate(base uint16) error {
	if r.SlaveID < 1 || r.SlaveID > 247 {
		return fmt.Errorf("slave id %d out of range 1..247", r.SlaveID)
	}
	if !r.Function.Valid() {
		return fmt.Errorf("unsupported function code %d", uint8(r.Function))
	}

	n := r.Quantity()
	if n == 0 {
		return fmt.Errorf("%s: count must be > 0", r.Function)
	}
	if max := r.Function.MaxCount(); n > max {
		return fmt.Errorf("%s: count %d exceeds %d", r.Function, n, max)
	}
	if end := int(r.Address) + int(base) + n; end > 0x10000 {
		return fmt.Errorf("%s: window %d+%d past address space", r.Function, int(r.Address)+int(base), n)
	}
	return nil
}
