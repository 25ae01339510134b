// internal/store/store.go
package store

import (
	"fmt"
	"sync"

	"github.com/tamzrod/modbus-master/internal/format"
)

// Cell is one addressed value in the window.
type Cell struct {
	Address uint16
	Value   uint16
	Valid   bool
}

// Display is the rendering mode for cell values.
type Display struct {
	Base    format.Base
	Signed  bool
	Is16Bit bool
}

// Store is an address-contiguous window [start, start+count).
// Configure swaps the whole sequence; readers never see a partial resize.
type Store struct {
	mu       sync.RWMutex
	start    uint16
	cells    []Cell
	editable bool
	display  Display
}

func New() *Store {
	return &Store{display: Display{Base: format.Decimal}}
}

// Configure replaces the cell sequence. All new cells are zero and invalid.
// editable marks a window that feeds a write function.
func (s *Store) Configure(start, count uint16, editable bool) {
	cells := make([]Cell, count)
	for i := range cells {
		cells[i].Address = start + uint16(i)
	}

	s.mu.Lock()
	s.start = start
	s.cells = cells
	s.editable = editable
	s.mu.Unlock()
}

// Clear drops every cell.
func (s *Store) Clear() {
	s.mu.Lock()
	s.cells = nil
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cells)
}

func (s *Store) Start() uint16 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.start
}

func (s *Store) Editable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editable
}

// SetValue stores v at index i and marks the cell valid.
// Out-of-range indices are ignored and reported as false.
func (s *Store) SetValue(i int, v uint16) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.cells) {
		return false
	}
	s.cells[i].Value = v
	s.cells[i].Valid = true
	return true
}

// Value returns the raw value at i, or 0 when i is out of range.
func (s *Store) Value(i int) uint16 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i < 0 || i >= len(s.cells) {
		return 0
	}
	return s.cells[i].Value
}

// Values copies the first n raw values. Missing cells read as zero.
func (s *Store) Values(n int) []uint16 {
	out := make([]uint16, n)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := 0; i < n && i < len(s.cells); i++ {
		out[i] = s.cells[i].Value
	}
	return out
}

// SetAllInvalid marks every cell invalid. Values are kept.
func (s *Store) SetAllInvalid() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cells {
		s.cells[i].Valid = false
	}
}

// Cells returns a snapshot copy.
func (s *Store) Cells() []Cell {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Cell, len(s.cells))
	copy(out, s.cells)
	return out
}

func (s *Store) SetDisplay(d Display) {
	s.mu.Lock()
	s.display = d
	s.mu.Unlock()
}

func (s *Store) Display() Display {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.display
}

// Text renders the value at i with the current display mode.
func (s *Store) Text(i int) string {
	s.mu.RLock()
	d := s.display
	var v uint16
	if i >= 0 && i < len(s.cells) {
		v = s.cells[i].Value
	}
	s.mu.RUnlock()

	return format.Format(v, d.Base, d.Signed, d.Is16Bit)
}

// SetText parses text in the current display mode and stores it at i.
// Coil windows (not 16-bit) only accept 0 and 1.
func (s *Store) SetText(i int, text string) error {
	d := s.Display()

	v, err := format.Parse(text, d.Base, d.Signed)
	if err != nil {
		return err
	}
	if !d.Is16Bit && v > 1 {
		return fmt.Errorf("store: coil value %q must be 0 or 1", text)
	}
	if !s.SetValue(i, v) {
		return fmt.Errorf("store: index %d out of range", i)
	}
	return nil
}
