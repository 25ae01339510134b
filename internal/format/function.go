// internal/format/function.go
package format

import "fmt"

// FunctionCode is a Modbus function code supported by the master.
type FunctionCode uint8

const (
	ReadCoils              FunctionCode = 0x01
	ReadDiscreteInputs     FunctionCode = 0x02
	ReadHoldingRegisters   FunctionCode = 0x03
	ReadInputRegisters     FunctionCode = 0x04
	WriteSingleCoil        FunctionCode = 0x05
	WriteSingleRegister    FunctionCode = 0x06
	WriteMultipleCoils     FunctionCode = 0x0F
	WriteMultipleRegisters FunctionCode = 0x10
)

// Per-function quantity limits.
const (
	MaxBitCount      = 2000
	MaxRegisterCount = 125
)

// functionOrder is the UI selector order.
var functionOrder = []FunctionCode{
	ReadCoils,
	ReadDiscreteInputs,
	ReadHoldingRegisters,
	ReadInputRegisters,
	WriteSingleCoil,
	WriteSingleRegister,
	WriteMultipleCoils,
	WriteMultipleRegisters,
}

// FunctionCodeFromIndex maps a selector index (0..7) to its function code.
func FunctionCodeFromIndex(i int) (FunctionCode, error) {
	if i < 0 || i >= len(functionOrder) {
		return 0, fmt.Errorf("format: function index %d out of range", i)
	}
	return functionOrder[i], nil
}

// Index is the inverse of FunctionCodeFromIndex. Unknown codes return -1.
func (fc FunctionCode) Index() int {
	for i, f := range functionOrder {
		if f == fc {
			return i
		}
	}
	return -1
}

func (fc FunctionCode) IsRead() bool {
	switch fc {
	case ReadCoils, ReadDiscreteInputs, ReadHoldingRegisters, ReadInputRegisters:
		return true
	}
	return false
}

func (fc FunctionCode) IsWrite() bool {
	return fc.IsWriteCoils() || fc.IsWriteRegisters()
}

func (fc FunctionCode) IsWriteCoils() bool {
	return fc == WriteSingleCoil || fc == WriteMultipleCoils
}

func (fc FunctionCode) IsWriteRegisters() bool {
	return fc == WriteSingleRegister || fc == WriteMultipleRegisters
}

// IsSingle reports whether the function always carries exactly one item.
func (fc FunctionCode) IsSingle() bool {
	return fc == WriteSingleCoil || fc == WriteSingleRegister
}

// Is16Bit reports whether the function moves 16-bit registers rather than bits.
func (fc FunctionCode) Is16Bit() bool {
	switch fc {
	case ReadHoldingRegisters, ReadInputRegisters, WriteSingleRegister, WriteMultipleRegisters:
		return true
	}
	return false
}

// Valid reports whether fc is one of the eight supported codes.
func (fc FunctionCode) Valid() bool {
	return fc.Index() >= 0
}

// MaxCount is the largest quantity accepted for fc. Zero for unknown codes.
func (fc FunctionCode) MaxCount() int {
	switch {
	case fc.IsSingle():
		return 1
	case fc.Is16Bit():
		return MaxRegisterCount
	case fc.Valid():
		return MaxBitCount
	}
	return 0
}

// ReadBack returns the read function used to fetch the current device state
// for a write function. ok is false for non-write functions.
func (fc FunctionCode) ReadBack() (FunctionCode, bool) {
	switch {
	case fc.IsWriteCoils():
		return ReadCoils, true
	case fc.IsWriteRegisters():
		return ReadHoldingRegisters, true
	}
	return 0, false
}

func (fc FunctionCode) String() string {
	switch fc {
	case ReadCoils:
		return "Read Coils (0x01)"
	case ReadDiscreteInputs:
		return "Read Discrete Inputs (0x02)"
	case ReadHoldingRegisters:
		return "Read Holding Registers (0x03)"
	case ReadInputRegisters:
		return "Read Input Registers (0x04)"
	case WriteSingleCoil:
		return "Write Single Coil (0x05)"
	case WriteSingleRegister:
		return "Write Single Register (0x06)"
	case WriteMultipleCoils:
		return "Write Multiple Coils (0x0F)"
	case WriteMultipleRegisters:
		return "Write Multiple Registers (0x10)"
	}
	return fmt.Sprintf("Unknown (0x%02X)", uint8(fc))
}
