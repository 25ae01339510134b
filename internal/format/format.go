// internal/format/format.go
package format

import (
	"fmt"
	"strconv"
	"strings"
)

// Base is the display radix applied to raw register values.
type Base int

const (
	Binary  Base = 2
	Decimal Base = 10
	Hex     Base = 16
)

// ParseBase accepts "bin", "dec", "hex" (and the numeric radix).
func ParseBase(s string) (Base, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bin", "binary", "2":
		return Binary, nil
	case "", "dec", "decimal", "10":
		return Decimal, nil
	case "hex", "hexadecimal", "16":
		return Hex, nil
	}
	return 0, fmt.Errorf("format: unknown base %q", s)
}

// BaseFromIndex maps a selector index (0 bin, 1 dec, 2 hex). Anything else is decimal.
func BaseFromIndex(i int) Base {
	switch i {
	case 0:
		return Binary
	case 2:
		return Hex
	}
	return Decimal
}

func (b Base) String() string {
	switch b {
	case Binary:
		return "bin"
	case Hex:
		return "hex"
	}
	return "dec"
}

// Format renders v in the requested base. Output is uppercase.
//
// Signedness applies to decimal only: the value is reinterpreted as int16.
// Binary and hex are zero padded to 16 and 4 digits for 16-bit values and
// minimal otherwise.
func Format(v uint16, base Base, signed, is16Bit bool) string {
	switch base {
	case Binary:
		if is16Bit {
			return fmt.Sprintf("%016b", v)
		}
		return strconv.FormatUint(uint64(v), 2)
	case Hex:
		if is16Bit {
			return fmt.Sprintf("%04X", v)
		}
		return strings.ToUpper(strconv.FormatUint(uint64(v), 16))
	}
	if signed {
		return strconv.FormatInt(int64(int16(v)), 10)
	}
	return strconv.FormatUint(uint64(v), 10)
}

// Parse is the inverse of Format. Padding is accepted but not required.
func Parse(s string, base Base, signed bool) (uint16, error) {
	s = strings.TrimSpace(s)
	switch base {
	case Binary, Hex:
		u, err := strconv.ParseUint(s, int(base), 16)
		if err != nil {
			return 0, fmt.Errorf("format: parse %q base %d: %w", s, base, err)
		}
		return uint16(u), nil
	}
	if signed {
		n, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			return 0, fmt.Errorf("format: parse %q signed: %w", s, err)
		}
		return uint16(int16(n)), nil
	}
	u, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("format: parse %q: %w", s, err)
	}
	return uint16(u), nil
}
