// internal/transport/geometry.go
package transport

import "encoding/binary"

// ---- helpers (pure geometry) ----

// unpackBits expands LSB-first packed bits into one byte per bit.
// It returns how many of the count bits the payload actually carried.
func unpackBits(data []byte, count int, dst []uint8) int {
	n := count
	if avail := len(data) * 8; avail < n {
		n = avail
	}
	if len(dst) < n {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		if data[i/8]&(1<<uint(i%8)) != 0 {
			dst[i] = 1
		} else {
			dst[i] = 0
		}
	}
	return n
}

// unpackRegisters decodes big-endian registers. It returns how many were decoded.
func unpackRegisters(data []byte, dst []uint16) int {
	n := len(data) / 2
	if len(dst) < n {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = binary.BigEndian.Uint16(data[2*i:])
	}
	return n
}

// packBits packs one-byte-per-bit values (non-zero = ON) LSB first.
func packBits(bits []uint8) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, v := range bits {
		if v != 0 {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

// packRegisters encodes registers in Modbus order (BIG-ENDIAN).
func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		binary.BigEndian.PutUint16(out[2*i:], r)
	}
	return out
}

// echoedQuantity reads the quantity field a multiple-write reply echoes back.
func echoedQuantity(results []byte) int {
	if len(results) < 2 {
		return 0
	}
	return int(binary.BigEndian.Uint16(results))
}
