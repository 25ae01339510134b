// internal/traffic/entry.go
package traffic

import (
	"fmt"
	"strings"
	"time"
)

// Direction tags an entry.
type Direction uint8

const (
	Info Direction = iota
	Tx
	Rx
	Error
)

func (d Direction) String() string {
	switch d {
	case Tx:
		return "Tx"
	case Rx:
		return "Rx"
	case Error:
		return "Error"
	}
	return "Info"
}

// Entry is one captured line. Frames carry Bytes; Info and Error carry Text.
type Entry struct {
	At    time.Time
	Dir   Direction
	Mode  string // "RTU", "TCP" or empty
	Bytes []byte
	Text  string
}

const stampLayout = "15:04:05.000"

// String renders the entry as a bus monitor line.
//
//	15:04:05.123 [RTU] Tx > 01  03  00  00  00  0A  C5  CD
//	15:04:05.456 - Connecting to IP : 10.0.0.5:502 OK
func (e Entry) String() string {
	stamp := e.At.Format(stampLayout)

	switch e.Dir {
	case Tx, Rx:
		return fmt.Sprintf("%s [%s] %s > %s", stamp, e.Mode, e.Dir, HexDump(e.Bytes))
	case Error:
		return stamp + " - Error : " + e.Text
	}
	return stamp + " - " + e.Text
}

// HexDump renders bytes as uppercase pairs separated by two spaces.
func HexDump(b []byte) string {
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("%02X", c)
	}
	return strings.Join(parts, "  ")
}
