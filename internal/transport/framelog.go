// internal/transport/framelog.go
package transport

import (
	"encoding/hex"
	"log"
	"strings"
)

// frameWriter turns the Modbus library's debug log into frame hook calls.
// The library prints one line per physical frame:
//
//	modbus: sending 01 03 00 00 00 0a c5 cd
//	modbus: received 01 03 14 ...
//
// Other lines (idle close notices and the like) are ignored.
type frameWriter struct {
	hook FrameHook
}

func newFrameLogger(hook FrameHook) *log.Logger {
	return log.New(&frameWriter{hook: hook}, "", 0)
}

func (w *frameWriter) Write(p []byte) (int, error) {
	if w.hook == nil {
		return len(p), nil
	}
	for _, line := range strings.Split(string(p), "\n") {
		w.line(line)
	}
	return len(p), nil
}

func (w *frameWriter) line(s string) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "modbus: ")
	if !ok {
		return
	}
	verb, dump, ok := strings.Cut(rest, " ")
	if !ok {
		return
	}

	b, err := hex.DecodeString(strings.ReplaceAll(dump, " ", ""))
	if err != nil || len(b) == 0 {
		return
	}

	switch verb {
	case "sending", "send":
		w.hook.OnTxFrame(b)
	case "received", "recv":
		w.hook.OnRxFrame(b)
	}
}
