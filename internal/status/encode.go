// internal/status/encode.go
package status

import "fmt"

// Line renders a snapshot as a single status bar line.
// No IO. No side effects.
func Line(s Snapshot) string {
	link := "Disconnected"
	if s.Connected {
		link = "Connected"
	}

	mode := s.Mode
	if mode == "" {
		mode = "--"
	}

	line := fmt.Sprintf("%s : %s | %s | Packets : %d | Errors : %d",
		mode, s.Endpoint, link, s.Packets, s.Errors)

	if s.Health == HealthError && s.LastError != "" {
		line += " | Last error : " + s.LastError
	}
	return line
}
