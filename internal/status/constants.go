// internal/status/constants.go
package status

// ---- HEALTH CODES ----

// HealthUnknown represents a session with no completed transaction yet.
const HealthUnknown uint16 = 0

// HealthOK represents a session whose last transaction succeeded.
const HealthOK uint16 = 1

// HealthError represents a session whose last transaction failed.
const HealthError uint16 = 2

// HealthDisconnected represents a closed or never opened transport.
const HealthDisconnected uint16 = 4

// HealthText returns a short label for a health code.
func HealthText(h uint16) string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	case HealthDisconnected:
		return "disconnected"
	}
	return "unknown"
}

// ---- DIAGNOSTIC SEVERITY ----

// Severity tags a diagnostic raised to the presentation layer.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}
