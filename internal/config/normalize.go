// internal/config/normalize.go
package config

import (
	"strconv"
	"strings"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	m := &cfg.Master

	m.Mode = Mode(strings.ToLower(strings.TrimSpace(string(m.Mode))))
	m.TCP.Host = NormalizeHost(m.TCP.Host)

	if p, ok := canonicalParity(m.RTU.Parity); ok {
		m.RTU.Parity = p
	}
	m.RTU.RTS = strings.ToLower(strings.TrimSpace(m.RTU.RTS))
	if m.RTU.RTS == "" {
		m.RTU.RTS = RTSNone
	}

	m.Display.Base = strings.ToLower(strings.TrimSpace(m.Display.Base))
	m.LogLevel = strings.ToLower(strings.TrimSpace(m.LogLevel))
}

// NormalizeHost strips leading zeros from each octet of a dotted-decimal
// address ("192.168.001.010" -> "192.168.1.10"). Other host names are only
// trimmed. A blank host returns "".
func NormalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}

	parts := strings.Split(host, ".")
	if len(parts) != 4 {
		return host
	}

	out := make([]string, 4)
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return host
		}
		out[i] = strconv.FormatUint(n, 10)
	}
	return strings.Join(out, ".")
}

func canonicalParity(p string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "n", "none", "":
		return "N", true
	case "e", "even":
		return "E", true
	case "o", "odd":
		return "O", true
	}
	return "", false
}
