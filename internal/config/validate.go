// internal/config/validate.go
package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-master/internal/format"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}
	m := cfg.Master

	// ------------------------------------------------------------
	// SESSION
	// ------------------------------------------------------------

	if m.SlaveID < 1 || m.SlaveID > 247 {
		return fmt.Errorf("slave_id %d out of range 1..247", m.SlaveID)
	}
	if m.TimeoutMs < 0 {
		return fmt.Errorf("timeout_ms must be >= 0, got %d", m.TimeoutMs)
	}
	if m.ScanIntervalMs <= 0 {
		return fmt.Errorf("scan_interval_ms must be > 0, got %d", m.ScanIntervalMs)
	}
	if m.MaxLogLines < 0 {
		return fmt.Errorf("max_log_lines must be >= 0, got %d", m.MaxLogLines)
	}
	if m.BaseAddr < 0 || m.BaseAddr > 0xFFFF {
		return fmt.Errorf("base_addr %d out of range 0..65535", m.BaseAddr)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(m.LogLevel)); err != nil {
		return fmt.Errorf("log_level %q: %w", m.LogLevel, err)
	}
	if _, err := format.ParseBase(m.Display.Base); err != nil {
		return fmt.Errorf("display.base: %w", err)
	}

	// ------------------------------------------------------------
	// REQUEST GEOMETRY
	// ------------------------------------------------------------

	if err := validateRequest(m); err != nil {
		return err
	}

	// ------------------------------------------------------------
	// TRANSPORT
	// ------------------------------------------------------------

	switch Mode(strings.ToLower(string(m.Mode))) {
	case ModeRTU:
		return validateRTU(m.RTU)
	case ModeTCP:
		if m.TCP.Port < 1 || m.TCP.Port > 65535 {
			return fmt.Errorf("tcp.port %d out of range 1..65535", m.TCP.Port)
		}
		// A blank host is reported by the connect step itself.
		return nil
	default:
		return fmt.Errorf("mode %q must be rtu or tcp", m.Mode)
	}
}

func validateRequest(m MasterConfig) error {
	fc := format.FunctionCode(m.Request.FC)
	if !fc.Valid() {
		return fmt.Errorf("request.fc %d is not a supported function code", m.Request.FC)
	}

	qty := int(m.Request.Quantity)
	if fc.IsSingle() {
		qty = 1
	}
	if qty < 1 || qty > fc.MaxCount() {
		return fmt.Errorf(
			"request.quantity %d out of range 1..%d for %s",
			m.Request.Quantity,
			fc.MaxCount(),
			fc,
		)
	}

	end := m.BaseAddr + int(m.Request.Address) + qty
	if end > 0x10000 {
		return fmt.Errorf(
			"request window base=%d address=%d quantity=%d exceeds address space",
			m.BaseAddr,
			m.Request.Address,
			qty,
		)
	}
	return nil
}

func validateRTU(r RTU) error {
	if strings.TrimSpace(r.Device) == "" {
		return fmt.Errorf("rtu.device required")
	}
	if r.Baud <= 0 {
		return fmt.Errorf("rtu.baud must be > 0, got %d", r.Baud)
	}
	if r.DataBits < 5 || r.DataBits > 8 {
		return fmt.Errorf("rtu.data_bits %d out of range 5..8", r.DataBits)
	}
	if r.StopBits != 1 && r.StopBits != 2 {
		return fmt.Errorf("rtu.stop_bits must be 1 or 2, got %d", r.StopBits)
	}
	if _, ok := canonicalParity(r.Parity); !ok {
		return fmt.Errorf("rtu.parity %q must be N, E or O", r.Parity)
	}
	switch strings.ToLower(strings.TrimSpace(r.RTS)) {
	case "", RTSNone, RTSUp, RTSDown:
	default:
		return fmt.Errorf("rtu.rts %q must be none, up or down", r.RTS)
	}
	return nil
}
