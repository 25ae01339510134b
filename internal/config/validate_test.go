// internal/config/validate_test.go
package config

import "testing"

// helper to build a config quickly
func master(mode Mode, fc uint8, addr, qty uint16) *Config {
	cfg := Defaults()
	cfg.Master.Mode = mode
	cfg.Master.Request = RequestConfig{FC: fc, Address: addr, Quantity: qty}
	return cfg
}

// ---- tests ----

func TestValidate_DefaultsAreValid(t *testing.T) {
	if err := Validate(Defaults()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_SlaveIDRange(t *testing.T) {
	for _, id := range []int{0, 248, -1} {
		cfg := Defaults()
		cfg.Master.SlaveID = id
		if err := Validate(cfg); err == nil {
			t.Fatalf("slave_id %d: expected error, got nil", id)
		}
	}
}

func TestValidate_RegisterQuantityBound(t *testing.T) {
	if err := Validate(master(ModeTCP, 3, 0, 125)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate(master(ModeTCP, 3, 0, 126)); err == nil {
		t.Fatalf("expected quantity error, got nil")
	}
	if err := Validate(master(ModeTCP, 16, 0, 126)); err == nil {
		t.Fatalf("expected quantity error for fc16, got nil")
	}
}

func TestValidate_CoilQuantityBound(t *testing.T) {
	if err := Validate(master(ModeTCP, 1, 0, 2000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate(master(ModeTCP, 15, 0, 2001)); err == nil {
		t.Fatalf("expected quantity error, got nil")
	}
	if err := Validate(master(ModeTCP, 2, 0, 0)); err == nil {
		t.Fatalf("expected zero quantity error, got nil")
	}
}

func TestValidate_SingleWriteIgnoresQuantity(t *testing.T) {
	if err := Validate(master(ModeTCP, 5, 0, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate(master(ModeTCP, 6, 0, 50)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_UnknownFunction(t *testing.T) {
	if err := Validate(master(ModeTCP, 0x11, 0, 1)); err == nil {
		t.Fatalf("expected fc error, got nil")
	}
}

func TestValidate_WindowPastAddressSpace(t *testing.T) {
	cfg := master(ModeTCP, 3, 0xFFF0, 16)
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Master.BaseAddr = 1
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected window error, got nil")
	}
}

func TestValidate_RTUFields(t *testing.T) {
	cfg := master(ModeRTU, 3, 0, 1)
	cfg.Master.RTU.Parity = "Even"
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Master.RTU.Parity = "X"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected parity error, got nil")
	}

	cfg = master(ModeRTU, 3, 0, 1)
	cfg.Master.RTU.Device = "  "
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected device error, got nil")
	}

	cfg = master(ModeRTU, 3, 0, 1)
	cfg.Master.RTU.RTS = "toggle"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected rts error, got nil")
	}
}

func TestValidate_TCPPortAndMode(t *testing.T) {
	cfg := master(ModeTCP, 3, 0, 1)
	cfg.Master.TCP.Port = 0
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected port error, got nil")
	}

	cfg = master("ascii", 3, 0, 1)
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected mode error, got nil")
	}
}

func TestValidate_NegativeTimeout(t *testing.T) {
	cfg := Defaults()
	cfg.Master.TimeoutMs = -1
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected timeout error, got nil")
	}
}
