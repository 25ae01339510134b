// internal/config/config.go
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Master MasterConfig `yaml:"master"`
}

// ---- MASTER ----

type MasterConfig struct {
	Mode Mode `yaml:"mode"`
	RTU  RTU  `yaml:"rtu"`
	TCP  TCP  `yaml:"tcp"`

	SlaveID        int `yaml:"slave_id"`
	TimeoutMs      int `yaml:"timeout_ms"`
	ScanIntervalMs int `yaml:"scan_interval_ms"`
	MaxLogLines    int `yaml:"max_log_lines"`

	// BaseAddr is added to Request.Address on the wire.
	BaseAddr int `yaml:"base_addr"`

	Request  RequestConfig `yaml:"request"`
	Display  DisplayConfig `yaml:"display"`
	LogLevel string        `yaml:"log_level"`
}

// ---- TRANSPORT ----

type Mode string

const (
	ModeRTU Mode = "rtu"
	ModeTCP Mode = "tcp"
)

// Label is the upper-case tag used in traffic lines.
func (m Mode) Label() string {
	switch m {
	case ModeRTU:
		return "RTU"
	case ModeTCP:
		return "TCP"
	}
	return ""
}

// RTS line handling on the serial port.
const (
	RTSNone = "none"
	RTSUp   = "up"
	RTSDown = "down"
)

type RTU struct {
	Device   string `yaml:"device"`
	Baud     int    `yaml:"baud"`
	Parity   string `yaml:"parity"` // N, E, O
	DataBits int    `yaml:"data_bits"`
	StopBits int    `yaml:"stop_bits"`
	RTS      string `yaml:"rts"`

	TimeoutMs int `yaml:"-"`
}

type TCP struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	TimeoutMs int `yaml:"-"`
}

// Connection is the active transport: exactly one of RTU or TCP applies,
// selected by Mode.
type Connection struct {
	Mode Mode
	RTU  RTU
	TCP  TCP
}

// ---- REQUEST ----

type RequestConfig struct {
	FC       uint8  `yaml:"fc"`
	Address  uint16 `yaml:"address"`
	Quantity uint16 `yaml:"quantity"`
}

type DisplayConfig struct {
	Base   string `yaml:"base"` // bin, dec, hex
	Signed bool   `yaml:"signed"`
}

// Connection builds the transport union with the shared timeout applied.
func (m MasterConfig) Connection() Connection {
	c := Connection{Mode: m.Mode, RTU: m.RTU, TCP: m.TCP}
	c.RTU.TimeoutMs = m.TimeoutMs
	c.TCP.TimeoutMs = m.TimeoutMs
	return c
}

func (m MasterConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutMs) * time.Millisecond
}

func (m MasterConfig) ScanInterval() time.Duration {
	return time.Duration(m.ScanIntervalMs) * time.Millisecond
}

// Endpoint describes the active transport for status lines.
func (m MasterConfig) Endpoint() string {
	if m.Mode == ModeTCP {
		return fmt.Sprintf("%s:%d", m.TCP.Host, m.TCP.Port)
	}
	return fmt.Sprintf("%s | %d,%d,%d,%s", m.RTU.Device, m.RTU.Baud, m.RTU.DataBits, m.RTU.StopBits, m.RTU.Parity)
}

// Load reads a YAML file over Defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes YAML over Defaults.
func Parse(raw []byte) (*Config, error) {
	cfg := Defaults()

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}

// Defaults mirrors the settings a fresh installation starts with.
func Defaults() *Config {
	return &Config{
		Master: MasterConfig{
			Mode: ModeRTU,
			RTU: RTU{
				Device:   "/dev/ttyS0",
				Baud:     9600,
				Parity:   "N",
				DataBits: 8,
				StopBits: 1,
				RTS:      RTSNone,
			},
			TCP: TCP{
				Host: "127.000.000.001",
				Port: 502,
			},
			SlaveID:        1,
			TimeoutMs:      1000,
			ScanIntervalMs: 2000,
			MaxLogLines:    60,
			Request: RequestConfig{
				FC:       1,
				Quantity: 1,
			},
			Display:  DisplayConfig{Base: "dec"},
			LogLevel: "warn",
		},
	}
}
