// cmd/modmaster/render_test.go
package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/modbus-master/internal/config"
	"github.com/tamzrod/modbus-master/internal/format"
	"github.com/tamzrod/modbus-master/internal/store"
	"github.com/tamzrod/modbus-master/internal/traffic"
)

func TestRenderCells(t *testing.T) {
	s := store.New()
	s.Configure(10, 3, false)
	s.SetDisplay(store.Display{Base: format.Hex, Is16Bit: true})
	s.SetValue(0, 0xBEEF)
	s.SetValue(2, 1)

	var buf bytes.Buffer
	renderCells(&buf, s)

	want := "ADDRESS  VALUE\n" +
		"10       BEEF\n" +
		"11       -\n" +
		"12       0001\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderTraffic(t *testing.T) {
	l := traffic.New(10)
	l.SetClock(func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 6e6, time.UTC) })
	l.AddLine("Disconnected")

	var buf bytes.Buffer
	renderTraffic(&buf, l)
	assert.Equal(t, "03:04:05.006 - Disconnected\n", buf.String())
}

func TestRequestOptionsOverride(t *testing.T) {
	cfg, err := loadConfig("", RequestOptions{
		Mode:     "tcp",
		Host:     "010.000.000.001",
		FC:       3,
		Address:  "0x10",
		Count:    4,
		BaseAddr: "100",
		Base:     "hex",
	})
	require.NoError(t, err)

	m := cfg.Master
	assert.Equal(t, config.ModeTCP, m.Mode)
	assert.Equal(t, "10.0.0.1", m.TCP.Host)
	assert.Equal(t, uint16(16), m.Request.Address)
	assert.Equal(t, 100, m.BaseAddr)

	req := requestFrom(m)
	assert.Equal(t, format.ReadHoldingRegisters, req.Function)
	assert.Equal(t, uint16(4), req.Count)
}

func TestRequestOptionsRejectsBadAddress(t *testing.T) {
	_, err := loadConfig("", RequestOptions{Address: "zz"})
	assert.Error(t, err)

	_, err = loadConfig("", RequestOptions{FC: 3, Count: 200})
	assert.Error(t, err)
}
