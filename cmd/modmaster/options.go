// cmd/modmaster/options.go
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-master/internal/config"
	"github.com/tamzrod/modbus-master/internal/engine"
	"github.com/tamzrod/modbus-master/internal/format"
	"github.com/tamzrod/modbus-master/internal/status"
	"github.com/tamzrod/modbus-master/internal/store"
)

// RequestOptions override file settings. Zero values leave the file alone.
type RequestOptions struct {
	Mode     string `short:"m" long:"mode" choice:"rtu" choice:"tcp" description:"Transport"`
	Device   string `long:"device" description:"Serial device"`
	Baud     int    `long:"baud" description:"Serial baud rate"`
	Parity   string `long:"parity" choice:"N" choice:"E" choice:"O" description:"Serial parity"`
	RTS      string `long:"rts" choice:"none" choice:"up" choice:"down" description:"RTS handling"`
	Host     string `long:"host" description:"TCP host"`
	Port     int    `long:"port" description:"TCP port"`
	Slave    int    `short:"s" long:"slave" description:"Slave id (1..247)"`
	FC       uint8  `short:"f" long:"fc" description:"Function code (1,2,3,4,5,6,15,16)"`
	Address  string `short:"a" long:"address" description:"Start address (decimal or 0x hex)"`
	Count    uint16 `short:"n" long:"count" description:"Number of items"`
	BaseAddr string `long:"base-addr" description:"Offset added to the address on the wire"`
	Timeout  int    `short:"t" long:"timeout" description:"Response timeout (ms)"`
	Base     string `short:"b" long:"base" choice:"bin" choice:"dec" choice:"hex" description:"Display base"`
	Signed   bool   `long:"signed" description:"Show decimal values as signed"`
}

func (o RequestOptions) apply(cfg *config.Config) error {
	m := &cfg.Master

	if o.Mode != "" {
		m.Mode = config.Mode(o.Mode)
	}
	if o.Device != "" {
		m.RTU.Device = o.Device
	}
	if o.Baud != 0 {
		m.RTU.Baud = o.Baud
	}
	if o.Parity != "" {
		m.RTU.Parity = o.Parity
	}
	if o.RTS != "" {
		m.RTU.RTS = o.RTS
	}
	if o.Host != "" {
		m.TCP.Host = o.Host
	}
	if o.Port != 0 {
		m.TCP.Port = o.Port
	}
	if o.Slave != 0 {
		m.SlaveID = o.Slave
	}
	if o.FC != 0 {
		m.Request.FC = o.FC
	}
	if o.Address != "" {
		v, err := strconv.ParseUint(o.Address, 0, 16)
		if err != nil {
			return fmt.Errorf("address %q: %w", o.Address, err)
		}
		m.Request.Address = uint16(v)
	}
	if o.Count != 0 {
		m.Request.Quantity = o.Count
	}
	if o.BaseAddr != "" {
		v, err := strconv.ParseUint(o.BaseAddr, 0, 16)
		if err != nil {
			return fmt.Errorf("base-addr %q: %w", o.BaseAddr, err)
		}
		m.BaseAddr = int(v)
	}
	if o.Timeout != 0 {
		m.TimeoutMs = o.Timeout
	}
	if o.Base != "" {
		m.Display.Base = o.Base
	}
	if o.Signed {
		m.Display.Signed = true
	}
	return nil
}

// loadConfig reads the file (or defaults), applies overrides, validates and normalizes.
func loadConfig(path string, o RequestOptions) (*config.Config, error) {
	cfg := config.Defaults()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if err := o.apply(cfg); err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)
	return cfg, nil
}

func newLogger(level string, verbose bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}).
		Level(lvl).
		With().Timestamp().Logger()
}

// consoleNotifier turns engine diagnostics into log lines and refreshes into a callback.
type consoleNotifier struct {
	log     zerolog.Logger
	refresh func()
}

func (n consoleNotifier) Refresh() {
	if n.refresh != nil {
		n.refresh()
	}
}

func (n consoleNotifier) Diagnostic(sev status.Severity, msg string) {
	if sev == status.Error {
		n.log.Error().Msg(msg)
		return
	}
	n.log.Warn().Msg(msg)
}

// newEngine wires an engine to the settings.
func newEngine(cfg *config.Config, logger zerolog.Logger, refresh func()) *engine.Engine {
	m := cfg.Master

	e := engine.New(
		engine.WithLogger(logger),
		engine.WithNotifier(consoleNotifier{log: logger, refresh: refresh}),
		engine.WithMaxLogLines(m.MaxLogLines),
		engine.WithTimeout(m.Timeout()),
	)
	e.SetSlave(m.SlaveID)
	e.SetBaseAddr(uint16(m.BaseAddr))

	base, _ := format.ParseBase(m.Display.Base)
	e.Store().SetDisplay(store.Display{Base: base, Signed: m.Display.Signed})
	return e
}

// prepare shapes the table for req and applies edited values on top of the
// read-back. A write whose read-back failed is refused unless every value
// was given, so no cell is written from an unknown state.
func prepare(e *engine.Engine, req engine.Request, values []string) error {
	err := e.Configure(req)
	switch {
	case err == nil:
	case engine.KindOf(err) == engine.KindInvalidRequest:
		return err
	case len(values) < req.Quantity():
		return fmt.Errorf("read-back of current values failed, give all %d values to write anyway: %w", req.Quantity(), err)
	}

	for i, v := range values {
		if err := e.Store().SetText(i, v); err != nil {
			return fmt.Errorf("value %d: %w", i, err)
		}
	}
	return nil
}

func requestFrom(m config.MasterConfig) engine.Request {
	return engine.Request{
		SlaveID:  m.SlaveID,
		Function: format.FunctionCode(m.Request.FC),
		Address:  m.Request.Address,
		Count:    m.Request.Quantity,
	}
}

func msDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
