// internal/engine/connection.go
package engine

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tamzrod/modbus-master/internal/config"
	"github.com/tamzrod/modbus-master/internal/status"
	"github.com/tamzrod/modbus-master/internal/transport"
)

// Connect dispatches on the connection mode.
func (e *Engine) Connect(c config.Connection) error {
	switch c.Mode {
	case config.ModeRTU:
		return e.ConnectRTU(c.RTU)
	case config.ModeTCP:
		return e.ConnectTCP(c.TCP)
	}
	return &Error{Kind: KindContextCreationFailed, Op: "connect", Err: fmt.Errorf("unknown mode %q", c.Mode)}
}

// ConnectRTU drops any current session and opens a serial one.
func (e *Engine) ConnectRTU(cfg config.RTU) error {
	e.Disconnect()

	e.opMu.Lock()
	err := e.connectRTU(cfg)
	e.release(false)
	return err
}

// connectRTU runs the serial connect steps. Caller holds opMu.
func (e *Engine) connectRTU(cfg config.RTU) error {
	line := fmt.Sprintf("Connecting to Serial Port [%s]...", cfg.Device)
	endpoint := fmt.Sprintf("%s | %d,%d,%d,%s", cfg.Device, cfg.Baud, cfg.DataBits, cfg.StopBits, cfg.Parity)
	log := e.log.With().Str("mode", "rtu").Str("device", cfg.Device).Logger()
	log.Info().Msg("connecting")

	sess, err := e.dialer.NewRTU(cfg, e)
	if err != nil {
		e.traffic.AddLine(line + "Failed")
		return e.connectFailed("connect rtu", KindContextCreationFailed,
			"Unable to create the Modbus context.", err)
	}

	if err := sess.SetSlave(e.Slave()); err != nil {
		_ = sess.Close()
		e.traffic.AddLine(line + "Failed")
		return e.connectFailed("connect rtu", KindInvalidSlaveID, "Invalid slave ID.", err)
	}

	if err := sess.Connect(); err != nil {
		_ = sess.Close()
		e.traffic.AddLine(line + "Failed")
		return e.connectFailed("connect rtu", KindConnectFailed,
			"Connection failed. Could not connect to serial port.", err)
	}

	e.opened(sess, config.ModeRTU, endpoint, cfg.TimeoutMs)
	e.traffic.AddLine(line + "OK")
	log.Info().Msg("connected")
	return nil
}

// ConnectTCP drops any current session and opens a TCP one.
// The host is normalized first; a blank result fails before any session exists.
func (e *Engine) ConnectTCP(cfg config.TCP) error {
	e.Disconnect()

	e.opMu.Lock()
	err := e.connectTCP(cfg)
	e.release(false)
	return err
}

// connectTCP runs the TCP connect steps. Caller holds opMu.
func (e *Engine) connectTCP(cfg config.TCP) error {
	line := "Connecting to IP : " + cfg.Host + ":" + strconv.Itoa(cfg.Port)
	log := e.log.With().Str("mode", "tcp").Str("host", cfg.Host).Int("port", cfg.Port).Logger()
	log.Info().Msg("connecting")

	host := config.NormalizeHost(cfg.Host)
	if host == "" {
		e.traffic.AddLine(line + " Failed")
		return e.connectFailed("connect tcp", KindBlankAddress, "Connection failed. Blank IP Address.", nil)
	}
	cfg.Host = host

	sess, err := e.dialer.NewTCP(cfg, e)
	if err != nil {
		e.traffic.AddLine(line + " Failed")
		return e.connectFailed("connect tcp", KindContextCreationFailed,
			"Unable to create the Modbus context.", err)
	}

	if err := sess.Connect(); err != nil {
		_ = sess.Close()
		e.traffic.AddLine(line + " Failed")
		return e.connectFailed("connect tcp", KindConnectFailed,
			"Connection failed. Could not connect to TCP port.", err)
	}

	e.opened(sess, config.ModeTCP, fmt.Sprintf("%s:%d", host, cfg.Port), cfg.TimeoutMs)
	e.traffic.AddLine(line + " OK")
	log.Info().Msg("connected")
	return nil
}

// opened finishes a successful connect. Caller holds opMu.
func (e *Engine) opened(sess transport.Session, mode config.Mode, endpoint string, timeoutMs int) {
	timeout := time.Duration(timeoutMs) * time.Millisecond

	sess.SetErrorRecovery(transport.RecoveryProtocol)
	sess.SetResponseTimeout(timeout)

	e.mu.Lock()
	e.sess = sess
	e.connected = true
	e.endpoint = endpoint
	e.timeout = timeout
	e.health = status.HealthUnknown
	e.lastErr = ""
	e.mu.Unlock()

	e.mode.Store(mode.Label())
}

// connectFailed records a failed connect step. Caller holds opMu.
func (e *Engine) connectFailed(op string, kind Kind, msg string, err error) error {
	e.mu.Lock()
	e.health = status.HealthDisconnected
	e.lastErr = msg
	e.mu.Unlock()

	e.log.Error().Err(err).Str("kind", kind.String()).Msg(msg)
	e.notify(status.Error, msg)
	return &Error{Kind: kind, Op: op, Err: err}
}

// Disconnect stops polling, waits for any in-flight transaction and closes
// the session. Safe to call at any time, including from a Notifier.
// Only a disconnect that closes a session adds a traffic line.
func (e *Engine) Disconnect() {
	e.stopPolling()

	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.mu.Lock()
	sess, was := e.sess, e.connected
	e.sess = nil
	e.connected = false
	e.health = status.HealthDisconnected
	e.mu.Unlock()

	e.mode.Store("")

	if sess == nil {
		return
	}
	if err := sess.Close(); err != nil {
		e.log.Warn().Err(err).Msg("close session")
	}
	if was {
		e.traffic.AddLine("Disconnected")
		e.log.Info().Msg("disconnected")
	}
}
