// cmd/modmaster/commands_test.go
package main

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/modbus-master/internal/config"
	"github.com/tamzrod/modbus-master/internal/engine"
	"github.com/tamzrod/modbus-master/internal/format"
	"github.com/tamzrod/modbus-master/internal/transport"
)

var errNoReply = errors.New("no reply")

// deafSession connects but never answers a read.
type deafSession struct {
	writes int
}

func (s *deafSession) SetSlave(int) error                       { return nil }
func (s *deafSession) Connect() error                           { return nil }
func (s *deafSession) SetErrorRecovery(transport.ErrorRecovery) {}
func (s *deafSession) SetResponseTimeout(time.Duration)         {}

func (s *deafSession) ReadBits(uint16, uint16, []uint8) (int, error) {
	return -1, errNoReply
}

func (s *deafSession) ReadInputBits(uint16, uint16, []uint8) (int, error) {
	return -1, errNoReply
}

func (s *deafSession) ReadRegisters(uint16, uint16, []uint16) (int, error) {
	return -1, errNoReply
}

func (s *deafSession) ReadInputRegisters(uint16, uint16, []uint16) (int, error) {
	return -1, errNoReply
}

func (s *deafSession) WriteBit(uint16, bool) (int, error) {
	s.writes++
	return 1, nil
}

func (s *deafSession) WriteRegister(uint16, uint16) (int, error) {
	s.writes++
	return 1, nil
}

func (s *deafSession) WriteBits(_ uint16, src []uint8) (int, error) {
	s.writes++
	return len(src), nil
}

func (s *deafSession) WriteRegisters(_ uint16, src []uint16) (int, error) {
	s.writes++
	return len(src), nil
}

func (s *deafSession) Flush() error { return nil }
func (s *deafSession) Close() error { return nil }

type deafDialer struct{ sess *deafSession }

func (d deafDialer) NewRTU(config.RTU, transport.FrameHook) (transport.Session, error) {
	return d.sess, nil
}

func (d deafDialer) NewTCP(config.TCP, transport.FrameHook) (transport.Session, error) {
	return d.sess, nil
}

func connectedDeafEngine(t *testing.T) (*engine.Engine, *deafSession) {
	t.Helper()
	sess := &deafSession{}
	e := engine.New(engine.WithDialer(deafDialer{sess: sess}))
	require.NoError(t, e.ConnectTCP(config.TCP{Host: "127.0.0.1", Port: 502, TimeoutMs: 100}))
	return e, sess
}

func TestPrepare_WriteRefusedWhenReadBackFails(t *testing.T) {
	e, sess := connectedDeafEngine(t)
	req := engine.Request{SlaveID: 1, Function: format.WriteMultipleRegisters, Address: 0, Count: 3}

	err := prepare(e, req, []string{"1"})
	require.Error(t, err)
	assert.Equal(t, engine.KindTransactionIO, engine.KindOf(err))
	assert.ErrorIs(t, err, errNoReply)
	assert.Equal(t, 0, sess.writes)
}

func TestPrepare_WriteAllowedWithEveryValue(t *testing.T) {
	e, sess := connectedDeafEngine(t)
	req := engine.Request{SlaveID: 1, Function: format.WriteMultipleRegisters, Address: 0, Count: 3}

	require.NoError(t, prepare(e, req, []string{"1", "2", "3"}))
	assert.Equal(t, []uint16{1, 2, 3}, e.Store().Values(3))

	require.NoError(t, e.Transact())
	assert.Equal(t, 1, sess.writes)
}

func TestPrepare_InvalidRequest(t *testing.T) {
	e, _ := connectedDeafEngine(t)
	req := engine.Request{SlaveID: 1, Function: format.ReadHoldingRegisters, Address: 0, Count: 0}

	err := prepare(e, req, nil)
	assert.Equal(t, engine.KindInvalidRequest, engine.KindOf(err))
}

func TestPrepare_ReadSkipsReadBack(t *testing.T) {
	e, _ := connectedDeafEngine(t)
	req := engine.Request{SlaveID: 1, Function: format.ReadHoldingRegisters, Address: 0, Count: 4}

	require.NoError(t, prepare(e, req, nil))
	assert.Equal(t, 4, e.Store().Len())
}
