// Copyright 2018 Brett Vickers.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package remote_test

import (
	"encoding/binary"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/beevik/sim6502/cpu"
	"github.com/beevik/sim6502/remote"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*cpu.CPU, *websocket.Conn) {
	t.Helper()
	c := cpu.NewCPU(cpu.NewFlatMemory())
	c.Logger = log.New(io.Discard, "", 0)

	s := remote.NewServer(c)
	s.Logger = log.New(io.Discard, "", 0)
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + remote.Path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return c, conn
}

func request(t *testing.T, conn *websocket.Conn, msg ...byte) []byte {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, msg))
	tp, res, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.BinaryMessage, tp)
	require.NotEmpty(t, res)
	return res
}

func expectAck(t *testing.T, conn *websocket.Conn, msg ...byte) []byte {
	t.Helper()
	res := request(t, conn, msg...)
	require.Equal(t, byte(0x00), res[0], "fail: %s", res[1:])
	return res[1:]
}

func expectFail(t *testing.T, conn *websocket.Conn, msg ...byte) string {
	t.Helper()
	res := request(t, conn, msg...)
	require.Equal(t, byte(0x01), res[0])
	return string(res[1:])
}

func TestRegisters(t *testing.T) {
	c, conn := newClient(t)

	expectAck(t, conn, 0x20, 0x11)
	expectAck(t, conn, 0x22, 0x22)
	expectAck(t, conn, 0x24, 0x33)
	expectAck(t, conn, 0x26, 0x01, 0x42)
	expectAck(t, conn, 0x2a, 0x12, 0x34)
	expectAck(t, conn, 0x28, 0x83)

	assert.Equal(t, []byte{0x11}, expectAck(t, conn, 0x21))
	assert.Equal(t, []byte{0x22}, expectAck(t, conn, 0x23))
	assert.Equal(t, []byte{0x33}, expectAck(t, conn, 0x25))
	assert.Equal(t, []byte{0x01, 0x42}, expectAck(t, conn, 0x27))
	assert.Equal(t, []byte{0x12, 0x34}, expectAck(t, conn, 0x2b))
	assert.Equal(t, []byte{0xa3}, expectAck(t, conn, 0x29))

	assert.Equal(t, uint16(0x1234), c.Reg.PC)
	assert.True(t, c.Reg.Carry)
	assert.True(t, c.Reg.Zero)
	assert.True(t, c.Reg.Negative)
}

func TestWriteSPStaysInStackPage(t *testing.T) {
	c, conn := newClient(t)

	expectAck(t, conn, 0x26, 0xff, 0xff)
	assert.Equal(t, []byte{0x01, 0xff}, expectAck(t, conn, 0x27))

	expectAck(t, conn, 0x31, 0x10, 0x00, 0x20, 0x00, 0x20)
	expectAck(t, conn, 0x2a, 0x10, 0x00)
	expectAck(t, conn, 0x1e)
	assert.Equal(t, []byte{0x01, 0x01}, expectAck(t, conn, 0x27))
	assert.Equal(t, []byte{0x02}, expectAck(t, conn, 0x30, 0x01, 0xff, 0x00, 0x01))
	assert.Equal(t, []byte{0x10}, expectAck(t, conn, 0x30, 0x01, 0x00, 0x00, 0x01))
	assert.Equal(t, uint16(0x2000), c.Reg.PC)
}

func TestMemory(t *testing.T) {
	_, conn := newClient(t)

	expectAck(t, conn, 0x31, 0x40, 0x00, 0xa9, 0x84, 0xea)
	assert.Equal(t, []byte{0xa9, 0x84, 0xea}, expectAck(t, conn, 0x30, 0x40, 0x00, 0x00, 0x03))

	assert.Contains(t, expectFail(t, conn, 0x30, 0xff, 0xff, 0x00, 0x02), "memory access out of range")
	assert.Contains(t, expectFail(t, conn, 0x31, 0xff, 0xff, 0x01, 0x02), "memory access out of range: $10000")
}

func TestRunEndToEnd(t *testing.T) {
	c, conn := newClient(t)

	expectAck(t, conn, 0x31, 0xff, 0xfc, 0x20, 0x42, 0x42)
	expectAck(t, conn, 0x31, 0x42, 0x42, 0xa9, 0x84)

	res := expectAck(t, conn, 0x1f, 0x00, 0x00, 0x00, 0x08)
	require.Len(t, res, 8)
	assert.Equal(t, int64(0), int64(binary.BigEndian.Uint64(res)))

	assert.Equal(t, []byte{0x42, 0x44}, expectAck(t, conn, 0x2b))
	assert.Equal(t, []byte{0x84}, expectAck(t, conn, 0x21))
	assert.Equal(t, []byte{0x01, 0x02}, expectAck(t, conn, 0x27))
	assert.Equal(t, uint64(8), c.Cycles)
}

func TestStepAndReset(t *testing.T) {
	c, conn := newClient(t)

	expectAck(t, conn, 0x31, 0x10, 0x00, 0xa2, 0x07, 0x02)
	expectAck(t, conn, 0x2a, 0x10, 0x00)
	expectAck(t, conn, 0x1e)
	assert.Equal(t, byte(0x07), c.Reg.X)

	assert.Contains(t, expectFail(t, conn, 0x1e), "unhandled instruction $02 at $1002")

	expectAck(t, conn, 0x11)
	assert.Equal(t, []byte{0xff, 0xfc}, expectAck(t, conn, 0x2b))
	assert.Equal(t, []byte{0x00}, expectAck(t, conn, 0x23))
}

func TestBadRequests(t *testing.T) {
	_, conn := newClient(t)

	assert.Equal(t, "unknown request $7F", expectFail(t, conn, 0x7f))
	assert.Equal(t, "truncated request", expectFail(t, conn, 0x20))
	assert.Equal(t, "truncated request", expectFail(t, conn, 0x1f, 0x00))
}

func TestBye(t *testing.T) {
	_, conn := newClient(t)

	expectAck(t, conn, 0x10)
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
