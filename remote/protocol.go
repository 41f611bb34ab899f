// Copyright 2018 Brett Vickers.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package remote

import (
	"encoding/binary"
	"errors"
)

type opbyte uint8

// Response opbytes
const (
	opAck  opbyte = 0x00
	opFail opbyte = 0x01
)

// Request opbytes
const (
	opBye      opbyte = 0x10
	opReset    opbyte = 0x11
	opStep     opbyte = 0x1e
	opRun      opbyte = 0x1f
	opWriteA   opbyte = 0x20
	opReadA    opbyte = 0x21
	opWriteX   opbyte = 0x22
	opReadX    opbyte = 0x23
	opWriteY   opbyte = 0x24
	opReadY    opbyte = 0x25
	opWriteSP  opbyte = 0x26
	opReadSP   opbyte = 0x27
	opWriteP   opbyte = 0x28
	opReadP    opbyte = 0x29
	opWritePC  opbyte = 0x2a
	opReadPC   opbyte = 0x2b
	opReadMem  opbyte = 0x30
	opWriteMem opbyte = 0x31
)

var errTruncated = errors.New("truncated request")

// A request is the unread remainder of a request message.
type request struct {
	buf []uint8
}

func (r *request) inB() (uint8, error) {
	if len(r.buf) < 1 {
		return 0, errTruncated
	}
	res := r.buf[0]
	r.buf = r.buf[1:]
	return res, nil
}

func (r *request) inW() (uint16, error) {
	if len(r.buf) < 2 {
		return 0, errTruncated
	}
	res := binary.BigEndian.Uint16(r.buf)
	r.buf = r.buf[2:]
	return res, nil
}

func (r *request) inD() (uint32, error) {
	if len(r.buf) < 4 {
		return 0, errTruncated
	}
	res := binary.BigEndian.Uint32(r.buf)
	r.buf = r.buf[4:]
	return res, nil
}

func (r *request) rest() []uint8 {
	res := r.buf
	r.buf = nil
	return res
}

type sendBuf struct {
	buf  []uint8
	dest []uint8
}

func newAckResponse(restLen int) sendBuf {
	buf := make([]uint8, restLen+1)
	buf[0] = uint8(opAck)
	return sendBuf{buf: buf, dest: buf[1:]}
}

func newFailResponse(reason string) sendBuf {
	buf := make([]uint8, len(reason)+1)
	buf[0] = uint8(opFail)
	copy(buf[1:], reason)
	return sendBuf{buf: buf}
}

func (b *sendBuf) appendB(v uint8) {
	b.dest[0] = v
	b.dest = b.dest[1:]
}

func (b *sendBuf) appendW(v uint16) {
	binary.BigEndian.PutUint16(b.dest[0:2], v)
	b.dest = b.dest[2:]
}

func (b *sendBuf) appendQ(v int64) {
	binary.BigEndian.PutUint64(b.dest[0:8], uint64(v))
	b.dest = b.dest[8:]
}

func (b *sendBuf) appendBytes(v []uint8) {
	n := copy(b.dest, v)
	b.dest = b.dest[n:]
}
