// Copyright 2018 Brett Vickers.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package remote serves a simulated CPU to clients over WebSocket. Each
// binary message carries one request, and each request receives one
// response: an ack byte followed by a payload, or a fail byte followed by
// a UTF-8 reason.
package remote

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/beevik/sim6502/cpu"
	"github.com/gorilla/websocket"
)

// Path is the HTTP path of the WebSocket endpoint.
const Path = "/sim6502"

var errNotBinary = errors.New("expected binary message, got something else")

// A Server shares a single CPU among all of its clients. Requests from
// different clients are serialized.
type Server struct {
	Logger   *log.Logger
	mu       sync.Mutex
	cpu      *cpu.CPU
	upgrader websocket.Upgrader
}

// NewServer creates a server for the CPU.
func NewServer(c *cpu.CPU) *Server {
	return &Server{
		Logger: log.New(os.Stderr, "remote: ", log.LstdFlags),
		cpu:    c,
	}
}

// ListenAndServe serves the WebSocket endpoint on the TCP address.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle(Path, s)
	s.Logger.Printf("Started HTTP(WebSocket) server at %s%s", addr, Path)
	return http.ListenAndServe(addr, mux)
}

// ServeHTTP upgrades the connection to WebSocket and serves requests until
// the client says goodbye or the connection fails.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Logger.Printf("New client connection from %s", r.RemoteAddr)
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Print("websocket upgrade error: ", err)
		return
	}
	defer conn.Close()

	ctx := &clientContext{
		server: s,
		conn:   conn,
		logger: log.New(s.Logger.Writer(), fmt.Sprintf("[client/%s] ", conn.RemoteAddr()), s.Logger.Flags()),
	}
	for !ctx.closed {
		if err := ctx.serveNextCmd(); err != nil {
			ctx.logger.Printf("Closing client connection due to an error: %v", err)
			break
		}
	}
	ctx.logger.Printf("Closed client connection")
}

type clientContext struct {
	server *Server
	conn   *websocket.Conn
	logger *log.Logger
	closed bool
}

func (ctx *clientContext) out(b sendBuf) error {
	if len(b.dest) != 0 {
		panic("too many bytes were allocated")
	}
	return ctx.conn.WriteMessage(websocket.BinaryMessage, b.buf)
}

func (ctx *clientContext) outFail(err error) error {
	return ctx.out(newFailResponse(err.Error()))
}

func (ctx *clientContext) serveNextCmd() error {
	tp, msg, err := ctx.conn.ReadMessage()
	if err != nil {
		return err
	}
	if tp != websocket.BinaryMessage {
		return errNotBinary
	}

	ctx.server.mu.Lock()
	res, err := ctx.handle(&request{buf: msg})
	ctx.server.mu.Unlock()

	if err != nil {
		return ctx.outFail(err)
	}
	return ctx.out(res)
}

// Handle a single request against the shared CPU.
func (ctx *clientContext) handle(req *request) (sendBuf, error) {
	c := ctx.server.cpu
	reg := &c.Reg

	hdrByte, err := req.inB()
	if err != nil {
		return sendBuf{}, err
	}

	switch op := opbyte(hdrByte); op {
	case opBye:
		ctx.closed = true
		return newAckResponse(0), nil

	case opReset:
		c.Reset()
		return newAckResponse(0), nil

	case opStep:
		if err := c.Step(nil); err != nil {
			return sendBuf{}, err
		}
		return newAckResponse(0), nil

	case opRun:
		cycles, err := req.inD()
		if err != nil {
			return sendBuf{}, err
		}
		budget := cpu.Cycles(cycles)
		if err := c.Run(&budget); err != nil {
			return sendBuf{}, err
		}
		res := newAckResponse(8)
		res.appendQ(int64(budget))
		return res, nil

	case opWriteA, opWriteX, opWriteY, opWriteP:
		val, err := req.inB()
		if err != nil {
			return sendBuf{}, err
		}
		switch op {
		case opWriteA:
			reg.A = val
		case opWriteX:
			reg.X = val
		case opWriteY:
			reg.Y = val
		case opWriteP:
			reg.RestorePS(val)
		}
		return newAckResponse(0), nil

	case opReadA, opReadX, opReadY, opReadP:
		var val uint8
		switch op {
		case opReadA:
			val = reg.A
		case opReadX:
			val = reg.X
		case opReadY:
			val = reg.Y
		case opReadP:
			val = reg.SavePS()
		}
		res := newAckResponse(1)
		res.appendB(val)
		return res, nil

	case opWriteSP, opWritePC:
		val, err := req.inW()
		if err != nil {
			return sendBuf{}, err
		}
		if op == opWriteSP {
			reg.SetSP(val)
		} else {
			reg.PC = val
		}
		return newAckResponse(0), nil

	case opReadSP, opReadPC:
		val := reg.PC
		if op == opReadSP {
			val = reg.SP
		}
		res := newAckResponse(2)
		res.appendW(val)
		return res, nil

	case opReadMem:
		addr, err := req.inW()
		if err != nil {
			return sendBuf{}, err
		}
		n, err := req.inW()
		if err != nil {
			return sendBuf{}, err
		}
		b := make([]uint8, n)
		for i := range b {
			b[i], err = c.Mem.LoadByte(uint32(addr) + uint32(i))
			if err != nil {
				return sendBuf{}, err
			}
		}
		res := newAckResponse(len(b))
		res.appendBytes(b)
		return res, nil

	case opWriteMem:
		addr, err := req.inW()
		if err != nil {
			return sendBuf{}, err
		}
		b := req.rest()
		if int(addr)+len(b) > cpu.MemorySize {
			return sendBuf{}, fmt.Errorf("%w: $%05X", cpu.ErrOutOfRange, int(addr)+len(b)-1)
		}
		for i, v := range b {
			if err := c.Mem.StoreByte(uint32(addr)+uint32(i), v); err != nil {
				return sendBuf{}, err
			}
		}
		return newAckResponse(0), nil

	default:
		return sendBuf{}, fmt.Errorf("unknown request $%02X", hdrByte)
	}
}
