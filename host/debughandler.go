// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/beevik/sim6502/cpu"

// A debugHandler is the host seen as a cpu.BreakpointHandler. Each
// notification reports what happened and, unless it is only a warning,
// stops the current run or step loop.
type debugHandler Host

func (d *debugHandler) host() *Host {
	return (*Host)(d)
}

func (d *debugHandler) OnBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	h := d.host()
	h.state = stateBreakpoint
	h.printf("Breakpoint hit at $%04X.\n", b.Address)
}

func (d *debugHandler) OnDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	h := d.host()
	h.state = stateBreakpoint
	h.printf("Data breakpoint hit on $%04X.\n", b.Address)

	if c.LastPC != c.Reg.PC {
		line, _ := h.disassemble(c.LastPC, 0)
		h.println(line)
	}
}

func (d *debugHandler) OnCycleBreakpoint(c *cpu.CPU, b *cpu.CycleBreakpoint) {
	h := d.host()
	h.state = stateBreakpoint
	h.printf("Cycle breakpoint hit after %d cycles.\n", c.Cycles)
}

// A wrapped stack overwrites the oldest return addresses, so it is always
// reported. It only stops execution when the StackBreak setting is on.
func (d *debugHandler) OnStackWrap(c *cpu.CPU, addr uint16) {
	h := d.host()
	h.printf("Stack wrapped at $%04X by the call at $%04X.\n", addr, c.LastPC)
	if h.settings.StackBreak {
		h.state = stateBreakpoint
	}
}
