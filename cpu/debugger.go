// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"maps"
	"slices"
)

// A Debugger watches a CPU as it executes and notifies its handler when
// the program counter reaches a breakpoint, when a watched address is
// stored to, when the CPU's executed cycle count reaches a limit, or when
// a subroutine call wraps the stack past the top of the stack page.
type Debugger struct {
	handler         BreakpointHandler
	breakpoints     map[uint16]*Breakpoint
	dataBreakpoints map[uint16]*DataBreakpoint
	cycleBreakpoint *CycleBreakpoint
}

// The BreakpointHandler interface should be implemented by any object that
// wishes to receive debugger notifications.
type BreakpointHandler interface {
	OnBreakpoint(cpu *CPU, b *Breakpoint)
	OnDataBreakpoint(cpu *CPU, b *DataBreakpoint)
	OnCycleBreakpoint(cpu *CPU, b *CycleBreakpoint)
	OnStackWrap(cpu *CPU, addr uint16)
}

// A Breakpoint stops execution when the program counter reaches Address.
type Breakpoint struct {
	Address  uint16
	Disabled bool
}

// A DataBreakpoint stops execution when a byte is stored to Address. A
// conditional data breakpoint only stops when the stored byte is Value.
type DataBreakpoint struct {
	Address     uint16
	Disabled    bool
	Conditional bool
	Value       byte
}

// A CycleBreakpoint stops execution once the CPU's total executed cycle
// count reaches Cycles. It fires once and is then cleared.
type CycleBreakpoint struct {
	Cycles uint64
}

// NewDebugger creates a new CPU debugger.
func NewDebugger(handler BreakpointHandler) *Debugger {
	return &Debugger{
		handler:         handler,
		breakpoints:     make(map[uint16]*Breakpoint),
		dataBreakpoints: make(map[uint16]*DataBreakpoint),
	}
}

func sortedByAddress[T any](m map[uint16]*T) []*T {
	var list []*T
	for _, addr := range slices.Sorted(maps.Keys(m)) {
		list = append(list, m[addr])
	}
	return list
}

// Breakpoint returns the breakpoint at addr, or nil.
func (d *Debugger) Breakpoint(addr uint16) *Breakpoint {
	return d.breakpoints[addr]
}

// Breakpoints returns all breakpoints ordered by address.
func (d *Debugger) Breakpoints() []*Breakpoint {
	return sortedByAddress(d.breakpoints)
}

// AddBreakpoint sets an enabled breakpoint at addr, replacing any
// breakpoint already there.
func (d *Debugger) AddBreakpoint(addr uint16) *Breakpoint {
	b := &Breakpoint{Address: addr}
	d.breakpoints[addr] = b
	return b
}

// RemoveBreakpoint removes the breakpoint at addr.
func (d *Debugger) RemoveBreakpoint(addr uint16) {
	delete(d.breakpoints, addr)
}

// DataBreakpoint returns the data breakpoint at addr, or nil.
func (d *Debugger) DataBreakpoint(addr uint16) *DataBreakpoint {
	return d.dataBreakpoints[addr]
}

// DataBreakpoints returns all data breakpoints ordered by address.
func (d *Debugger) DataBreakpoints() []*DataBreakpoint {
	return sortedByAddress(d.dataBreakpoints)
}

// AddDataBreakpoint sets an unconditional data breakpoint at addr.
func (d *Debugger) AddDataBreakpoint(addr uint16) *DataBreakpoint {
	b := &DataBreakpoint{Address: addr}
	d.dataBreakpoints[addr] = b
	return b
}

// AddConditionalDataBreakpoint sets a data breakpoint at addr that only
// stops when 'value' is stored.
func (d *Debugger) AddConditionalDataBreakpoint(addr uint16, value byte) *DataBreakpoint {
	b := &DataBreakpoint{Address: addr, Conditional: true, Value: value}
	d.dataBreakpoints[addr] = b
	return b
}

// RemoveDataBreakpoint removes the data breakpoint at addr.
func (d *Debugger) RemoveDataBreakpoint(addr uint16) {
	delete(d.dataBreakpoints, addr)
}

// SetCycleBreakpoint stops execution once the CPU has executed a total of
// 'cycles' cycles since reset. It replaces any previous cycle breakpoint.
func (d *Debugger) SetCycleBreakpoint(cycles uint64) *CycleBreakpoint {
	d.cycleBreakpoint = &CycleBreakpoint{Cycles: cycles}
	return d.cycleBreakpoint
}

// CycleBreakpoint returns the pending cycle breakpoint, or nil.
func (d *Debugger) CycleBreakpoint() *CycleBreakpoint {
	return d.cycleBreakpoint
}

// ClearCycleBreakpoint removes the pending cycle breakpoint.
func (d *Debugger) ClearCycleBreakpoint() {
	d.cycleBreakpoint = nil
}

// Called after each instruction.
func (d *Debugger) onStep(cpu *CPU) {
	if d.handler == nil {
		return
	}
	if b := d.breakpoints[cpu.Reg.PC]; b != nil && !b.Disabled {
		d.handler.OnBreakpoint(cpu, b)
	}
	if b := d.cycleBreakpoint; b != nil && cpu.Cycles >= b.Cycles {
		d.cycleBreakpoint = nil
		d.handler.OnCycleBreakpoint(cpu, b)
	}
}

func (d *Debugger) onDataStore(cpu *CPU, addr uint16, v byte) {
	if d.handler == nil {
		return
	}
	if b := d.dataBreakpoints[addr]; b != nil && !b.Disabled {
		if !b.Conditional || b.Value == v {
			d.handler.OnDataBreakpoint(cpu, b)
		}
	}
}

// Called when a push starts at 'addr' and runs past the top of the stack
// page.
func (d *Debugger) onStackWrap(cpu *CPU, addr uint16) {
	if d.handler != nil {
		d.handler.OnStackWrap(cpu, addr)
	}
}
