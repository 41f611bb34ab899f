// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements an instruction-set simulator for a small 8-bit
// accumulator-based processor modeled on the 6502. The CPU fetches, decodes
// and executes instructions against a flat 64K memory while consuming a
// caller-owned cycle budget.
package cpu

import (
	"errors"
	"fmt"
	"log"
	"os"
)

// Errors
var (
	ErrUnhandledInstruction = errors.New("unhandled instruction")
)

// CPU represents a single emulated CPU. It contains a pointer to the
// memory associated with the CPU.
type CPU struct {
	Reg       Registers       // CPU registers
	Mem       Memory          // assigned memory
	Cycles    uint64          // total executed CPU cycles since reset
	LastPC    uint16          // Previous program counter
	Unhandled uint64          // number of unhandled opcodes encountered
	InstSet   *InstructionSet // Instruction set used by the CPU
	Logger    *log.Logger     // destination for unhandled instruction reports
	debugger  *Debugger
	storeByte func(cpu *CPU, addr uint16, v byte) error
}

// Fixed startup addresses
const (
	vectorReset = 0xfffc
	stackPage   = 0x0100
)

// NewCPU creates an emulated CPU bound to the specified memory. The CPU is
// reset before it is returned.
func NewCPU(m Memory) *CPU {
	cpu := &CPU{
		Mem:       m,
		InstSet:   GetInstructionSet(),
		Logger:    log.New(os.Stderr, "cpu: ", log.LstdFlags),
		storeByte: (*CPU).storeByteNormal,
	}
	cpu.Reset()
	return cpu
}

// Reset reinitializes the registers to their startup values and zero-fills
// the memory. It must be called before the CPU executes any instructions.
func (cpu *CPU) Reset() {
	cpu.Reg.Init()
	cpu.Mem.Init()
	cpu.Cycles = 0
	cpu.LastPC = cpu.Reg.PC
	cpu.Unhandled = 0
}

// SetPC updates the CPU program counter to 'addr'.
func (cpu *CPU) SetPC(addr uint16) {
	cpu.Reg.PC = addr
}

// FetchByte reads the byte at the program counter, advances the program
// counter and spends one cycle.
func (cpu *CPU) FetchByte(budget *Cycles) (byte, error) {
	v, err := cpu.Mem.LoadByte(uint32(cpu.Reg.PC))
	if err != nil {
		return 0, err
	}
	cpu.Reg.PC++
	budget.Spend(1)
	return v, nil
}

// FetchWord reads a little-endian 16-bit value at the program counter,
// advances the program counter by two and spends two cycles.
func (cpu *CPU) FetchWord(budget *Cycles) (uint16, error) {
	lo, err := cpu.FetchByte(budget)
	if err != nil {
		return 0, err
	}
	hi, err := cpu.FetchByte(budget)
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

// ReadByte reads the byte at an arbitrary address and spends one cycle.
// The program counter is not affected.
func (cpu *CPU) ReadByte(budget *Cycles, addr uint16) (byte, error) {
	v, err := cpu.Mem.LoadByte(uint32(addr))
	if err != nil {
		return 0, err
	}
	budget.Spend(1)
	return v, nil
}

// Step the cpu by one instruction. An opcode with no implementation is
// logged and reported with an error wrapping ErrUnhandledInstruction; the
// program counter has already moved past it.
func (cpu *CPU) Step(budget *Cycles) error {
	if budget == nil {
		budget = new(Cycles)
	}
	start := *budget

	err := cpu.execute(budget)
	cpu.Cycles += uint64(start - *budget)
	if err != nil && !errors.Is(err, ErrUnhandledInstruction) {
		return err
	}

	if cpu.debugger != nil {
		cpu.debugger.onStep(cpu)
	}
	return err
}

// Fetch, decode and execute a single instruction.
func (cpu *CPU) execute(budget *Cycles) error {
	cpu.LastPC = cpu.Reg.PC
	opcode, err := cpu.FetchByte(budget)
	if err != nil {
		return err
	}

	inst := cpu.InstSet.Lookup(opcode)
	if !inst.Bound() {
		cpu.Unhandled++
		err := fmt.Errorf("%w $%02X at $%04X", ErrUnhandledInstruction, opcode, cpu.LastPC)
		cpu.Logger.Print(err)
		return err
	}
	return inst.fn(cpu, inst, budget)
}

// Run executes instructions until the budget is exhausted. Because the
// budget is checked once per instruction, a multi-cycle instruction may
// leave it slightly below zero. Unhandled opcodes do not stop the run;
// memory errors do.
func (cpu *CPU) Run(budget *Cycles) error {
	for !budget.Exhausted() {
		err := cpu.Step(budget)
		if err != nil && !errors.Is(err, ErrUnhandledInstruction) {
			return err
		}
	}
	return nil
}

// AttachDebugger attaches a debugger to the CPU. The debugger receives
// notifications whenever the CPU executes an instruction or stores a byte
// to memory.
func (cpu *CPU) AttachDebugger(debugger *Debugger) {
	cpu.debugger = debugger
	cpu.storeByte = (*CPU).storeByteDebugger
}

// DetachDebugger detaches the currently debugger from the CPU.
func (cpu *CPU) DetachDebugger() {
	cpu.debugger = nil
	cpu.storeByte = (*CPU).storeByteNormal
}

// Resolve the effective address of an instruction's operand using the
// requested addressing mode, fetching operand bytes as needed.
func (cpu *CPU) address(mode Mode, budget *Cycles) (uint16, error) {
	switch mode {
	case ZPG:
		zpaddr, err := cpu.FetchByte(budget)
		return uint16(zpaddr), err
	case ZPX:
		zpaddr, err := cpu.FetchByte(budget)
		if err != nil {
			return 0, err
		}
		budget.Spend(1)
		return offsetZeroPage(zpaddr, cpu.Reg.X), nil
	case ZPY:
		zpaddr, err := cpu.FetchByte(budget)
		if err != nil {
			return 0, err
		}
		budget.Spend(1)
		return offsetZeroPage(zpaddr, cpu.Reg.Y), nil
	case ABS:
		return cpu.FetchWord(budget)
	default:
		panic("Invalid addressing mode")
	}
}

// Load a byte value using the requested addressing mode.
func (cpu *CPU) load(mode Mode, budget *Cycles) (byte, error) {
	if mode == IMM {
		return cpu.FetchByte(budget)
	}
	addr, err := cpu.address(mode, budget)
	if err != nil {
		return 0, err
	}
	return cpu.ReadByte(budget, addr)
}

// Store a byte value using the requested addressing mode.
func (cpu *CPU) store(mode Mode, budget *Cycles, v byte) error {
	addr, err := cpu.address(mode, budget)
	if err != nil {
		return err
	}
	if err := cpu.storeByte(cpu, addr, v); err != nil {
		return err
	}
	budget.Spend(1)
	return nil
}

// Store the byte value 'v' add the address 'addr'.
func (cpu *CPU) storeByteNormal(addr uint16, v byte) error {
	return cpu.Mem.StoreByte(uint32(addr), v)
}

// Store the byte value 'v' add the address 'addr'.
func (cpu *CPU) storeByteDebugger(addr uint16, v byte) error {
	cpu.debugger.onDataStore(cpu, addr, v)
	return cpu.Mem.StoreByte(uint32(addr), v)
}

// Push the 16-bit address 'addr' onto the stack, low byte first at SP. The
// stack grows upward and both bytes stay within the stack page, so a push
// at $01FF stores its high byte at $0100.
func (cpu *CPU) pushAddress(budget *Cycles, addr uint16) error {
	sp := byte(cpu.Reg.SP)
	lo, hi := stackAddress(sp), stackAddress(sp+1)
	if cpu.debugger != nil {
		cpu.debugger.onDataStore(cpu, lo, byte(addr))
		cpu.debugger.onDataStore(cpu, hi, byte(addr>>8))
		if sp+2 < sp {
			cpu.debugger.onStackWrap(cpu, lo)
		}
	}

	if hi == lo+1 {
		if err := cpu.Mem.StoreWord(uint32(lo), addr, budget); err != nil {
			return err
		}
	} else {
		if err := cpu.Mem.StoreByte(uint32(lo), byte(addr)); err != nil {
			return err
		}
		if err := cpu.Mem.StoreByte(uint32(hi), byte(addr>>8)); err != nil {
			return err
		}
		budget.Spend(2)
	}
	cpu.Reg.SP = stackAddress(sp + 2)
	return nil
}

// Pop a 16-bit address off the stack.
func (cpu *CPU) popAddress(budget *Cycles) (uint16, error) {
	sp := byte(cpu.Reg.SP) - 2
	lo, err := cpu.ReadByte(budget, stackAddress(sp))
	if err != nil {
		return 0, err
	}
	hi, err := cpu.ReadByte(budget, stackAddress(sp+1))
	if err != nil {
		return 0, err
	}
	cpu.Reg.SP = stackAddress(sp)
	return uint16(lo) | uint16(hi)<<8, nil
}

// Update the Zero and Negative flags based on the value of 'v'.
func (cpu *CPU) updateNZ(v byte) {
	cpu.Reg.Zero = (v == 0)
	cpu.Reg.Negative = ((v & 0x80) != 0)
}

// Jump to memory address
func (cpu *CPU) jmp(inst *Instruction, budget *Cycles) error {
	addr, err := cpu.address(inst.Mode, budget)
	if err != nil {
		return err
	}
	cpu.Reg.PC = addr
	return nil
}

// Jump to subroutine
func (cpu *CPU) jsr(inst *Instruction, budget *Cycles) error {
	addr, err := cpu.address(inst.Mode, budget)
	if err != nil {
		return err
	}
	if err := cpu.pushAddress(budget, cpu.Reg.PC-1); err != nil {
		return err
	}
	budget.Spend(1)
	cpu.Reg.PC = addr
	return nil
}

// load Accumulator
func (cpu *CPU) lda(inst *Instruction, budget *Cycles) error {
	v, err := cpu.load(inst.Mode, budget)
	if err != nil {
		return err
	}
	cpu.Reg.A = v
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

// load the X register
func (cpu *CPU) ldx(inst *Instruction, budget *Cycles) error {
	v, err := cpu.load(inst.Mode, budget)
	if err != nil {
		return err
	}
	cpu.Reg.X = v
	cpu.updateNZ(cpu.Reg.X)
	return nil
}

// load the Y register
func (cpu *CPU) ldy(inst *Instruction, budget *Cycles) error {
	v, err := cpu.load(inst.Mode, budget)
	if err != nil {
		return err
	}
	cpu.Reg.Y = v
	cpu.updateNZ(cpu.Reg.Y)
	return nil
}

// No-operation
func (cpu *CPU) nop(inst *Instruction, budget *Cycles) error {
	budget.Spend(1)
	return nil
}

// Return from subroutine
func (cpu *CPU) rts(inst *Instruction, budget *Cycles) error {
	addr, err := cpu.popAddress(budget)
	if err != nil {
		return err
	}
	// Stack pointer adjust, return address increment and the dummy read.
	budget.Spend(3)
	cpu.Reg.PC = addr + 1
	return nil
}

// Store Accumulator
func (cpu *CPU) sta(inst *Instruction, budget *Cycles) error {
	return cpu.store(inst.Mode, budget, cpu.Reg.A)
}
