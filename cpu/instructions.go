// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "strings"

// An opsym is an internal symbol used to associate an opcode's data
// with its instructions.
type opsym byte

const (
	symJMP opsym = iota
	symJSR
	symLDA
	symLDX
	symLDY
	symNOP
	symRTS
	symSTA
)

type instfunc func(c *CPU, inst *Instruction, budget *Cycles) error

// Emulator implementation for each opcode
type opcodeImpl struct {
	sym  opsym
	name string
	fn   instfunc
}

var impl = []opcodeImpl{
	{symJMP, "JMP", (*CPU).jmp},
	{symJSR, "JSR", (*CPU).jsr},
	{symLDA, "LDA", (*CPU).lda},
	{symLDX, "LDX", (*CPU).ldx},
	{symLDY, "LDY", (*CPU).ldy},
	{symNOP, "NOP", (*CPU).nop},
	{symRTS, "RTS", (*CPU).rts},
	{symSTA, "STA", (*CPU).sta},
}

// Mode describes a memory addressing mode.
type Mode byte

// All supported memory addressing modes
const (
	IMM Mode = iota // Immediate
	IMP             // Implied (no operand)
	ZPG             // Zero Page
	ZPX             // Zero Page,X
	ZPY             // Zero Page,Y
	ABS             // Absolute
)

// Opcode data for an (opcode, mode) pair
type opcodeData struct {
	sym    opsym // internal opcode symbol
	mode   Mode  // addressing mode
	opcode byte  // opcode hex value
	length byte  // length of opcode + operand in bytes
	cycles byte  // number of CPU cycles to execute command
}

// All bound (opcode, mode) pairs
var data = []opcodeData{
	{symLDA, IMM, 0xa9, 2, 2},
	{symLDA, ZPG, 0xa5, 2, 3},
	{symLDA, ZPX, 0xb5, 2, 4},
	{symLDA, ABS, 0xad, 3, 4},

	{symLDX, IMM, 0xa2, 2, 2},
	{symLDX, ZPG, 0xa6, 2, 3},
	{symLDX, ZPY, 0xb6, 2, 4},

	{symLDY, IMM, 0xa0, 2, 2},
	{symLDY, ZPG, 0xa4, 2, 3},
	{symLDY, ZPX, 0xb4, 2, 4},

	{symSTA, ZPG, 0x85, 2, 3},
	{symSTA, ZPX, 0x95, 2, 4},
	{symSTA, ABS, 0x8d, 3, 4},

	{symJMP, ABS, 0x4c, 3, 3},
	{symJSR, ABS, 0x20, 3, 6},
	{symRTS, IMP, 0x60, 1, 6},
	{symNOP, IMP, 0xea, 1, 2},
}

// An Instruction describes a CPU instruction, including its name,
// its addressing mode, its opcode value, its operand size, and its CPU cycle
// cost.
type Instruction struct {
	Name   string   // all-caps name of the instruction
	Mode   Mode     // addressing mode
	Opcode byte     // hexadecimal opcode value
	Length byte     // combined size of opcode and operand, in bytes
	Cycles byte     // number of CPU cycles to execute the instruction
	fn     instfunc // emulator implementation of the function
}

// Bound returns true if the instruction has an emulator implementation.
func (i *Instruction) Bound() bool {
	return i.fn != nil
}

// An InstructionSet defines the set of all possible instructions that
// can run on the emulated CPU.
type InstructionSet struct {
	instructions [256]Instruction          // all instructions by opcode
	variants     map[string][]*Instruction // variants of each instruction
}

// UnhandledName is the name given to opcodes with no implementation.
const UnhandledName = "???"

// Lookup retrieves a CPU instruction corresponding to the requested opcode.
// Opcodes without an implementation return an unbound instruction named
// UnhandledName.
func (s *InstructionSet) Lookup(opcode byte) *Instruction {
	return &s.instructions[opcode]
}

// GetInstructions returns all CPU instructions whose name matches the
// provided string.
func (s *InstructionSet) GetInstructions(name string) []*Instruction {
	return s.variants[strings.ToUpper(name)]
}

// Find returns the variant of the named instruction using the requested
// addressing mode, or nil if there is none.
func (s *InstructionSet) Find(name string, mode Mode) *Instruction {
	for _, inst := range s.GetInstructions(name) {
		if inst.Mode == mode {
			return inst
		}
	}
	return nil
}

func newInstructionSet() *InstructionSet {
	set := &InstructionSet{
		variants: make(map[string][]*Instruction),
	}

	for i := range set.instructions {
		set.instructions[i] = Instruction{
			Name:   UnhandledName,
			Mode:   IMP,
			Opcode: byte(i),
			Length: 1,
		}
	}

	symToImpl := make(map[opsym]*opcodeImpl, len(impl))
	for i := range impl {
		symToImpl[impl[i].sym] = &impl[i]
	}

	for _, d := range data {
		impl := symToImpl[d.sym]
		inst := &set.instructions[d.opcode]
		inst.Name = impl.name
		inst.Mode = d.mode
		inst.Length = d.length
		inst.Cycles = d.cycles
		inst.fn = impl.fn

		set.variants[inst.Name] = append(set.variants[inst.Name], inst)
	}
	return set
}

var instructionSet = newInstructionSet()

// GetInstructionSet returns the instruction set of the emulated CPU.
func GetInstructionSet() *InstructionSet {
	return instructionSet
}
