// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a disassembler for the simulated CPU's
// instruction set.
package disasm

import (
	"fmt"
	"strings"

	"github.com/beevik/sim6502/cpu"
)

// Disassembler formatting for addressing modes
var modeFormat = []string{
	"#$%s",  // IMM
	"%s",    // IMP
	"$%s",   // ZPG
	"$%s,X", // ZPX
	"$%s,Y", // ZPY
	"$%s",   // ABS
}

var hex = "0123456789ABCDEF"

// Return a hexadecimal string representation of the byte slice.
func hexString(b []byte) string {
	hexlen := len(b) * 2
	hexbuf := make([]byte, hexlen)
	j := hexlen - 1
	for _, n := range b {
		hexbuf[j] = hex[n&0xf]
		hexbuf[j-1] = hex[n>>4]
		j -= 2
	}
	return string(hexbuf)
}

// Disassemble the machine code in memory 'm' at address 'addr'. Return a
// 'line' string representing the disassembled instruction and a 'next'
// address that starts the following line of machine code. Unhandled
// opcodes disassemble as a one-byte instruction named cpu.UnhandledName.
// Operand addresses wrap past $FFFF the same way the program counter does.
func Disassemble(m cpu.Memory, addr uint16) (line string, next uint16, err error) {
	opcode, err := m.LoadByte(uint32(addr))
	if err != nil {
		return "", addr, err
	}

	inst := cpu.GetInstructionSet().Lookup(opcode)
	operand := make([]byte, int(inst.Length)-1)
	for i := range operand {
		operand[i], err = m.LoadByte(uint32(addr + 1 + uint16(i)))
		if err != nil {
			return "", addr, err
		}
	}

	format := "%s " + modeFormat[inst.Mode]
	line = strings.TrimSpace(fmt.Sprintf(format, inst.Name, hexString(operand)))
	next = addr + uint16(inst.Length)
	return line, next, nil
}

// Bytes returns the hexadecimal machine code bytes of the instruction at
// 'addr', separated by spaces.
func Bytes(m cpu.Memory, addr uint16) (string, error) {
	opcode, err := m.LoadByte(uint32(addr))
	if err != nil {
		return "", err
	}
	inst := cpu.GetInstructionSet().Lookup(opcode)

	var b strings.Builder
	for i := 0; i < int(inst.Length); i++ {
		v, err := m.LoadByte(uint32(addr + uint16(i)))
		if err != nil {
			return "", err
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(hexString([]byte{v}))
	}
	return b.String(), nil
}
