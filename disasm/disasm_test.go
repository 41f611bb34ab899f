// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disasm_test

import (
	"testing"

	"github.com/beevik/sim6502/cpu"
	"github.com/beevik/sim6502/disasm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisassemble(t *testing.T) {
	mem := cpu.NewFlatMemory()
	code := []byte{
		0xa9, 0x5e, // LDA #$5E
		0xa5, 0x20, // LDA $20
		0xb5, 0x21, // LDA $21,X
		0xb6, 0x22, // LDX $22,Y
		0xad, 0x34, 0x12, // LDA $1234
		0x20, 0x00, 0x20, // JSR $2000
		0xea, // NOP
		0x60, // RTS
		0x02, // ???
	}
	require.NoError(t, mem.StoreBytes(0x1000, code))

	expected := []string{
		"LDA #$5E",
		"LDA $20",
		"LDA $21,X",
		"LDX $22,Y",
		"LDA $1234",
		"JSR $2000",
		"NOP",
		"RTS",
		"???",
	}

	addr := uint16(0x1000)
	for _, exp := range expected {
		line, next, err := disasm.Disassemble(mem, addr)
		require.NoError(t, err)
		assert.Equal(t, exp, line)
		assert.Greater(t, next, addr)
		addr = next
	}
	assert.Equal(t, uint16(0x1000+len(code)), addr)
}

func TestBytes(t *testing.T) {
	mem := cpu.NewFlatMemory()
	require.NoError(t, mem.StoreBytes(0x0600, []byte{0x8d, 0x00, 0x02, 0xea}))

	s, err := disasm.Bytes(mem, 0x0600)
	require.NoError(t, err)
	assert.Equal(t, "8D 00 02", s)

	s, err = disasm.Bytes(mem, 0x0603)
	require.NoError(t, err)
	assert.Equal(t, "EA", s)
}

func TestDisassembleWraps(t *testing.T) {
	mem := cpu.NewFlatMemory()
	require.NoError(t, mem.StoreBytes(0xfffe, []byte{0xea, 0xad}))
	require.NoError(t, mem.StoreBytes(0x0000, []byte{0x34, 0x12}))

	line, next, err := disasm.Disassemble(mem, 0xfffe)
	require.NoError(t, err)
	assert.Equal(t, "NOP", line)
	assert.Equal(t, uint16(0xffff), next)

	line, next, err = disasm.Disassemble(mem, next)
	require.NoError(t, err)
	assert.Equal(t, "LDA $1234", line)
	assert.Equal(t, uint16(0x0002), next)

	s, err := disasm.Bytes(mem, 0xffff)
	require.NoError(t, err)
	assert.Equal(t, "AD 34 12", s)
}
