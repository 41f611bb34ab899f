// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assemble(code string) ([]byte, error) {
	r := strings.NewReader(code)
	assembly, _, err := Assemble(r, "test", 0x1000)
	if err != nil {
		return []byte{}, err
	}
	return assembly.Code, nil
}

func checkASM(t *testing.T, asm string, expected string) {
	t.Helper()
	code, err := assemble(asm)
	if err != nil {
		t.Error(err)
		return
	}

	s := fmt.Sprintf("%X", code)
	if s != expected {
		t.Error("code doesn't match expected")
		t.Errorf("got: %s\n", s)
		t.Errorf("exp: %s\n", expected)
	}
}

func checkASMError(t *testing.T, asm string, errString string) {
	t.Helper()
	_, err := assemble(asm)
	if err == nil {
		t.Errorf("Expected error on %s, didn't get one\n", asm)
		return
	}
	if !strings.Contains(err.Error(), errString) {
		t.Errorf("Expected '%s', got '%v'\n", errString, err)
	}
}

func TestAddressingIMM(t *testing.T) {
	asm := `
	LDA #$20
	LDX #$20
	LDY #$20
	LDA #-1`

	checkASM(t, asm, "A920A220A020A9FF")
}

func TestAddressingIMP(t *testing.T) {
	asm := `
	NOP
	RTS`

	checkASM(t, asm, "EA60")
}

func TestAddressingZPG(t *testing.T) {
	asm := `
	LDA $20
	LDX $20
	LDY $20
	STA $20`

	checkASM(t, asm, "A520A620A4208520")
}

func TestAddressingZPX(t *testing.T) {
	asm := `
	LDA $20,X
	LDY $20,x
	STA $20,X`

	checkASM(t, asm, "B520B4209520")
}

func TestAddressingZPY(t *testing.T) {
	asm := `
	LDX $20,Y`

	checkASM(t, asm, "B620")
}

func TestAddressingABS(t *testing.T) {
	asm := `
	LDA $2000
	STA $2000
	JMP $2000
	JSR $2000
	LDA $0120`

	checkASM(t, asm, "AD00208D00204C0020200020AD2001")
}

func TestAddressingABSForLargeZeroPageOnlyOps(t *testing.T) {
	// LDX has no absolute form here, so a 16-bit operand is an error.
	checkASMError(t, "\tLDX $2000", "zero page address $2000 out of range")
}

func TestLabels(t *testing.T) {
	asm := `
	.ORG $1000
START	LDA #$01
	JSR SUB
	JMP START
SUB:	RTS`

	checkASM(t, asm, "A901200810"+"4C0010"+"60")
}

func TestForwardLabelUsesAbsolute(t *testing.T) {
	asm := `
	.ORG $0000
	LDA ZP
ZP	NOP`

	// Forward references are sized before their value is known.
	checkASM(t, asm, "AD0300EA")
}

func TestEquates(t *testing.T) {
	asm := `
PORT	= $20
PAGE	.EQ $1200
	LDA PORT
	STA PORT+1,X
	LDA #<PAGE+$34
	LDY #>PAGE
	LDA PAGE`

	checkASM(t, asm, "A5209521A934A012AD0012")
}

func TestDataBytes(t *testing.T) {
	asm := `
	.DB "AB", $00
	.DB 'f', 'f'
	.DB $ABCD >> 8
	.DB 1+2+3+4
	.DB -1
	.DB 0b01010101
	.BYTE 7`

	checkASM(t, asm, "4142006666AB0AFF5507")
}

func TestDataWords(t *testing.T) {
	asm := `
	.DW $ABCD
	.DW $ABCD >> 8
	.DW $0102, 1+2+3+4
	.DW -1
	.WORD 0b0101010101010101`

	checkASM(t, asm, "CDABAB0002010A00FFFF5555")
}

func TestOriginPadding(t *testing.T) {
	asm := `
	.ORG $1000
	NOP
	.ORG $1004
	RTS`

	checkASM(t, asm, "EA00000060")
}

func TestOriginMovesStart(t *testing.T) {
	assembly, sm, err := Assemble(strings.NewReader("\t.ORG $4244\n\tNOP\n"), "test", 0x1000)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x4244), sm.Origin)
	assert.Equal(t, []byte{0xea}, assembly.Code)
}

func TestComments(t *testing.T) {
	asm := `
; full line comment
	LDA #$01 ; trailing comment
	;
	NOP`

	checkASM(t, asm, "A901EA")
}

func TestErrors(t *testing.T) {
	checkASMError(t, "\tLDA", "LDA does not support addressing mode IMP")
	checkASMError(t, "\tFOO $20", "invalid opcode 'FOO'")
	checkASMError(t, "\tJMP #$20", "JMP does not support addressing mode IMM")
	checkASMError(t, "\tLDA $20,Z", "unknown addressing mode format")
	checkASMError(t, "\tLDA #$100", "immediate value $100 out of range")
	checkASMError(t, "\tLDA MISSING", "invalid expression 'MISSING'")
	checkASMError(t, "\t.DB $100", "byte value $100 out of range")
	checkASMError(t, "\t.DW $10000", "word value $10000 out of range")
	checkASMError(t, "\t.ORG $1000\n\tNOP\n\t.ORG $0FFF", "precedes current address")
	checkASMError(t, "L1\tNOP\nL1\tNOP", "label 'L1' already defined")
	checkASMError(t, "1BAD\tNOP", "invalid label '1BAD'")
	checkASMError(t, "\t.DB \"AB", "unterminated string")
	checkASMError(t, "\t.EXPORT NOWHERE", "export 'NOWHERE' is not defined")
}

func TestErrorDetails(t *testing.T) {
	assembly, _, err := Assemble(strings.NewReader("\tNOP\n\tBAD\n\tLDA\n"), "prog.asm", 0x1000)
	require.Error(t, err)

	var asmErr *Error
	require.True(t, errors.As(err, &asmErr))
	assert.Equal(t, "prog.asm", asmErr.File)
	assert.Equal(t, 2, asmErr.Line)

	assert.Equal(t, []string{"Syntax error in 'prog.asm' line 2: invalid opcode 'BAD'"}, assembly.Errors)
}

func TestSourceMap(t *testing.T) {
	asm := `
	.ORG $2000
	.EXPORT MAIN, DONE
MAIN	LDA #$01
	.DB $FF
DONE	RTS`

	assembly, sm, err := Assemble(strings.NewReader(asm), "main.asm", 0x1000)
	require.NoError(t, err)

	assert.Equal(t, uint16(0x2000), sm.Origin)
	assert.Equal(t, uint32(4), sm.Size)
	require.NoError(t, sm.Verify(assembly.Code))
	assert.ErrorIs(t, sm.Verify([]byte{1, 2, 3, 4}), errSourceMapCRC)

	file, line := sm.Search(0x2003)
	assert.Equal(t, "main.asm", file)
	assert.Equal(t, 6, line)
	_, line = sm.Search(0x2002)
	assert.Equal(t, -1, line)

	addr, ok := sm.Lookup("done")
	assert.True(t, ok)
	assert.Equal(t, uint16(0x2003), addr)
	_, ok = sm.Lookup("missing")
	assert.False(t, ok)

	var buf bytes.Buffer
	_, err = sm.WriteTo(&buf)
	require.NoError(t, err)

	var sm2 SourceMap
	_, err = sm2.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, *sm, sm2)
}

func TestAssembleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.asm")
	require.NoError(t, os.WriteFile(path, []byte("\t.ORG $0600\n\tLDA #$42\n\tRTS\n"), 0600))

	var out bytes.Buffer
	require.NoError(t, AssembleFile(path, 0x1000, &out))
	assert.Contains(t, out.String(), "Assembled 'prog.asm' to produce 'prog.bin' and 'prog.map'.")

	code, err := os.ReadFile(filepath.Join(dir, "prog.bin"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xa9, 0x42, 0x60}, code)

	f, err := os.Open(filepath.Join(dir, "prog.map"))
	require.NoError(t, err)
	defer f.Close()

	var sm SourceMap
	_, err = sm.ReadFrom(f)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0600), sm.Origin)
	assert.NoError(t, sm.Verify(code))
}

func TestAssembleFileErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.asm")
	require.NoError(t, os.WriteFile(path, []byte("\tBAD\n"), 0600))

	var out bytes.Buffer
	assert.Error(t, AssembleFile(path, 0x1000, &out))
	assert.Contains(t, out.String(), "invalid opcode 'BAD'")

	_, err := os.Stat(filepath.Join(dir, "bad.bin"))
	assert.True(t, os.IsNotExist(err))
}
