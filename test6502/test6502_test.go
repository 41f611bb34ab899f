// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrace(t *testing.T) {
	src := `
	.ORG $0600
	LDA #$84
	STA $10
	JSR SUB
	NOP
SUB	RTS`

	var out bytes.Buffer
	require.NoError(t, trace(&out, strings.NewReader(src), "sub.asm", 14))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "0600-   LDA #$84      A=84 X=00 Y=00 PS=[------N] SP=0100 PC=0602 Cycles=2", lines[4])
	assert.Equal(t, "0604-   JSR $0608     A=84 X=00 Y=00 PS=[------N] SP=0102 PC=0608 Cycles=11", lines[6])
	assert.Equal(t, "0608-   RTS           A=84 X=00 Y=00 PS=[------N] SP=0100 PC=0607 Cycles=17", lines[7])
}

func TestTraceAssemblyError(t *testing.T) {
	var out bytes.Buffer
	err := trace(&out, strings.NewReader("\tBAD\n"), "bad.asm", 10)
	assert.Error(t, err)
	assert.Contains(t, out.String(), "Syntax error in 'bad.asm' line 1: invalid opcode 'BAD'")
}
