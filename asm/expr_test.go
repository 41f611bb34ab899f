// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEval(t *testing.T) {
	symbols := map[string]int{"BASE": 0x1234, "N": 3}

	tests := []struct {
		expr string
		want int
	}{
		{"1", 1},
		{"$ff", 0xff},
		{"$FF+1", 0x100},
		{"0b1010", 10},
		{"BASE", 0x1234},
		{"BASE + N*2", 0x123a},
		{"<BASE", 0x34},
		{">BASE", 0x12},
		{"(BASE >> 4) & $f", 3},
		{"-1", -1},
	}

	for _, tt := range tests {
		got, err := Eval(tt.expr, symbols)
		if assert.NoError(t, err, tt.expr) {
			assert.Equal(t, tt.want, got, tt.expr)
		}
	}
}

func TestEvalErrors(t *testing.T) {
	_, err := Eval("  ", nil)
	assert.ErrorIs(t, err, errExprEmpty)

	_, err = Eval(`"abc"`, nil)
	assert.ErrorIs(t, err, errExprInteger)

	_, err = Eval("UNDEFINED + 1", nil)
	assert.ErrorContains(t, err, "invalid expression 'UNDEFINED + 1'")

	_, err = Eval("1 +", nil)
	assert.Error(t, err)
}
