// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"errors"
	"fmt"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var (
	errExprEmpty   = errors.New("empty expression")
	errExprInteger = errors.New("expression is not an integer")
)

// Eval evaluates an arithmetic expression. Hexadecimal literals may be
// written with a '$' prefix, and a leading '<' or '>' selects the low or
// high byte of the result. Identifiers resolve through the symbols map.
func Eval(expr string, symbols map[string]int) (int, error) {
	src, err := translateExpr(expr)
	if err != nil {
		return 0, err
	}

	pred := make(starlark.StringDict, len(symbols))
	for name, value := range symbols {
		pred[name] = starlark.MakeInt(value)
	}

	thread := &starlark.Thread{Name: "expr"}
	opts := syntax.FileOptions{}
	dict, err := starlark.ExecFileOptions(&opts, thread, "expr", "rc = "+src+"\n", pred)
	if err != nil {
		return 0, fmt.Errorf("invalid expression '%s': %v", expr, err)
	}

	rc, ok := dict["rc"].(starlark.Int)
	if !ok {
		return 0, fmt.Errorf("%w: '%s'", errExprInteger, expr)
	}
	v, ok := rc.Int64()
	if !ok {
		return 0, fmt.Errorf("%w: '%s'", errExprInteger, expr)
	}
	return int(v), nil
}

// Rewrite assembler-style expression syntax into starlark syntax.
func translateExpr(expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", errExprEmpty
	}

	var selector string
	switch expr[0] {
	case '<':
		selector = "lo"
		expr = expr[1:]
	case '>':
		selector = "hi"
		expr = expr[1:]
	}

	src := strings.ReplaceAll(expr, "$", "0x")
	switch selector {
	case "lo":
		src = "((" + src + ") & 0xff)"
	case "hi":
		src = "(((" + src + ") >> 8) & 0xff)"
	}
	return src, nil
}
