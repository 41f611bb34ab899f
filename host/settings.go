// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/beevik/prefixtree/v2"
	"github.com/beevik/sim6502/cpu"
)

// DefaultRunCycles is the run command's cycle budget when none is given.
const DefaultRunCycles = 1000000

// Configuration variables changed with the set command. Integer fields may
// carry a "min" tag with the smallest value they accept.
type settings struct {
	HexMode         bool       `doc:"hexadecimal input mode"`
	RunCycles       cpu.Cycles `doc:"default cycle budget of the run command" min:"1"`
	TraceExec       bool       `doc:"display each instruction as it runs"`
	StackBreak      bool       `doc:"stop when a call wraps the stack page"`
	MemDumpBytes    int        `doc:"default number of memory bytes to dump" min:"1"`
	DisasmLines     int        `doc:"default number of lines to disassemble" min:"1"`
	MaxStepLines    int        `doc:"max lines to disassemble when stepping" min:"0"`
	NextDisasmAddr  uint16     `doc:"address of next disassembly"`
	NextMemDumpAddr uint16     `doc:"address of next memory dump"`
}

func newSettings() *settings {
	return &settings{
		RunCycles:    DefaultRunCycles,
		MemDumpBytes: 64,
		DisasmLines:  10,
		MaxStepLines: 20,
	}
}

var errSettingType = errors.New("invalid type")

type settingsField struct {
	name   string
	index  int
	kind   reflect.Kind
	doc    string
	min    int64
	hasMin bool
}

var (
	settingsTree   = prefixtree.New[*settingsField]()
	settingsFields = buildSettingsFields()
)

// Describe each settings field and index it by lowercase name.
func buildSettingsFields() []*settingsField {
	typ := reflect.TypeFor[settings]()
	fields := make([]*settingsField, typ.NumField())
	for i := range fields {
		sf := typ.Field(i)
		f := &settingsField{
			name:  sf.Name,
			index: i,
			kind:  sf.Type.Kind(),
			doc:   sf.Tag.Get("doc"),
		}
		if m, ok := sf.Tag.Lookup("min"); ok {
			v, err := strconv.ParseInt(m, 10, 64)
			if err != nil {
				panic(fmt.Sprintf("settings: bad min tag on %s: %v", sf.Name, err))
			}
			f.min, f.hasMin = v, true
		}
		fields[i] = f
		settingsTree.Add(strings.ToLower(sf.Name), f)
	}
	return fields
}

// Display writes every setting with its current value and description.
func (s *settings) Display(w io.Writer) {
	value := reflect.ValueOf(s).Elem()
	for _, f := range settingsFields {
		v := value.Field(f.index)
		var line string
		if f.kind == reflect.Uint16 {
			line = fmt.Sprintf("    %-16s $%04X", f.name, v.Uint())
		} else {
			line = fmt.Sprintf("    %-16s %v", f.name, v)
		}
		fmt.Fprintf(w, "%-28s (%s)\n", line, f.doc)
	}
}

// Kind returns the kind of the setting matching 'key', which may be any
// unambiguous prefix of its name. Unknown keys return reflect.Invalid.
func (s *settings) Kind(key string) reflect.Kind {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return reflect.Invalid
	}
	return f.kind
}

// Set assigns 'value' to the setting matching 'key'. Booleans accept a
// bool; every other setting accepts an integer that must fit the field and
// respect its minimum.
func (s *settings) Set(key string, value any) error {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return err
	}

	dst := reflect.ValueOf(s).Elem().Field(f.index)
	src := reflect.ValueOf(value)

	if f.kind == reflect.Bool {
		if src.Kind() != reflect.Bool {
			return errSettingType
		}
		dst.SetBool(src.Bool())
		return nil
	}

	if !src.CanInt() {
		return errSettingType
	}
	n := src.Int()
	if f.hasMin && n < f.min {
		return fmt.Errorf("%s must be at least %d", f.name, f.min)
	}

	switch f.kind {
	case reflect.Int, reflect.Int64:
		if dst.OverflowInt(n) {
			return fmt.Errorf("%s value %d out of range", f.name, n)
		}
		dst.SetInt(n)
	case reflect.Uint16:
		if n < 0 || dst.OverflowUint(uint64(n)) {
			return fmt.Errorf("%s value $%X out of range", f.name, n)
		}
		dst.SetUint(uint64(n))
	default:
		return errSettingType
	}
	return nil
}
