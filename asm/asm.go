// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements a two-pass assembler for the simulated CPU's
// instruction set.
package asm

import (
	"bufio"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/beevik/sim6502/cpu"
)

var (
	errParse = errors.New("parse error")
)

var modeName = []string{
	"IMM",
	"IMP",
	"ZPG",
	"ZPX",
	"ZPY",
	"ABS",
}

type pseudoOpData struct {
	fn     func(a *assembler, s *statement) error
	param  int
	equate bool
}

var pseudoOps = map[string]pseudoOpData{
	".or":     {fn: (*assembler).sizeOrigin},
	".org":    {fn: (*assembler).sizeOrigin},
	"org":     {fn: (*assembler).sizeOrigin},
	".db":     {fn: (*assembler).sizeData, param: 1},
	".byte":   {fn: (*assembler).sizeData, param: 1},
	".dw":     {fn: (*assembler).sizeData, param: 2},
	".word":   {fn: (*assembler).sizeData, param: 2},
	".eq":     {fn: (*assembler).sizeEquate, equate: true},
	".equ":    {fn: (*assembler).sizeEquate, equate: true},
	"equ":     {fn: (*assembler).sizeEquate, equate: true},
	"=":       {fn: (*assembler).sizeEquate, equate: true},
	".ex":     {fn: (*assembler).sizeExport},
	".export": {fn: (*assembler).sizeExport},
}

// A statement is a single parsed line of assembly code.
type statement struct {
	fileIndex int              // index of file containing the statement
	line      int              // the source code line number
	label     string           // label, or equate name
	op        string           // opcode or pseudo-op
	operand   string           // unparsed operand text
	pseudo    *pseudoOpData    // pseudo-op handler, if op is a pseudo-op
	inst      *cpu.Instruction // selected instruction for the opcode
	expr      string           // operand expression without mode syntax
	addr      int              // address assigned to the statement
	size      int              // number of bytes generated
}

// An Error describes a syntax error encountered during assembly.
type Error struct {
	File string // source file name
	Line int    // source line number
	Msg  string // description of the error
}

func (e *Error) Error() string {
	return fmt.Sprintf("Syntax error in '%s' line %d: %s", e.File, e.Line, e.Msg)
}

// The assembler is a state object used during the assembly of
// machine code from assembly code.
type assembler struct {
	instSet     *cpu.InstructionSet // instructions of the CPU
	origin      int                 // code origin
	pc          int                 // the program counter
	emitted     bool                // whether any code has been sized
	code        []byte              // generated machine code
	r           io.Reader           // the reader passed to Assemble
	symbols     map[string]int      // label and equate values
	exports     []Export            // exported addresses
	sourceLines []SourceLine        // source code line mappings
	files       []string            // processed files
	statements  []*statement        // parsed lines
	errors      []error             // errors encountered during assembly
}

// An Export describes an exported address.
type Export struct {
	Label   string
	Address uint16
}

// Assembly contains the assembled machine code and other data associated with
// the machine code.
type Assembly struct {
	Code   []byte   // Assembled machine code
	Errors []string // Errors encountered during assembly
}

// ReadFrom reads machine code from a binary input source.
func (a *Assembly) ReadFrom(r io.Reader) (n int64, err error) {
	a.Errors = []string{}
	a.Code, err = io.ReadAll(r)
	n = int64(len(a.Code))
	if n > cpu.MemorySize {
		return n, fmt.Errorf("code exceeded 64K size")
	}
	return n, err
}

// WriteTo saves machine code as binary data into an output writer.
func (a *Assembly) WriteTo(w io.Writer) (n int64, err error) {
	nn, err := w.Write(a.Code)
	return int64(nn), err
}

// AssembleFile assembles the file at path and writes the machine code to a
// .bin file and the source map to a .map file alongside it.
func AssembleFile(path string, origin uint16, out io.Writer) error {
	inFile, err := os.Open(path)
	if err != nil {
		return err
	}
	defer inFile.Close()

	assembly, sourceMap, err := Assemble(inFile, path, origin)
	if err != nil {
		for _, e := range assembly.Errors {
			fmt.Fprintln(out, e)
		}
		return err
	}

	ext := filepath.Ext(path)
	prefix := path[:len(path)-len(ext)]
	binPath := prefix + ".bin"
	binFile, err := os.OpenFile(binPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer binFile.Close()

	_, err = assembly.WriteTo(binFile)
	if err != nil {
		return err
	}

	mapPath := prefix + ".map"
	mapFile, err := os.OpenFile(mapPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer mapFile.Close()

	_, err = sourceMap.WriteTo(mapFile)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Assembled '%s' to produce '%s' and '%s'.\n",
		filepath.Base(path),
		filepath.Base(binPath),
		filepath.Base(mapPath))
	return nil
}

// Assemble reads data from the provided stream and attempts to assemble
// it into machine code. Code starts at origin unless a .ORG pseudo-op
// precedes the first instruction. If assembly fails, the returned error
// joins one *Error per problem found.
func Assemble(r io.Reader, filename string, origin uint16) (*Assembly, *SourceMap, error) {
	a := &assembler{
		instSet: cpu.GetInstructionSet(),
		origin:  int(origin),
		pc:      int(origin),
		r:       r,
		symbols: make(map[string]int),
		files:   []string{filename},
	}

	// Assembly consists of the following steps
	steps := []func(a *assembler) error{
		(*assembler).parse,           // Parse the assembly code
		(*assembler).assignAddresses, // Size statements and assign label addresses
		(*assembler).generateCode,    // Generate the machine code
	}

	// Execute assembler steps, breaking if an error is encountered
	// in any one of them.
	var err error
	for _, step := range steps {
		err = step(a)
		if err != nil {
			break
		}
		if len(a.errors) > 0 {
			err = errors.Join(a.errors...)
			break
		}
	}

	errs := make([]string, 0, len(a.errors))
	for _, e := range a.errors {
		errs = append(errs, e.Error())
	}

	assembly := &Assembly{
		Code:   a.code,
		Errors: errs,
	}

	sourceMap := &SourceMap{
		Origin:  uint16(a.origin),
		Size:    uint32(len(a.code)),
		CRC:     checksum(a.code),
		Files:   a.files,
		Lines:   a.sourceLines,
		Exports: sortExports(a.exports),
	}

	return assembly, sourceMap, err
}

func checksum(code []byte) uint32 {
	return crc32.ChecksumIEEE(code)
}

func sortExports(e []Export) []Export {
	sort.Slice(e, func(i, j int) bool { return e[i].Address < e[j].Address })
	return e
}

// Parse every line of the input into statements.
func (a *assembler) parse() error {
	scanner := bufio.NewScanner(a.r)
	for row := 1; scanner.Scan(); row++ {
		a.parseLine(scanner.Text(), 0, row)
	}
	return scanner.Err()
}

func (a *assembler) parseLine(text string, fileIndex, row int) {
	if i := strings.IndexByte(text, ';'); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimRight(text, " \t\r")
	if text == "" {
		return
	}

	s := &statement{fileIndex: fileIndex, line: row}

	labeled := text[0] != ' ' && text[0] != '\t'
	first, remain := nextField(text)
	if labeled && !strings.HasPrefix(first, ".") && a.instSet.GetInstructions(first) == nil {
		s.label = strings.TrimSuffix(first, ":")
		if !isIdentifier(s.label) {
			a.addError(s, "invalid label '%s'", first)
			return
		}
		first, remain = nextField(remain)
	}

	s.op = first
	s.operand = strings.TrimSpace(remain)
	if s.op == "" {
		a.statements = append(a.statements, s)
		return
	}

	if p, ok := pseudoOps[strings.ToLower(s.op)]; ok {
		s.pseudo = &p
		a.statements = append(a.statements, s)
		return
	}

	if a.instSet.GetInstructions(s.op) == nil {
		a.addError(s, "invalid opcode '%s'", s.op)
		return
	}
	s.op = strings.ToUpper(s.op)
	a.statements = append(a.statements, s)
}

// Assign an address and a size to every statement, defining labels and
// equates along the way.
func (a *assembler) assignAddresses() error {
	for _, s := range a.statements {
		s.addr = a.pc

		switch {
		case s.pseudo != nil:
			if err := s.pseudo.fn(a, s); err != nil {
				a.addError(s, "%v", err)
				continue
			}
		case s.op != "":
			if err := a.sizeInstruction(s); err != nil {
				a.addError(s, "%v", err)
				continue
			}
		}

		if s.label != "" && !s.isEquate() {
			a.defineSymbol(s, s.label, a.pc)
		}

		a.pc += s.size
		if s.size > 0 {
			a.emitted = true
		}
		if a.pc > cpu.MemorySize {
			a.addError(s, "code exceeds 64K address space")
			return errParse
		}
	}
	return nil
}

func (s *statement) isEquate() bool {
	return s.pseudo != nil && s.pseudo.equate
}

func (a *assembler) defineSymbol(s *statement, name string, value int) {
	if _, ok := a.symbols[name]; ok {
		a.addError(s, "label '%s' already defined", name)
		return
	}
	a.symbols[name] = value
}

func (a *assembler) sizeOrigin(s *statement) error {
	v, err := Eval(s.operand, a.symbols)
	if err != nil {
		return err
	}
	if v < 0 || v > 0xffff {
		return fmt.Errorf("origin $%X out of range", v)
	}
	switch {
	case !a.emitted:
		a.origin = v
		a.pc = v
		s.addr = v
	case v < a.pc:
		return fmt.Errorf("origin $%04X precedes current address $%04X", v, a.pc)
	default:
		s.size = v - a.pc
	}
	return nil
}

func (a *assembler) sizeData(s *statement) error {
	items, err := splitList(s.operand)
	if err != nil {
		return err
	}
	for _, item := range items {
		if str, ok := unquote(item); ok {
			if s.pseudo.param != 1 {
				return fmt.Errorf("strings are only allowed in byte data")
			}
			s.size += len(str)
			continue
		}
		s.size += s.pseudo.param
	}
	return nil
}

func (a *assembler) sizeEquate(s *statement) error {
	if s.label == "" {
		return fmt.Errorf("equate requires a name")
	}
	v, err := Eval(s.operand, a.symbols)
	if err != nil {
		return err
	}
	a.defineSymbol(s, s.label, v)
	return nil
}

func (a *assembler) sizeExport(s *statement) error {
	items, err := splitList(s.operand)
	if err != nil {
		return err
	}
	for _, item := range items {
		if !isIdentifier(item) {
			return fmt.Errorf("invalid export '%s'", item)
		}
	}
	return nil
}

// Select the instruction variant for an opcode and its operand.
func (a *assembler) sizeInstruction(s *statement) error {
	mode, expr, err := parseOperand(s.operand)
	if err != nil {
		return err
	}
	s.expr = expr

	if mode == cpu.ZPG {
		v, err := Eval(expr, a.symbols)
		zp := a.instSet.Find(s.op, cpu.ZPG)
		abs := a.instSet.Find(s.op, cpu.ABS)
		switch {
		case zp != nil && err == nil && v >= 0 && v < 0x100:
			s.inst = zp
		case abs != nil:
			s.inst = abs
		default:
			s.inst = zp
		}
	} else {
		s.inst = a.instSet.Find(s.op, mode)
	}

	if s.inst == nil {
		return fmt.Errorf("%s does not support addressing mode %s", s.op, modeName[mode])
	}
	s.size = int(s.inst.Length)
	return nil
}

// Parse the operand of an instruction into an addressing mode guess and
// the operand's expression.
func parseOperand(operand string) (mode cpu.Mode, expr string, err error) {
	switch {
	case operand == "":
		return cpu.IMP, "", nil
	case operand[0] == '#':
		return cpu.IMM, operand[1:], nil
	}

	if i := strings.LastIndexByte(operand, ','); i >= 0 {
		expr = strings.TrimSpace(operand[:i])
		switch strings.ToUpper(strings.TrimSpace(operand[i+1:])) {
		case "X":
			return cpu.ZPX, expr, nil
		case "Y":
			return cpu.ZPY, expr, nil
		}
		return 0, "", fmt.Errorf("unknown addressing mode format '%s'", operand)
	}
	return cpu.ZPG, operand, nil
}

// Generate machine code for every statement.
func (a *assembler) generateCode() error {
	a.code = make([]byte, 0, a.pc-a.origin)
	for _, s := range a.statements {
		switch {
		case s.pseudo != nil:
			a.generatePseudoOp(s)
		case s.inst != nil:
			a.generateInstruction(s)
		}
	}
	return nil
}

func (a *assembler) generatePseudoOp(s *statement) {
	switch strings.ToLower(s.op) {
	case ".or", ".org", "org":
		a.code = append(a.code, make([]byte, s.size)...)

	case ".db", ".byte", ".dw", ".word":
		items, _ := splitList(s.operand)
		for _, item := range items {
			if str, ok := unquote(item); ok {
				a.code = append(a.code, str...)
				continue
			}
			v, err := Eval(item, a.symbols)
			if err != nil {
				a.addError(s, "%v", err)
				return
			}
			if s.pseudo.param == 1 {
				if v < -128 || v > 0xff {
					a.addError(s, "byte value $%X out of range", v)
					return
				}
				a.code = append(a.code, byte(v))
			} else {
				if v < -32768 || v > 0xffff {
					a.addError(s, "word value $%X out of range", v)
					return
				}
				a.code = append(a.code, byte(v), byte(v>>8))
			}
		}

	case ".ex", ".export":
		items, _ := splitList(s.operand)
		for _, item := range items {
			v, ok := a.symbols[item]
			if !ok {
				a.addError(s, "export '%s' is not defined", item)
				continue
			}
			a.exports = append(a.exports, Export{Label: item, Address: uint16(v)})
		}
	}
}

func (a *assembler) generateInstruction(s *statement) {
	a.sourceLines = append(a.sourceLines, SourceLine{
		Address:   s.addr,
		FileIndex: s.fileIndex,
		Line:      s.line,
	})

	a.code = append(a.code, s.inst.Opcode)
	switch s.inst.Length {
	case 1:
		if s.expr != "" {
			a.addError(s, "%s takes no operand", s.op)
		}
		return
	}

	v, err := Eval(s.expr, a.symbols)
	if err != nil {
		a.addError(s, "%v", err)
		return
	}

	switch {
	case s.inst.Length == 3:
		if v < 0 || v > 0xffff {
			a.addError(s, "address $%X out of range", v)
			return
		}
		a.code = append(a.code, byte(v), byte(v>>8))
	case s.inst.Mode == cpu.IMM:
		if v < -128 || v > 0xff {
			a.addError(s, "immediate value $%X out of range", v)
			return
		}
		a.code = append(a.code, byte(v))
	default:
		if v < 0 || v > 0xff {
			a.addError(s, "zero page address $%X out of range", v)
			return
		}
		a.code = append(a.code, byte(v))
	}
}

// Append an error message to the assembler's error state.
func (a *assembler) addError(s *statement, format string, args ...any) {
	a.errors = append(a.errors, &Error{
		File: a.files[s.fileIndex],
		Line: s.line,
		Msg:  fmt.Sprintf(format, args...),
	})
}
