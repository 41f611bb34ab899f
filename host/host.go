// Copyright 2018 Brett Vickers.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host allows you to create a "host" that emulates a computer system
// with the simulated CPU, 64K of memory, a built-in assembler, a built-in
// debugger, and other useful tools.
//
// Within the host it is possible to assemble and load machine code into
// memory, step through machine code, run the CPU against a cycle budget, set
// address and data breakpoints, dump the contents of memory, disassemble the
// contents of memory, manipulate CPU registers and memory, and evaluate
// arbitrary expressions.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/beevik/cmd"
	"github.com/beevik/sim6502/asm"
	"github.com/beevik/sim6502/cpu"
	"github.com/beevik/sim6502/disasm"
	"github.com/beevik/sim6502/translate"
)

// ErrQuit is returned by RunCommands when the quit command is executed.
var ErrQuit = errors.New("exiting program")

type displayFlags uint8

const (
	displayRegisters displayFlags = 1 << iota
	displayCycles

	displayAll = displayRegisters | displayCycles
)

type state byte

const (
	stateProcessingCommands state = iota
	stateRunning
	stateBreakpoint
)

// A Host represents a fully emulated system: the CPU, 64K of memory, a
// built-in assembler, a built-in debugger, and other useful tools.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	mem         *cpu.FlatMemory
	cpu         *cpu.CPU
	debugger    *cpu.Debugger
	lastCmd     *command
	lastArgs    []string
	state       state
	interrupted atomic.Bool
	sourceMap   *asm.SourceMap
	settings    *settings
}

// New creates a new host environment.
func New() *Host {
	h := &Host{
		state:    stateProcessingCommands,
		settings: newSettings(),
		output:   bufio.NewWriter(os.Stdout),
	}

	// Create the emulated CPU and memory.
	h.mem = cpu.NewFlatMemory()
	h.cpu = cpu.NewCPU(h.mem)
	h.cpu.Logger = log.New(logWriter{h}, "", 0)

	// Create a CPU debugger and attach it to the CPU.
	h.debugger = cpu.NewDebugger((*debugHandler)(h))
	h.cpu.AttachDebugger(h.debugger)

	return h
}

// CPU returns the host's emulated CPU.
func (h *Host) CPU() *cpu.CPU {
	return h.cpu
}

// SetRunCycles changes the default cycle budget of the run command. The
// budget must be positive.
func (h *Host) SetRunCycles(cycles int) error {
	return h.settings.Set("RunCycles", cycles)
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the next command to be entered. RunCommands returns
// ErrQuit if the quit command was executed, and nil when the input is
// exhausted.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) error {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	if interactive {
		h.println()
		h.displayPC()
	}

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		c, args := h.lastCmd, h.lastArgs
		if strings.TrimSpace(line) != "" {
			c, args, err = lookup(line)
			switch {
			case err == cmd.ErrNotFound:
				h.printf("Command not found.\n")
				continue
			case err == cmd.ErrAmbiguous:
				h.printf("Command is ambiguous.\n")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}
		}

		if c == nil {
			continue
		}
		h.lastCmd, h.lastArgs = c, args

		err = c.handler(h, args)
		if err != nil {
			return err
		}
	}
}

// Look up a command line in the command tree. Selecting a subtree
// displays the subtree's commands.
func lookup(line string) (*command, []string, error) {
	sel, err := cmds.Lookup(line)
	if err != nil {
		return nil, nil, err
	}

	switch n := sel.Node.(type) {
	case *cmd.Command:
		c, _ := n.Data.(*command)
		return c, sel.Args, nil
	case *cmd.Tree:
		g := groups[n]
		c := &command{
			handler: func(h *Host, args []string) error {
				h.displayCommands(g)
				return nil
			},
		}
		return c, nil, nil
	}
	return nil, nil, nil
}

// Break interrupts a running CPU. It is safe to call from another
// goroutine.
func (h *Host) Break() {
	h.interrupted.Store(true)
}

// AssembleFile assembles a file and saves the resulting binary and source
// map files alongside it.
func (h *Host) AssembleFile(filename string) error {
	if filepath.Ext(filename) == "" {
		filename += ".asm"
	}
	err := asm.AssembleFile(filename, 0x1000, h.output)
	h.flush()
	return err
}

type logWriter struct {
	h *Host
}

func (w logWriter) Write(p []byte) (n int, err error) {
	n, err = w.h.output.Write(p)
	w.h.flush()
	return n, err
}

func (h *Host) printf(format string, args ...any) {
	h.output.WriteString(translate.From(format, args...))
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.output.WriteString("* ")
		h.flush()
	}
}

func (h *Host) displayPC() {
	d, _ := h.disassemble(h.cpu.Reg.PC, displayAll)
	h.println(d)
}

func (h *Host) cmdAssembleFile(args []string) error {
	if len(args) < 1 {
		h.displayUsage(h.lastCmd)
		return nil
	}

	if err := h.AssembleFile(args[0]); err != nil {
		h.printf("Failed to assemble '%s': %v\n", filepath.Base(args[0]), err)
	}
	return nil
}

func (h *Host) cmdBreakpointList(args []string) error {
	bps := h.debugger.Breakpoints()
	if len(bps) == 0 {
		h.printf("No breakpoints set.\n")
		return nil
	}

	h.println("Addr  Enabled")
	h.println("----- -------")
	for _, b := range bps {
		h.printf("$%04X %v\n", b.Address, !b.Disabled)
	}
	return nil
}

func (h *Host) cmdBreakpointAdd(args []string) error {
	addr, ok := h.addrArg(args)
	if !ok {
		return nil
	}

	h.debugger.AddBreakpoint(addr)
	h.printf("Breakpoint added at $%04X.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointRemove(args []string) error {
	addr, ok := h.addrArg(args)
	if !ok {
		return nil
	}

	if h.debugger.Breakpoint(addr) == nil {
		h.printf("No breakpoint was set on $%04X.\n", addr)
		return nil
	}

	h.debugger.RemoveBreakpoint(addr)
	h.printf("Breakpoint removed at $%04X.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointCycles(args []string) error {
	if len(args) == 0 {
		if b := h.debugger.CycleBreakpoint(); b != nil {
			h.printf("Cycle breakpoint set at %d cycles.\n", b.Cycles)
		} else {
			h.printf("No cycle breakpoint set.\n")
		}
		return nil
	}

	v, err := h.eval(strings.Join(args, " "))
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	if v <= 0 {
		h.debugger.ClearCycleBreakpoint()
		h.printf("Cycle breakpoint cleared.\n")
		return nil
	}

	b := h.debugger.SetCycleBreakpoint(uint64(v))
	h.printf("Cycle breakpoint set at %d cycles.\n", b.Cycles)
	return nil
}

func (h *Host) cmdBreakpointEnable(args []string) error {
	return h.enableBreakpoint(args, true)
}

func (h *Host) cmdBreakpointDisable(args []string) error {
	return h.enableBreakpoint(args, false)
}

func (h *Host) enableBreakpoint(args []string, enable bool) error {
	addr, ok := h.addrArg(args)
	if !ok {
		return nil
	}

	b := h.debugger.Breakpoint(addr)
	if b == nil {
		h.printf("No breakpoint was set on $%04X.\n", addr)
		return nil
	}

	b.Disabled = !enable
	if enable {
		h.printf("Breakpoint at $%04X enabled.\n", addr)
	} else {
		h.printf("Breakpoint at $%04X disabled.\n", addr)
	}
	return nil
}

func (h *Host) cmdDataBreakpointList(args []string) error {
	h.println("Addr  Enabled  Value")
	h.println("----- -------  -----")
	for _, b := range h.debugger.DataBreakpoints() {
		if b.Conditional {
			h.printf("$%04X %-5v    $%02X\n", b.Address, !b.Disabled, b.Value)
		} else {
			h.printf("$%04X %-5v    <none>\n", b.Address, !b.Disabled)
		}
	}
	return nil
}

func (h *Host) cmdDataBreakpointAdd(args []string) error {
	addr, ok := h.addrArg(args)
	if !ok {
		return nil
	}

	if len(args) > 1 {
		value, err := h.eval(args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.debugger.AddConditionalDataBreakpoint(addr, byte(value))
		h.printf("Conditional data breakpoint added at $%04X for value $%02X.\n", addr, byte(value))
	} else {
		h.debugger.AddDataBreakpoint(addr)
		h.printf("Data breakpoint added at $%04X.\n", addr)
	}
	return nil
}

func (h *Host) cmdDataBreakpointRemove(args []string) error {
	addr, ok := h.addrArg(args)
	if !ok {
		return nil
	}

	if h.debugger.DataBreakpoint(addr) == nil {
		h.printf("No data breakpoint was set on $%04X.\n", addr)
		return nil
	}

	h.debugger.RemoveDataBreakpoint(addr)
	h.printf("Data breakpoint at $%04X removed.\n", addr)
	return nil
}

func (h *Host) cmdDataBreakpointEnable(args []string) error {
	return h.enableDataBreakpoint(args, true)
}

func (h *Host) cmdDataBreakpointDisable(args []string) error {
	return h.enableDataBreakpoint(args, false)
}

func (h *Host) enableDataBreakpoint(args []string, enable bool) error {
	addr, ok := h.addrArg(args)
	if !ok {
		return nil
	}

	b := h.debugger.DataBreakpoint(addr)
	if b == nil {
		h.printf("No data breakpoint was set on $%04X.\n", addr)
		return nil
	}

	b.Disabled = !enable
	if enable {
		h.printf("Data breakpoint at $%04X enabled.\n", addr)
	} else {
		h.printf("Data breakpoint at $%04X disabled.\n", addr)
	}
	return nil
}

func (h *Host) cmdDisassemble(args []string) error {
	addr := h.settings.NextDisasmAddr
	if addr == 0 {
		addr = h.cpu.Reg.PC
	}
	if len(args) > 0 && args[0] != "$" {
		a, err := h.parseAddr(args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	lines := h.settings.DisasmLines
	if len(args) > 1 {
		l, err := h.eval(args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		lines = l
	}

	for i := 0; i < lines; i++ {
		d, next := h.disassemble(addr, 0)
		h.println(d)
		addr = next
	}

	h.settings.NextDisasmAddr = addr
	h.lastArgs = []string{"$", fmt.Sprintf("%d", lines)}
	return nil
}

func (h *Host) cmdEvaluate(args []string) error {
	if len(args) < 1 {
		h.displayUsage(h.lastCmd)
		return nil
	}

	v, err := h.eval(strings.Join(args, " "))
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.println(fmt.Sprintf("$%04X (%d)", uint16(v), v))
	return nil
}

func (h *Host) cmdExports(args []string) error {
	if h.sourceMap == nil || len(h.sourceMap.Exports) == 0 {
		h.printf("No active exports.\n")
		return nil
	}
	for _, e := range h.sourceMap.Exports {
		h.printf("%-16s $%04X\n", e.Label, e.Address)
	}
	return nil
}

func (h *Host) cmdHelp(args []string) error {
	if len(args) == 0 {
		h.displayCommands(groups[cmds])
		return nil
	}

	sel, err := cmds.Lookup(strings.Join(args, " "))
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	switch n := sel.Node.(type) {
	case *cmd.Tree:
		h.displayCommands(groups[n])
	case *cmd.Command:
		c, _ := n.Data.(*command)
		if c == nil {
			return nil
		}
		if c.usage != "" {
			h.printf("Syntax: %s\n\n", c.usage)
		}
		switch {
		case c.desc != "":
			h.printf("Description:\n%s\n\n", indentWrap(3, c.desc))
		case c.brief != "":
			h.printf("Description:\n%s.\n\n", indentWrap(3, c.brief))
		}
	}
	return nil
}

func (h *Host) cmdLoad(args []string) error {
	if len(args) < 1 {
		h.displayUsage(h.lastCmd)
		return nil
	}

	filename := args[0]
	if filepath.Ext(filename) == "" {
		filename += ".bin"
	}

	loadAddr := -1
	if len(args) >= 2 {
		addr, err := h.parseAddr(args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		loadAddr = int(addr)
	}

	if _, err := h.load(filename, loadAddr); err != nil {
		h.printf("%v\n", err)
	}
	return nil
}

func (h *Host) cmdMemoryDump(args []string) error {
	addr := h.settings.NextMemDumpAddr
	if len(args) > 0 && args[0] != "$" {
		a, err := h.parseAddr(args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	bytes := h.settings.MemDumpBytes
	if len(args) >= 2 {
		var err error
		bytes, err = h.eval(args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	h.dumpMemory(addr, bytes)

	h.settings.NextMemDumpAddr = addr + uint16(bytes)
	h.lastArgs = []string{"$", fmt.Sprintf("%d", bytes)}
	return nil
}

func (h *Host) cmdMemorySet(args []string) error {
	if len(args) < 2 {
		h.displayUsage(h.lastCmd)
		return nil
	}

	addr, err := h.parseAddr(args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := make([]byte, 0, len(args)-1)
	for _, arg := range args[1:] {
		v, err := h.eval(arg)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		if v < -128 || v > 0xff {
			h.printf("Value $%X is not a byte.\n", v)
			return nil
		}
		b = append(b, byte(v))
	}

	if err := h.mem.StoreBytes(uint32(addr), b); err != nil {
		h.printf("%v\n", err)
		return nil
	}
	h.printf("Memory set at $%04X..$%04X.\n", addr, int(addr)+len(b)-1)
	return nil
}

func (h *Host) cmdQuit(args []string) error {
	return ErrQuit
}

func (h *Host) cmdRegisters(args []string) error {
	h.displayPC()
	return nil
}

func (h *Host) cmdReset(args []string) error {
	h.cpu.Reset()
	h.settings.NextDisasmAddr = 0
	h.settings.NextMemDumpAddr = 0
	h.displayPC()
	return nil
}

func (h *Host) cmdRun(args []string) error {
	budget := h.settings.RunCycles
	if len(args) > 0 {
		v, err := h.eval(strings.Join(args, " "))
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		budget = cpu.Cycles(v)
	}

	if h.interactive {
		h.printf("Running from $%04X. Press ctrl-C to break.\n", h.cpu.Reg.PC)
	}

	start := h.cpu.Cycles
	h.interrupted.Store(false)

	h.state = stateRunning
	for h.state == stateRunning && !budget.Exhausted() {
		if h.interrupted.Swap(false) {
			h.printf("Interrupted after %d cycles.\n", h.cpu.Cycles-start)
			break
		}
		h.step(&budget)
		if h.settings.TraceExec && h.state == stateRunning {
			h.displayPC()
		}
	}
	h.state = stateProcessingCommands

	h.printf("Ran %d cycles (%d total).\n", h.cpu.Cycles-start, h.cpu.Cycles)
	h.displayPC()
	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	return nil
}

func (h *Host) cmdSet(args []string) error {
	switch len(args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayUsage(h.lastCmd)

	default:
		key, value := strings.ToLower(args[0]), strings.Join(args[1:], " ")
		v, errV := h.eval(value)

		// Setting a register?
		if errV == nil && h.setRegister(key, v) {
			return nil
		}

		// Setting a configuration variable?
		var err error
		switch h.settings.Kind(key) {
		case reflect.Invalid:
			h.printf("Setting '%s' is not recognized.\n", key)
			return nil
		case reflect.Bool:
			var b bool
			b, err = stringToBool(value)
			if err == nil {
				err = h.settings.Set(key, b)
			}
		default:
			err = errV
			if err == nil {
				err = h.settings.Set(key, v)
			}
		}

		if err == nil {
			h.println("Setting updated.")
		} else {
			h.printf("%v\n", err)
		}
	}
	return nil
}

func (h *Host) setRegister(key string, v int) bool {
	reg := &h.cpu.Reg
	sz := -1
	switch key {
	case "a":
		reg.A, sz = byte(v), 1
	case "x":
		reg.X, sz = byte(v), 1
	case "y":
		reg.Y, sz = byte(v), 1
	case "sp":
		reg.SetSP(uint16(v))
		v, sz = int(reg.SP), 2
	case "pc":
		reg.PC, sz = uint16(v), 2
	case "carry":
		reg.Carry, sz = v != 0, 0
	case "zero":
		reg.Zero, sz = v != 0, 0
	case "decimal":
		reg.Decimal, sz = v != 0, 0
	case "overflow":
		reg.Overflow, sz = v != 0, 0
	case "negative":
		reg.Negative, sz = v != 0, 0
	}

	name := strings.ToUpper(key)
	switch sz {
	case 0:
		h.printf("Register %s set to %v.\n", name, v != 0)
	case 1:
		h.printf("Register %s set to $%02X.\n", name, byte(v))
	case 2:
		h.printf("Register %s set to $%04X.\n", name, uint16(v))
	default:
		return false
	}
	return true
}

func (h *Host) cmdStep(args []string) error {
	// Parse the number of steps.
	count := 1
	if len(args) > 0 {
		n, err := h.eval(args[0])
		if err == nil {
			count = n
		}
	}

	// Step the CPU count times.
	h.state = stateRunning
	for i := count - 1; i >= 0 && h.state == stateRunning; i-- {
		h.step(nil)
		switch {
		case i == h.settings.MaxStepLines:
			h.println("...")
		case i < h.settings.MaxStepLines:
			h.displayPC()
		}
	}
	h.state = stateProcessingCommands

	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	return nil
}

// Execute a single instruction. Unhandled opcodes are logged by the CPU
// and do not stop execution; other errors do.
func (h *Host) step(budget *cpu.Cycles) {
	err := h.cpu.Step(budget)
	if err != nil && !errors.Is(err, cpu.ErrUnhandledInstruction) {
		h.printf("ERROR: %v.\n", err)
		h.state = stateProcessingCommands
	}
}

func (h *Host) load(filename string, addr int) (origin uint16, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, fmt.Errorf("failed to open '%s': %w", filepath.Base(filename), err)
	}
	defer file.Close()

	a := &asm.Assembly{}
	if _, err = a.ReadFrom(file); err != nil {
		return 0, fmt.Errorf("failed to read '%s': %w", filepath.Base(filename), err)
	}

	// Use the source map's origin unless an address was requested.
	ext := filepath.Ext(filename)
	mapFilename := filename[:len(filename)-len(ext)] + ".map"
	sourceMap, mapErr := readSourceMap(mapFilename)
	if mapErr == nil {
		if err := sourceMap.Verify(a.Code); err != nil {
			return 0, fmt.Errorf("'%s': %w", filepath.Base(mapFilename), err)
		}
	}

	switch {
	case addr >= 0:
		origin = uint16(addr)
	case mapErr == nil:
		origin = sourceMap.Origin
	default:
		return 0, fmt.Errorf("file '%s' has no source map and requires an address", filepath.Base(filename))
	}

	if err := h.mem.StoreBytes(uint32(origin), a.Code); err != nil {
		return 0, err
	}
	h.printf("Loaded '%s' to $%04X..$%04X.\n", filepath.Base(filename), origin, int(origin)+len(a.Code)-1)

	if mapErr == nil {
		h.sourceMap = sourceMap
		h.printf("Loaded '%s' source map.\n", filepath.Base(mapFilename))
	}

	h.cpu.SetPC(origin)
	h.settings.NextDisasmAddr = origin
	return origin, nil
}

func readSourceMap(filename string) (*asm.SourceMap, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	sourceMap := &asm.SourceMap{}
	if _, err := sourceMap.ReadFrom(file); err != nil {
		return nil, err
	}
	return sourceMap, nil
}

// Evaluate an expression. Registers and exported labels may be used as
// identifiers. In hex mode, bare hexadecimal numbers are accepted.
func (h *Host) eval(expr string) (int, error) {
	expr = strings.TrimSpace(expr)
	if h.settings.HexMode && isHex(expr) {
		expr = "$" + expr
	}
	return asm.Eval(expr, h.symbols())
}

func (h *Host) symbols() map[string]int {
	sym := make(map[string]int)
	if h.sourceMap != nil {
		for _, e := range h.sourceMap.Exports {
			sym[e.Label] = int(e.Address)
		}
	}

	reg := &h.cpu.Reg
	for name, v := range map[string]int{
		"a":  int(reg.A),
		"x":  int(reg.X),
		"y":  int(reg.Y),
		"sp": int(reg.SP),
		"pc": int(reg.PC),
	} {
		sym[name] = v
		sym[strings.ToUpper(name)] = v
	}
	return sym
}

// Evaluate an address expression. Negative values wrap.
func (h *Host) parseAddr(expr string) (uint16, error) {
	v, err := h.eval(expr)
	if err != nil {
		return 0, err
	}

	if v < 0 {
		v = 0x10000 + v
	}
	if v < 0 || v > 0xffff {
		return 0, fmt.Errorf("address $%X out of range", v)
	}
	return uint16(v), nil
}

// Parse the first argument as an address, displaying the command's usage
// if there is none.
func (h *Host) addrArg(args []string) (uint16, bool) {
	if len(args) < 1 {
		h.displayUsage(h.lastCmd)
		return 0, false
	}

	addr, err := h.parseAddr(args[0])
	if err != nil {
		h.printf("%v\n", err)
		return 0, false
	}
	return addr, true
}

func (h *Host) disassemble(addr uint16, flags displayFlags) (str string, next uint16) {
	line, next, err := disasm.Disassemble(h.cpu.Mem, addr)
	if err != nil {
		return fmt.Sprintf("%04X-   %v", addr, err), addr + 1
	}
	code, _ := disasm.Bytes(h.cpu.Mem, addr)

	str = fmt.Sprintf("%04X-   %-8s    %-11s", addr, code, line)

	if (flags & displayRegisters) != 0 {
		str += " " + registerString(&h.cpu.Reg)
	}

	if (flags & displayCycles) != 0 {
		str += fmt.Sprintf(" C=%d", h.cpu.Cycles)
	}

	return strings.TrimRight(str, " "), next
}

func (h *Host) dumpMemory(addr0 uint16, bytes int) {
	if bytes <= 0 {
		return
	}

	addr1 := int(addr0) + bytes - 1
	if addr1 > 0xffff {
		addr1 = 0xffff
	}

	buf := []byte("    -" + strings.Repeat(" ", 35))

	// Don't align display for short dumps.
	if addr1-int(addr0) < 8 {
		addrToBuf(addr0, buf[0:4])
		for a, c1, c2 := int(addr0), 6, 32; a <= addr1; a, c1, c2 = a+1, c1+3, c2+1 {
			m, _ := h.mem.LoadByte(uint32(a))
			byteToBuf(m, buf[c1:c1+2])
			buf[c2] = toPrintableChar(m)
		}
		h.println(strings.TrimRight(string(buf), " "))
		return
	}

	// Align addr0 and addr1 to 8-byte boundaries.
	start := int(addr0) & 0xfff8
	stop := (addr1 + 8) & 0xffff8
	if stop > 0x10000 {
		stop = 0x10000
	}

	a := start
	for r := start; r < stop; r += 8 {
		addrToBuf(uint16(a), buf[0:4])
		for c1, c2 := 6, 32; c1 < 29; c1, c2, a = c1+3, c2+1, a+1 {
			if a >= int(addr0) && a <= addr1 {
				m, _ := h.mem.LoadByte(uint32(a))
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(strings.TrimRight(string(buf), " "))
	}
}

func (h *Host) displayUsage(c *command) {
	if c != nil && c.usage != "" {
		h.printf("Syntax: %s\n", c.usage)
	} else {
		h.println("<no help text>")
	}
}

func (h *Host) displayCommands(g *commandGroup) {
	if g == nil {
		return
	}
	h.printf("%s commands:\n", g.title)
	for _, c := range g.commands {
		if c.brief != "" {
			h.printf("    %-15s  %s\n", c.name, c.brief)
		}
	}
}
