// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command test6502 assembles a source file and traces its execution
// against a cycle budget, one line per instruction.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/beevik/sim6502/asm"
	"github.com/beevik/sim6502/cpu"
	"github.com/beevik/sim6502/disasm"
)

var cycles int

func init() {
	flag.IntVar(&cycles, "cycles", 100, "cycle budget")
	flag.CommandLine.Usage = func() {
		fmt.Println("Syntax: test6502 [-cycles N] [file.asm]")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(0)
	}

	filename := flag.Arg(0)
	file, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	if err := trace(os.Stdout, file, filename, cpu.Cycles(cycles)); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

// Assemble the source and run it, writing a trace line for every
// instruction executed.
func trace(w io.Writer, r io.Reader, filename string, budget cpu.Cycles) error {
	fmt.Fprintf(w, "Assembling %s...\n\n", filename)
	assembly, sourceMap, err := asm.Assemble(r, filename, 0x1000)
	if err != nil {
		for _, e := range assembly.Errors {
			fmt.Fprintln(w, e)
		}
		return err
	}

	fmt.Fprintf(w, "Running assembled code...\n\n")

	mem := cpu.NewFlatMemory()
	c := cpu.NewCPU(mem)
	c.Logger = log.New(w, "", 0)
	if err := mem.StoreBytes(uint32(sourceMap.Origin), assembly.Code); err != nil {
		return err
	}
	c.SetPC(sourceMap.Origin)

	for !budget.Exhausted() {
		pc := c.Reg.PC
		line, _, err := disasm.Disassemble(c.Mem, pc)
		if err != nil {
			return err
		}
		err = c.Step(&budget)
		if err != nil && !errors.Is(err, cpu.ErrUnhandledInstruction) {
			return err
		}
		fmt.Fprintf(w, "%04X-   %-12s  A=%02X X=%02X Y=%02X PS=[%s] SP=%04X PC=%04X Cycles=%d\n",
			pc, line,
			c.Reg.A, c.Reg.X, c.Reg.Y, psString(&c.Reg),
			c.Reg.SP, c.Reg.PC,
			c.Cycles)
	}
	return nil
}

func psString(r *cpu.Registers) string {
	v := func(bit bool, ch byte) byte {
		if bit {
			return ch
		}
		return '-'
	}
	b := []byte{
		v(r.Carry, 'C'),
		v(r.Zero, 'Z'),
		v(r.InterruptDisable, 'I'),
		v(r.Decimal, 'D'),
		v(r.Break, 'B'),
		v(r.Overflow, 'V'),
		v(r.Negative, 'N'),
	}
	return string(b)
}
