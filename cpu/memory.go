// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"errors"
	"fmt"
)

// MemorySize is the number of addressable bytes in a FlatMemory.
const MemorySize = 64 * 1024

// Errors
var (
	ErrOutOfRange = errors.New("memory access out of range")
)

func outOfRange(addr uint32) error {
	return fmt.Errorf("%w: $%05X", ErrOutOfRange, addr)
}

// The Memory interface presents an interface to the CPU through which all
// memory accesses occur. Addresses are 32-bit so that an access beyond the
// end of the address space can be reported instead of wrapping.
type Memory interface {
	// LoadByte loads a single byte from the address and returns it.
	LoadByte(addr uint32) (byte, error)

	// StoreByte stores a byte to the requested address.
	StoreByte(addr uint32, v byte) error

	// StoreWord stores a 16-bit value in little-endian order at addr and
	// addr+1, deducting two cycles from the budget.
	StoreWord(addr uint32, v uint16, budget *Cycles) error

	// Init zero-fills the entire address space.
	Init()
}

// FlatMemory represents an entire 16-bit address space as a singular
// 64K buffer.
type FlatMemory struct {
	b [MemorySize]byte
}

// NewFlatMemory creates a new 16-bit memory space.
func NewFlatMemory() *FlatMemory {
	return &FlatMemory{}
}

// Size returns the capacity of the memory in bytes.
func (m *FlatMemory) Size() int {
	return len(m.b)
}

// Init zero-fills the memory.
func (m *FlatMemory) Init() {
	clear(m.b[:])
}

// LoadByte loads a single byte from the address and returns it.
func (m *FlatMemory) LoadByte(addr uint32) (byte, error) {
	if addr >= MemorySize {
		return 0, outOfRange(addr)
	}
	return m.b[addr], nil
}

// StoreByte stores a byte at the requested address.
func (m *FlatMemory) StoreByte(addr uint32, v byte) error {
	if addr >= MemorySize {
		return outOfRange(addr)
	}
	m.b[addr] = v
	return nil
}

// Ref returns a pointer to the byte at the requested address, so a loader
// can read and write through the same handle.
func (m *FlatMemory) Ref(addr uint32) (*byte, error) {
	if addr >= MemorySize {
		return nil, outOfRange(addr)
	}
	return &m.b[addr], nil
}

// StoreWord stores a 16-bit value at the requested address, low byte
// first. Bounds are enforced by the two underlying byte stores, so a word
// stored at $FFFF writes its low byte and then fails on the high byte.
func (m *FlatMemory) StoreWord(addr uint32, v uint16, budget *Cycles) error {
	if err := m.StoreByte(addr, byte(v)); err != nil {
		return err
	}
	if err := m.StoreByte(addr+1, byte(v>>8)); err != nil {
		return err
	}
	budget.Spend(2)
	return nil
}

// LoadBytes loads len(b) bytes starting at the address.
func (m *FlatMemory) LoadBytes(addr uint32, b []byte) error {
	if int(addr)+len(b) > len(m.b) {
		return outOfRange(addr + uint32(len(b)) - 1)
	}
	copy(b, m.b[addr:])
	return nil
}

// StoreBytes stores multiple bytes to the requested address.
func (m *FlatMemory) StoreBytes(addr uint32, b []byte) error {
	if int(addr)+len(b) > len(m.b) {
		return outOfRange(addr + uint32(len(b)) - 1)
	}
	copy(m.b[addr:], b)
	return nil
}

// Offset a zero-page address 'addr' by 'offset'. The sum wraps within the
// zero page.
func offsetZeroPage(addr byte, offset byte) uint16 {
	return uint16(addr + offset)
}

// Given the low byte of the stack pointer, return the corresponding
// stack memory address.
func stackAddress(offset byte) uint16 {
	return stackPage | uint16(offset)
}
