package cpu_test

import (
	"testing"

	"github.com/beevik/sim6502/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLoadStore(t *testing.T) {
	mem := cpu.NewFlatMemory()
	assert.Equal(t, cpu.MemorySize, mem.Size())

	require.NoError(t, mem.StoreByte(0x1234, 0x56))
	v, err := mem.LoadByte(0x1234)
	require.NoError(t, err)
	assert.Equal(t, byte(0x56), v)

	require.NoError(t, mem.StoreByte(0xffff, 0x01))
	v, err = mem.LoadByte(0xffff)
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), v)
}

func TestMemoryOutOfRange(t *testing.T) {
	mem := cpu.NewFlatMemory()

	_, err := mem.LoadByte(0x10000)
	assert.ErrorIs(t, err, cpu.ErrOutOfRange)
	assert.EqualError(t, err, "memory access out of range: $10000")

	assert.ErrorIs(t, mem.StoreByte(0x10000, 1), cpu.ErrOutOfRange)
	assert.ErrorIs(t, mem.StoreByte(0xfffffff, 1), cpu.ErrOutOfRange)

	_, err = mem.Ref(0x10000)
	assert.ErrorIs(t, err, cpu.ErrOutOfRange)

	assert.ErrorIs(t, mem.StoreBytes(0xfffe, []byte{1, 2, 3}), cpu.ErrOutOfRange)
	assert.ErrorIs(t, mem.LoadBytes(0xffff, make([]byte, 2)), cpu.ErrOutOfRange)

	// A failed multi-byte store leaves memory untouched.
	v, err := mem.LoadByte(0xfffe)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestMemoryStoreWord(t *testing.T) {
	mem := cpu.NewFlatMemory()

	budget := cpu.Cycles(5)
	require.NoError(t, mem.StoreWord(0x0300, 0xbeef, &budget))
	assert.Equal(t, cpu.Cycles(3), budget)

	b := make([]byte, 2)
	require.NoError(t, mem.LoadBytes(0x0300, b))
	assert.Equal(t, []byte{0xef, 0xbe}, b)

	// Loaders may store words without a budget.
	require.NoError(t, mem.StoreWord(0xfffc, 0x4242, nil))

	err := mem.StoreWord(0xffff, 0x1234, &budget)
	assert.ErrorIs(t, err, cpu.ErrOutOfRange)
	assert.Equal(t, cpu.Cycles(3), budget)
	v, _ := mem.LoadByte(0xffff)
	assert.Equal(t, byte(0x34), v)
}

func TestMemoryRef(t *testing.T) {
	mem := cpu.NewFlatMemory()

	p, err := mem.Ref(0x4242)
	require.NoError(t, err)
	*p = 0xa9
	*p |= 0x02

	v, err := mem.LoadByte(0x4242)
	require.NoError(t, err)
	assert.Equal(t, byte(0xab), v)
}

func TestMemoryInit(t *testing.T) {
	mem := cpu.NewFlatMemory()
	require.NoError(t, mem.StoreBytes(0x0000, []byte{1, 2, 3}))
	require.NoError(t, mem.StoreByte(0xffff, 4))

	mem.Init()

	for _, addr := range []uint32{0x0000, 0x0001, 0x0002, 0xffff} {
		v, err := mem.LoadByte(addr)
		require.NoError(t, err)
		assert.Zero(t, v, "$%04X", addr)
	}
}

func TestCyclesBudget(t *testing.T) {
	budget := cpu.Cycles(2)
	assert.False(t, budget.Exhausted())
	budget.Spend(2)
	assert.True(t, budget.Exhausted())
	budget.Spend(1)
	assert.Equal(t, cpu.Cycles(-1), budget)

	var none *cpu.Cycles
	none.Spend(5)
	assert.True(t, none.Exhausted())
}

func TestStatusByte(t *testing.T) {
	var r cpu.Registers
	r.Carry = true
	r.Negative = true
	ps := r.SavePS()
	assert.Equal(t, byte(cpu.CarryBit|cpu.ReservedBit|cpu.NegativeBit), ps)

	var r2 cpu.Registers
	r2.RestorePS(ps | cpu.ZeroBit | cpu.BreakBit)
	assert.True(t, r2.Carry)
	assert.True(t, r2.Zero)
	assert.True(t, r2.Break)
	assert.True(t, r2.Negative)
	assert.False(t, r2.Overflow)
}
