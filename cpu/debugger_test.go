package cpu_test

import (
	"testing"

	"github.com/beevik/sim6502/cpu"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	breakpoints      []uint16
	dataBreakpoints  []uint16
	cycleBreakpoints []uint64
	stackWraps       []uint16
}

func (r *recorder) OnBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	r.breakpoints = append(r.breakpoints, b.Address)
}

func (r *recorder) OnDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	r.dataBreakpoints = append(r.dataBreakpoints, b.Address)
}

func (r *recorder) OnCycleBreakpoint(c *cpu.CPU, b *cpu.CycleBreakpoint) {
	r.cycleBreakpoints = append(r.cycleBreakpoints, c.Cycles)
}

func (r *recorder) OnStackWrap(c *cpu.CPU, addr uint16) {
	r.stackWraps = append(r.stackWraps, addr)
}

func TestDebuggerBreakpoints(t *testing.T) {
	asm := `
	.ORG $1000
	LDA #$01
	STA $20
	LDA #$02
	STA $21
	JSR SUB
	NOP
SUB	RTS`

	c := loadCPU(t, asm)
	r := &recorder{}
	d := cpu.NewDebugger(r)
	c.AttachDebugger(d)

	d.AddBreakpoint(0x1004)
	d.AddBreakpoint(0x1002).Disabled = true
	d.AddDataBreakpoint(0x20)
	d.AddConditionalDataBreakpoint(0x21, 0x03)
	d.AddDataBreakpoint(0x0100)

	stepCPU(t, c, 5)

	assert.Equal(t, []uint16{0x1004}, r.breakpoints)
	assert.Equal(t, []uint16{0x0020, 0x0100}, r.dataBreakpoints)

	c.DetachDebugger()
	stepCPU(t, c, 1)
	assert.Len(t, r.dataBreakpoints, 2)
}

func TestDebuggerLists(t *testing.T) {
	d := cpu.NewDebugger(nil)
	d.AddBreakpoint(0x3000)
	d.AddBreakpoint(0x1000)
	d.AddBreakpoint(0x2000)
	d.RemoveBreakpoint(0x2000)

	bps := d.Breakpoints()
	if assert.Len(t, bps, 2) {
		assert.Equal(t, uint16(0x1000), bps[0].Address)
		assert.Equal(t, uint16(0x3000), bps[1].Address)
	}
	assert.Nil(t, d.Breakpoint(0x2000))
	assert.NotNil(t, d.Breakpoint(0x3000))

	d.AddDataBreakpoint(0x80)
	d.AddConditionalDataBreakpoint(0x10, 0xff)
	dbps := d.DataBreakpoints()
	if assert.Len(t, dbps, 2) {
		assert.Equal(t, uint16(0x10), dbps[0].Address)
		assert.True(t, dbps[0].Conditional)
	}
	d.RemoveDataBreakpoint(0x80)
	assert.Nil(t, d.DataBreakpoint(0x80))
}

func TestDebuggerCycleBreakpoint(t *testing.T) {
	asm := `
	.ORG $1000
	LDA #$01
	LDA $20
	NOP
	NOP`

	c := loadCPU(t, asm)
	r := &recorder{}
	d := cpu.NewDebugger(r)
	c.AttachDebugger(d)

	d.SetCycleBreakpoint(4)
	assert.Equal(t, uint64(4), d.CycleBreakpoint().Cycles)

	stepCPU(t, c, 1)
	assert.Empty(t, r.cycleBreakpoints)

	stepCPU(t, c, 1)
	assert.Equal(t, []uint64{5}, r.cycleBreakpoints)
	assert.Nil(t, d.CycleBreakpoint())

	stepCPU(t, c, 2)
	assert.Len(t, r.cycleBreakpoints, 1)

	d.SetCycleBreakpoint(100)
	d.ClearCycleBreakpoint()
	assert.Nil(t, d.CycleBreakpoint())
}

func TestDebuggerStackWrap(t *testing.T) {
	c, mem := newCPU(t)
	loadBytes(t, c, mem, 0x1000, 0x20, 0x00, 0x20)
	loadBytes(t, c, mem, 0x2000, 0x20, 0x00, 0x30)
	loadBytes(t, c, mem, 0x3000, 0x60)
	c.SetPC(0x1000)
	c.Reg.SP = 0x01fe

	r := &recorder{}
	d := cpu.NewDebugger(r)
	d.AddDataBreakpoint(0x0100)
	c.AttachDebugger(d)

	stepCPU(t, c, 1)
	assert.Equal(t, []uint16{0x01fe}, r.stackWraps)
	assert.Empty(t, r.dataBreakpoints)
	expectSP(t, c, 0x0100)

	stepCPU(t, c, 1)
	expectSP(t, c, 0x0102)
	assert.Len(t, r.stackWraps, 1)
	assert.Equal(t, []uint16{0x0100}, r.dataBreakpoints)
}
