package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRejectsOutOfRangeOpcodes(t *testing.T) {
	assert.True(t, Valid(OpConstant))
	assert.True(t, Valid(OpPrintSpaced))
	assert.False(t, Valid(opCount))
	assert.False(t, Valid(Op(255)))
}

func TestOperandWidthTable(t *testing.T) {
	cases := []struct {
		op    Op
		width int
	}{
		{OpConstant, 2},
		{OpJump, 2},
		{OpJumpIfFalse, 2},
		{OpLoop, 2},
		{OpMakeFunction, 2},
		{OpGetLocal, 1},
		{OpCall, 1},
		{OpMakeClass, 1},
		{OpRange, 1},
		{OpCloseUpvalue, 1},
		{OpAdd, 0},
		{OpReturn, 0},
		{OpPop, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.width, OperandWidth(c.op), "opcode %s", c.op)
	}
}

func TestOpStringFallsBackToUnknown(t *testing.T) {
	assert.Equal(t, "OpConstant", OpConstant.String())
	assert.Equal(t, "OpUnknown", Op(255).String())
}
