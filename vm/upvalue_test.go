package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbit-lang/orbit/values"
)

// TestCaptureUpvalueShared pins spec §9's "sibling closures referring to
// the same local share one cell."
func TestCaptureUpvalueShared(t *testing.T) {
	open := &openUpvalues{}
	cellA := open.capture(5)
	cellB := open.capture(5)
	assert.Same(t, cellA, cellB)

	cellOther := open.capture(7)
	assert.NotSame(t, cellA, cellOther)
}

func TestCaptureUpvalueSortedInsertion(t *testing.T) {
	open := &openUpvalues{}
	open.capture(7)
	open.capture(1)
	open.capture(4)

	prev := -1
	for _, c := range open.cells {
		assert.GreaterOrEqual(t, c.StackIdx, prev)
		prev = c.StackIdx
	}
}

// TestCloseUpvaluesFromIndex pins spec §4.7/§8's "after any OpReturn ...
// no open upvalue references an index >= stack_base."
func TestCloseUpvaluesFromIndex(t *testing.T) {
	stack := newValueStack()
	stack.push(values.Int(10))
	stack.push(values.Int(20))
	stack.push(values.Int(30))

	open := &openUpvalues{}
	below := open.capture(0)
	atBase := open.capture(1)
	above := open.capture(2)

	open.closeFrom(1, stack)

	require.Len(t, open.cells, 1)
	assert.Equal(t, 0, open.cells[0].StackIdx)
	assert.False(t, below.Closed)

	assert.True(t, atBase.Closed)
	assert.Equal(t, int64(20), atBase.Value.AsInt())
	assert.True(t, above.Closed)
	assert.Equal(t, int64(30), above.Value.AsInt())
}

func TestGetSetUpvalueTransparent(t *testing.T) {
	stack := newValueStack()
	stack.push(values.Int(1))

	open := &openUpvalues{}
	cell := open.capture(0)

	setUpvalue(cell, stack, values.Int(99))
	assert.Equal(t, int64(99), getUpvalue(cell, stack).AsInt())
	assert.Equal(t, int64(99), stack.get(0).AsInt())

	open.closeFrom(0, stack)
	setUpvalue(cell, stack, values.Int(7))
	assert.Equal(t, int64(7), getUpvalue(cell, stack).AsInt())
	// Closed cell writes no longer touch the stack slot.
	assert.Equal(t, int64(99), stack.get(0).AsInt())
}
