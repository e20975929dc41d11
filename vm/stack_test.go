package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbit-lang/orbit/values"
)

// TestStackDepthInvariant pins spec §8's "stack depth after N pushes and M
// pops (M <= N) is N - M."
func TestStackDepthInvariant(t *testing.T) {
	s := newValueStack()
	for i := 0; i < 10; i++ {
		s.push(values.Int(int64(i)))
	}
	require.Equal(t, 10, s.len())

	for i := 0; i < 4; i++ {
		s.pop()
	}
	assert.Equal(t, 6, s.len())
}

func TestStackPeekAndLastPopped(t *testing.T) {
	s := newValueStack()
	s.push(values.Int(1))
	s.push(values.Int(2))
	s.push(values.Int(3))

	assert.Equal(t, int64(3), s.peek(0).AsInt())
	assert.Equal(t, int64(2), s.peek(1).AsInt())

	popped := s.pop()
	assert.Equal(t, int64(3), popped.AsInt())
	assert.True(t, s.lastPoppedValue().IsNil(), "plain pop must not touch lastPopped")
}

// TestStackPopDiscardRecordsLastPopped pins the OpPop-only write path
// (Glossary "Last-popped slot"): only popDiscard, not pop, updates it.
func TestStackPopDiscardRecordsLastPopped(t *testing.T) {
	s := newValueStack()
	s.push(values.Int(1))
	s.push(values.Int(2))

	s.popDiscard()
	assert.Equal(t, int64(2), s.lastPoppedValue().AsInt())

	s.pop()
	assert.Equal(t, int64(2), s.lastPoppedValue().AsInt(), "plain pop must not overwrite lastPopped")
}

func TestStackUnderflowPanics(t *testing.T) {
	s := newValueStack()
	assert.Panics(t, func() { s.pop() })
}

func TestStackOverflowPanics(t *testing.T) {
	s := newValueStack()
	for i := 0; i < StackMax; i++ {
		s.push(values.Nil())
	}
	assert.Panics(t, func() { s.push(values.Nil()) })
}

// TestStackRespectsNarrowedLimit pins the host-configurable soft bound
// (config.Limits, vm.WithResourceLimits): pushes overflow at limit, not
// at the hard StackMax.
func TestStackRespectsNarrowedLimit(t *testing.T) {
	s := newValueStack()
	s.limit = 3
	s.push(values.Nil())
	s.push(values.Nil())
	s.push(values.Nil())
	assert.Panics(t, func() { s.push(values.Nil()) })
}

func TestStackTruncate(t *testing.T) {
	s := newValueStack()
	for i := 0; i < 5; i++ {
		s.push(values.Int(int64(i)))
	}
	s.truncate(2)
	assert.Equal(t, 2, s.len())
}
