package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameStackPushPopDepth(t *testing.T) {
	fs := newFrameStack()
	fs.push(&CallFrame{})
	fs.push(&CallFrame{})
	assert.Equal(t, 2, fs.depth())

	fs.pop()
	assert.Equal(t, 1, fs.depth())
}

func TestFrameStackOverflowPanics(t *testing.T) {
	fs := newFrameStack()
	for i := 0; i < FramesMax; i++ {
		fs.push(&CallFrame{})
	}
	assert.Panics(t, func() { fs.push(&CallFrame{}) })
}

// TestFrameStackRespectsNarrowedLimit pins the host-configurable soft bound
// (config.Limits, vm.WithResourceLimits): pushes overflow at limit, not at
// the hard FramesMax.
func TestFrameStackRespectsNarrowedLimit(t *testing.T) {
	fs := newFrameStack()
	fs.limit = 2
	fs.push(&CallFrame{})
	fs.push(&CallFrame{})
	assert.Panics(t, func() { fs.push(&CallFrame{}) })
}

func TestFrameStackCurrentOnEmpty(t *testing.T) {
	fs := newFrameStack()
	assert.Nil(t, fs.current())
}
