package vmerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "TypeError", TypeError.String())
	assert.Equal(t, "ZeroDivisionError", ZeroDivisionError.String())
	assert.Equal(t, "UnknownError", Kind(99).String())
}

func TestErrorFormatting(t *testing.T) {
	e := New(KeyError, "%s", "missing")
	assert.Equal(t, "KeyError: missing", e.Error())

	withLine := e.WithLine(12)
	assert.Equal(t, "KeyError: missing (line 12)", withLine.Error())

	internal := &Error{Kind: RuntimeError, Message: "stack underflow", Internal: true}
	assert.Equal(t, "internal: RuntimeError: stack underflow", internal.Error())
}

func TestWithLineAndWithTraceDoNotMutateReceiver(t *testing.T) {
	base := New(ValueError, "bad value")
	withLine := base.WithLine(5)
	withTrace := withLine.WithTrace([]string{"line 5, in <script>"})

	assert.Equal(t, 0, base.Line)
	assert.Equal(t, 5, withLine.Line)
	assert.Nil(t, withLine.Trace)
	assert.Equal(t, []string{"line 5, in <script>"}, withTrace.Trace)
}

func TestUnwrapMatchesSentinelByKind(t *testing.T) {
	e := New(IndexError, "out of range")
	assert.True(t, errors.Is(e, ErrIndex))
	assert.False(t, errors.Is(e, ErrKey))

	rt := New(RuntimeError, "boom")
	assert.True(t, errors.Is(rt, ErrRuntime))
}
