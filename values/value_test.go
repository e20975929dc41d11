package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"nil", Nil(), false},
		{"false", Bool(false), false},
		{"true", Bool(true), true},
		{"zero int", Int(0), false},
		{"nonzero int", Int(-3), true},
		{"zero float", Float(0), false},
		{"nonzero float", Float(0.5), true},
		{"empty str", Str(""), false},
		{"nonempty str", Str("x"), true},
		{"empty list", NewList(), false},
		{"nonempty list", NewList(Int(1)), true},
		{"empty dict", NewDict(), false},
		{"empty range", RangeV(0, 0, 1), false},
		{"nonempty range", RangeV(0, 5, 1), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.v.IsTruthy())
		})
	}
}

func TestRangeLen(t *testing.T) {
	cases := []struct {
		r    *Range
		want int64
	}{
		{&Range{Start: 0, Stop: 5, Step: 1}, 5},
		{&Range{Start: 0, Stop: 10, Step: 2}, 5},
		{&Range{Start: 5, Stop: 0, Step: -1}, 5},
		{&Range{Start: 0, Stop: 0, Step: 1}, 0},
		{&Range{Start: 5, Stop: 5, Step: -1}, 0},
		{&Range{Start: 0, Stop: -5, Step: 1}, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RangeLen(tc.r))
	}
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "int", Int(1).TypeName())
	assert.Equal(t, "str", Str("x").TypeName())

	class := NewClass("Point")
	inst := NewInstance(class.AsClass())
	assert.Equal(t, "Point", inst.TypeName())
}

func TestNumericEqualityAcrossKinds(t *testing.T) {
	// Int and Float are distinct Kinds, but spec §3 requires numerically
	// equal Int/Float to be considered equal by the VM's OpEqual — that
	// cross-kind comparison lives in vm/arithmetic.go, not here; this test
	// only pins the Kind-level distinction the invariant depends on.
	assert.NotEqual(t, Int(2).Kind, Float(2).Kind)
	assert.Equal(t, int64(2), Int(2).AsInt())
	assert.Equal(t, 2.0, Float(2).AsFloat())
}
