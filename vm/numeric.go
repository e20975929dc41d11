package vm

import (
	"golang.org/x/exp/constraints"
)

// number is the generic constraint shared by Orbit's two numeric Value
// kinds. Only clampToInt below is generic over it; the overflow-checked
// int helpers (addOverflows, intAdd and the rest) work on int64 alone.
type number interface {
	constraints.Integer | constraints.Float
}

// addOverflows reports whether a+b overflows int64 range.
func addOverflows(a, b int64) bool {
	sum := a + b
	return ((a ^ sum) & (b ^ sum)) < 0
}

func subOverflows(a, b int64) bool {
	diff := a - b
	return ((a ^ b) & (a ^ diff)) < 0
}

func mulOverflows(a, b int64) bool {
	if a == 0 || b == 0 {
		return false
	}
	p := a * b
	return p/b != a
}

// intAdd implements spec §4.3's Open Question resolution: Int+Int promotes
// to Float on overflow rather than wrapping or raising OverflowError (see
// DESIGN.md).
func intAdd(a, b int64) (int64, float64, bool) {
	if addOverflows(a, b) {
		return 0, float64(a) + float64(b), true
	}
	return a + b, 0, false
}

func intSub(a, b int64) (int64, float64, bool) {
	if subOverflows(a, b) {
		return 0, float64(a) - float64(b), true
	}
	return a - b, 0, false
}

func intMul(a, b int64) (int64, float64, bool) {
	if mulOverflows(a, b) {
		return 0, float64(a) * float64(b), true
	}
	return a * b, 0, false
}

// clampToInt clamps a (possibly out-of-range) index computation; used by
// slice endpoint clamping in collections.go (spec §4.4: "out-of-bounds
// endpoints clamp, not error").
func clampToInt[T number](v T, lo, hi int) int {
	f := float64(v)
	if f < float64(lo) {
		return lo
	}
	if f > float64(hi) {
		return hi
	}
	return int(f)
}
