package vm

import (
	"strings"

	"github.com/orbit-lang/orbit/values"
	"github.com/orbit-lang/orbit/vmerr"
)

// opIndex implements spec §4.4 OpIndex: List[Int] (negative-normalized,
// bounds-checked), List[Range] (slice-equivalent), Str[Int] (single
// character), Dict[Str] (KeyError if absent).
func (vm *VM) opIndex() error {
	key := vm.stack.pop()
	container := vm.stack.pop()

	switch container.Kind {
	case values.KindList:
		l := container.AsList()
		switch key.Kind {
		case values.KindInt:
			idx, ok := l.Normalize(key.AsInt())
			if !ok {
				return vmerr.New(vmerr.IndexError, "list index out of range")
			}
			vm.stack.push(l.Elems[idx])
			return nil
		case values.KindRange:
			vm.stack.push(sliceList(l, rangeToSliceArgs(key.AsRange())))
			return nil
		default:
			return vmerr.New(vmerr.TypeError, "list indices must be int or range, not '%s'", key.TypeName())
		}

	case values.KindStr:
		if key.Kind != values.KindInt {
			return vmerr.New(vmerr.TypeError, "string indices must be int, not '%s'", key.TypeName())
		}
		runes := []rune(container.AsStr())
		n := int64(len(runes))
		idx := key.AsInt()
		if idx < 0 {
			idx += n
		}
		if idx < 0 || idx >= n {
			return vmerr.New(vmerr.IndexError, "string index out of range")
		}
		vm.stack.push(values.Str(string(runes[idx])))
		return nil

	case values.KindDict:
		if key.Kind != values.KindStr {
			return vmerr.New(vmerr.TypeError, "dict keys must be str, not '%s'", key.TypeName())
		}
		v, ok := container.AsDict().Get(key.AsStr())
		if !ok {
			return vmerr.New(vmerr.KeyError, "%s", key.AsStr())
		}
		vm.stack.push(v)
		return nil

	default:
		return vmerr.New(vmerr.TypeError, "'%s' object is not subscriptable", container.TypeName())
	}
}

// opSetIndex mirrors opIndex for List (Int key, bounds-checked) and Dict
// (any Str key, insert-or-update) per spec §4.4.
func (vm *VM) opSetIndex() error {
	val := vm.stack.pop()
	key := vm.stack.pop()
	container := vm.stack.pop()

	switch container.Kind {
	case values.KindList:
		if key.Kind != values.KindInt {
			return vmerr.New(vmerr.TypeError, "list indices must be int, not '%s'", key.TypeName())
		}
		l := container.AsList()
		idx, ok := l.Normalize(key.AsInt())
		if !ok {
			return vmerr.New(vmerr.IndexError, "list assignment index out of range")
		}
		l.Elems[idx] = val
		vm.stack.push(val)
		return nil

	case values.KindDict:
		if key.Kind != values.KindStr {
			return vmerr.New(vmerr.TypeError, "dict keys must be str, not '%s'", key.TypeName())
		}
		container.AsDict().Set(key.AsStr(), val)
		vm.stack.push(val)
		return nil

	default:
		return vmerr.New(vmerr.TypeError, "'%s' object does not support item assignment", container.TypeName())
	}
}

type sliceArgs struct {
	hasStart, hasStop, hasStep bool
	start, stop, step          int64
}

func rangeToSliceArgs(r *values.Range) sliceArgs {
	return sliceArgs{true, true, true, r.Start, r.Stop, r.Step}
}

// opSlice implements spec §4.4 OpSlice: start/stop/step may each be Nil
// (absent, meaning default), negative indices normalize, out-of-bounds
// endpoints clamp rather than error, step==0 is a ValueError. Works on List
// and Str.
func (vm *VM) opSlice() error {
	stepV := vm.stack.pop()
	stopV := vm.stack.pop()
	startV := vm.stack.pop()
	container := vm.stack.pop()

	args := sliceArgs{}
	if !stepV.IsNil() {
		args.hasStep = true
		args.step = stepV.AsInt()
	}
	if !stopV.IsNil() {
		args.hasStop = true
		args.stop = stopV.AsInt()
	}
	if !startV.IsNil() {
		args.hasStart = true
		args.start = startV.AsInt()
	}

	if args.hasStep && args.step == 0 {
		return vmerr.New(vmerr.ValueError, "slice step cannot be zero")
	}

	switch container.Kind {
	case values.KindList:
		vm.stack.push(sliceList(container.AsList(), args))
		return nil
	case values.KindStr:
		vm.stack.push(sliceStr(container.AsStr(), args))
		return nil
	default:
		return vmerr.New(vmerr.TypeError, "'%s' object is not sliceable", container.TypeName())
	}
}

// resolveSlice computes the concrete (start, stop, step) triple and the
// resulting element count for a sequence of length n, per spec §4.4's
// default/clamp/normalize rules.
func resolveSlice(n int, a sliceArgs) (start, stop, step, count int) {
	step = 1
	if a.hasStep {
		step = int(a.step)
	}

	if step > 0 {
		start, stop = 0, n
	} else {
		start, stop = n-1, -1
	}

	if a.hasStart {
		start = normalizeSliceIndex(a.start, n, step > 0)
	}
	if a.hasStop {
		stop = normalizeSliceIndex(a.stop, n, step > 0)
	}

	if step > 0 {
		if stop > start {
			count = (stop - start + step - 1) / step
		}
	} else {
		if start > stop {
			count = (start - stop + (-step) - 1) / (-step)
		}
	}
	return
}

func normalizeSliceIndex(idx int64, n int, forward bool) int {
	if idx < 0 {
		idx += int64(n)
	}
	if forward {
		return clampToInt(idx, 0, n)
	}
	return clampToInt(idx, -1, n-1)
}

func sliceList(l *values.List, a sliceArgs) values.Value {
	n := l.Len()
	start, _, step, count := resolveSlice(n, a)
	out := make([]values.Value, 0, count)
	idx := start
	for i := 0; i < count; i++ {
		out = append(out, l.Elems[idx])
		idx += step
	}
	return values.NewList(out...)
}

func sliceStr(s string, a sliceArgs) values.Value {
	runes := []rune(s)
	n := len(runes)
	start, _, step, count := resolveSlice(n, a)
	var b strings.Builder
	idx := start
	for i := 0; i < count; i++ {
		b.WriteRune(runes[idx])
		idx += step
	}
	return values.Str(b.String())
}

// opLen implements spec §4.4 OpLen for List, Dict, Str, Range.
func (vm *VM) opLen() error {
	v := vm.stack.pop()
	switch v.Kind {
	case values.KindList:
		vm.stack.push(values.Int(int64(v.AsList().Len())))
	case values.KindDict:
		vm.stack.push(values.Int(int64(v.AsDict().Len())))
	case values.KindStr:
		vm.stack.push(values.Int(int64(len([]rune(v.AsStr())))))
	case values.KindRange:
		vm.stack.push(values.Int(values.RangeLen(v.AsRange())))
	default:
		return vmerr.New(vmerr.TypeError, "object of type '%s' has no len()", v.TypeName())
	}
	return nil
}

// opAppend implements spec §4.4 OpAppend: mutates a List in place.
func (vm *VM) opAppend() error {
	val := vm.stack.pop()
	container := vm.stack.pop()
	if container.Kind != values.KindList {
		return vmerr.New(vmerr.TypeError, "cannot append to '%s'", container.TypeName())
	}
	container.AsList().Append(val)
	vm.stack.push(container)
	return nil
}

// registerAppend installs the append() builtin as a native for the same
// reason registerRange does: append(list, value) is an ordinary call
// expression, not special syntax, so routing it through the global-lookup
// path keeps the compiler ignorant of it. opAppend itself still backs this
// delegate, pushing the two operands and letting it mutate/return the list.
func (vm *VM) registerAppend() {
	vm.RegisterNative("append", 2, 2, func(args []values.Value) (values.Value, error) {
		vm.stack.push(args[0])
		vm.stack.push(args[1])
		if err := vm.opAppend(); err != nil {
			return values.Value{}, err
		}
		return vm.stack.pop(), nil
	})
}

// opRange implements spec §4.4 OpRange: 1, 2, or 3 Int args from the stack.
func (vm *VM) opRange(argc int) error {
	var start, stop, step int64
	step = 1
	switch argc {
	case 1:
		stop = vm.stack.pop().AsInt()
	case 2:
		stop = vm.stack.pop().AsInt()
		start = vm.stack.pop().AsInt()
	case 3:
		step = vm.stack.pop().AsInt()
		stop = vm.stack.pop().AsInt()
		start = vm.stack.pop().AsInt()
	default:
		return vmerr.New(vmerr.RuntimeError, "internal: range() takes 1-3 arguments, got %d", argc)
	}
	if step == 0 {
		return vmerr.New(vmerr.ValueError, "range() arg step must not be zero")
	}
	vm.stack.push(values.RangeV(start, stop, step))
	return nil
}

// registerRange installs the range() builtin as a native rather than
// teaching the compiler to emit OpRange directly: source-level range(...)
// is an ordinary call expression (parseCall), so routing it through the
// same global-lookup path as any other callable keeps the compiler ignorant
// of which names are "special" — exactly how super() and __iter_start__
// are wired. The native pushes its args and delegates to opRange, which is
// the only path that builds a Range value.
func (vm *VM) registerRange() {
	vm.RegisterNative("range", 1, 3, func(args []values.Value) (values.Value, error) {
		for _, a := range args {
			if a.Kind != values.KindInt {
				return values.Value{}, vmerr.New(vmerr.TypeError, "range() arguments must be int, not '%s'", a.TypeName())
			}
		}
		for _, a := range args {
			vm.stack.push(a)
		}
		if err := vm.opRange(len(args)); err != nil {
			return values.Value{}, err
		}
		return vm.stack.pop(), nil
	})
}

// opContains implements spec §4.4 OpContains: Str-in-Str substring,
// any-in-List equality, Str-in-Dict key presence, Int-in-Range arithmetic.
func (vm *VM) opContains() error {
	haystack := vm.stack.pop()
	needle := vm.stack.pop()

	switch haystack.Kind {
	case values.KindStr:
		if needle.Kind != values.KindStr {
			return vmerr.New(vmerr.TypeError, "'in <str>' requires str as left operand, not '%s'", needle.TypeName())
		}
		vm.stack.push(values.Bool(strings.Contains(haystack.AsStr(), needle.AsStr())))
		return nil

	case values.KindList:
		for _, e := range haystack.AsList().Elems {
			if valuesEqual(e, needle) {
				vm.stack.push(values.Bool(true))
				return nil
			}
		}
		vm.stack.push(values.Bool(false))
		return nil

	case values.KindDict:
		if needle.Kind != values.KindStr {
			return vmerr.New(vmerr.TypeError, "'in <dict>' requires str as left operand, not '%s'", needle.TypeName())
		}
		_, ok := haystack.AsDict().Get(needle.AsStr())
		vm.stack.push(values.Bool(ok))
		return nil

	case values.KindRange:
		if needle.Kind != values.KindInt {
			return vmerr.New(vmerr.TypeError, "'in <range>' requires int as left operand, not '%s'", needle.TypeName())
		}
		vm.stack.push(values.Bool(rangeContains(haystack.AsRange(), needle.AsInt())))
		return nil

	default:
		return vmerr.New(vmerr.TypeError, "argument of type '%s' is not iterable", haystack.TypeName())
	}
}

func rangeContains(r *values.Range, n int64) bool {
	if r.Step > 0 {
		if n < r.Start || n >= r.Stop {
			return false
		}
		return (n-r.Start)%r.Step == 0
	}
	if n > r.Start || n <= r.Stop {
		return false
	}
	return (r.Start-n)%(-r.Step) == 0
}

func (vm *VM) opMakeList(n int) error {
	elems := make([]values.Value, n)
	for i := n - 1; i >= 0; i-- {
		elems[i] = vm.stack.pop()
	}
	vm.stack.push(values.NewList(elems...))
	return nil
}

func (vm *VM) opMakeDict(n int) error {
	d := values.NewDict()
	dd := d.AsDict()
	pairs := make([]values.Value, 2*n)
	for i := 2*n - 1; i >= 0; i-- {
		pairs[i] = vm.stack.pop()
	}
	for i := 0; i < n; i++ {
		key := pairs[2*i]
		val := pairs[2*i+1]
		if key.Kind != values.KindStr {
			return vmerr.New(vmerr.TypeError, "dict keys must be str, not '%s'", key.TypeName())
		}
		dd.Set(key.AsStr(), val)
	}
	vm.stack.push(d)
	return nil
}
