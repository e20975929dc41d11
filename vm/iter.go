package vm

import (
	"github.com/orbit-lang/orbit/values"
	"github.com/orbit-lang/orbit/vmerr"
)

// opIterNext implements spec §4.4/§4.8 OpIterNext. The compiler maintains
// two stack slots beneath the flag/value it pushes: [iterable, cursor].
// For Range/List/Dict/Str, cursor is an Int offset the VM advances itself.
// For an Instance-based iterator (the result of a single preamble call to
// __iter__), cursor is unused (Nil) and each step re-enters the interpreter
// to call __next__, terminating when it returns the StopIteration sentinel.
//
// On exhaustion, only Bool(false) is pushed (iterable/cursor are dropped —
// the loop is ending). Otherwise the VM pushes back [iterable, cursor,
// value, Bool(true)] so the flag is always on top regardless of branch,
// letting the compiled loop test it with one OpJumpIfFalse peek; the value
// sits just beneath it where the loop body's OpPop/declareLocal expects it.
func (vm *VM) opIterNext() error {
	cursor := vm.stack.pop()
	iterable := vm.stack.pop()

	next, newCursor, done, err := vm.iterNext(iterable, cursor)
	if err != nil {
		return err
	}
	if done {
		vm.stack.push(values.Bool(false))
		return nil
	}
	vm.stack.push(iterable)
	vm.stack.push(newCursor)
	vm.stack.push(next)
	vm.stack.push(values.Bool(true))
	return nil
}

func (vm *VM) iterNext(iterable, cursor values.Value) (next, newCursor values.Value, done bool, err error) {
	switch iterable.Kind {
	case values.KindRange:
		r := iterable.AsRange()
		i := cursor.AsInt()
		if i >= values.RangeLen(r) {
			return values.Nil(), values.Nil(), true, nil
		}
		return values.Int(r.Start + i*r.Step), values.Int(i + 1), false, nil

	case values.KindList:
		l := iterable.AsList()
		i := cursor.AsInt()
		if int(i) >= l.Len() {
			return values.Nil(), values.Nil(), true, nil
		}
		return l.Elems[i], values.Int(i + 1), false, nil

	case values.KindDict:
		d := iterable.AsDict()
		i := cursor.AsInt()
		keys := d.Keys()
		if int(i) >= len(keys) {
			return values.Nil(), values.Nil(), true, nil
		}
		return values.Str(keys[i]), values.Int(i + 1), false, nil

	case values.KindStr:
		runes := []rune(iterable.AsStr())
		i := cursor.AsInt()
		if int(i) >= len(runes) {
			return values.Nil(), values.Nil(), true, nil
		}
		return values.Str(string(runes[i])), values.Int(i + 1), false, nil

	case values.KindInstance:
		return vm.instanceIterNext(iterable)

	default:
		return values.Nil(), values.Nil(), false, vmerr.New(vmerr.TypeError, "'%s' object is not iterable", iterable.TypeName())
	}
}

// registerIterStart installs the hidden native the compiler's for-loop
// preamble calls to normalize an arbitrary iterable expression into the
// [iterator, cursor] pair OpIterNext expects (spec §4.8: an Instance's
// __iter__ runs exactly once here, before the loop body starts executing).
// It's a native rather than a new opcode for the same reason super() is:
// the opcode vocabulary is fixed by spec §6, and dunder dispatch needs
// callSync's re-entrant machinery, which only Go code can drive.
func (vm *VM) registerIterStart() {
	vm.RegisterNative("__iter_start__", 1, 1, func(args []values.Value) (values.Value, error) {
		iterator, cursor, err := vm.startIteration(args[0])
		if err != nil {
			return values.Value{}, err
		}
		return values.NewList(iterator, cursor), nil
	})
}

// startIteration is registerIterStart's implementation.
func (vm *VM) startIteration(v values.Value) (values.Value, values.Value, error) {
	switch v.Kind {
	case values.KindRange, values.KindList, values.KindDict, values.KindStr:
		return v, values.Int(0), nil
	case values.KindInstance:
		inst := v.AsInstance()
		method, _, found := inst.Class.FindMethod("__iter__")
		if !found {
			return values.Value{}, values.Value{}, vmerr.New(vmerr.TypeError, "'%s' object is not iterable", inst.Class.Name)
		}
		iterator, err := vm.callSync(values.NewBoundMethod(v, method), nil)
		if err != nil {
			return values.Value{}, values.Value{}, err
		}
		return iterator, values.Nil(), nil
	default:
		return values.Value{}, values.Value{}, vmerr.New(vmerr.TypeError, "'%s' object is not iterable", v.TypeName())
	}
}

func (vm *VM) instanceIterNext(iterator values.Value) (next, newCursor values.Value, done bool, err error) {
	inst := iterator.AsInstance()
	method, _, found := inst.Class.FindMethod("__next__")
	if !found {
		return values.Value{}, values.Value{}, false, vmerr.New(vmerr.TypeError, "'%s' object is not an iterator", inst.Class.Name)
	}
	result, callErr := vm.callSync(values.NewBoundMethod(iterator, method), nil)
	if callErr != nil {
		return values.Value{}, values.Value{}, false, callErr
	}
	if result.Kind == values.KindInstance && result.AsInstance() == vm.stopIteration.AsInstance() {
		return values.Value{}, values.Value{}, true, nil
	}
	return result, values.Nil(), false, nil
}
