package vm

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/orbit-lang/orbit/values"
)

// idSuffix reduces an Instance's UUID to the low 32 bits used in its
// default __repr__ suffix (spec §4.8 has no opinion on object identity
// display; see SPEC_FULL.md's DOMAIN STACK entry for google/uuid).
func idSuffix(id uuid.UUID) uint32 {
	return binary.BigEndian.Uint32(id[12:16])
}

// opPrint implements spec §4.8 OpPrint/OpPrintln: pops one Value, writes its
// string representation, and optionally a trailing newline.
func (vm *VM) opPrint(newline bool, _ string) error {
	v := vm.stack.pop()
	s, err := vm.stringify(v)
	if err != nil {
		return err
	}
	if newline {
		fmt.Fprintln(vm.stdout, s)
	} else {
		fmt.Fprint(vm.stdout, s)
	}
	return nil
}

// opPrintSpaced implements OpPrintSpaced: pops n Values (pushed in source
// order, so they come off the stack reversed), joins their string forms
// with a single space, and writes one trailing newline — the multi-argument
// print(a, b, c) form.
func (vm *VM) opPrintSpaced(n int) error {
	parts := make([]string, n)
	for i := n - 1; i >= 0; i-- {
		v := vm.stack.pop()
		s, err := vm.stringify(v)
		if err != nil {
			return err
		}
		parts[i] = s
	}
	fmt.Fprintln(vm.stdout, strings.Join(parts, " "))
	return nil
}

// stringify implements spec §4.8's "get_string_representation" dunder
// re-entry: an Instance whose class defines __str__ has that method called
// synchronously and its result used verbatim (a non-Str return is a
// TypeError); everything else formats deterministically.
func (vm *VM) stringify(v values.Value) (string, error) {
	switch v.Kind {
	case values.KindNil:
		return "None", nil
	case values.KindBool:
		if v.AsBool() {
			return "True", nil
		}
		return "False", nil
	case values.KindInt:
		return strconv.FormatInt(v.AsInt(), 10), nil
	case values.KindFloat:
		return formatFloat(v.AsFloat()), nil
	case values.KindStr:
		return v.AsStr(), nil
	case values.KindRange:
		r := v.AsRange()
		return fmt.Sprintf("range(%d, %d, %d)", r.Start, r.Stop, r.Step), nil
	case values.KindList:
		return vm.stringifyList(v.AsList())
	case values.KindDict:
		return vm.stringifyDict(v.AsDict())
	case values.KindClosure:
		return fmt.Sprintf("<function %s>", v.AsClosure().Proto.Name), nil
	case values.KindFunctionProto:
		return fmt.Sprintf("<function %s>", v.AsFunctionProto().Name), nil
	case values.KindNative:
		return fmt.Sprintf("<built-in function %s>", v.AsNative().Name), nil
	case values.KindBoundMethod:
		bm := v.AsBoundMethod()
		return fmt.Sprintf("<bound method %s of %s>", methodName(bm.Method), mustStringify(vm, bm.Receiver)), nil
	case values.KindClass:
		return fmt.Sprintf("<class %s>", v.AsClass().Name), nil
	case values.KindInstance:
		return vm.stringifyInstance(v)
	case values.KindSuperProxy:
		return "<super>", nil
	default:
		return "", fmt.Errorf("internal: unstringifiable kind %v", v.Kind)
	}
}

func mustStringify(vm *VM, v values.Value) string {
	s, err := vm.stringify(v)
	if err != nil {
		return "?"
	}
	return s
}

func methodName(method values.Value) string {
	if method.Kind == values.KindClosure {
		return method.AsClosure().Proto.Name
	}
	return method.AsNative().Name
}

// formatFloat matches spec §4.3's requirement that floats display a decimal
// point, including for whole values (1.0, not 1). Values that 'g' formatting
// renders in exponent form (1e+21) are left as is, without a ".0".
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (vm *VM) stringifyList(l *values.List) (string, error) {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		s, err := vm.reprOf(e)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return "[" + strings.Join(parts, ", ") + "]", nil
}

func (vm *VM) stringifyDict(d *values.Dict) (string, error) {
	keys := d.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		v, _ := d.Get(k)
		s, err := vm.reprOf(v)
		if err != nil {
			return "", err
		}
		parts[i] = strconv.Quote(k) + ": " + s
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

// reprOf is the nested-element form used inside list/dict display and by
// the repr() native: strings are quoted (the SUPPLEMENTED FEATURES
// repr()/str() distinction); an Instance looks up __repr__ first, per spec
// §4.8 ("look up __str__ (or __repr__ for repr)... List/Dict print their
// elements recursively using __repr__"), falling back to __str__/default
// only if the class defines no __repr__. Every other kind matches its
// top-level stringify form.
func (vm *VM) reprOf(v values.Value) (string, error) {
	if v.Kind == values.KindStr {
		return strconv.Quote(v.AsStr()), nil
	}
	if v.Kind == values.KindInstance {
		return vm.reprInstance(v)
	}
	return vm.stringify(v)
}

// stringifyInstance calls __str__ if the instance's class defines one
// (spec §4.8); otherwise falls back to a default "<ClassName 0xHEX>" form.
func (vm *VM) stringifyInstance(v values.Value) (string, error) {
	inst := v.AsInstance()
	method, _, ok := inst.Class.FindMethod("__str__")
	if !ok {
		return fmt.Sprintf("<%s 0x%x>", inst.Class.Name, idSuffix(inst.ID)), nil
	}
	result, err := vm.callSync(values.NewBoundMethod(v, method), nil)
	if err != nil {
		return "", err
	}
	if result.Kind != values.KindStr {
		return "", fmt.Errorf("__str__ returned non-string (type %s)", result.TypeName())
	}
	return result.AsStr(), nil
}

// reprInstance calls __repr__ if the instance's class defines one; absent
// that, it falls back to stringifyInstance's __str__-then-default chain
// (spec §4.8).
func (vm *VM) reprInstance(v values.Value) (string, error) {
	inst := v.AsInstance()
	method, _, ok := inst.Class.FindMethod("__repr__")
	if !ok {
		return vm.stringifyInstance(v)
	}
	result, err := vm.callSync(values.NewBoundMethod(v, method), nil)
	if err != nil {
		return "", err
	}
	if result.Kind != values.KindStr {
		return "", fmt.Errorf("__repr__ returned non-string (type %s)", result.TypeName())
	}
	return result.AsStr(), nil
}
