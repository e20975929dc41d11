package vm

import (
	"strings"

	"github.com/orbit-lang/orbit/values"
	"github.com/orbit-lang/orbit/vmerr"
)

// opAdd implements spec §4.3: Int+Int -> Int (promote to Float on
// overflow), Float/Int mixes -> Float, Str+Str -> concat, List+List ->
// concat. Any other combination is a TypeError.
func (vm *VM) opAdd() error {
	b := vm.stack.pop()
	a := vm.stack.pop()

	switch {
	case a.Kind == values.KindInt && b.Kind == values.KindInt:
		i, f, overflowed := intAdd(a.AsInt(), b.AsInt())
		if overflowed {
			vm.stack.push(values.Float(f))
		} else {
			vm.stack.push(values.Int(i))
		}
		return nil

	case a.IsNumber() && b.IsNumber():
		vm.stack.push(values.Float(a.AsFloat() + b.AsFloat()))
		return nil

	case a.Kind == values.KindStr && b.Kind == values.KindStr:
		vm.stack.push(values.Str(a.AsStr() + b.AsStr()))
		return nil

	case a.Kind == values.KindList && b.Kind == values.KindList:
		la, lb := a.AsList(), b.AsList()
		out := make([]values.Value, 0, la.Len()+lb.Len())
		out = append(out, la.Elems...)
		out = append(out, lb.Elems...)
		vm.stack.push(values.NewList(out...))
		return nil

	default:
		return vmerr.New(vmerr.TypeError, "unsupported operand type(s) for +: '%s' and '%s'", a.TypeName(), b.TypeName())
	}
}

// opSubtract implements spec §4.3's numeric-coercion specialization for -.
func (vm *VM) opSubtract() error {
	b := vm.stack.pop()
	a := vm.stack.pop()
	switch {
	case a.Kind == values.KindInt && b.Kind == values.KindInt:
		i, f, overflowed := intSub(a.AsInt(), b.AsInt())
		if overflowed {
			vm.stack.push(values.Float(f))
		} else {
			vm.stack.push(values.Int(i))
		}
		return nil
	case a.IsNumber() && b.IsNumber():
		vm.stack.push(values.Float(a.AsFloat() - b.AsFloat()))
		return nil
	default:
		return vmerr.New(vmerr.TypeError, "unsupported operand type(s) for -: '%s' and '%s'", a.TypeName(), b.TypeName())
	}
}

// opMultiply implements spec §4.3: numeric coercion, plus Str*Int/Int*Str
// and List*Int repetition (negative counts produce empty results).
func (vm *VM) opMultiply() error {
	b := vm.stack.pop()
	a := vm.stack.pop()

	switch {
	case a.Kind == values.KindInt && b.Kind == values.KindInt:
		i, f, overflowed := intMul(a.AsInt(), b.AsInt())
		if overflowed {
			vm.stack.push(values.Float(f))
		} else {
			vm.stack.push(values.Int(i))
		}
		return nil

	case a.IsNumber() && b.IsNumber():
		vm.stack.push(values.Float(a.AsFloat() * b.AsFloat()))
		return nil

	case a.Kind == values.KindStr && b.Kind == values.KindInt:
		vm.stack.push(values.Str(repeatString(a.AsStr(), b.AsInt())))
		return nil
	case a.Kind == values.KindInt && b.Kind == values.KindStr:
		vm.stack.push(values.Str(repeatString(b.AsStr(), a.AsInt())))
		return nil

	case a.Kind == values.KindList && b.Kind == values.KindInt:
		vm.stack.push(repeatList(a.AsList(), b.AsInt()))
		return nil
	case a.Kind == values.KindInt && b.Kind == values.KindList:
		vm.stack.push(repeatList(b.AsList(), a.AsInt()))
		return nil

	default:
		return vmerr.New(vmerr.TypeError, "unsupported operand type(s) for *: '%s' and '%s'", a.TypeName(), b.TypeName())
	}
}

func repeatString(s string, n int64) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, int(n))
}

func repeatList(l *values.List, n int64) values.Value {
	if n <= 0 {
		return values.NewList()
	}
	out := make([]values.Value, 0, l.Len()*int(n))
	for i := int64(0); i < n; i++ {
		out = append(out, l.Elems...)
	}
	return values.NewList(out...)
}

// opDivide implements spec §4.3: Int/Int produces a Float when non-exact
// (matching the surface language's "/"), division by zero on Ints fails
// ZeroDivisionError, float division by zero yields IEEE-754 inf/nan.
func (vm *VM) opDivide() error {
	b := vm.stack.pop()
	a := vm.stack.pop()

	if !a.IsNumber() || !b.IsNumber() {
		return vmerr.New(vmerr.TypeError, "unsupported operand type(s) for /: '%s' and '%s'", a.TypeName(), b.TypeName())
	}

	if a.Kind == values.KindInt && b.Kind == values.KindInt {
		ai, bi := a.AsInt(), b.AsInt()
		if bi == 0 {
			return vmerr.New(vmerr.ZeroDivisionError, "division by zero")
		}
		if ai%bi == 0 {
			vm.stack.push(values.Int(ai / bi))
		} else {
			vm.stack.push(values.Float(float64(ai) / float64(bi)))
		}
		return nil
	}

	vm.stack.push(values.Float(a.AsFloat() / b.AsFloat()))
	return nil
}

// opModulo mirrors opDivide's coercion; Int%0 fails ZeroDivisionError.
func (vm *VM) opModulo() error {
	b := vm.stack.pop()
	a := vm.stack.pop()

	if !a.IsNumber() || !b.IsNumber() {
		return vmerr.New(vmerr.TypeError, "unsupported operand type(s) for %%: '%s' and '%s'", a.TypeName(), b.TypeName())
	}

	if a.Kind == values.KindInt && b.Kind == values.KindInt {
		bi := b.AsInt()
		if bi == 0 {
			return vmerr.New(vmerr.ZeroDivisionError, "modulo by zero")
		}
		vm.stack.push(values.Int(a.AsInt() % bi))
		return nil
	}

	vm.stack.push(values.Float(pyMod(a.AsFloat(), b.AsFloat())))
	return nil
}

// pyMod is floating-point modulo with the result's sign following the
// divisor, matching the surface language's % on floats.
func pyMod(a, b float64) float64 {
	m := a - b*float64(int64(a/b))
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func (vm *VM) opNegate() error {
	v := vm.stack.pop()
	switch v.Kind {
	case values.KindInt:
		vm.stack.push(values.Int(-v.AsInt()))
	case values.KindFloat:
		vm.stack.push(values.Float(-v.AsFloat()))
	default:
		return vmerr.New(vmerr.TypeError, "bad operand type for unary -: '%s'", v.TypeName())
	}
	return nil
}

// opEqual implements spec §4.3 plus the SUPPLEMENTED FEATURES __eq__
// override point: numeric equality coerces, Str/Str and Bool/Bool compare
// by value, equality across unrelated kinds is false (never an error), and
// two Instances consult the left operand's class chain for __eq__ before
// falling back to identity.
func (vm *VM) opEqual() error {
	b := vm.stack.pop()
	a := vm.stack.pop()

	if a.Kind == values.KindInstance && b.Kind == values.KindInstance {
		eq, err := vm.instanceEqual(a, b)
		if err != nil {
			return err
		}
		vm.stack.push(values.Bool(eq))
		return nil
	}

	vm.stack.push(values.Bool(valuesEqual(a, b)))
	return nil
}

func valuesEqual(a, b values.Value) bool {
	if a.IsNumber() && b.IsNumber() {
		return a.AsFloat() == b.AsFloat()
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case values.KindNil:
		return true
	case values.KindBool:
		return a.AsBool() == b.AsBool()
	case values.KindStr:
		return a.AsStr() == b.AsStr()
	case values.KindList:
		la, lb := a.AsList(), b.AsList()
		if la.Len() != lb.Len() {
			return false
		}
		for i := range la.Elems {
			if !valuesEqual(la.Elems[i], lb.Elems[i]) {
				return false
			}
		}
		return true
	case values.KindDict:
		da, db := a.AsDict(), b.AsDict()
		if da.Len() != db.Len() {
			return false
		}
		for _, k := range da.Keys() {
			va, _ := da.Get(k)
			vb, ok := db.Get(k)
			if !ok || !valuesEqual(va, vb) {
				return false
			}
		}
		return true
	case values.KindRange:
		ra, rb := a.AsRange(), b.AsRange()
		return *ra == *rb
	default:
		return a.Data == b.Data // identity for Instance, Class, Closure, etc.
	}
}

// opLess implements spec §4.3 ordering: numeric coercion, lexicographic
// Str/Str, Bool ordered False<True, mixed kinds TypeError.
func (vm *VM) opLess() error {
	b := vm.stack.pop()
	a := vm.stack.pop()
	lt, err := lessThan(a, b)
	if err != nil {
		return err
	}
	vm.stack.push(values.Bool(lt))
	return nil
}

func (vm *VM) opGreater() error {
	b := vm.stack.pop()
	a := vm.stack.pop()
	lt, err := lessThan(b, a)
	if err != nil {
		return err
	}
	vm.stack.push(values.Bool(lt))
	return nil
}

func lessThan(a, b values.Value) (bool, error) {
	switch {
	case a.IsNumber() && b.IsNumber():
		return a.AsFloat() < b.AsFloat(), nil
	case a.Kind == values.KindStr && b.Kind == values.KindStr:
		return a.AsStr() < b.AsStr(), nil
	case a.Kind == values.KindBool && b.Kind == values.KindBool:
		return !a.AsBool() && b.AsBool(), nil
	default:
		return false, vmerr.New(vmerr.TypeError, "'<' not supported between instances of '%s' and '%s'", a.TypeName(), b.TypeName())
	}
}
