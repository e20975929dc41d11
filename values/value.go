// Package values implements Orbit's tagged-variant runtime value model,
// grounded on the teacher's values.Value{Type, Data} shape.
package values

// Kind identifies which variant a Value holds.
type Kind byte

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindStr
	KindList
	KindDict
	KindRange
	KindFunctionProto
	KindClosure
	KindBoundMethod
	KindClass
	KindInstance
	KindNative
	KindSuperProxy
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindRange:
		return "range"
	case KindFunctionProto:
		return "function"
	case KindClosure:
		return "closure"
	case KindBoundMethod:
		return "bound_method"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	case KindNative:
		return "native"
	case KindSuperProxy:
		return "super"
	default:
		return "unknown"
	}
}

// Value is a runtime Value: a tagged union. Data holds the payload for every
// kind — bool, int64, float64 and string for scalars, a shared pointer for
// every heap kind (List, Dict, Range, FunctionProto, Closure, BoundMethod,
// Class, Instance, Native, SuperProxy).
type Value struct {
	Kind Kind
	Data interface{}
}

// Range is the lazy integer range runtime representation. start/stop/step
// are all 64-bit signed; step is never zero on a well-formed Range.
type Range struct {
	Start, Stop, Step int64
}

func Nil() Value            { return Value{Kind: KindNil} }
func Bool(b bool) Value     { return Value{Kind: KindBool, Data: b} }
func Int(i int64) Value     { return Value{Kind: KindInt, Data: i} }
func Float(f float64) Value { return Value{Kind: KindFloat, Data: f} }
func Str(s string) Value    { return Value{Kind: KindStr, Data: s} }

func RangeV(start, stop, step int64) Value {
	return Value{Kind: KindRange, Data: &Range{Start: start, Stop: stop, Step: step}}
}

func (v Value) IsNil() bool     { return v.Kind == KindNil }
func (v Value) AsBool() bool    { return v.Data.(bool) }
func (v Value) AsInt() int64    { return v.Data.(int64) }
func (v Value) AsFloat() float64 {
	if v.Kind == KindInt {
		return float64(v.Data.(int64))
	}
	return v.Data.(float64)
}
func (v Value) AsStr() string   { return v.Data.(string) }
func (v Value) AsRange() *Range { return v.Data.(*Range) }
func (v Value) AsList() *List   { return v.Data.(*List) }
func (v Value) AsDict() *Dict   { return v.Data.(*Dict) }

func (v Value) IsNumber() bool { return v.Kind == KindInt || v.Kind == KindFloat }

// IsTruthy implements spec §4.3 is_truthy.
func (v Value) IsTruthy() bool {
	switch v.Kind {
	case KindNil:
		return false
	case KindBool:
		return v.Data.(bool)
	case KindInt:
		return v.Data.(int64) != 0
	case KindFloat:
		return v.Data.(float64) != 0
	case KindStr:
		return v.Data.(string) != ""
	case KindList:
		return v.AsList().Len() > 0
	case KindDict:
		return v.AsDict().Len() > 0
	case KindRange:
		return RangeLen(v.AsRange()) > 0
	default:
		return true
	}
}

// RangeLen computes the number of integers a Range yields without
// materializing them.
func RangeLen(r *Range) int64 {
	if r.Step == 0 {
		return 0
	}
	if r.Step > 0 {
		if r.Stop <= r.Start {
			return 0
		}
		return (r.Stop - r.Start + r.Step - 1) / r.Step
	}
	if r.Stop >= r.Start {
		return 0
	}
	return (r.Start - r.Stop - r.Step - 1) / (-r.Step)
}

// TypeName returns the runtime type name used in diagnostics and the type()
// native: e.g. "int", "list", or (for Instance) the class name.
func (v Value) TypeName() string {
	if v.Kind == KindInstance {
		return v.AsInstance().Class.Name
	}
	return v.Kind.String()
}
