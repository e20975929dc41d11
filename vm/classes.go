package vm

import (
	"github.com/orbit-lang/orbit/values"
	"github.com/orbit-lang/orbit/vmerr"
)

// opMakeClass implements spec §4.5 OpMakeClass: reads a method-count byte,
// pops that many (name, closure) pairs, pops the class name Str, and pushes
// a new Class with an empty parent link and the method table populated in
// insertion order.
func (vm *VM) opMakeClass(frame *CallFrame) error {
	methodCount := int(frame.readByte())

	type pair struct {
		name    string
		closure values.Value
	}
	pairs := make([]pair, methodCount)
	for i := methodCount - 1; i >= 0; i-- {
		closure := vm.stack.pop()
		name := vm.stack.pop()
		if closure.Kind != values.KindClosure {
			return vmerr.New(vmerr.RuntimeError, "internal: class method operand is not a closure")
		}
		pairs[i] = pair{name: name.AsStr(), closure: closure}
	}

	nameVal := vm.stack.pop()
	classVal := values.NewClass(nameVal.AsStr())
	class := classVal.AsClass()

	for _, p := range pairs {
		cl := p.closure.AsClosure()
		cl.OwnerClass = class
		class.Methods.Set(p.name, p.closure)
	}

	vm.stack.push(classVal)
	return nil
}

// opInherit implements spec §4.5 OpInherit.
func (vm *VM) opInherit() error {
	parentV := vm.stack.pop()
	childV := vm.stack.peek(0)

	if parentV.Kind != values.KindClass {
		return vmerr.New(vmerr.TypeError, "superclass must be a class, not '%s'", parentV.TypeName())
	}
	childV.AsClass().Parent = parentV.AsClass()
	return nil
}

// opGetAttr implements spec §4.5 OpGetAttr's four-way MRO dispatch.
func (vm *VM) opGetAttr(name string) error {
	receiver := vm.stack.pop()

	switch receiver.Kind {
	case values.KindInstance:
		inst := receiver.AsInstance()
		if v, ok := inst.Fields.Get(name); ok {
			vm.stack.push(v)
			return nil
		}
		if method, _, ok := inst.Class.FindMethod(name); ok {
			vm.stack.push(values.NewBoundMethod(receiver, method))
			return nil
		}
		return vmerr.New(vmerr.AttributeError, "'%s' object has no attribute '%s'", inst.Class.Name, name)

	case values.KindClass:
		class := receiver.AsClass()
		if v, ok := class.FindAttr(name); ok {
			vm.stack.push(v)
			return nil
		}
		if method, _, ok := class.FindMethod(name); ok {
			vm.stack.push(method) // unbound Closure
			return nil
		}
		return vmerr.New(vmerr.AttributeError, "type object '%s' has no attribute '%s'", class.Name, name)

	case values.KindClosure, values.KindFunctionProto:
		v, err := vm.functionIntrospectionAttr(receiver, name)
		if err != nil {
			return err
		}
		vm.stack.push(v)
		return nil

	case values.KindSuperProxy:
		sp := receiver.AsSuperProxy()
		method, _, ok := sp.StartClass.FindMethod(name)
		if !ok {
			return vmerr.New(vmerr.AttributeError, "'super' object has no attribute '%s'", name)
		}
		vm.stack.push(values.NewBoundMethod(sp.Instance, method))
		return nil

	default:
		return vmerr.New(vmerr.AttributeError, "'%s' object has no attribute '%s'", receiver.TypeName(), name)
	}
}

// functionIntrospectionAttr implements spec §4.5 case 3: __name__, __doc__,
// __annotations__, __code__, __module__, __globals__, __closure__,
// __qualname__, __defaults__.
func (vm *VM) functionIntrospectionAttr(receiver values.Value, name string) (values.Value, error) {
	var proto *values.FunctionProto
	var closure *values.Closure
	if receiver.Kind == values.KindClosure {
		closure = receiver.AsClosure()
		proto = closure.Proto
	} else {
		proto = receiver.AsFunctionProto()
	}

	switch name {
	case "__name__":
		return values.Str(proto.Name), nil
	case "__doc__":
		if proto.Doc == "" {
			return values.Nil(), nil
		}
		return values.Str(proto.Doc), nil
	case "__qualname__":
		return values.Str(proto.QualName), nil
	case "__module__":
		return values.Str(proto.Module), nil
	case "__code__":
		return values.Value{Kind: values.KindNative, Data: &values.Native{Name: "<code>", Fn: nil}}, nil
	case "__annotations__":
		d := values.NewDict()
		dd := d.AsDict()
		for i, pname := range proto.ParamNames {
			if i < len(proto.ParamTypes) {
				dd.Set(pname, values.Str(proto.ParamTypes[i]))
			}
		}
		if proto.ReturnType != "" {
			dd.Set("return", values.Str(proto.ReturnType))
		}
		return d, nil
	case "__defaults__":
		return values.NewList(proto.Defaults...), nil
	case "__globals__":
		d := values.NewDict()
		dd := d.AsDict()
		for k, v := range vm.globals {
			dd.Set(k, v)
		}
		return d, nil
	case "__closure__":
		if closure == nil || len(closure.Upvalues) == 0 {
			return values.Nil(), nil
		}
		cells := make([]values.Value, len(closure.Upvalues))
		for i, c := range closure.Upvalues {
			cells[i] = getUpvalue(c, vm.stack)
		}
		return values.NewList(cells...), nil
	default:
		return values.Value{}, vmerr.New(vmerr.AttributeError, "function object has no attribute '%s'", name)
	}
}

// opSetAttr implements spec §4.5 OpSetAttr.
func (vm *VM) opSetAttr(name string) error {
	val := vm.stack.pop()
	receiver := vm.stack.pop()

	switch receiver.Kind {
	case values.KindInstance:
		receiver.AsInstance().Fields.Set(name, val)
		vm.stack.push(val)
		return nil
	case values.KindClass:
		receiver.AsClass().Attrs.Set(name, val)
		vm.stack.push(val)
		return nil
	default:
		return vmerr.New(vmerr.TypeError, "'%s' object has no attributes", receiver.TypeName())
	}
}

// instanceEqual implements the SUPPLEMENTED FEATURES __eq__ override point:
// consult a's class chain for __eq__ before falling back to identity.
func (vm *VM) instanceEqual(a, b values.Value) (bool, error) {
	inst := a.AsInstance()
	method, _, ok := inst.Class.FindMethod("__eq__")
	if !ok {
		return a.AsInstance() == b.AsInstance(), nil
	}
	result, err := vm.callSync(values.NewBoundMethod(a, method), []values.Value{b})
	if err != nil {
		return false, err
	}
	return result.IsTruthy(), nil
}

// super builds the SuperProxy the super() native returns (spec §4.7,
// Glossary). frame is the CallFrame executing the method that called
// super(); self is recovered as local 0, and the owning class from the
// executing Closure's OwnerClass back-pointer (spec §9 strategy (b)).
func (vm *VM) super(frame *CallFrame) (values.Value, error) {
	owner := frame.Closure.OwnerClass
	if owner == nil || owner.Parent == nil {
		return values.Value{}, vmerr.New(vmerr.RuntimeError, "super(): no parent class in this context")
	}
	self := vm.stack.get(frame.StackBase)
	return values.NewSuperProxy(self, owner.Parent), nil
}
