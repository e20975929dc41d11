package vm

import (
	"github.com/orbit-lang/orbit/values"
	"github.com/orbit-lang/orbit/vmerr"
)

// opMakeFunction implements spec §4.7 OpMakeFunction: builds a Closure from
// proto, resolving each UpvalueDesc either by capturing a local slot of the
// enclosing frame (IsLocal) or by copying an already-resolved upvalue cell
// from that frame's own Closure (transitive capture).
func (vm *VM) opMakeFunction(frame *CallFrame, proto *values.FunctionProto) error {
	upvalues := make([]*values.UpvalueCell, len(proto.Upvalues))
	for i, desc := range proto.Upvalues {
		if desc.IsLocal {
			upvalues[i] = vm.open.capture(frame.StackBase + int(desc.Index))
		} else {
			upvalues[i] = frame.Closure.Upvalues[desc.Index]
		}
	}
	vm.stack.push(values.NewClosure(proto, upvalues))
	return nil
}

// dispatchCall implements spec §4.6 OpCall: argc arguments sit on top of
// the stack, with the callee beneath them. It dispatches on the callee's
// Kind and either pushes a new CallFrame (Closure — the run loop's own
// fetch-decode-execute cycle then executes it) or calls straight through
// (Native) and leaves exactly one Value — the result — on the stack in the
// callee's place.
func (vm *VM) dispatchCall(argc int) error {
	calleeIdx := vm.stack.len() - 1 - argc
	callee := vm.stack.get(calleeIdx)

	switch callee.Kind {
	case values.KindClosure:
		return vm.pushClosureCall(callee.AsClosure(), argc, calleeIdx)

	case values.KindNative:
		return vm.invokeNative(callee.AsNative(), argc, calleeIdx)

	case values.KindBoundMethod:
		bm := callee.AsBoundMethod()
		// The receiver replaces the callee in its own stack slot, becoming
		// local 0 in the method's frame (where super() and explicit `self`
		// parameters expect to find it) — the closure reference itself lives
		// in CallFrame.Closure, not on the stack, so nothing is lost.
		args := make([]values.Value, argc)
		for i := 0; i < argc; i++ {
			args[i] = vm.stack.get(calleeIdx + 1 + i)
		}
		if bm.Method.Kind == values.KindNative {
			// A native keeps the callee slot and takes the receiver as its
			// first argument.
			vm.stack.truncate(calleeIdx + 1)
			vm.stack.push(bm.Receiver)
			for _, a := range args {
				vm.stack.push(a)
			}
			return vm.invokeNative(bm.Method.AsNative(), argc+1, calleeIdx)
		}
		vm.stack.truncate(calleeIdx)
		vm.stack.push(bm.Receiver)
		for _, a := range args {
			vm.stack.push(a)
		}
		return vm.pushClosureCall(bm.Method.AsClosure(), argc+1, calleeIdx)

	case values.KindClass:
		return vm.callClass(callee.AsClass(), argc, calleeIdx)

	default:
		return vmerr.New(vmerr.TypeError, "'%s' object is not callable", callee.TypeName())
	}
}

// pushClosureCall binds argc stack arguments to proto's parameters
// (applying trailing defaults where the caller supplied fewer than Arity),
// reports arity mismatches as TypeError per spec §4.6, and pushes the new
// frame. calleeIdx becomes the frame's stack_base: the Closure occupies
// local slot 0, matching super()'s "self is local 0" convention for bound
// methods.
func (vm *VM) pushClosureCall(closure *values.Closure, argc int, calleeIdx int) error {
	proto := closure.Proto
	minArgs := proto.Arity - proto.NumDefault

	if argc < minArgs {
		return vmerr.New(vmerr.TypeError, "%s() missing required argument (got %d, need at least %d)", proto.Name, argc, minArgs)
	}
	if argc > proto.Arity {
		return vmerr.New(vmerr.TypeError, "%s() takes at most %d arguments (%d given)", proto.Name, proto.Arity, argc)
	}

	for i := argc; i < proto.Arity; i++ {
		defaultIdx := i - minArgs
		var def values.Value
		if defaultIdx >= 0 && defaultIdx < len(proto.Defaults) {
			def = proto.Defaults[defaultIdx]
		}
		vm.stack.push(def)
	}

	vm.frames.push(&CallFrame{Closure: closure, StackBase: calleeIdx})
	return nil
}

// invokeNative collects argc arguments, checks them against the Native's
// declared arity bounds (spec §4.6, SUPPLEMENTED FEATURES' centrally-checked
// native arity), calls Fn, and replaces callee+args with its single result.
func (vm *VM) invokeNative(n *values.Native, argc int, calleeIdx int) error {
	if argc < n.MinArgs || (n.MaxArgs >= 0 && argc > n.MaxArgs) {
		return vmerr.New(vmerr.TypeError, "%s() takes %s, got %d", n.Name, arityDescription(n.MinArgs, n.MaxArgs), argc)
	}

	args := make([]values.Value, argc)
	for i := 0; i < argc; i++ {
		args[i] = vm.stack.get(calleeIdx + 1 + i)
	}

	prevFrame := vm.activeFrame
	vm.activeFrame = vm.frames.current()
	result, err := n.Fn(args)
	vm.activeFrame = prevFrame
	if err != nil {
		return err
	}

	vm.stack.truncate(calleeIdx)
	vm.stack.push(result)
	return nil
}

func arityDescription(min, max int) string {
	switch {
	case max < 0:
		return "at least " + itoa(min) + " arguments"
	case min == max:
		return itoa(min) + " arguments"
	default:
		return "between " + itoa(min) + " and " + itoa(max) + " arguments"
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// callClass implements instance construction (spec §4.5/§4.6): allocates a
// fresh Instance and, if the class or an ancestor defines __init__, calls it
// synchronously for its side effects before replacing callee+args with the
// new Instance. A class with no __init__ silently discards any arguments
// beyond zero only if none were given; passing args to a class with no
// constructor is a TypeError.
func (vm *VM) callClass(class *values.Class, argc int, calleeIdx int) error {
	instance := values.NewInstance(class)

	method, _, ok := class.FindMethod("__init__")
	if !ok {
		if argc > 0 {
			return vmerr.New(vmerr.TypeError, "%s() takes no arguments (%d given)", class.Name, argc)
		}
		vm.stack.truncate(calleeIdx)
		vm.stack.push(instance)
		return nil
	}

	args := make([]values.Value, argc)
	for i := 0; i < argc; i++ {
		args[i] = vm.stack.get(calleeIdx + 1 + i)
	}
	vm.stack.truncate(calleeIdx)

	if _, err := vm.callSync(values.NewBoundMethod(instance, method), args); err != nil {
		return err
	}
	vm.stack.push(instance)
	return nil
}

// callSync drives a fully synchronous, re-entrant call into the interpreter
// loop: push callee+args, let dispatchCall decide whether that pushed a new
// CallFrame (Closure/BoundMethod-wrapping-a-Closure/Class) or resolved
// immediately (Native), and if a frame was pushed, recurse into run at the
// depth captured beforehand so the nested call's own OpReturn unwinds back
// here rather than to the outer Interpret caller. This is how print/__str__,
// iteration/__iter__/__next__, equality/__eq__, and constructors re-enter
// the VM from Go code (spec §4.6, §4.8).
func (vm *VM) callSync(callee values.Value, args []values.Value) (values.Value, error) {
	depth := vm.frames.depth()

	vm.stack.push(callee)
	for _, a := range args {
		vm.stack.push(a)
	}

	if err := vm.dispatchCall(len(args)); err != nil {
		return values.Value{}, err
	}

	if vm.frames.depth() > depth {
		return vm.run(depth)
	}
	return vm.stack.pop(), nil
}
