package vm

import "github.com/orbit-lang/orbit/values"

// Stringify exposes the str()/print family's formatting path to the
// natives package (SPEC_FULL.md SUPPLEMENTED FEATURES #3) without that
// package importing vm — natives.Interpreter is satisfied structurally.
func (vm *VM) Stringify(v values.Value) (string, error) {
	return vm.stringify(v)
}

// Repr exposes the quoted/nested representation used inside list and dict
// display (SUPPLEMENTED FEATURES #3): unlike Stringify, a top-level Str
// argument comes back quoted.
func (vm *VM) Repr(v values.Value) (string, error) {
	return vm.reprOf(v)
}

// Len exposes OpLen's logic to the len() native (SUPPLEMENTED FEATURES #5)
// by pushing the operand, delegating to opLen, and popping the result.
func (vm *VM) Len(v values.Value) (values.Value, error) {
	vm.stack.push(v)
	if err := vm.opLen(); err != nil {
		vm.stack.pop()
		return values.Value{}, err
	}
	return vm.stack.pop(), nil
}

// registerSuper installs the zero-argument super() builtin (spec §4.7:
// "Native super() takes zero arguments and inspects the current frame").
// invokeNative keeps vm.activeFrame pointed at the frame issuing the call
// for exactly this native's benefit.
func (vm *VM) registerSuper() {
	vm.RegisterNative("super", 0, 0, func(args []values.Value) (values.Value, error) {
		return vm.super(vm.activeFrame)
	})
}
