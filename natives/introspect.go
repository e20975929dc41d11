package natives

import "github.com/orbit-lang/orbit/values"

// Interpreter is the subset of *vm.VM the introspection natives need. It is
// declared here rather than importing the vm package, so natives depends
// only on values and vmerr; *vm.VM satisfies it structurally and the host passes it
// to RegisterAll or RegisterIntrospection.
type Interpreter interface {
	Stringify(v values.Value) (string, error)
	Repr(v values.Value) (string, error)
	Len(v values.Value) (values.Value, error)
}

// RegisterIntrospection installs str(), repr(), type(), and len() as
// natives (SPEC_FULL.md SUPPLEMENTED FEATURES #3, #4, #5). Each re-enters
// the interpreter through vm's own stringify/repr/OpLen logic rather than
// duplicating it, exactly as the print family does.
func RegisterIntrospection(register func(name string, minArgs, maxArgs int, fn values.NativeFn), vm Interpreter) {
	register("str", 1, 1, func(args []values.Value) (values.Value, error) {
		s, err := vm.Stringify(args[0])
		if err != nil {
			return values.Value{}, err
		}
		return values.Str(s), nil
	})

	register("repr", 1, 1, func(args []values.Value) (values.Value, error) {
		s, err := vm.Repr(args[0])
		if err != nil {
			return values.Value{}, err
		}
		return values.Str(s), nil
	})

	register("type", 1, 1, func(args []values.Value) (values.Value, error) {
		return values.Str(args[0].TypeName()), nil
	})

	register("len", 1, 1, func(args []values.Value) (values.Value, error) {
		return vm.Len(args[0])
	})
}
