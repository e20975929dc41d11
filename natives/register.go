package natives

import "github.com/orbit-lang/orbit/values"

// Registrar is the subset of *vm.VM's embedding API natives needs to
// install themselves (spec §6's RegisterNative).
type Registrar interface {
	RegisterNative(name string, minArgs, maxArgs int, fn values.NativeFn)
}

// RegisterAll installs every native module (ids, format, time, db,
// introspection) against vm. vm must also satisfy Interpreter for the
// introspection natives (str/repr/len); *vm.VM always does.
func RegisterAll(reg Registrar, interp Interpreter) {
	RegisterIDs(reg.RegisterNative)
	RegisterFormat(reg.RegisterNative)
	RegisterTime(reg.RegisterNative)
	RegisterDB(reg.RegisterNative)
	RegisterIntrospection(reg.RegisterNative, interp)
}
