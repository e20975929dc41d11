// Package natives implements the always-present global functions backed by
// the domain-stack third-party libraries (SPEC_FULL.md's DOMAIN STACK
// table): identifiers, human-readable formatting, time, and database
// access. Every function here is registered with a *vm.VM via
// vm.RegisterNative rather than reached through any import system, matching
// the "no module/import system" Non-goal.
package natives

import (
	"github.com/google/uuid"
	"github.com/orbit-lang/orbit/values"
)

// RegisterIDs installs uuid().
func RegisterIDs(register func(name string, minArgs, maxArgs int, fn values.NativeFn)) {
	register("uuid", 0, 0, func(args []values.Value) (values.Value, error) {
		return values.Str(uuid.New().String()), nil
	})
}
