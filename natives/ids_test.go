package natives

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbit-lang/orbit/values"
)

// fakeRegistry captures registered natives by name so tests can invoke them
// directly without spinning up a *vm.VM.
type fakeRegistry struct {
	fns map[string]values.NativeFn
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{fns: map[string]values.NativeFn{}}
}

func (r *fakeRegistry) register(name string, minArgs, maxArgs int, fn values.NativeFn) {
	r.fns[name] = fn
}

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func TestUUIDNativeProducesRFC4122String(t *testing.T) {
	r := newFakeRegistry()
	RegisterIDs(r.register)

	v, err := r.fns["uuid"](nil)
	require.NoError(t, err)
	require.Equal(t, values.KindStr, v.Kind)
	assert.Regexp(t, uuidPattern, v.AsStr())
}

func TestUUIDNativeIsUnique(t *testing.T) {
	r := newFakeRegistry()
	RegisterIDs(r.register)

	a, err := r.fns["uuid"](nil)
	require.NoError(t, err)
	b, err := r.fns["uuid"](nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.AsStr(), b.AsStr())
}
