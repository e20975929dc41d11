package natives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbit-lang/orbit/values"
)

func TestHumanizeBytes(t *testing.T) {
	r := newFakeRegistry()
	RegisterFormat(r.register)

	v, err := r.fns["humanize_bytes"]([]values.Value{values.Int(2048)})
	require.NoError(t, err)
	assert.Equal(t, "2.0 kB", v.AsStr())
}

func TestHumanizeOrdinal(t *testing.T) {
	r := newFakeRegistry()
	RegisterFormat(r.register)

	v, err := r.fns["humanize_ordinal"]([]values.Value{values.Int(3)})
	require.NoError(t, err)
	assert.Equal(t, "3rd", v.AsStr())
}

func TestHumanizeComma(t *testing.T) {
	r := newFakeRegistry()
	RegisterFormat(r.register)

	v, err := r.fns["humanize_comma"]([]values.Value{values.Int(1234567)})
	require.NoError(t, err)
	assert.Equal(t, "1,234,567", v.AsStr())
}

func TestHumanizeCommaRejectsNonInt(t *testing.T) {
	r := newFakeRegistry()
	RegisterFormat(r.register)

	_, err := r.fns["humanize_comma"]([]values.Value{values.Str("nope")})
	assert.Error(t, err)
}
