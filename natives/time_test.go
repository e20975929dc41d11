package natives

import (
	stdtime "time"

	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbit-lang/orbit/values"
)

func TestNowReturnsCurrentUnixSeconds(t *testing.T) {
	r := newFakeRegistry()
	RegisterTime(r.register)

	before := stdtime.Now().Unix()
	v, err := r.fns["now"](nil)
	require.NoError(t, err)
	after := stdtime.Now().Unix()

	require.Equal(t, values.KindInt, v.Kind)
	assert.GreaterOrEqual(t, v.AsInt(), before)
	assert.LessOrEqual(t, v.AsInt(), after)
}

func TestStrftimeFormatsUnixTimestamp(t *testing.T) {
	r := newFakeRegistry()
	RegisterTime(r.register)

	ts := stdtime.Date(2024, stdtime.January, 2, 3, 4, 5, 0, stdtime.UTC).Unix()
	v, err := r.fns["strftime"]([]values.Value{values.Str("%Y-%m-%d"), values.Int(ts)})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", v.AsStr())
}

func TestStrftimeRejectsNonStrFormat(t *testing.T) {
	r := newFakeRegistry()
	RegisterTime(r.register)

	_, err := r.fns["strftime"]([]values.Value{values.Int(1), values.Int(1)})
	assert.Error(t, err)
}
