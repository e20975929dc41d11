package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListNormalize(t *testing.T) {
	l := NewList(Int(10), Int(20), Int(30)).AsList()

	idx, ok := l.Normalize(-1)
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	idx, ok = l.Normalize(0)
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	_, ok = l.Normalize(3)
	assert.False(t, ok)

	_, ok = l.Normalize(-4)
	assert.False(t, ok)
}

func TestListAppend(t *testing.T) {
	l := NewList().AsList()
	l.Append(Int(1))
	l.Append(Int(2))
	require.Equal(t, 2, l.Len())
	assert.Equal(t, int64(1), l.Elems[0].AsInt())
	assert.Equal(t, int64(2), l.Elems[1].AsInt())
}

func TestDictSetGetDeleteOrder(t *testing.T) {
	d := NewDict().AsDict()
	d.Set("b", Int(2))
	d.Set("a", Int(1))
	d.Set("c", Int(3))

	assert.Equal(t, []string{"b", "a", "c"}, d.Keys())

	v, ok := d.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.AsInt())

	// Overwriting a key keeps its original insertion position.
	d.Set("b", Int(20))
	assert.Equal(t, []string{"b", "a", "c"}, d.Keys())
	v, _ = d.Get("b")
	assert.Equal(t, int64(20), v.AsInt())

	require.True(t, d.Delete("a"))
	assert.Equal(t, []string{"b", "c"}, d.Keys())
	assert.Equal(t, 2, d.Len())

	_, ok = d.Get("a")
	assert.False(t, ok)

	assert.False(t, d.Delete("nope"))
}
