package natives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbit-lang/orbit/values"
)

// TestDBRoundTripAgainstSQLite runs db_open/db_exec/db_query/db_close
// against a real in-memory sqlite database rather than mocking the
// database/sql layer.
func TestDBRoundTripAgainstSQLite(t *testing.T) {
	r := newFakeRegistry()
	RegisterDB(r.register)

	handle, err := r.fns["db_open"]([]values.Value{values.Str("sqlite"), values.Str(":memory:")})
	require.NoError(t, err)
	require.Equal(t, values.KindInt, handle.Kind)

	_, err = r.fns["db_exec"]([]values.Value{handle, values.Str("create table items (id integer, name text)")})
	require.NoError(t, err)

	affected, err := r.fns["db_exec"]([]values.Value{handle, values.Str("insert into items (id, name) values (?, ?)"), values.Int(1), values.Str("widget")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected.AsInt())

	rows, err := r.fns["db_query"]([]values.Value{handle, values.Str("select id, name from items where id = ?"), values.Int(1)})
	require.NoError(t, err)
	require.Equal(t, values.KindList, rows.Kind)
	require.Equal(t, 1, rows.AsList().Len())

	row := rows.AsList().Elems[0]
	require.Equal(t, values.KindDict, row.Kind)
	name, ok := row.AsDict().Get("name")
	require.True(t, ok)
	assert.Equal(t, "widget", name.AsStr())

	_, err = r.fns["db_close"]([]values.Value{handle})
	require.NoError(t, err)

	_, err = r.fns["db_query"]([]values.Value{handle, values.Str("select 1")})
	assert.Error(t, err)
}

func TestDBOpenRejectsUnknownDriver(t *testing.T) {
	r := newFakeRegistry()
	RegisterDB(r.register)

	_, err := r.fns["db_open"]([]values.Value{values.Str("oracle"), values.Str("dsn")})
	assert.Error(t, err)
}
