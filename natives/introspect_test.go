package natives

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbit-lang/orbit/values"
)

type fakeInterpreter struct {
	stringifyErr error
	reprErr      error
	lenErr       error
}

func (f *fakeInterpreter) Stringify(v values.Value) (string, error) {
	if f.stringifyErr != nil {
		return "", f.stringifyErr
	}
	return "str:" + v.TypeName(), nil
}

func (f *fakeInterpreter) Repr(v values.Value) (string, error) {
	if f.reprErr != nil {
		return "", f.reprErr
	}
	return "repr:" + v.TypeName(), nil
}

func (f *fakeInterpreter) Len(v values.Value) (values.Value, error) {
	if f.lenErr != nil {
		return values.Value{}, f.lenErr
	}
	return values.Int(int64(len(v.TypeName()))), nil
}

func TestIntrospectionStrDelegatesToInterpreter(t *testing.T) {
	r := newFakeRegistry()
	RegisterIntrospection(r.register, &fakeInterpreter{})

	v, err := r.fns["str"]([]values.Value{values.Int(1)})
	require.NoError(t, err)
	assert.Equal(t, "str:int", v.AsStr())
}

func TestIntrospectionReprDelegatesToInterpreter(t *testing.T) {
	r := newFakeRegistry()
	RegisterIntrospection(r.register, &fakeInterpreter{})

	v, err := r.fns["repr"]([]values.Value{values.Str("x")})
	require.NoError(t, err)
	assert.Equal(t, "repr:str", v.AsStr())
}

func TestIntrospectionTypeReturnsTypeName(t *testing.T) {
	r := newFakeRegistry()
	RegisterIntrospection(r.register, &fakeInterpreter{})

	v, err := r.fns["type"]([]values.Value{values.Bool(true)})
	require.NoError(t, err)
	assert.Equal(t, "bool", v.AsStr())
}

func TestIntrospectionLenPropagatesError(t *testing.T) {
	r := newFakeRegistry()
	wantErr := errors.New("boom")
	RegisterIntrospection(r.register, &fakeInterpreter{lenErr: wantErr})

	_, err := r.fns["len"]([]values.Value{values.Str("hi")})
	assert.ErrorIs(t, err, wantErr)
}
