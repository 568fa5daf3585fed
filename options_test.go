package argclass

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isobit/argclass/cast"
)

func newServerClass() *Class {
	return NewClass("Server").
		Field("port", cast.Int(), Arg("-p", "--port").With(Default(8080))).
		Field("host", cast.String(), Arg("--host")).
		Field("tags", cast.ListOf(cast.String()), Arg("-t")).
		Field("_token", cast.String(), Arg("--token"))
}

func TestNewAppliesDefaults(t *testing.T) {
	o := New(newServerClass())

	port, err := Value[int](o, "port")
	require.NoError(t, err)
	assert.Equal(t, 8080, port)

	tags, err := o.Get("tags")
	require.NoError(t, err)
	assert.Equal(t, []any{}, tags)

	_, err = o.Get("host")
	assert.True(t, errors.Is(err, ErrUnbound))
	assert.EqualError(t, err, "Server.host: unbound field")
	assert.False(t, o.Has("host"))

	_, err = o.Get("nope")
	assert.True(t, errors.Is(err, ErrUnknownField))
	assert.Error(t, o.Set("nope", 1))

	_, err = Value[string](o, "port")
	assert.EqualError(t, err, "Server.port: value of type int is not a string")
}

func TestOptionsSetDeleteString(t *testing.T) {
	o := New(newServerClass())
	require.NoError(t, o.Set("host", "localhost"))
	require.NoError(t, o.Set("_token", nil))

	token, err := Value[string](o, "_token")
	require.NoError(t, err)
	assert.Equal(t, "", token)

	assert.Equal(t, "port = 8080\nhost = localhost\ntags = \n_token = ", o.String())

	o.Delete("host")
	o.Delete("host")
	assert.Equal(t, "port = 8080\nhost = <unbound>\ntags = \n_token = ", o.String())
}

func TestApplyDefaultsCopiesCollections(t *testing.T) {
	class := newServerClass()
	a, b := New(class), New(class)

	tags, err := Value[[]any](a, "tags")
	require.NoError(t, err)
	tags = append(tags, "x")
	require.NoError(t, a.Set("tags", tags))

	other, err := Value[[]any](b, "tags")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCopyFrom(t *testing.T) {
	base := newServerClass()
	prev := New(base)
	require.NoError(t, prev.Set("host", "example.com"))
	require.NoError(t, prev.Set("port", 9000))

	child := NewClass("Child", base).Field("debug", cast.Bool(), Arg("--debug"))
	o := New(child)
	require.NoError(t, o.CopyFrom(prev, map[string]any{"debug": true, "token": "secret"}))

	expected := map[string]any{
		"port":   9000,
		"host":   "example.com",
		"tags":   []any{},
		"_token": "secret",
		"debug":  true,
	}
	if diff := cmp.Diff(expected, o.AsMap()); diff != "" {
		t.Errorf("unexpected fields (-want +got):\n%s\n%s", diff, spew.Sdump(o.AsMap()))
	}
}

func TestCopyFromCastsText(t *testing.T) {
	o := New(newServerClass())
	env := MapEnv{"PORT": "81", "HOST": "0.0.0.0", "TOKEN": "t"}
	require.NoError(t, o.CopyFrom(EnvSource{Env: env}, nil))

	assert.Equal(t, map[string]any{
		"port":   81,
		"host":   "0.0.0.0",
		"tags":   []any{},
		"_token": "t",
	}, o.AsMap())

	err := o.CopyFrom(MapSource{"port": "eighty"}, nil)
	assert.EqualError(t, err, `Server.port: invalid int value: "eighty"`)
}

func TestCopyFromUsesTargetCaster(t *testing.T) {
	src := New(NewClass("Src").Field("n", cast.String(), Arg("-n")))
	require.NoError(t, src.Set("n", "12"))

	dst := New(NewClass("Dst").Field("n", cast.Int(), Arg("-n")))
	require.NoError(t, dst.CopyFrom(src, nil))
	n, err := Value[int](dst, "n")
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}

func TestSetExternal(t *testing.T) {
	o := New(newServerClass())
	require.NoError(t, o.Set("host", "a"))

	err := o.SetExternal(map[string]any{
		"port":  "9090",
		"host":  nil,
		"tags":  []any{"x"},
		"token": "abc",
		"other": 1,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"port":   9090,
		"tags":   []any{"x"},
		"_token": "abc",
	}, o.AsMap())

	o = New(newServerClass())
	err = o.SetExternal(map[string]any{"port": 1, "token": "abc"}, ProtectNames{"port"})
	require.NoError(t, err)
	assert.Equal(t, 8080, o.AsMap()["port"])
	assert.Equal(t, "abc", o.AsMap()["_token"])

	o = New(newServerClass())
	err = o.SetExternal(map[string]any{"port": 1, "host": "h"}, ProtectValues{"port": 2, "host": nil})
	require.NoError(t, err)
	assert.Equal(t, 8080, o.AsMap()["port"])
	assert.Equal(t, "h", o.AsMap()["host"])

	err = o.SetExternal(map[string]any{"port": "x"}, nil)
	assert.EqualError(t, err, `Server.port: invalid int value: "x"`)
}
