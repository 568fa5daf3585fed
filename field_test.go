package argclass

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isobit/argclass/argparse"
	"github.com/isobit/argclass/cast"
)

func resolve(t *testing.T, name string, typ cast.Type, f *Field) argparse.Argument {
	t.Helper()
	a, err := f.bind(name, typ).Resolve()
	require.NoError(t, err)
	return a
}

func TestArgInvalidFlag(t *testing.T) {
	_, err := NewArg([]string{"-a", "b"})
	assert.True(t, errors.Is(err, ErrInvalidFlag))

	assert.Panics(t, func() { Arg("b") })
	assert.Panics(t, func() { MapArg() })
	assert.Panics(t, func() { AliasArg([]string{"--mode"}, Alias{Flag: "fast", Value: 1}) })
}

func TestResolveBool(t *testing.T) {
	a := resolve(t, "a", cast.Bool(), Arg("-a"))
	assert.Equal(t, argparse.StoreTrue, a.Action)
	assert.Equal(t, false, a.Default)
	assert.Equal(t, "a", a.Dest)

	a = resolve(t, "a", cast.Bool(), Arg("-a").With(Nargs(argparse.Optional)))
	assert.Equal(t, argparse.Store, a.Action)
	v, err := a.Type.Apply("no")
	require.NoError(t, err)
	assert.Equal(t, false, v)

	a = resolve(t, "a", cast.Bool(), Arg("-a").With(Default(true)))
	assert.Equal(t, argparse.Store, a.Action)
	assert.Equal(t, true, a.Default)

	a = resolve(t, "a", cast.Bool(), Arg("-a").With(Action(argparse.StoreFalse)))
	assert.Equal(t, argparse.StoreFalse, a.Action)
	assert.Equal(t, true, a.Default)
}

func TestResolveCollections(t *testing.T) {
	a := resolve(t, "a", cast.ListOf(cast.Int()), Arg("-a"))
	assert.Equal(t, argparse.Append, a.Action)
	assert.Equal(t, []any{}, a.Default)
	v, err := a.Type.Apply("3")
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	a = resolve(t, "a", cast.ListOf(cast.Int()), Arg("-a").With(Action(argparse.Store)))
	v, err = a.Type.Apply("1,2")
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, v)

	a = resolve(t, "a", cast.VarTupleOf(cast.Int()), VarArg("A"))
	assert.Equal(t, argparse.Extend, a.Action)
	assert.Equal(t, argparse.ZeroOrMore, a.Nargs)
	assert.Equal(t, "A", a.Metavar)

	_, err = Arg("-a").With(Action(argparse.Append)).bind("a", cast.TupleOf(cast.Int(), cast.String())).Resolve()
	var ce *ConstructionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "a", ce.Field)
}

func TestResolveLiteral(t *testing.T) {
	a := resolve(t, "a", cast.Literal("A", "B"), Arg("-a"))
	assert.Equal(t, "A|B", a.Metavar)
	assert.Empty(t, a.Choices)
	v, err := a.Type.Apply("B")
	require.NoError(t, err)
	assert.Equal(t, "B", v)
	_, err = a.Type.Apply("C")
	assert.True(t, errors.Is(err, cast.ErrUnknownChoice))

	f := Arg("-a").bind("a", cast.Literal("A", "B"))
	assert.Equal(t, []string{"A", "B"}, f.Choices())
}

func TestResolvePositional(t *testing.T) {
	a := resolve(t, "a", cast.Int(), Arg())
	assert.Equal(t, argparse.Optional, a.Nargs)
	assert.True(t, a.IsPositional())

	a = resolve(t, "a", cast.Int(), PosArg("A"))
	assert.Equal(t, argparse.Single, a.Nargs)
	assert.Equal(t, "A", a.Metavar)

	a = resolve(t, "a", cast.Int(), Arg().With(Default(1)))
	assert.Equal(t, argparse.Single, a.Nargs)
}

func TestResolveHiddenAndValidator(t *testing.T) {
	a := resolve(t, "a", cast.Int(), Arg("-a").With(
		Hidden(true),
		Help("ignored"),
		Validator(func(v any) bool { return v.(int) > 0 }),
	))
	assert.Equal(t, argparse.Suppress, a.Help)

	v, err := a.Type.Apply("2")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	_, err = a.Type.Apply("-2")
	assert.True(t, errors.Is(err, cast.ErrValidation))
}

func TestResolveMapArg(t *testing.T) {
	a := resolve(t, "env", cast.MapOf(cast.Int()), MapArg("-e"))
	assert.Equal(t, argparse.Call, a.Action)
	assert.Equal(t, "KEY=VALUE", a.Metavar)
	assert.Equal(t, map[string]any{}, a.Default)

	m, err := a.Call(map[string]any{"A": 1}, "B=x=y")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"A": 1, "B": "x=y"}, m)

	a = resolve(t, "env", cast.MapOf(cast.Int()), MapArg("-e").With(Type(cast.ParseInt), Choices("1", "2")))
	assert.Equal(t, "KEY={1,2}", a.Metavar)
	assert.Empty(t, a.Choices)

	m, err = a.Call(nil, "A=2")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"A": 2}, m)
	_, err = a.Call(nil, "A=3")
	assert.EqualError(t, err, "A=3 not in choices: 1, 2")
}

func TestAliasArg(t *testing.T) {
	f := AliasArg([]string{"--speed"},
		Alias{Flag: "--fast", Value: 10},
		Alias{Flag: "--slow", Value: 1},
	).With(Default(5), Help("how fast")).bind("speed", cast.Int())

	args, err := f.arguments()
	require.NoError(t, err)
	require.Len(t, args, 3)
	assert.Equal(t, []string{"--speed"}, args[0].Flags)
	assert.Equal(t, "speed", args[1].Dest)
	assert.Equal(t, argparse.StoreConst, args[1].Action)
	assert.Equal(t, 10, args[1].Const)
	assert.Equal(t, 5, args[1].Default)
	assert.Equal(t, "short for --speed=10.", args[1].Help)
	assert.Equal(t, "short for --speed=1.", args[2].Help)
}

func TestWithOptions(t *testing.T) {
	f := Arg("-a", "--alpha").With(Help("first"))

	nf, err := f.WithOptions(ReplaceFlags("-b"), Help("second"))
	require.NoError(t, err)
	assert.Equal(t, []string{"-b"}, nf.Flags())
	assert.Equal(t, "second", nf.Help())
	assert.Equal(t, "first", f.Help())

	nf, err = f.WithOptions(AppendFlags("-A"))
	require.NoError(t, err)
	assert.Equal(t, []string{"-a", "--alpha", "-A"}, nf.Flags())

	nf, err = f.WithOptions(RenameFlags(map[string]string{"-a": "-x"}, "--extra"))
	require.NoError(t, err)
	assert.Equal(t, []string{"-x", "--extra"}, nf.Flags())

	nf, err = f.WithOptions(RenameFlagsKeep(map[string]string{"-a": "-x"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"-x", "--alpha"}, nf.Flags())

	_, err = f.WithOptions(RenameFlags(map[string]string{}))
	assert.Error(t, err)

	_, err = f.WithOptions(ReplaceFlags("bad"))
	assert.True(t, errors.Is(err, ErrInvalidFlag))

	_, err = PosArg("A").WithOptions(ReplaceFlags("-a"))
	assert.True(t, errors.Is(err, ErrPositionalToOptional))

	nf = f.With(Const(1), Unset(KeyConst, KeyHelp))
	_, hasConst := nf.EffectiveConst()
	assert.False(t, hasConst)
	assert.Equal(t, "", nf.Help())
}

func TestSetDefault(t *testing.T) {
	f := Arg("-a").With(Const(3)).bind("a", cast.Int())

	nf := f.SetDefault(7)
	v, ok := nf.EffectiveDefault()
	assert.True(t, ok)
	assert.Equal(t, 7, v)
	_, ok = nf.EffectiveConst()
	assert.False(t, ok)

	nf = f.SetDefaultOmit(nil, 0)
	v, ok = nf.EffectiveDefault()
	assert.True(t, ok)
	assert.Nil(t, v)
	v, ok = nf.EffectiveConst()
	assert.True(t, ok)
	assert.Equal(t, 0, v)
	a, err := nf.Resolve()
	require.NoError(t, err)
	assert.Equal(t, argparse.Optional, a.Nargs)
}

func TestFieldCast(t *testing.T) {
	f := Arg("-v").bind("v", cast.Bool())
	v, err := f.Cast("True")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	f = Arg("-n").bind("n", cast.ListOf(cast.Int()))
	v, err = f.Cast("4")
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	f = MapArg("-e").bind("e", cast.MapOf(cast.Int()))
	v, err = f.Cast("A=1,B=2")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"A": 1, "B": 2}, v)
}
