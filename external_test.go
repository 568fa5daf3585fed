package argclass

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isobit/argclass/cast"
)

func newLogClass() *Class {
	return NewClass("Log").
		Field("log_level", cast.Literal("debug", "info", "warn"), Arg("--log-level").With(Default("info"))).
		Field("count", cast.Int(), Arg("-c")).
		Field("items", cast.ListOf(cast.Int()), Arg("-i")).
		Field("labels", cast.MapOf(cast.String()), MapArg("-l"))
}

func TestDecodeYAML(t *testing.T) {
	doc := "log-level: debug\ncount: 3\nitems: [1, 2]\nlabels:\n  env: prod\n"
	values, err := DecodeYAML(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"log_level": "debug",
		"count":     3,
		"items":     []any{1, 2},
		"labels":    map[string]any{"env": "prod"},
	}, values)

	o := New(newLogClass())
	require.NoError(t, o.SetExternal(values, nil))
	assert.Equal(t, values, o.AsMap())

	values, err = DecodeYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, values)

	_, err = DecodeYAML(strings.NewReader("- a\n- b\n"))
	assert.Error(t, err)
}

func TestDecodeTOML(t *testing.T) {
	doc := "log-level = \"warn\"\ncount = 3\nitems = [1, 2]\n\n[labels]\nenv = \"dev\"\n"
	values, err := DecodeTOML(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"log_level": "warn",
		"count":     3,
		"items":     []any{1, 2},
		"labels":    map[string]any{"env": "dev"},
	}, values)

	_, err = DecodeTOML(strings.NewReader("count = "))
	assert.Error(t, err)
}

func TestSetExternalCastsLiteral(t *testing.T) {
	o := New(newLogClass())
	assert.Error(t, o.SetExternal(map[string]any{"log_level": "loud"}, nil))

	require.NoError(t, o.SetExternal(map[string]any{"log_level": "d"}, nil))
	level, err := Value[string](o, "log_level")
	require.NoError(t, err)
	assert.Equal(t, "debug", level)
}
