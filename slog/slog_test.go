//go:build go1.21

package slog

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isobit/argclass"
)

func TestNewClassDefaults(t *testing.T) {
	class, err := NewClass(argclass.MapEnv{})
	require.NoError(t, err)
	o := argclass.New(class)

	level, err := argclass.Value[slog.Level](o, "log_level")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
	json, err := argclass.Value[bool](o, "log_json")
	require.NoError(t, err)
	assert.False(t, json)

	class, err = NewClass(argclass.MapEnv{"LOG_LEVEL": "debug", "LOG_JSON": "yes"})
	require.NoError(t, err)
	o = argclass.New(class)
	level, err = argclass.Value[slog.Level](o, "log_level")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
	json, err = argclass.Value[bool](o, "log_json")
	require.NoError(t, err)
	assert.True(t, json)

	_, err = NewClass(argclass.MapEnv{"LOG_LEVEL": "chatty"})
	assert.Error(t, err)
}

func TestConfigure(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	class, err := NewClass(argclass.MapEnv{})
	require.NoError(t, err)
	app := argclass.NewClass("App", class)
	o := argclass.New(app)
	require.NoError(t, o.Parse([]string{"--log-level", "warn", "--log-json"}))

	buf := &bytes.Buffer{}
	require.NoError(t, ConfigureWithHandlerOptions(o, buf, nil))
	slog.Info("hidden")
	slog.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}
