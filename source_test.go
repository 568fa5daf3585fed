package argclass

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShadowView(t *testing.T) {
	src := MapSource{"a": 1, "_b": 2, "c": 3}
	view := ShadowView(src, map[string]any{"a": 10, "b": 20})

	lookup := func(name string) any {
		v, ok := view.Lookup(name)
		require.True(t, ok, name)
		return v
	}
	assert.Equal(t, 10, lookup("a"))
	assert.Equal(t, 20, lookup("_b"))
	assert.Equal(t, 3, lookup("c"))
	_, ok := view.Lookup("d")
	assert.False(t, ok)

	_, ok = ShadowView(nil, nil).Lookup("a")
	assert.False(t, ok)
}

func TestEnvSource(t *testing.T) {
	src := EnvSource{Prefix: "APP_", Env: MapEnv{"APP_LOG_LEVEL": "debug"}}
	assert.Equal(t, "APP_LOG_LEVEL", src.Key("log_level"))
	assert.Equal(t, "APP_LOG_LEVEL", src.Key("logLevel"))
	assert.Equal(t, "APP_TOKEN", src.Key("_token"))

	v, ok := src.Lookup("log_level")
	assert.True(t, ok)
	assert.Equal(t, "debug", v)
	_, ok = src.Lookup("missing")
	assert.False(t, ok)

	t.Setenv("ARGCLASS_TEST_VALUE", "x")
	v, ok = EnvSource{Prefix: "ARGCLASS_TEST_"}.Lookup("value")
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestParseEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\n// other comment\n\nFOO=bar\nURL=http://x/?a=b\n  SPACED = yes\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	env, err := ParseEnvFile(path)
	require.NoError(t, err)
	assert.Equal(t, MapEnv{"FOO": "bar", "URL": "http://x/?a=b", "SPACED": " yes"}, env)

	require.NoError(t, os.WriteFile(path, []byte("FOO=bar\nBROKEN\n"), 0o600))
	_, err = ParseEnvFile(path)
	assert.EqualError(t, err, path+": error on line 2: not of form KEY=VAL")

	_, err = ParseEnvFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestStructSource(t *testing.T) {
	type Embedded struct {
		Region string
	}
	type Config struct {
		*Embedded
		LogLevel string
		Count    *int
		Missing  *int
		HTTPPort int
		private  string
	}
	count := 3
	cfg := &Config{Embedded: &Embedded{Region: "eu"}, LogLevel: "info", Count: &count, HTTPPort: 80, private: "x"}
	src := StructSource{V: cfg}

	lookup := func(name string) (any, bool) { return src.Lookup(name) }

	v, ok := lookup("log_level")
	assert.True(t, ok)
	assert.Equal(t, "info", v)

	v, ok = lookup("count")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	v, ok = lookup("http_port")
	assert.True(t, ok)
	assert.Equal(t, 80, v)

	v, ok = lookup("region")
	assert.True(t, ok)
	assert.Equal(t, "eu", v)

	for _, name := range []string{"missing", "private", "nope"} {
		_, ok = lookup(name)
		assert.False(t, ok, name)
	}

	_, ok = StructSource{V: &Config{}}.Lookup("region")
	assert.False(t, ok)
	_, ok = StructSource{V: (*Config)(nil)}.Lookup("log_level")
	assert.False(t, ok)
}
