package argclass

import (
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DecodeYAML reads a YAML mapping into values for SetExternal. Top-level
// keys have "-" replaced by "_", so log-level sets the field log_level.
func DecodeYAML(r io.Reader) (map[string]any, error) {
	m := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, errors.Wrap(err, "decoding yaml")
	}
	return externalKeys(m), nil
}

// DecodeTOML is DecodeYAML for TOML documents.
func DecodeTOML(r io.Reader) (map[string]any, error) {
	m := map[string]any{}
	if _, err := toml.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrap(err, "decoding toml")
	}
	return externalKeys(m), nil
}

func externalKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[strings.ReplaceAll(k, "-", "_")] = normalizeValue(v)
	}
	return out
}

// normalizeValue maps decoded documents onto the value model of casters:
// integers are int, sequences []any and tables map[string]any.
func normalizeValue(v any) any {
	switch v := v.(type) {
	case int64:
		return int(v)
	case []map[string]any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = normalizeValue(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = normalizeValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = normalizeValue(e)
		}
		return out
	}
	return v
}
