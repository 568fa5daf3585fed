package argclass

import (
	"bufio"
	"os"
	"reflect"
	"strings"

	"github.com/huandu/xstrings"
	"github.com/pkg/errors"
)

// Source is anything fields can be copied from.
type Source interface {
	Lookup(name string) (any, bool)
}

// MapSource looks fields up by name in a map.
type MapSource map[string]any

func (m MapSource) Lookup(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

type shadowView struct {
	src       Source
	overrides map[string]any
}

// ShadowView layers overrides over src. A name is looked up in overrides,
// then in overrides without one leading underscore, then in src.
func ShadowView(src Source, overrides map[string]any) Source {
	return shadowView{src: src, overrides: overrides}
}

func (s shadowView) Lookup(name string) (any, bool) {
	if v, ok := s.overrides[name]; ok {
		return v, true
	}
	if strings.HasPrefix(name, "_") {
		if v, ok := s.overrides[name[1:]]; ok {
			return v, true
		}
	}
	if s.src == nil {
		return nil, false
	}
	return s.src.Lookup(name)
}

type Env interface {
	Lookup(key string) (value string, ok bool)
}

type OSEnv struct{}

func (OSEnv) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

type MapEnv map[string]string

func (me MapEnv) Lookup(key string) (string, bool) {
	value, ok := me[key]
	return value, ok
}

// ParseEnvFile reads KEY=VALUE lines. Blank lines and lines starting with
// "#" or "//" are skipped.
func ParseEnvFile(path string) (MapEnv, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data := MapEnv{}
	scanner := bufio.NewScanner(file)
	for i := 1; scanner.Scan(); i++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, errors.Errorf("%s: error on line %d: not of form KEY=VAL", path, i)
		}
		data[strings.TrimSpace(key)] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return data, nil
}

// EnvSource looks fields up as environment variables named by the
// upper-snake-case field name, e.g. log_level and logLevel both read
// LOG_LEVEL. A nil Env reads the process environment.
type EnvSource struct {
	Prefix string
	Env    Env
}

// Key returns the variable name read for the field name.
func (s EnvSource) Key(name string) string {
	name = strings.TrimLeft(name, "_")
	return s.Prefix + strings.ToUpper(xstrings.ToSnakeCase(name))
}

func (s EnvSource) Lookup(name string) (any, bool) {
	env := s.Env
	if env == nil {
		env = OSEnv{}
	}
	v, ok := env.Lookup(s.Key(name))
	if !ok {
		return nil, false
	}
	return v, true
}

// StructSource looks fields up as exported fields of a struct or struct
// pointer: log_level reads the Go field LogLevel. Nil pointer fields count as
// absent.
type StructSource struct {
	V any
}

func (s StructSource) Lookup(name string) (any, bool) {
	rv := reflect.ValueOf(s.V)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}

	goName := xstrings.ToCamelCase(strings.TrimLeft(name, "_"))
	sf, ok := rv.Type().FieldByName(goName)
	if !ok {
		sf, ok = rv.Type().FieldByNameFunc(func(n string) bool {
			return strings.EqualFold(n, goName)
		})
	}
	if !ok || !sf.IsExported() {
		return nil, false
	}
	fv, err := rv.FieldByIndexErr(sf.Index)
	if err != nil {
		return nil, false
	}
	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return nil, false
		}
		fv = fv.Elem()
	}
	return fv.Interface(), true
}
