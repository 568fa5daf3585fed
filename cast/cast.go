package cast

import (
	"strconv"
	"strings"
	"time"
)

// Func converts a raw string token into a typed value. A nil Func means the
// raw string is used as is.
type Func func(s string) (any, error)

// Apply runs fn on s, treating a nil fn as the identity.
func (fn Func) Apply(s string) (any, error) {
	if fn == nil {
		return s, nil
	}
	return fn(s)
}

// For derives the caster of a declared type. Any yields a nil Func.
func For(t Type) (Func, error) {
	switch t.kind {
	case KindAny:
		return nil, nil
	case KindLiteral:
		return OneOf(t.choices...), nil
	case KindUnion:
		fns := make([]Func, 0, len(t.elems))
		for _, e := range t.elems {
			fn, err := For(e)
			if err != nil {
				return nil, err
			}
			fns = append(fns, fn)
		}
		return FirstOf(fns...), nil
	case KindBool:
		return ParseBool, nil
	case KindList:
		fn, err := For(t.Elem())
		if err != nil {
			return nil, err
		}
		return List(fn), nil
	case KindVarTuple:
		fn, err := For(t.Elem())
		if err != nil {
			return nil, err
		}
		return Tuple(fn, 0), nil
	case KindTuple:
		fns := make([]Func, len(t.elems))
		for i, e := range t.elems {
			fn, err := For(e)
			if err != nil {
				return nil, err
			}
			fns[i] = fn
		}
		return HeteroTuple(fns), nil
	case KindMap:
		fn, err := For(t.Elem())
		if err != nil {
			return nil, err
		}
		return Map(fn), nil
	case KindString:
		return Str, nil
	case KindInt:
		return ParseInt, nil
	case KindFloat:
		return ParseFloat, nil
	case KindDuration:
		return ParseDuration, nil
	case KindNamed:
		if t.fn != nil {
			return t.fn, nil
		}
	}
	return nil, &UnsupportedTypeError{Type: t.String()}
}

func Str(s string) (any, error) {
	return s, nil
}

func ParseInt(s string) (any, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, castErr("int", s, nil)
	}
	return v, nil
}

func ParseFloat(s string) (any, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, castErr("float", s, nil)
	}
	return v, nil
}

func ParseDuration(s string) (any, error) {
	v, err := time.ParseDuration(s)
	if err != nil {
		return nil, castErr("duration", s, nil)
	}
	return v, nil
}

var (
	truthy = map[string]bool{"": true, "+": true, "1": true, "t": true, "true": true, "yes": true, "y": true}
	falsy  = map[string]bool{"-": true, "0": true, "f": true, "false": true, "n": true, "no": true, "x": true}
)

// ParseBool accepts case-insensitive truthy tokens ("", "+", "1", "t",
// "true", "yes", "y") and falsy tokens ("-", "0", "f", "false", "n", "no",
// "x").
func ParseBool(s string) (any, error) {
	l := strings.ToLower(s)
	switch {
	case truthy[l]:
		return true, nil
	case falsy[l]:
		return false, nil
	}
	return nil, castErr("bool", s, nil)
}
