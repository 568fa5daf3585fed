package cast

import (
	"fmt"
	"strings"
)

// OneOf casts to one of a closed set of strings. An exact match wins;
// otherwise the single choice starting with the input is returned. No match
// or more than one match is an error.
func OneOf(choices ...string) Func {
	choices = append([]string(nil), choices...)
	return func(s string) (any, error) {
		found := []string{}
		for _, c := range choices {
			if c == s {
				return c, nil
			}
			if strings.HasPrefix(c, s) {
				found = append(found, c)
			}
		}
		switch len(found) {
		case 1:
			return found[0], nil
		case 0:
			return nil, castErr("choice", s, fmt.Errorf("%w, should be one of %s", ErrUnknownChoice, quoteList(choices)))
		default:
			return nil, castErr("choice", s, fmt.Errorf("%w between %s", ErrAmbiguousChoice, quoteList(found)))
		}
	}
}

// FirstOf returns the result of the first caster that succeeds. A nil member
// accepts the raw string.
func FirstOf(fns ...Func) Func {
	return func(s string) (any, error) {
		for _, fn := range fns {
			if v, err := fn.Apply(s); err == nil {
				return v, nil
			}
		}
		return nil, castErr("union", s, ErrNoUnionMember)
	}
}

// Validate composes a caster with a predicate. A rejected value yields a
// CastError wrapping ErrValidation and carrying the original string.
func Validate(fn Func, pred func(any) bool) Func {
	return func(s string) (any, error) {
		v, err := fn.Apply(s)
		if err != nil {
			return nil, err
		}
		if !pred(v) {
			return nil, castErr("value", s, ErrValidation)
		}
		return v, nil
	}
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = fmt.Sprintf("%q", it)
	}
	return strings.Join(quoted, ", ")
}
