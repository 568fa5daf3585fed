package cast

import (
	"strings"
	"unicode/utf8"
)

// Map parses entries of the form key=value separated by commas. Every value
// is cast with elem. A key without a separator maps to elem(""). A value
// starting with the quote character runs to the closing quote; inside it a
// backslash takes the next character literally.
func Map(elem Func, opts ...Option) Func {
	return KeyedMap(nil, elem, opts...)
}

// KeyedMap is like Map, but casts the value of a key listed in keys with its
// own caster, and every other key with wildcard.
func KeyedMap(keys map[string]Func, wildcard Func, opts ...Option) Func {
	c := newConfig(opts)
	return func(s string) (any, error) {
		entries, err := splitEntries(s, c)
		if err != nil {
			return nil, castErr("map", s, err)
		}

		ret := make(map[string]any, len(c.prependMap)+len(entries))
		for k, v := range c.prependMap {
			ret[k] = v
		}
		for _, e := range entries {
			fn, ok := keys[e.key]
			if !ok {
				fn = wildcard
			}
			v, err := fn.Apply(e.value)
			if err != nil {
				return nil, err
			}
			ret[e.key] = v
		}
		return ret, nil
	}
}

type entry struct {
	key   string
	value string
}

func splitEntries(s string, c config) ([]entry, error) {
	sep, _ := utf8.DecodeRuneInString(c.sep)
	entries := []entry{}

	key := strings.Builder{}
	val := strings.Builder{}
	inKey := true
	inQuote := false
	escaped := false
	quoted := false
	flush := func() {
		if inKey && key.Len() == 0 {
			return
		}
		entries = append(entries, entry{key: key.String(), value: val.String()})
		key.Reset()
		val.Reset()
		inKey = true
		quoted = false
	}

	for _, r := range s {
		switch {
		case escaped:
			val.WriteRune(r)
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case inQuote:
			if r == c.quote {
				inQuote = false
				quoted = true
			} else {
				val.WriteRune(r)
			}
		case r == sep:
			flush()
		case inKey && strings.ContainsRune(c.kvSep, r):
			inKey = false
		case inKey:
			key.WriteRune(r)
		case c.quote != 0 && r == c.quote && val.Len() == 0 && !quoted:
			inQuote = true
		default:
			val.WriteRune(r)
		}
	}
	if inQuote {
		return nil, ErrUnterminatedQuote
	}
	flush()

	return entries, nil
}
