package cast

import (
	"fmt"
	"strings"
)

type config struct {
	sep        string
	kvSep      string
	quote      rune
	prepend    []any
	prependMap map[string]any
}

func newConfig(opts []Option) config {
	c := config{sep: ",", kvSep: "=", quote: '"'}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Option configures the composite casters (List, Tuple, HeteroTuple, Map,
// KeyedMap).
type Option func(*config)

// Sep sets the element separator. Map uses its first character only.
func Sep(sep string) Option {
	return func(c *config) { c.sep = sep }
}

// KVSep sets the key-value separator candidates of a map; any one character
// of kvSep separates a key from its value.
func KVSep(kvSep string) Option {
	return func(c *config) { c.kvSep = kvSep }
}

// Quote sets the character delimiting verbatim map values. Zero disables
// quoting.
func Quote(q rune) Option {
	return func(c *config) { c.quote = q }
}

// Prepend sets the values spliced before the parsed elements of a list when
// the input starts with "+".
func Prepend(values ...any) Option {
	return func(c *config) { c.prepend = values }
}

// PrependMap seeds every map produced by Map or KeyedMap. Parsed keys
// overwrite seeded ones.
func PrependMap(m map[string]any) Option {
	return func(c *config) { c.prependMap = m }
}

// List splits its input on the separator and casts every element.
func List(elem Func, opts ...Option) Func {
	c := newConfig(opts)
	return func(s string) (any, error) {
		var prefix []any
		if c.prepend != nil && strings.HasPrefix(s, "+") {
			prefix = c.prepend
			s = s[1:]
		}
		values, err := castEach(s, c.sep, func(int) Func { return elem })
		if err != nil {
			return nil, err
		}
		ret := make([]any, 0, len(prefix)+len(values))
		ret = append(ret, prefix...)
		return append(ret, values...), nil
	}
}

// Tuple casts every element with elem. If n is positive, the input must
// contain exactly n elements.
func Tuple(elem Func, n int, opts ...Option) Func {
	c := newConfig(opts)
	return func(s string) (any, error) {
		if n > 0 {
			if got := len(strings.Split(s, c.sep)); got != n {
				return nil, castErr("tuple", s, fmt.Errorf("%w: want %d elements, got %d", ErrArityMismatch, n, got))
			}
		}
		return castEach(s, c.sep, func(int) Func { return elem })
	}
}

// HeteroTuple casts the i-th element with elems[i]. The arity is len(elems).
func HeteroTuple(elems []Func, opts ...Option) Func {
	c := newConfig(opts)
	elems = append([]Func(nil), elems...)
	return func(s string) (any, error) {
		if got := len(strings.Split(s, c.sep)); got != len(elems) {
			return nil, castErr("tuple", s, fmt.Errorf("%w: want %d elements, got %d", ErrArityMismatch, len(elems), got))
		}
		return castEach(s, c.sep, func(i int) Func { return elems[i] })
	}
}

func castEach(s, sep string, fnAt func(int) Func) ([]any, error) {
	parts := strings.Split(s, sep)
	ret := make([]any, len(parts))
	for i, p := range parts {
		v, err := fnAt(i).Apply(p)
		if err != nil {
			return nil, err
		}
		ret[i] = v
	}
	return ret, nil
}
