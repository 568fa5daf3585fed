package argparse

import (
	"fmt"
	"strconv"
)

// Action determines how the values of an argument accumulate in the
// namespace.
type Action int

const (
	Store Action = iota
	StoreConst
	StoreTrue
	StoreFalse
	Append
	AppendConst
	Extend
	Count
	Help
	Version
	// Boolean registers a --no-<name> twin for every long flag.
	Boolean
	// Call hands the current value and the cast values to Argument.Call.
	Call
)

var actionNames = [...]string{
	Store:       "store",
	StoreConst:  "store_const",
	StoreTrue:   "store_true",
	StoreFalse:  "store_false",
	Append:      "append",
	AppendConst: "append_const",
	Extend:      "extend",
	Count:       "count",
	Help:        "help",
	Version:     "version",
	Boolean:     "boolean",
	Call:        "call",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "action(" + strconv.Itoa(int(a)) + ")"
}

// ParseAction looks up an action by its name, e.g. "store_true".
func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// TakesValues reports whether the action consumes argument strings.
func (a Action) TakesValues() bool {
	switch a {
	case Store, Append, Extend, Call:
		return true
	}
	return false
}

type nargsKind int

const (
	nargsSingle nargsKind = iota
	nargsExact
	nargsOptional
	nargsZeroOrMore
	nargsOneOrMore
	nargsRemainder
)

// Nargs is the cardinality of an argument. The zero value consumes exactly
// one string and stores it as a scalar.
type Nargs struct {
	kind nargsKind
	n    int
}

var (
	Single     = Nargs{}
	Optional   = Nargs{kind: nargsOptional}
	ZeroOrMore = Nargs{kind: nargsZeroOrMore}
	OneOrMore  = Nargs{kind: nargsOneOrMore}
	Remainder  = Nargs{kind: nargsRemainder}
)

// Exactly consumes n strings and stores them as a list.
func Exactly(n int) Nargs {
	return Nargs{kind: nargsExact, n: n}
}

// ParseNargs accepts "", "?", "*", "+", "..." or a decimal count.
func ParseNargs(s string) (Nargs, error) {
	switch s {
	case "":
		return Single, nil
	case "?":
		return Optional, nil
	case "*":
		return ZeroOrMore, nil
	case "+":
		return OneOrMore, nil
	case "...":
		return Remainder, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return Nargs{}, fmt.Errorf("invalid nargs %q", s)
	}
	return Exactly(n), nil
}

func (n Nargs) String() string {
	switch n.kind {
	case nargsExact:
		return strconv.Itoa(n.n)
	case nargsOptional:
		return "?"
	case nargsZeroOrMore:
		return "*"
	case nargsOneOrMore:
		return "+"
	case nargsRemainder:
		return "..."
	}
	return ""
}

func (n Nargs) min() int {
	switch n.kind {
	case nargsSingle, nargsOneOrMore:
		return 1
	case nargsExact:
		return n.n
	}
	return 0
}

// max returns -1 when unbounded.
func (n Nargs) max() int {
	switch n.kind {
	case nargsSingle, nargsOptional:
		return 1
	case nargsExact:
		return n.n
	}
	return -1
}
