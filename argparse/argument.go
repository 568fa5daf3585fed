package argparse

import (
	"fmt"
	"strings"

	"github.com/isobit/argclass/cast"
)

// Suppress as an argument's Help hides it from usage and help output.
const Suppress = "==SUPPRESS=="

// Argument is the registration record of one option or positional. An
// argument with no Flags is positional.
type Argument struct {
	Flags    []string
	Dest     string
	Action   Action
	Nargs    Nargs
	Default  any
	Const    any
	Type     cast.Func
	Choices  []string
	Required bool
	Help     string
	Metavar  string
	Version  string

	// Call computes the new value of Dest for the Call action.
	Call func(current any, value any) (any, error)

	// extra flags registered for the Boolean action
	negFlags []string
}

func (a *Argument) IsPositional() bool {
	return len(a.Flags) == 0
}

func (a *Argument) hidden() bool {
	return a.Help == Suppress
}

// displayName is the name used in error messages.
func (a *Argument) displayName() string {
	if !a.IsPositional() {
		return strings.Join(a.Flags, "/")
	}
	if a.Metavar != "" {
		return a.Metavar
	}
	return a.Dest
}

func (a *Argument) metavar() string {
	switch {
	case a.Metavar != "":
		return a.Metavar
	case len(a.Choices) > 0:
		return "{" + strings.Join(a.Choices, ",") + "}"
	case a.IsPositional():
		return a.Dest
	}
	return strings.ToUpper(a.Dest)
}

// normalize validates the argument and fills in the implicit settings of its
// action.
func (a *Argument) normalize(prefixChars string) error {
	for _, f := range a.Flags {
		if len(f) < 2 || !strings.ContainsRune(prefixChars, rune(f[0])) {
			return fmt.Errorf("invalid option string %q: must start with a character %q", f, prefixChars)
		}
	}

	if a.Dest == "" {
		if a.IsPositional() {
			return fmt.Errorf("positional argument requires a dest")
		}
		a.Dest = destFromFlags(a.Flags)
	}

	switch a.Action {
	case StoreTrue:
		if a.Default == nil {
			a.Default = false
		}
		a.Const = true
	case StoreFalse:
		if a.Default == nil {
			a.Default = true
		}
		a.Const = false
	case Boolean:
		for _, f := range a.Flags {
			if strings.HasPrefix(f, "--") {
				a.negFlags = append(a.negFlags, "--no-"+f[2:])
			}
		}
	}

	if !a.Action.TakesValues() {
		if a.Nargs != Single {
			return fmt.Errorf("argument %s: nargs not allowed with action %s", a.displayName(), a.Action)
		}
		if a.IsPositional() {
			return fmt.Errorf("argument %s: action %s requires an option string", a.displayName(), a.Action)
		}
	} else if a.Nargs.kind == nargsExact && a.Nargs.n == 0 {
		return fmt.Errorf("argument %s: nargs for store actions must be != 0", a.displayName())
	}

	if a.Action == Call && a.Call == nil {
		return fmt.Errorf("argument %s: call action without a function", a.displayName())
	}

	return nil
}

func (a *Argument) allFlags() []string {
	return append(append([]string(nil), a.Flags...), a.negFlags...)
}

func destFromFlags(flags []string) string {
	name := flags[0]
	for _, f := range flags {
		if strings.HasPrefix(f, "--") {
			name = f
			break
		}
	}
	name = strings.TrimLeft(name, "-")
	return strings.ReplaceAll(name, "-", "_")
}
