/*
Some code in this file was copied from the go "flag" package source and
modified. That code's license is retained here:

Copyright (c) 2009 The Go Authors. All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are
met:

   * Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.
   * Redistributions in binary form must reproduce the above
copyright notice, this list of conditions and the following disclaimer
in the documentation and/or other materials provided with the
distribution.
   * Neither the name of Google Inc. nor the names of its
contributors may be used to endorse or promote products derived from
this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
OWNER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/

package argparse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/isobit/argclass/cast"
)

var negativeNumber = regexp.MustCompile(`^-\d+$|^-\d*\.\d+$`)

type tokenKind int

const (
	tokenPositional tokenKind = iota
	tokenOption
	tokenUnknown
)

type optionMatch struct {
	arg      *Argument
	flag     string
	explicit *string
}

type parseState struct {
	p          *Parser
	ns         *Namespace
	seen       map[*Argument]bool
	positional []string
	extras     []string
}

func (p *Parser) parseInto(args []string, ns *Namespace) error {
	p.setDefaults(ns)
	st := &parseState{p: p, ns: ns, seen: map[*Argument]bool{}}

	for len(args) > 0 {
		s := args[0]

		// "--" terminates the flags
		if s == "--" {
			st.positional = append(st.positional, args[1:]...)
			break
		}

		kind, m, err := p.classify(s)
		if err != nil {
			return err
		}
		switch kind {
		case tokenPositional:
			if p.subparsers != nil && len(st.positional) >= p.fixedPositionals() {
				return st.dispatch(s, args[1:])
			}
			st.positional = append(st.positional, s)
			args = args[1:]
		case tokenUnknown:
			st.extras = append(st.extras, s)
			args = args[1:]
		default:
			args, err = st.consumeOptional(m, args[1:])
			if err != nil {
				return err
			}
		}
	}

	return st.finish(p.subparsers != nil && p.subparsers.Required)
}

// classify decides whether s is an option (and which one), a positional
// value, or an unknown option.
func (p *Parser) classify(s string) (tokenKind, optionMatch, error) {
	if len(s) == 0 || s[0] != '-' || s == "-" {
		return tokenPositional, optionMatch{}, nil
	}
	if a, ok := p.optionals[s]; ok {
		return tokenOption, optionMatch{arg: a, flag: s}, nil
	}
	if i := strings.IndexByte(s, '='); i > 0 {
		if a, ok := p.optionals[s[:i]]; ok {
			v := s[i+1:]
			return tokenOption, optionMatch{arg: a, flag: s[:i], explicit: &v}, nil
		}
	}

	matches := p.prefixMatches(s)
	if len(matches) == 1 {
		return tokenOption, matches[0], nil
	}
	if len(matches) > 1 {
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.flag
		}
		return tokenUnknown, optionMatch{}, errorf("ambiguous option: %s could match %s", s, strings.Join(names, ", "))
	}

	if negativeNumber.MatchString(s) && !p.hasNegativeNumberOptionals() {
		return tokenPositional, optionMatch{}, nil
	}
	if strings.Contains(s, " ") {
		return tokenPositional, optionMatch{}, nil
	}
	return tokenUnknown, optionMatch{}, nil
}

// prefixMatches finds abbreviated long options ("--verb" for "--verbose") and
// short options with an attached value ("-a1" for "-a").
func (p *Parser) prefixMatches(s string) []optionMatch {
	matches := []optionMatch{}
	add := func(m optionMatch) {
		for _, prev := range matches {
			if prev.arg == m.arg {
				return
			}
		}
		matches = append(matches, m)
	}

	if strings.HasPrefix(s, "--") {
		prefix := s
		var explicit *string
		if i := strings.IndexByte(s, '='); i >= 0 {
			prefix = s[:i]
			v := s[i+1:]
			explicit = &v
		}
		for _, f := range p.flagNames() {
			if strings.HasPrefix(f, "--") && strings.HasPrefix(f, prefix) {
				add(optionMatch{arg: p.optionals[f], flag: f, explicit: explicit})
			}
		}
		return matches
	}

	short, rest := s[:2], s[2:]
	for _, f := range p.flagNames() {
		if f == short {
			v := rest
			add(optionMatch{arg: p.optionals[f], flag: f, explicit: &v})
		} else if !strings.HasPrefix(f, "--") && strings.HasPrefix(f, s) {
			add(optionMatch{arg: p.optionals[f], flag: f})
		}
	}
	return matches
}

func (p *Parser) hasNegativeNumberOptionals() bool {
	for f := range p.optionals {
		if negativeNumber.MatchString(f) {
			return true
		}
	}
	return false
}

func (p *Parser) looksLikeOption(s string) bool {
	if s == "--" {
		return true
	}
	kind, _, err := p.classify(s)
	return err != nil || kind != tokenPositional
}

func (p *Parser) fixedPositionals() int {
	n := 0
	for _, a := range p.positionals {
		n += a.Nargs.min()
	}
	return n
}

func (st *parseState) consumeOptional(m optionMatch, rest []string) ([]string, error) {
	for {
		a := m.arg

		if !a.Action.TakesValues() {
			if m.explicit == nil {
				return rest, st.take(a, m.flag, nil)
			}
			// If single dash, handle each rune of the explicit argument as a
			// separate flag: -abc is -a -b -c.
			explicit := *m.explicit
			if len(m.flag) == 2 && m.flag[1] != '-' && explicit != "" {
				if err := st.take(a, m.flag, nil); err != nil {
					return nil, err
				}
				next := m.flag[:1] + explicit[:1]
				na, ok := st.p.optionals[next]
				if !ok {
					return nil, errorf("argument %s: ignored explicit argument %q", a.displayName(), explicit)
				}
				m = optionMatch{arg: na, flag: next}
				if tail := explicit[1:]; tail != "" {
					m.explicit = &tail
				}
				continue
			}
			return nil, errorf("argument %s: ignored explicit argument %q", a.displayName(), explicit)
		}

		// it's a flag. does it have an argument?
		if m.explicit != nil {
			if a.Nargs.min() > 1 {
				return nil, errorf("argument %s: expected %d arguments", a.displayName(), a.Nargs.min())
			}
			return rest, st.take(a, m.flag, []string{*m.explicit})
		}

		// It must have a value, which might be the next arguments.
		n := 0
		for n < len(rest) && (a.Nargs.kind == nargsRemainder || !st.p.looksLikeOption(rest[n])) {
			n++
		}
		if max := a.Nargs.max(); max >= 0 && n > max {
			n = max
		}
		if n < a.Nargs.min() {
			switch a.Nargs.kind {
			case nargsSingle:
				return nil, errorf("argument %s: expected one argument", a.displayName())
			case nargsOneOrMore:
				return nil, errorf("argument %s: expected at least one argument", a.displayName())
			default:
				return nil, errorf("argument %s: expected %d arguments", a.displayName(), a.Nargs.min())
			}
		}
		return rest[n:], st.take(a, m.flag, rest[:n])
	}
}

func (st *parseState) take(a *Argument, flag string, raw []string) error {
	for _, eg := range st.p.exclusive {
		if !eg.contains(a) {
			continue
		}
		for _, other := range eg.args {
			if other != a && st.seen[other] {
				return errorf("argument %s: not allowed with argument %s", a.displayName(), other.displayName())
			}
		}
	}
	st.seen[a] = true

	value, err := st.p.values(a, raw)
	if err != nil {
		return err
	}

	ns := st.ns
	current, _ := ns.Get(a.Dest)
	switch a.Action {
	case Store:
		ns.Set(a.Dest, value)
	case StoreConst, StoreTrue, StoreFalse:
		ns.Set(a.Dest, a.Const)
	case Append:
		ns.Set(a.Dest, append(listOf(current), value))
	case AppendConst:
		ns.Set(a.Dest, append(listOf(current), a.Const))
	case Extend:
		if items, ok := value.([]any); ok {
			ns.Set(a.Dest, append(listOf(current), items...))
		} else {
			ns.Set(a.Dest, append(listOf(current), value))
		}
	case Count:
		n, _ := current.(int)
		ns.Set(a.Dest, n+1)
	case Boolean:
		ns.Set(a.Dest, !contains(a.negFlags, flag))
	case Call:
		v, err := a.Call(current, value)
		if err != nil {
			return errorf("argument %s: %v", a.displayName(), err)
		}
		ns.Set(a.Dest, v)
	case Help:
		st.p.PrintHelp(st.p.out)
		return &ExitError{Status: 0}
	case Version:
		fmt.Fprintln(st.p.out, strings.ReplaceAll(a.Version, "%(prog)s", st.p.prog))
		return &ExitError{Status: 0}
	}
	return nil
}

func (p *Parser) values(a *Argument, raw []string) (any, error) {
	if !a.Action.TakesValues() {
		return nil, nil
	}
	switch a.Nargs.kind {
	case nargsOptional:
		if len(raw) == 0 {
			if a.IsPositional() {
				return p.castDefault(a)
			}
			return a.Const, nil
		}
		return p.castOne(a, raw[0])
	case nargsSingle:
		return p.castOne(a, raw[0])
	case nargsZeroOrMore:
		if len(raw) == 0 && a.IsPositional() && a.Default != nil {
			return p.castDefault(a)
		}
	}
	list := make([]any, len(raw))
	for i, s := range raw {
		v, err := p.castOne(a, s)
		if err != nil {
			return nil, err
		}
		list[i] = v
	}
	return list, nil
}

func (p *Parser) castOne(a *Argument, s string) (any, error) {
	v, err := a.Type.Apply(s)
	if err != nil {
		return nil, errorf("argument %s: %v", a.displayName(), err)
	}
	if len(a.Choices) > 0 && !contains(a.Choices, cast.Format(v)) {
		quoted := make([]string, len(a.Choices))
		for i, c := range a.Choices {
			quoted[i] = fmt.Sprintf("%q", c)
		}
		return nil, errorf("argument %s: invalid choice: %q (choose from %s)", a.displayName(), s, strings.Join(quoted, ", "))
	}
	return v, nil
}

func (p *Parser) castDefault(a *Argument) (any, error) {
	if s, ok := a.Default.(string); ok && a.Type != nil {
		return p.castOne(a, s)
	}
	return copyValue(a.Default), nil
}

// finish assigns the collected positional strings and runs the checks that
// need the whole command line.
func (st *parseState) finish(commandRequired bool) error {
	p := st.p
	tokens := st.positional
	missing := []string{}

	for i, a := range p.positionals {
		restMin := 0
		for _, b := range p.positionals[i+1:] {
			restMin += b.Nargs.min()
		}
		avail := len(tokens) - restMin
		n := a.Nargs.min()
		switch a.Nargs.kind {
		case nargsOptional:
			if avail >= 1 {
				n = 1
			}
		case nargsZeroOrMore, nargsOneOrMore, nargsRemainder:
			if avail > n {
				n = avail
			}
		}
		if n > len(tokens) {
			missing = append(missing, a.displayName())
			continue
		}
		if n == 0 {
			if a.Action == Store {
				v, err := p.values(a, nil)
				if err != nil {
					return err
				}
				st.ns.Set(a.Dest, v)
			}
			continue
		}
		if err := st.take(a, a.Dest, tokens[:n]); err != nil {
			return err
		}
		tokens = tokens[n:]
	}

	for _, a := range p.arguments {
		if a.Required && !a.IsPositional() && !st.seen[a] {
			missing = append(missing, a.displayName())
		}
	}
	if commandRequired {
		missing = append(missing, p.subparsers.metavar())
	}
	if len(missing) > 0 {
		return errorf("the following arguments are required: %s", strings.Join(missing, ", "))
	}

	for _, eg := range p.exclusive {
		if !eg.required {
			continue
		}
		found := false
		names := []string{}
		for _, a := range eg.args {
			found = found || st.seen[a]
			if !a.hidden() {
				names = append(names, a.displayName())
			}
		}
		if !found {
			return errorf("one of the arguments %s is required", strings.Join(names, " "))
		}
	}

	extras := append(st.extras, tokens...)
	if len(extras) > 0 {
		return errorf("unrecognized arguments: %s", strings.Join(extras, " "))
	}

	for _, a := range p.arguments {
		if st.seen[a] {
			continue
		}
		s, ok := a.Default.(string)
		if !ok || a.Type == nil {
			continue
		}
		if cur, _ := st.ns.Get(a.Dest); cur == any(s) {
			v, err := p.castOne(a, s)
			if err != nil {
				return err
			}
			st.ns.Set(a.Dest, v)
		}
	}
	return nil
}

// dispatch finishes this parser with the positionals seen so far and hands
// the rest of the command line to the selected sub-parser.
func (st *parseState) dispatch(name string, rest []string) error {
	if err := st.finish(false); err != nil {
		return err
	}
	subs := st.p.subparsers
	sub, ok := subs.byName[name]
	if !ok {
		quoted := make([]string, len(subs.names))
		for i, n := range subs.names {
			quoted[i] = fmt.Sprintf("%q", n)
		}
		return errorf("argument %s: invalid choice: %q (choose from %s)", subs.metavar(), name, strings.Join(quoted, ", "))
	}
	if subs.dest != "" {
		st.ns.Set(subs.dest, name)
	}

	subNs := NewNamespace()
	if err := sub.parseInto(rest, subNs); err != nil {
		if ue, ok := err.(usageError); ok {
			return &ExitError{
				Status:  2,
				Message: fmt.Sprintf("%s: error: %s", sub.prog, ue.msg),
				Usage:   sub.FormatUsage(),
			}
		}
		return err
	}
	st.ns.merge(subNs)
	return nil
}

func listOf(v any) []any {
	switch v := v.(type) {
	case nil:
		return []any{}
	case []any:
		return append([]any{}, v...)
	}
	return []any{v}
}

func contains(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}
