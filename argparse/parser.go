package argparse

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Container is anything arguments can be added to: a Parser, an argument
// Group or an ExclusiveGroup.
type Container interface {
	AddArgument(a Argument) error
}

type Parser struct {
	prog          string
	usage         string
	description   string
	epilog        string
	addHelp       bool
	errorHandling ErrorHandling
	out           io.Writer
	errOut        io.Writer
	exit          func(int)

	arguments   []*Argument
	optionals   map[string]*Argument
	positionals []*Argument
	sections    []*Group
	exclusive   []*ExclusiveGroup
	defaults    map[string]any
	defaultKeys []string
	subparsers  *Subparsers
}

// Option configures a Parser.
type Option func(p *Parser)

func WithUsage(usage string) Option {
	return func(p *Parser) { p.usage = usage }
}

func WithDescription(description string) Option {
	return func(p *Parser) { p.description = description }
}

func WithEpilog(epilog string) Option {
	return func(p *Parser) { p.epilog = epilog }
}

// WithoutHelp skips registering -h/--help.
func WithoutHelp() Option {
	return func(p *Parser) { p.addHelp = false }
}

func WithErrorHandling(eh ErrorHandling) Option {
	return func(p *Parser) { p.errorHandling = eh }
}

// WithOutput sets where help and version text is written.
func WithOutput(w io.Writer) Option {
	return func(p *Parser) { p.out = w }
}

// WithErrOutput sets where usage errors are written under ExitOnError.
func WithErrOutput(w io.Writer) Option {
	return func(p *Parser) { p.errOut = w }
}

// WithExit replaces os.Exit under ExitOnError.
func WithExit(exit func(int)) Option {
	return func(p *Parser) { p.exit = exit }
}

// NewParser creates a parser. An empty prog defaults to the base name of
// os.Args[0].
func NewParser(prog string, opts ...Option) *Parser {
	if prog == "" && len(os.Args) > 0 {
		prog = filepath.Base(os.Args[0])
	}
	p := &Parser{
		prog:      prog,
		addHelp:   true,
		out:       os.Stdout,
		errOut:    os.Stderr,
		exit:      os.Exit,
		optionals: map[string]*Argument{},
		defaults:  map[string]any{},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.sections = []*Group{
		{parser: p, title: "positional arguments"},
		{parser: p, title: "options"},
	}
	if p.addHelp {
		err := p.AddArgument(Argument{
			Flags:  []string{"-h", "--help"},
			Action: Help,
			Help:   "show this help message and exit",
		})
		if err != nil {
			panic(fmt.Sprintf("argparse: %s", err))
		}
	}
	return p
}

func (p *Parser) Prog() string { return p.prog }

// AddArgument registers an argument in the default positional or optional
// section.
func (p *Parser) AddArgument(a Argument) error {
	arg, err := p.register(a)
	if err != nil {
		return err
	}
	p.defaultSection(arg).args = append(p.defaultSection(arg).args, arg)
	return nil
}

func (p *Parser) defaultSection(a *Argument) *Group {
	if a.IsPositional() {
		return p.sections[0]
	}
	return p.sections[1]
}

func (p *Parser) register(a Argument) (*Argument, error) {
	a.Flags = append([]string(nil), a.Flags...)
	a.Choices = append([]string(nil), a.Choices...)
	if err := a.normalize("-"); err != nil {
		return nil, err
	}
	arg := &a
	for _, f := range arg.allFlags() {
		if prev, ok := p.optionals[f]; ok {
			return nil, fmt.Errorf("argument %s: conflicting option string: %s (already used by %s)", arg.displayName(), f, prev.displayName())
		}
	}
	for _, f := range arg.allFlags() {
		p.optionals[f] = arg
	}
	if arg.IsPositional() {
		p.positionals = append(p.positionals, arg)
	}
	p.arguments = append(p.arguments, arg)
	return arg, nil
}

// AddArgumentGroup adds a titled help section.
func (p *Parser) AddArgumentGroup(title, description string) *Group {
	g := &Group{parser: p, title: title, description: description}
	p.sections = append(p.sections, g)
	return g
}

// AddMutuallyExclusiveGroup adds a group of which at most one argument may be
// given. Members are listed in the default sections.
func (p *Parser) AddMutuallyExclusiveGroup(required bool) *ExclusiveGroup {
	g := &ExclusiveGroup{parser: p, required: required}
	p.exclusive = append(p.exclusive, g)
	return g
}

// SetDefault sets a namespace value that is not tied to any argument. It is
// written before parsing, and is how sub-parsers tag themselves.
func (p *Parser) SetDefault(dest string, value any) {
	if _, ok := p.defaults[dest]; !ok {
		p.defaultKeys = append(p.defaultKeys, dest)
	}
	p.defaults[dest] = value
	for _, a := range p.arguments {
		if a.Dest == dest {
			a.Default = value
		}
	}
}

// AddSubparsers enables sub-commands. The selected command name is stored
// under dest, unless dest is empty. Only one set of sub-parsers is allowed.
func (p *Parser) AddSubparsers(title, dest string) (*Subparsers, error) {
	if p.subparsers != nil {
		return nil, fmt.Errorf("cannot have multiple subparser arguments")
	}
	p.subparsers = &Subparsers{parent: p, title: title, dest: dest, byName: map[string]*Parser{}}
	return p.subparsers, nil
}

// Group is a titled section of the help output.
type Group struct {
	parser      *Parser
	title       string
	description string
	args        []*Argument
}

func (g *Group) Title() string { return g.title }

func (g *Group) AddArgument(a Argument) error {
	arg, err := g.parser.register(a)
	if err != nil {
		return err
	}
	g.args = append(g.args, arg)
	return nil
}

// AddMutuallyExclusiveGroup adds an exclusive group whose members are listed
// in this section.
func (g *Group) AddMutuallyExclusiveGroup(required bool) *ExclusiveGroup {
	eg := &ExclusiveGroup{parser: g.parser, section: g, required: required}
	g.parser.exclusive = append(g.parser.exclusive, eg)
	return eg
}

type ExclusiveGroup struct {
	parser   *Parser
	section  *Group
	required bool
	args     []*Argument
}

func (eg *ExclusiveGroup) AddArgument(a Argument) error {
	if a.Required {
		return fmt.Errorf("mutually exclusive arguments must be optional")
	}
	arg, err := eg.parser.register(a)
	if err != nil {
		return err
	}
	section := eg.section
	if section == nil {
		section = eg.parser.defaultSection(arg)
	}
	section.args = append(section.args, arg)
	eg.args = append(eg.args, arg)
	return nil
}

func (eg *ExclusiveGroup) contains(a *Argument) bool {
	for _, m := range eg.args {
		if m == a {
			return true
		}
	}
	return false
}

// Subparsers is the sub-command registry of a parser.
type Subparsers struct {
	parent   *Parser
	title    string
	dest     string
	Required bool
	names    []string
	helps    []string
	byName   map[string]*Parser
}

// AddParser registers a sub-command. The child inherits the output settings
// of its parent.
func (s *Subparsers) AddParser(name, help string, opts ...Option) (*Parser, error) {
	if _, ok := s.byName[name]; ok {
		return nil, fmt.Errorf("conflicting subparser: %s", name)
	}
	base := []Option{
		WithOutput(s.parent.out),
		WithErrOutput(s.parent.errOut),
		WithExit(s.parent.exit),
	}
	child := NewParser(s.parent.prog+" "+name, append(base, opts...)...)
	s.names = append(s.names, name)
	s.helps = append(s.helps, help)
	s.byName[name] = child
	return child, nil
}

// Names returns the registered command names in registration order.
func (s *Subparsers) Names() []string {
	return append([]string(nil), s.names...)
}

func (s *Subparsers) metavar() string {
	return "{" + strings.Join(s.names, ",") + "}"
}

// ParseArgs parses args (without the program name). Under ContinueOnError,
// failures and help requests are returned as *ExitError.
func (p *Parser) ParseArgs(args []string) (*Namespace, error) {
	ns := NewNamespace()
	err := p.parseInto(args, ns)
	if err == nil {
		return ns, nil
	}

	exitErr, ok := err.(*ExitError)
	if !ok {
		exitErr = &ExitError{
			Status:  2,
			Message: fmt.Sprintf("%s: error: %s", p.prog, err),
			Usage:   p.FormatUsage(),
		}
	}
	if p.errorHandling == ExitOnError {
		if exitErr.Status != 0 {
			fmt.Fprint(p.errOut, exitErr.Usage)
			fmt.Fprintln(p.errOut, exitErr.Message)
		}
		p.exit(exitErr.Status)
	}
	return nil, exitErr
}

func (p *Parser) setDefaults(ns *Namespace) {
	for _, a := range p.arguments {
		if a.Action == Help || a.Action == Version {
			continue
		}
		if !ns.Has(a.Dest) {
			ns.Set(a.Dest, copyValue(a.Default))
		}
	}
	for _, k := range p.defaultKeys {
		if !ns.Has(k) {
			ns.Set(k, p.defaults[k])
		}
	}
}

func copyValue(v any) any {
	switch v := v.(type) {
	case []any:
		return append([]any{}, v...)
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[k] = e
		}
		return m
	}
	return v
}

func (p *Parser) flagNames() []string {
	flags := []string{}
	for f := range p.optionals {
		flags = append(flags, f)
	}
	sort.Strings(flags)
	return flags
}
