package argclass

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/isobit/argclass/argparse"
)

// Target is what a parser is built for: a *Class, or an *Options instance
// whose slots can be reset.
type Target interface {
	Class() *Class
}

// Class returns c, so a *Class can be used as a Target.
func (c *Class) Class() *Class { return c }

type parserConfig struct {
	reset       bool
	groupOrder  []string
	prog        string
	usage       *string
	description *string
	out         io.Writer
	skipRun     bool
	engine      []argparse.Option
}

type ParserOption func(cfg *parserConfig)

func newParserConfig(opts []ParserOption) *parserConfig {
	cfg := &parserConfig{out: os.Stdout}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Reset unbinds the fields of an *Options target while the parser is built,
// so a failed parse cannot leave values of a previous parse behind.
func Reset() ParserOption {
	return func(cfg *parserConfig) { cfg.reset = true }
}

// GroupOrder emits the named argument groups first, in the given order.
// Other groups follow in the order their first field was declared.
func GroupOrder(names ...string) ParserOption {
	return func(cfg *parserConfig) { cfg.groupOrder = append(cfg.groupOrder, names...) }
}

// Prog sets the program name shown in usage and errors.
func Prog(name string) ParserOption {
	return func(cfg *parserConfig) { cfg.prog = name }
}

// Usage overrides the usage line of the class.
func Usage(usage string) ParserOption {
	return func(cfg *parserConfig) { cfg.usage = &usage }
}

// Description overrides the description taken from the class doc.
func Description(description string) ParserOption {
	return func(cfg *parserConfig) { cfg.description = &description }
}

// Output sets where help, version and command listings are written.
func Output(w io.Writer) ParserOption {
	return func(cfg *parserConfig) {
		cfg.out = w
		cfg.engine = append(cfg.engine, argparse.WithOutput(w))
	}
}

// SkipRun makes ParseCommandArgs bind the selected command without running
// it.
func SkipRun() ParserOption {
	return func(cfg *parserConfig) { cfg.skipRun = true }
}

// EngineOptions passes options through to the argparse.Parser.
func EngineOptions(opts ...argparse.Option) ParserOption {
	return func(cfg *parserConfig) { cfg.engine = append(cfg.engine, opts...) }
}

func (cfg *parserConfig) classOptions(class *Class) []argparse.Option {
	opts := []argparse.Option{}
	if cfg.description != nil {
		opts = append(opts, argparse.WithDescription(*cfg.description))
	} else if class.doc != "" {
		opts = append(opts, argparse.WithDescription(class.doc))
	}
	if epilog, ok := class.Epilog(); ok {
		opts = append(opts, argparse.WithEpilog(epilog))
	}
	if cfg.usage != nil {
		opts = append(opts, argparse.WithUsage(*cfg.usage))
	} else if usage, ok := class.Usage(); ok {
		opts = append(opts, argparse.WithUsage(usage))
	}
	return opts
}

// NewParser builds the parser of a class or instance. Fields without a
// group are added at the top level, inside a mutually exclusive cluster when
// they name one; grouped fields follow in their argument groups, with
// clusters scoped to the group.
func NewParser(t Target, opts ...ParserOption) (*argparse.Parser, error) {
	cfg := newParserConfig(opts)
	class := t.Class()
	p := argparse.NewParser(cfg.prog, append(cfg.classOptions(class), cfg.engine...)...)
	inst, _ := t.(*Options)
	if err := populate(p, class, inst, cfg); err != nil {
		return nil, err
	}
	return p, nil
}

type clusterKey struct {
	group     string
	exclusive string
}

func populate(p *argparse.Parser, class *Class, inst *Options, cfg *parserConfig) error {
	groups := map[string][]*Field{}
	groupNames := []string{}
	clusters := map[clusterKey]*argparse.ExclusiveGroup{}

	for _, f := range class.Fields() {
		if cfg.reset && inst != nil {
			inst.Delete(f.name)
		}

		if g := f.Group(); g != "" {
			if _, ok := groups[g]; !ok {
				groupNames = append(groupNames, g)
			}
			groups[g] = append(groups[g], f)
			continue
		}

		var c argparse.Container = p
		if ex := f.ExclusiveGroup(); ex != "" {
			key := clusterKey{exclusive: ex}
			eg, ok := clusters[key]
			if !ok {
				eg = p.AddMutuallyExclusiveGroup(false)
				clusters[key] = eg
			}
			c = eg
		}
		if err := addField(c, class, f); err != nil {
			return err
		}
	}

	emit := func(name string) error {
		fields, ok := groups[name]
		if !ok {
			return nil
		}
		delete(groups, name)
		g := p.AddArgumentGroup(name, "")
		for _, f := range fields {
			var c argparse.Container = g
			if ex := f.ExclusiveGroup(); ex != "" {
				key := clusterKey{group: name, exclusive: ex}
				eg, ok := clusters[key]
				if !ok {
					eg = g.AddMutuallyExclusiveGroup(false)
					clusters[key] = eg
				}
				c = eg
			}
			if err := addField(c, class, f); err != nil {
				return err
			}
		}
		return nil
	}

	for _, name := range cfg.groupOrder {
		if err := emit(name); err != nil {
			return err
		}
	}
	for _, name := range groupNames {
		if err := emit(name); err != nil {
			return err
		}
	}
	return nil
}

func addField(c argparse.Container, class *Class, f *Field) error {
	args, err := f.arguments()
	if err != nil {
		return constructionErr(class.name, f.name, err)
	}
	for _, a := range args {
		if err := c.AddArgument(a); err != nil {
			return constructionErr(class.name, f.name, err)
		}
	}
	return nil
}

// FormatHelp renders the help text of a class or instance.
func FormatHelp(t Target, opts ...ParserOption) (string, error) {
	p, err := NewParser(t, opts...)
	if err != nil {
		return "", err
	}
	return p.FormatHelp(), nil
}

// FormatUsage renders the usage line of a class or instance.
func FormatUsage(t Target, opts ...ParserOption) (string, error) {
	p, err := NewParser(t, opts...)
	if err != nil {
		return "", err
	}
	return p.FormatUsage(), nil
}

// Command is one entry of a multi-command parser.
type Command struct {
	Name   string
	Target Target
	// Help is shown in the command listing; it defaults to the class doc.
	Help string
}

// commandKey is the namespace entry a sub-parser uses to tag itself as the
// selected command.
const commandKey = "==command=="

// NewCommandParser builds a parser with one sub-parser per command.
func NewCommandParser(cmds []Command, opts ...ParserOption) (*argparse.Parser, error) {
	cfg := newParserConfig(opts)
	top := []argparse.Option{}
	if cfg.usage != nil {
		top = append(top, argparse.WithUsage(*cfg.usage))
	}
	if cfg.description != nil {
		top = append(top, argparse.WithDescription(*cfg.description))
	}
	p := argparse.NewParser(cfg.prog, append(top, cfg.engine...)...)

	subs, err := p.AddSubparsers("commands", "")
	if err != nil {
		return nil, err
	}
	for _, cmd := range cmds {
		class := cmd.Target.Class()
		help := cmd.Help
		if help == "" {
			help = class.doc
		}
		subCfg := *cfg
		subCfg.usage = nil
		subCfg.description = nil
		sub, err := subs.AddParser(cmd.Name, help, subCfg.classOptions(class)...)
		if err != nil {
			return nil, &ConstructionError{Class: class.name, Err: err}
		}
		inst, _ := cmd.Target.(*Options)
		if err := populate(sub, class, inst, cfg); err != nil {
			return nil, err
		}
		sub.SetDefault(commandKey, cmd.Target)
	}
	return p, nil
}

// ParseCommandArgs parses args with a multi-command parser, binds the
// selected command and runs it. A *Class command is instantiated; an
// *Options command is bound in place. When no command is given, the command
// names are listed on the output and nil is returned.
func ParseCommandArgs(ctx context.Context, cmds []Command, args []string, opts ...ParserOption) (*Options, error) {
	opts = append([]ParserOption{Reset()}, opts...)
	cfg := newParserConfig(opts)
	p, err := NewCommandParser(cmds, opts...)
	if err != nil {
		return nil, err
	}
	ns, err := p.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	var o *Options
	if v, ok := ns.Get(commandKey); ok {
		switch t := v.(type) {
		case *Options:
			o = t
		case Target:
			o = New(t.Class())
		}
	}
	if o != nil {
		o.BindParsed(ns)
	}

	if cfg.skipRun {
		return o, nil
	}
	if o == nil {
		names := make([]string, len(cmds))
		for i, cmd := range cmds {
			names[i] = cmd.Name
		}
		fmt.Fprintf(cfg.out, "should be one of %s\n", strings.Join(names, ", "))
		return nil, nil
	}
	run := o.class.Run()
	if run == nil {
		return o, constructionErr(o.class.name, "", ErrNoRun)
	}
	return o, run(ctx, o)
}
