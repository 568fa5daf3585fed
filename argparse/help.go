package argparse

import (
	"io"
	"strings"
	"text/tabwriter"
	"text/template"

	"github.com/isobit/argclass/cast"
)

var helpTemplateString = `usage: {{.Usage}}
{{- if .Description}}

{{.Description}}
{{- end}}
{{- range .Sections}}

{{.Title}}:
{{- if .Description}}
  {{.Description}}
{{- end}}
{{- range .Entries}}
  {{.Invocation}}{{tab}}
{{- if .Help}}  {{.Help}}{{end}}
{{- if .Default}} (default: {{.Default}}){{end}}
{{- end}}
{{- end}}
{{- if .Epilog}}

{{.Epilog}}
{{- end}}
`

var helpTemplate = template.Must(template.New("help").
	Funcs(template.FuncMap{"tab": func() string { return "\t" }}).
	Parse(helpTemplateString))

type helpEntry struct {
	Invocation string
	Help       string
	Default    string
}

type helpSection struct {
	Title       string
	Description string
	Entries     []helpEntry
}

// FormatUsage returns the usage line, terminated by a newline.
func (p *Parser) FormatUsage() string {
	return "usage: " + p.usageText() + "\n"
}

// FormatHelp returns the full help text.
func (p *Parser) FormatHelp() string {
	sb := strings.Builder{}
	p.PrintHelp(&sb)
	return sb.String()
}

func (p *Parser) PrintHelp(w io.Writer) {
	sections := []helpSection{}
	for _, g := range p.sections {
		s := helpSection{Title: g.title, Description: g.description}
		for _, a := range g.args {
			if a.hidden() {
				continue
			}
			s.Entries = append(s.Entries, a.helpEntry())
		}
		if g == p.sections[0] && p.subparsers != nil {
			s.Entries = append(s.Entries, p.subparsers.helpEntries()...)
		}
		if len(s.Entries) > 0 || (s.Description != "" && g != p.sections[0] && g != p.sections[1]) {
			sections = append(sections, s)
		}
	}

	data := struct {
		Usage       string
		Description string
		Sections    []helpSection
		Epilog      string
	}{
		Usage:       p.usageText(),
		Description: p.description,
		Sections:    sections,
		Epilog:      p.epilog,
	}

	sb := &strings.Builder{}
	tw := tabwriter.NewWriter(sb, 0, 0, 0, ' ', 0)
	if err := helpTemplate.Execute(tw, data); err != nil {
		panic(err)
	}
	tw.Flush()

	// entries without help leave the tabwriter padding behind
	lines := strings.Split(sb.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	io.WriteString(w, strings.Join(lines, "\n"))
}

func (a *Argument) helpEntry() helpEntry {
	e := helpEntry{Help: a.Help}
	if a.IsPositional() {
		e.Invocation = a.metavar()
	} else if !a.Action.TakesValues() {
		e.Invocation = strings.Join(a.allFlags(), ", ")
	} else {
		args := a.formatArgs()
		parts := make([]string, len(a.Flags))
		for i, f := range a.Flags {
			parts[i] = f + " " + args
		}
		e.Invocation = strings.Join(parts, ", ")
	}
	if a.Action.TakesValues() && !a.Required && a.Help != "" {
		e.Default = cast.Format(a.Default)
	}
	return e
}

func (s *Subparsers) helpEntries() []helpEntry {
	entries := []helpEntry{{Invocation: s.metavar()}}
	for i, name := range s.names {
		entries = append(entries, helpEntry{Invocation: "  " + name, Help: s.helps[i]})
	}
	return entries
}

func (a *Argument) formatArgs() string {
	m := a.metavar()
	switch a.Nargs.kind {
	case nargsOptional:
		return "[" + m + "]"
	case nargsZeroOrMore:
		return "[" + m + " ...]"
	case nargsOneOrMore:
		return m + " [" + m + " ...]"
	case nargsRemainder:
		return "..."
	case nargsExact:
		return strings.TrimSpace(strings.Repeat(m+" ", a.Nargs.n))
	}
	return m
}

func (a *Argument) usagePart() string {
	if a.IsPositional() {
		return a.formatArgs()
	}
	if a.Action == Boolean {
		return strings.Join(a.allFlags(), " | ")
	}
	if !a.Action.TakesValues() {
		return a.Flags[0]
	}
	return a.Flags[0] + " " + a.formatArgs()
}

func (p *Parser) usageText() string {
	if p.usage != "" {
		return strings.ReplaceAll(p.usage, "%(prog)s", p.prog)
	}

	parts := []string{p.prog}
	done := map[*Argument]bool{}
	for _, a := range p.arguments {
		if a.IsPositional() || a.hidden() || done[a] {
			continue
		}
		if eg := p.exclusiveGroupOf(a); eg != nil {
			members := []string{}
			for _, m := range eg.args {
				done[m] = true
				if !m.hidden() && !m.IsPositional() {
					members = append(members, m.usagePart())
				}
			}
			if eg.required {
				parts = append(parts, "("+strings.Join(members, " | ")+")")
			} else {
				parts = append(parts, "["+strings.Join(members, " | ")+"]")
			}
			continue
		}
		if a.Required {
			parts = append(parts, a.usagePart())
		} else {
			parts = append(parts, "["+a.usagePart()+"]")
		}
	}
	for _, a := range p.positionals {
		if !a.hidden() {
			parts = append(parts, a.usagePart())
		}
	}
	if p.subparsers != nil {
		parts = append(parts, p.subparsers.metavar()+" ...")
	}
	return strings.Join(parts, " ")
}

func (p *Parser) exclusiveGroupOf(a *Argument) *ExclusiveGroup {
	for _, eg := range p.exclusive {
		if eg.contains(a) {
			return eg
		}
	}
	return nil
}
