package argclass

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/isobit/argclass/argparse"
	"github.com/isobit/argclass/cast"
)

// Key names a keyword setting of a Field.
type Key string

const (
	KeyAction         Key = "action"
	KeyNargs          Key = "nargs"
	KeyDefault        Key = "default"
	KeyConst          Key = "const"
	KeyType           Key = "type"
	KeyValidator      Key = "validator"
	KeyChoices        Key = "choices"
	KeyRequired       Key = "required"
	KeyHidden         Key = "hidden"
	KeyHelp           Key = "help"
	KeyGroup          Key = "group"
	KeyExclusiveGroup Key = "exclusive_group"
	KeyMetavar        Key = "metavar"
	KeyVersion        Key = "version"
)

// settings holds the keyword configuration of a field. A missing key is
// distinct from a key set to nil: Default(nil) is a default.
type settings map[Key]any

type unsetMarker struct{}

func (s settings) clone() settings {
	c := make(settings, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

func (s settings) has(k Key) bool {
	_, ok := s[k]
	return ok
}

func (s settings) setDefault(k Key, v any) {
	if !s.has(k) {
		s[k] = v
	}
}

func (s settings) dropUnset() {
	for k, v := range s {
		if _, ok := v.(unsetMarker); ok {
			delete(s, k)
		}
	}
}

func (s settings) action() argparse.Action {
	a, _ := s[KeyAction].(argparse.Action)
	return a
}

func (s settings) nargs() argparse.Nargs {
	n, _ := s[KeyNargs].(argparse.Nargs)
	return n
}

func (s settings) str(k Key) string {
	v, _ := s[k].(string)
	return v
}

func (s settings) flag(k Key) bool {
	v, _ := s[k].(bool)
	return v
}

func (s settings) stringList(k Key) []string {
	v, _ := s[k].([]string)
	return append([]string(nil), v...)
}

// Option sets one keyword of a Field.
type Option func(s settings)

func Action(a argparse.Action) Option {
	return func(s settings) { s[KeyAction] = a }
}

func Nargs(n argparse.Nargs) Option {
	return func(s settings) { s[KeyNargs] = n }
}

// Default is the value used when the argument is not given. A nil default is
// still a default: the slot is bound to nil.
func Default(v any) Option {
	return func(s settings) { s[KeyDefault] = v }
}

func Const(v any) Option {
	return func(s settings) { s[KeyConst] = v }
}

// Type sets an explicit caster, which disables inference from the declared
// type.
func Type(fn cast.Func) Option {
	return func(s settings) { s[KeyType] = fn }
}

// Validator rejects cast values for which pred returns false.
func Validator(pred func(any) bool) Option {
	return func(s settings) { s[KeyValidator] = pred }
}

func Choices(choices ...string) Option {
	choices = append([]string(nil), choices...)
	return func(s settings) { s[KeyChoices] = choices }
}

func Required(required bool) Option {
	return func(s settings) { s[KeyRequired] = required }
}

// Hidden removes the argument from usage and help output.
func Hidden(hidden bool) Option {
	return func(s settings) { s[KeyHidden] = hidden }
}

func Help(help string) Option {
	return func(s settings) { s[KeyHelp] = help }
}

// Group places the argument in a named help section.
func Group(name string) Option {
	return func(s settings) { s[KeyGroup] = name }
}

// ExclusiveGroup places the argument in a mutually exclusive cluster. The
// cluster is scoped to the argument's Group.
func ExclusiveGroup(name string) Option {
	return func(s settings) { s[KeyExclusiveGroup] = name }
}

func Metavar(metavar string) Option {
	return func(s settings) { s[KeyMetavar] = metavar }
}

// Version sets the text printed by the argparse.Version action. "%(prog)s"
// expands to the program name.
func Version(version string) Option {
	return func(s settings) { s[KeyVersion] = version }
}

// Unset deletes keys from the configuration, e.g. Unset(KeyConst) when
// turning a flag into an option whose value may be omitted.
func Unset(keys ...Key) Option {
	return func(s settings) {
		for _, k := range keys {
			s[k] = unsetMarker{}
		}
	}
}

type fieldKind int

const (
	plainField fieldKind = iota
	mappingField
	aliasField
)

// Alias is a shortcut flag that stores a fixed value into its field.
type Alias struct {
	Flag  string
	Value any
}

// Field describes how one attribute of a Class is parsed, cast, defaulted and
// grouped. Fields are immutable: every transformation returns a new Field.
type Field struct {
	name    string
	typ     cast.Type
	flags   []string
	kind    fieldKind
	aliases []Alias
	kw      settings
}

// Arg declares an option with the given flags, or a positional when no flags
// are given. It panics with a *ConstructionError if a flag is malformed; use
// NewArg to have the error returned instead.
func Arg(flags ...string) *Field {
	f, err := NewArg(flags)
	if err != nil {
		panic(err)
	}
	return f
}

// NewArg is like Arg, but it returns any errors instead of calling panic.
func NewArg(flags []string, opts ...Option) (*Field, error) {
	return newField(flags, plainField, nil, opts)
}

// PosArg declares a required positional.
func PosArg(metavar string, opts ...Option) *Field {
	base := []Option{Metavar(metavar), Nargs(argparse.Single)}
	f, err := newField(nil, plainField, nil, append(base, opts...))
	if err != nil {
		panic(err)
	}
	return f
}

// VarArg declares a positional collecting any number of values.
func VarArg(metavar string, opts ...Option) *Field {
	base := []Option{Metavar(metavar), Nargs(argparse.ZeroOrMore), Action(argparse.Extend)}
	f, err := newField(nil, plainField, nil, append(base, opts...))
	if err != nil {
		panic(err)
	}
	return f
}

// MapArg declares a repeatable KEY=VALUE option that accumulates into a
// map. An explicit Type casts the values and Choices restricts them.
func MapArg(flags ...string) *Field {
	if len(flags) == 0 {
		panic(&ConstructionError{Err: ErrPositionalToOptional})
	}
	f, err := newField(flags, mappingField, nil, nil)
	if err != nil {
		panic(err)
	}
	return f
}

// AliasArg declares an option plus one store-const flag per alias, each
// writing its value into the same field.
func AliasArg(flags []string, aliases ...Alias) *Field {
	if len(flags) == 0 {
		panic(&ConstructionError{Err: ErrPositionalToOptional})
	}
	for _, a := range aliases {
		if err := checkFlags([]string{a.Flag}); err != nil {
			panic(err)
		}
	}
	f, err := newField(flags, aliasField, append([]Alias(nil), aliases...), nil)
	if err != nil {
		panic(err)
	}
	return f
}

func newField(flags []string, kind fieldKind, aliases []Alias, opts []Option) (*Field, error) {
	if err := checkFlags(flags); err != nil {
		return nil, err
	}
	kw := settings{}
	for _, opt := range opts {
		opt(kw)
	}
	kw.dropUnset()
	f := &Field{
		typ:     cast.Any(),
		flags:   append([]string(nil), flags...),
		kind:    kind,
		aliases: aliases,
		kw:      kw,
	}
	f.fillActionDefaults()
	return f, nil
}

func checkFlags(flags []string) error {
	for _, flag := range flags {
		if !strings.HasPrefix(flag, "-") {
			return &ConstructionError{Err: errors.Wrapf(ErrInvalidFlag, "%q", flag)}
		}
	}
	return nil
}

func (f *Field) fillActionDefaults() {
	switch f.kw.action() {
	case argparse.StoreTrue:
		f.kw.setDefault(KeyDefault, false)
	case argparse.StoreFalse:
		f.kw.setDefault(KeyDefault, true)
	}
}

// bind returns a copy of f attached to an attribute name and declared type.
func (f *Field) bind(name string, typ cast.Type) *Field {
	nf := f.clone()
	nf.name = name
	nf.typ = typ
	return nf
}

func (f *Field) clone() *Field {
	return &Field{
		name:    f.name,
		typ:     f.typ,
		flags:   append([]string(nil), f.flags...),
		kind:    f.kind,
		aliases: append([]Alias(nil), f.aliases...),
		kw:      f.kw.clone(),
	}
}

// FlagTransform says how WithOptions derives the new flags from the old ones.
type FlagTransform struct {
	kind    transformKind
	flags   []string
	mapping map[string]string
}

type transformKind int

const (
	keepFlags transformKind = iota
	replaceFlags
	appendFlags
	renameFlags
	renameFlagsKeep
)

// KeepFlags keeps the existing flags.
func KeepFlags() FlagTransform {
	return FlagTransform{kind: keepFlags}
}

// ReplaceFlags replaces the flag set outright.
func ReplaceFlags(flags ...string) FlagTransform {
	return FlagTransform{kind: replaceFlags, flags: flags}
}

// AppendFlags adds flags to the existing set.
func AppendFlags(flags ...string) FlagTransform {
	return FlagTransform{kind: appendFlags, flags: flags}
}

// RenameFlags replaces every existing flag found in mapping with its mapped
// value and drops the others, then adds extra.
func RenameFlags(mapping map[string]string, extra ...string) FlagTransform {
	return FlagTransform{kind: renameFlags, mapping: mapping, flags: extra}
}

// RenameFlagsKeep is like RenameFlags, but flags absent from mapping are kept.
func RenameFlagsKeep(mapping map[string]string, extra ...string) FlagTransform {
	return FlagTransform{kind: renameFlagsKeep, mapping: mapping, flags: extra}
}

func (t FlagTransform) apply(flags []string) []string {
	switch t.kind {
	case replaceFlags:
		return append([]string(nil), t.flags...)
	case appendFlags:
		return append(append([]string(nil), flags...), t.flags...)
	case renameFlags, renameFlagsKeep:
		out := []string{}
		for _, flag := range flags {
			if to, ok := t.mapping[flag]; ok {
				out = append(out, to)
			} else if t.kind == renameFlagsKeep {
				out = append(out, flag)
			}
		}
		return append(out, t.flags...)
	}
	return append([]string(nil), flags...)
}

// With is WithOptions(KeepFlags(), opts...). It panics on error.
func (f *Field) With(opts ...Option) *Field {
	nf, err := f.WithOptions(KeepFlags(), opts...)
	if err != nil {
		panic(err)
	}
	return nf
}

// WithOptions returns a new Field with its flags transformed by t and opts
// merged over the current configuration.
func (f *Field) WithOptions(t FlagTransform, opts ...Option) (*Field, error) {
	if f.IsPositional() && t.kind != keepFlags {
		return nil, &ConstructionError{Field: f.name, Err: ErrPositionalToOptional}
	}
	flags := t.apply(f.flags)
	if !f.IsPositional() && len(flags) == 0 {
		return nil, &ConstructionError{Field: f.name, Err: errors.New("flag transform left no flags")}
	}
	if err := checkFlags(flags); err != nil {
		return nil, constructionErr("", f.name, err)
	}

	nf := f.clone()
	nf.flags = flags
	for _, opt := range opts {
		opt(nf.kw)
	}
	nf.kw.dropUnset()
	nf.fillActionDefaults()
	return nf, nil
}

// SetDefault returns a Field whose value is a single argument defaulting to
// value. Any const is removed.
func (f *Field) SetDefault(value any) *Field {
	nf := f.clone()
	nf.kw[KeyDefault] = value
	nf.kw[KeyNargs] = argparse.Single
	delete(nf.kw, KeyConst)
	return nf
}

// SetDefaultOmit returns a Field whose argument may be omitted: the field is
// value when the flag is absent and omitValue when the flag is given without
// an argument.
func (f *Field) SetDefaultOmit(value, omitValue any) *Field {
	nf := f.clone()
	nf.kw[KeyDefault] = value
	nf.kw[KeyConst] = omitValue
	nf.kw[KeyNargs] = argparse.Optional
	return nf
}

func (f *Field) Name() string       { return f.name }
func (f *Field) Type() cast.Type    { return f.typ }
func (f *Field) Flags() []string    { return append([]string(nil), f.flags...) }
func (f *Field) IsPositional() bool { return len(f.flags) == 0 }

func (f *Field) Group() string          { return f.kw.str(KeyGroup) }
func (f *Field) ExclusiveGroup() string { return f.kw.str(KeyExclusiveGroup) }
func (f *Field) Hidden() bool           { return f.kw.flag(KeyHidden) }
func (f *Field) Required() bool         { return f.kw.flag(KeyRequired) }
func (f *Field) Help() string           { return f.kw.str(KeyHelp) }
func (f *Field) Metavar() string        { return f.kw.str(KeyMetavar) }

// Choices returns the explicit choices, or the values of a Literal type.
func (f *Field) Choices() []string {
	if f.kw.has(KeyChoices) {
		return f.kw.stringList(KeyChoices)
	}
	if f.typ.Kind() == cast.KindLiteral {
		return append([]string(nil), f.typ.Choices()...)
	}
	return nil
}

// completed fills in the settings inferred from the declared type and the
// kind of argument, short of the caster.
func (f *Field) completed() settings {
	kw := f.kw.clone()

	if f.IsPositional() && !kw.has(KeyDefault) {
		kw.setDefault(KeyNargs, argparse.Optional)
	}

	if f.kind == mappingField {
		kw[KeyAction] = argparse.Call
		kw.setDefault(KeyDefault, map[string]any{})
		return kw
	}

	if kw.has(KeyType) {
		kw.setDefault(KeyAction, argparse.Store)
		return kw
	}

	if f.typ.Kind() == cast.KindBool && !kw.has(KeyDefault) {
		if kw.has(KeyNargs) {
			kw[KeyAction] = argparse.Store
		} else {
			kw.setDefault(KeyAction, argparse.StoreTrue)
			kw.setDefault(KeyDefault, false)
		}
	}

	if f.typ.Kind() == cast.KindList {
		kw.setDefault(KeyAction, argparse.Append)
	} else {
		kw.setDefault(KeyAction, argparse.Store)
	}

	switch kw.action() {
	case argparse.Store, argparse.StoreConst:
		if f.typ.Kind() == cast.KindLiteral {
			kw.setDefault(KeyMetavar, strings.Join(f.typ.Choices(), "|"))
		}
	case argparse.Append, argparse.AppendConst, argparse.Extend:
		zero := f.typ.Zero()
		if zero == nil {
			zero = []any{}
		}
		kw.setDefault(KeyDefault, zero)
	}
	return kw
}

// caster returns the explicit caster, or infers it from the declared type
// for value and collection actions. The validator wraps the result.
func (f *Field) caster(kw settings) (cast.Func, error) {
	var fn cast.Func
	if kw.has(KeyType) {
		fn, _ = kw[KeyType].(cast.Func)
	} else if f.kind != mappingField {
		var err error
		switch kw.action() {
		case argparse.Store, argparse.StoreConst:
			fn, err = cast.For(f.typ)
		case argparse.Append, argparse.AppendConst, argparse.Extend:
			fn, err = f.elemCaster()
		}
		if err != nil {
			return nil, err
		}
	}
	return f.validated(fn), nil
}

func (f *Field) validated(fn cast.Func) cast.Func {
	if pred, ok := f.kw[KeyValidator].(func(any) bool); ok && pred != nil {
		return cast.Validate(fn, pred)
	}
	return fn
}

// elemCaster is the caster of one element of a collection type.
func (f *Field) elemCaster() (cast.Func, error) {
	var params []cast.Type
	switch {
	case f.typ.IsCollection():
		params = f.typ.Elems()
	case f.typ.Kind() == cast.KindMap:
		params = []cast.Type{cast.String(), f.typ.Elem()}
	case f.typ.Kind() == cast.KindUnion:
		params = f.typ.Elems()
		if f.typ.IsOptional() {
			params = append(params, cast.Any())
		}
	}
	switch len(params) {
	case 0:
		return cast.For(f.typ)
	case 1:
		return cast.For(params[0])
	}
	return nil, errors.Errorf("cannot derive an element caster from %s", f.typ)
}

// EffectiveDefault returns the value a field takes when its argument is not
// given, and false if there is none.
func (f *Field) EffectiveDefault() (any, bool) {
	v, ok := f.completed()[KeyDefault]
	return v, ok
}

// EffectiveConst returns the value stored by const-style actions, and false
// if there is none.
func (f *Field) EffectiveConst() (any, bool) {
	kw := f.completed()
	switch kw.action() {
	case argparse.StoreTrue:
		return true, true
	case argparse.StoreFalse:
		return false, true
	}
	v, ok := kw[KeyConst]
	return v, ok
}

// Resolve computes the parser argument of the field. It does not modify f,
// and repeated calls return equivalent arguments.
func (f *Field) Resolve() (argparse.Argument, error) {
	kw := f.completed()
	fn, err := f.caster(kw)
	if err != nil {
		return argparse.Argument{}, constructionErr("", f.name, err)
	}

	a := argparse.Argument{
		Flags:    f.Flags(),
		Dest:     f.name,
		Action:   kw.action(),
		Nargs:    kw.nargs(),
		Default:  kw[KeyDefault],
		Const:    kw[KeyConst],
		Type:     fn,
		Choices:  kw.stringList(KeyChoices),
		Required: kw.flag(KeyRequired),
		Help:     kw.str(KeyHelp),
		Metavar:  kw.str(KeyMetavar),
		Version:  kw.str(KeyVersion),
	}

	if f.kind == mappingField {
		a.Call = mapAccumulator(fn, a.Choices)
		a.Type = nil
		if a.Metavar == "" {
			if len(a.Choices) == 0 {
				a.Metavar = "KEY=VALUE"
			} else {
				a.Metavar = "KEY={" + strings.Join(a.Choices, ",") + "}"
			}
		}
		a.Choices = nil
	}

	if f.Hidden() {
		a.Help = argparse.Suppress
	}
	return a, nil
}

// arguments is the main argument plus the shortcut flags of an AliasArg.
func (f *Field) arguments() ([]argparse.Argument, error) {
	main, err := f.Resolve()
	if err != nil {
		return nil, err
	}
	args := []argparse.Argument{main}
	for _, alias := range f.aliases {
		a := argparse.Argument{
			Flags:   []string{alias.Flag},
			Dest:    main.Dest,
			Action:  argparse.StoreConst,
			Default: main.Default,
			Const:   alias.Value,
			Help:    fmt.Sprintf("short for %s=%s.", f.flags[0], cast.Format(alias.Value)),
		}
		if f.Hidden() {
			a.Help = argparse.Suppress
		}
		args = append(args, a)
	}
	return args, nil
}

func mapAccumulator(fn cast.Func, choices []string) func(current, value any) (any, error) {
	return func(current, value any) (any, error) {
		m := map[string]any{}
		if cur, ok := current.(map[string]any); ok {
			for k, v := range cur {
				m[k] = v
			}
		}
		s, _ := value.(string)
		k, v, _ := strings.Cut(s, "=")
		if len(choices) > 0 && !contains(choices, v) {
			return nil, errors.Errorf("%s=%s not in choices: %s", k, v, strings.Join(choices, ", "))
		}
		cv, err := fn.Apply(v)
		if err != nil {
			return nil, err
		}
		m[k] = cv
		return m, nil
	}
}

// valueCaster casts textual values assigned from outside of a parse. Fields
// whose action takes no value fall back to the caster of the declared type.
func (f *Field) valueCaster() (cast.Func, error) {
	kw := f.completed()
	if f.kind != mappingField {
		fn, err := f.caster(kw)
		if err != nil || fn != nil || kw.has(KeyType) {
			return fn, err
		}
	}
	fn, err := cast.For(f.typ)
	if err != nil {
		return nil, err
	}
	return f.validated(fn), nil
}

// Cast converts raw the way a parsed value of this field is converted,
// validator included.
func (f *Field) Cast(raw string) (any, error) {
	fn, err := f.valueCaster()
	if err != nil {
		return nil, constructionErr("", f.name, err)
	}
	return fn.Apply(raw)
}

func contains(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}
