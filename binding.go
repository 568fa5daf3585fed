package argclass

import (
	"github.com/pkg/errors"

	"github.com/isobit/argclass/argparse"
	"github.com/isobit/argclass/cast"
)

// ApplyDefaults binds every field that has a default and unbinds the others.
func (o *Options) ApplyDefaults() {
	for _, f := range o.class.Fields() {
		v, ok := f.EffectiveDefault()
		if !ok {
			delete(o.slots, f.name)
			continue
		}
		o.slots[f.name] = copyValue(v)
	}
}

// BindParsed binds every field present in ns. Fields missing from ns, such
// as those of another sub-command, are left alone.
func (o *Options) BindParsed(ns *argparse.Namespace) {
	for _, f := range o.class.Fields() {
		if v, ok := ns.Get(f.name); ok {
			o.slots[f.name] = v
		}
	}
}

// CopyFrom binds fields from src, consulting overrides first. String values
// are cast through the field of o unless the field is declared as a string,
// so a loosely typed source such as the environment can be copied. The cast
// uses the caster of o even when src is an instance of another class with a
// different type under the same name.
func (o *Options) CopyFrom(src Source, overrides map[string]any) error {
	shadow := ShadowView(src, overrides)
	for _, f := range o.class.Fields() {
		v, ok := shadow.Lookup(f.name)
		if !ok {
			continue
		}
		v, err := o.castText(f, v)
		if err != nil {
			return err
		}
		o.slots[f.name] = v
	}
	return nil
}

func (o *Options) castText(f *Field, v any) (any, error) {
	s, ok := v.(string)
	if !ok || f.typ.Kind() == cast.KindString {
		return v, nil
	}
	cv, err := f.Cast(s)
	if err != nil {
		return nil, errors.Wrapf(err, "%s.%s", o.class.name, f.name)
	}
	return cv, nil
}

// Protection keeps SetExternal from overwriting fields.
type Protection interface {
	Protects(key string) bool
}

// ProtectNames protects every listed key.
type ProtectNames []string

func (p ProtectNames) Protects(key string) bool {
	return contains(p, key)
}

// ProtectValues protects a key whose mapped value is not nil.
type ProtectValues map[string]any

func (p ProtectValues) Protects(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// SetExternal binds fields from values, an external mapping such as a
// decoded configuration file. A field is looked up with one leading
// underscore stripped from its name. A nil value unbinds the field, and a
// string is cast through the field. protect may be nil.
func (o *Options) SetExternal(values map[string]any, protect Protection) error {
	for _, f := range o.class.Fields() {
		key := f.name
		if len(key) > 0 && key[0] == '_' {
			key = key[1:]
		}
		if protect != nil && protect.Protects(key) {
			continue
		}
		v, ok := values[key]
		if !ok {
			continue
		}
		if v == nil {
			delete(o.slots, f.name)
			continue
		}
		if s, isText := v.(string); isText {
			cv, err := f.Cast(s)
			if err != nil {
				return errors.Wrapf(err, "%s.%s", o.class.name, f.name)
			}
			v = cv
		}
		o.slots[f.name] = v
	}
	return nil
}

// AsMap returns the bound fields. Unbound fields are left out.
func (o *Options) AsMap() map[string]any {
	m := map[string]any{}
	for _, f := range o.class.Fields() {
		if v, ok := o.slots[f.name]; ok {
			m[f.name] = v
		}
	}
	return m
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
