package argclass

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/isobit/argclass/cast"
)

// Options is an instance of a Class: one slot per active field. A slot is
// either bound to a value (possibly nil) or unbound.
type Options struct {
	class *Class
	slots map[string]any
}

// New creates an instance of class with its defaults applied.
func New(class *Class) *Options {
	o := &Options{class: class, slots: map[string]any{}}
	o.ApplyDefaults()
	return o
}

func (o *Options) Class() *Class { return o.class }

func (o *Options) field(name string) (*Field, error) {
	f, ok := o.class.Lookup(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownField, "%s.%s", o.class.name, name)
	}
	return f, nil
}

// Get returns the value bound to the field name. Reading an unbound field
// returns an error wrapping ErrUnbound.
func (o *Options) Get(name string) (any, error) {
	if _, err := o.field(name); err != nil {
		return nil, err
	}
	v, ok := o.slots[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnbound, "%s.%s", o.class.name, name)
	}
	return v, nil
}

// Set binds the field name to v without casting.
func (o *Options) Set(name string, v any) error {
	if _, err := o.field(name); err != nil {
		return err
	}
	o.slots[name] = v
	return nil
}

// Delete unbinds the field name. Deleting an unbound field is a no-op.
func (o *Options) Delete(name string) {
	delete(o.slots, name)
}

func (o *Options) Has(name string) bool {
	_, ok := o.slots[name]
	return ok
}

// Lookup implements Source: the bound value of name, if any.
func (o *Options) Lookup(name string) (any, bool) {
	v, ok := o.slots[name]
	return v, ok
}

// Value returns the field name of o as a T. A nil value yields the zero T.
func Value[T any](o *Options, name string) (T, error) {
	var zero T
	v, err := o.Get(name)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, errors.Errorf("%s.%s: value of type %T is not a %T", o.class.name, name, v, zero)
	}
	return t, nil
}

// String renders one "name = value" line per field.
func (o *Options) String() string {
	lines := []string{}
	for _, f := range o.class.Fields() {
		v, ok := o.slots[f.name]
		if !ok {
			lines = append(lines, fmt.Sprintf("%s = <unbound>", f.name))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s = %s", f.name, cast.Format(v)))
	}
	return strings.Join(lines, "\n")
}
