package argclass

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrPositionalToOptional is returned when option flags are given to a
	// positional field.
	ErrPositionalToOptional = errors.New("cannot change positional argument to optional")

	// ErrInvalidFlag is returned for an option flag without the "-" prefix.
	ErrInvalidFlag = errors.New(`option flags must start with "-"`)

	// ErrUnbound is returned when reading a field that has no value: it has
	// no default, was never parsed, or was deleted.
	ErrUnbound = errors.New("unbound field")

	// ErrUnknownField is returned when a name does not refer to a field of
	// the class.
	ErrUnknownField = errors.New("unknown field")

	// ErrNoRun is returned when running a class without a run function.
	ErrNoRun = errors.New("no run function")
)

// ConstructionError is raised while declaring classes and fields: malformed
// flags, invalid flag transforms, inconsistent hierarchies and types that
// cannot be turned into a parser argument.
type ConstructionError struct {
	Class string
	Field string
	Err   error
}

func (e *ConstructionError) Error() string {
	switch {
	case e.Class != "" && e.Field != "":
		return fmt.Sprintf("%s.%s: %s", e.Class, e.Field, e.Err)
	case e.Class != "":
		return fmt.Sprintf("%s: %s", e.Class, e.Err)
	case e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

func constructionErr(class, field string, err error) error {
	if ce, ok := err.(*ConstructionError); ok {
		if ce.Class == "" {
			ce.Class = class
		}
		if ce.Field == "" {
			ce.Field = field
		}
		return ce
	}
	return &ConstructionError{Class: class, Field: field, Err: err}
}
