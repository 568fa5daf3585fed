package cast

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrArityMismatch     = errors.New("arity mismatch")
	ErrUnknownChoice     = errors.New("unknown choice")
	ErrAmbiguousChoice   = errors.New("ambiguous choice")
	ErrNoUnionMember     = errors.New("no union member matched")
	ErrValidation        = errors.New("validation failed")
	ErrUnterminatedQuote = errors.New("unterminated quote")
)

// CastError is returned by every caster in this package when a raw token
// cannot be converted. Value is always the original, unmodified input.
type CastError struct {
	Type  string
	Value string
	Err   error
}

func (e *CastError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid %s value: %q", e.Type, e.Value)
	}
	return fmt.Sprintf("invalid %s value %q: %v", e.Type, e.Value, e.Err)
}

func (e *CastError) Unwrap() error {
	return e.Err
}

// UnsupportedTypeError is returned by For when a declared type has no
// derivable caster.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("no caster for type %s", e.Type)
}

func castErr(typ, value string, err error) error {
	return &CastError{Type: typ, Value: value, Err: err}
}
