package cast

import (
	"encoding"
	"strings"
)

type Kind int

const (
	KindInvalid Kind = iota
	KindAny
	KindString
	KindBool
	KindInt
	KindFloat
	KindDuration
	KindLiteral
	KindUnion
	KindList
	KindTuple
	KindVarTuple
	KindMap
	KindNamed
)

// Type is a declared type tag. It stands in for a static type annotation: a
// field is declared with a Type, and For derives the caster from it.
//
// The zero Type is invalid.
type Type struct {
	kind     Kind
	name     string
	elems    []Type
	choices  []string
	optional bool
	fn       Func
}

func Any() Type      { return Type{kind: KindAny} }
func String() Type   { return Type{kind: KindString} }
func Bool() Type     { return Type{kind: KindBool} }
func Int() Type      { return Type{kind: KindInt} }
func Float() Type    { return Type{kind: KindFloat} }
func Duration() Type { return Type{kind: KindDuration} }

// Literal is a closed set of string values.
func Literal(choices ...string) Type {
	return Type{kind: KindLiteral, choices: append([]string(nil), choices...)}
}

// Optional marks t as nullable. Optional of a union keeps the union members.
func Optional(t Type) Type {
	if t.kind == KindUnion {
		t.elems = append([]Type(nil), t.elems...)
		t.optional = true
		return t
	}
	return Type{kind: KindUnion, elems: []Type{t}, optional: true}
}

// Union tries each member in declared order.
func Union(members ...Type) Type {
	return Type{kind: KindUnion, elems: append([]Type(nil), members...)}
}

func ListOf(elem Type) Type { return Type{kind: KindList, elems: []Type{elem}} }

// TupleOf is a heterogeneous tuple whose arity is the number of elements.
func TupleOf(elems ...Type) Type {
	return Type{kind: KindTuple, elems: append([]Type(nil), elems...)}
}

// VarTupleOf is a homogeneous tuple of any length.
func VarTupleOf(elem Type) Type { return Type{kind: KindVarTuple, elems: []Type{elem}} }

// MapOf is a string-keyed map whose values are of type elem.
func MapOf(elem Type) Type { return Type{kind: KindMap, elems: []Type{elem}} }

// Named is any type constructible from a single string.
func Named(name string, fn Func) Type {
	return Type{kind: KindNamed, name: name, fn: fn}
}

// Text is a Named type backed by the encoding.TextUnmarshaler implementation
// of *T. The cast value is a T.
func Text[T any, PT interface {
	*T
	encoding.TextUnmarshaler
}](name string) Type {
	return Named(name, func(s string) (any, error) {
		var v T
		if err := PT(&v).UnmarshalText([]byte(s)); err != nil {
			return nil, castErr(name, s, err)
		}
		return v, nil
	})
}

func (t Type) Kind() Kind { return t.kind }

// Elems returns the type parameters of a composite or union type.
func (t Type) Elems() []Type { return t.elems }

// Elem returns the first type parameter, or Any if there is none.
func (t Type) Elem() Type {
	if len(t.elems) == 0 {
		return Any()
	}
	return t.elems[0]
}

func (t Type) Choices() []string { return t.choices }

func (t Type) IsOptional() bool { return t.optional }

// IsCollection reports whether values of t accumulate (list-like types).
func (t Type) IsCollection() bool {
	switch t.kind {
	case KindList, KindTuple, KindVarTuple:
		return true
	}
	return false
}

// Zero returns an empty value of a collection type, or nil.
func (t Type) Zero() any {
	switch t.kind {
	case KindList, KindTuple, KindVarTuple:
		return []any{}
	case KindMap:
		return map[string]any{}
	}
	return nil
}

func (t Type) String() string {
	switch t.kind {
	case KindAny:
		return "any"
	case KindString:
		return "str"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDuration:
		return "duration"
	case KindLiteral:
		return "literal[" + strings.Join(t.choices, "|") + "]"
	case KindUnion:
		names := make([]string, 0, len(t.elems)+1)
		for _, e := range t.elems {
			names = append(names, e.String())
		}
		if t.optional {
			names = append(names, "none")
		}
		return strings.Join(names, "|")
	case KindList:
		return "list[" + t.Elem().String() + "]"
	case KindTuple:
		names := make([]string, len(t.elems))
		for i, e := range t.elems {
			names[i] = e.String()
		}
		return "tuple[" + strings.Join(names, ", ") + "]"
	case KindVarTuple:
		return "tuple[" + t.Elem().String() + ", ...]"
	case KindMap:
		return "map[str]" + t.Elem().String()
	case KindNamed:
		return t.name
	}
	return "invalid"
}
