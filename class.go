package argclass

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/isobit/argclass/cast"
)

// RunFunc is the entry point of a class. The context is cancelled on SIGINT
// and SIGTERM when run through Main.
type RunFunc func(ctx context.Context, o *Options) error

type decl struct {
	name  string
	field *Field // nil when the name is shadowed
}

// Class is a named set of field declarations with parents. Fields are
// inherited through the C3 linearization of the parents, and a class can
// override an inherited field or remove it by shadowing its name.
type Class struct {
	name    string
	parents []*Class
	mro     []*Class
	decls   []decl
	doc     string
	usage   *string
	epilog  *string
	run     RunFunc

	sealed atomic.Bool
	once   sync.Once
	fields []*Field
	index  map[string]*Field
}

// NewClass creates a class inheriting from parents, in order of precedence.
// It panics with a *ConstructionError if the parents cannot be linearized;
// use BuildClass to have the error returned instead.
func NewClass(name string, parents ...*Class) *Class {
	c, err := BuildClass(name, parents...)
	if err != nil {
		panic(err)
	}
	return c
}

// BuildClass is like NewClass, but it returns any errors instead of calling
// panic.
func BuildClass(name string, parents ...*Class) (*Class, error) {
	c := &Class{
		name:    name,
		parents: append([]*Class(nil), parents...),
	}
	mro, err := linearize(c)
	if err != nil {
		return nil, &ConstructionError{Class: name, Err: err}
	}
	c.mro = mro
	for _, p := range parents {
		p.sealed.Store(true)
	}
	return c, nil
}

// linearize computes the C3 linearization of c from the linearizations of
// its parents.
func linearize(c *Class) ([]*Class, error) {
	seqs := [][]*Class{}
	for _, p := range c.parents {
		seqs = append(seqs, append([]*Class(nil), p.mro...))
	}
	seqs = append(seqs, append([]*Class(nil), c.parents...))

	out := []*Class{c}
	for {
		nonEmpty := seqs[:0]
		for _, s := range seqs {
			if len(s) > 0 {
				nonEmpty = append(nonEmpty, s)
			}
		}
		seqs = nonEmpty
		if len(seqs) == 0 {
			return out, nil
		}

		var head *Class
		for _, s := range seqs {
			if !inTail(seqs, s[0]) {
				head = s[0]
				break
			}
		}
		if head == nil {
			return nil, errors.New("cannot create a consistent method resolution order")
		}
		out = append(out, head)
		for i, s := range seqs {
			if s[0] == head {
				seqs[i] = s[1:]
			}
		}
	}
}

func inTail(seqs [][]*Class, c *Class) bool {
	for _, s := range seqs {
		for _, t := range s[1:] {
			if t == c {
				return true
			}
		}
	}
	return false
}

func (c *Class) declare(d decl) *Class {
	if c.sealed.Load() {
		panic(&ConstructionError{Class: c.name, Field: d.name, Err: errors.New("class fields are already resolved")})
	}
	for i := range c.decls {
		if c.decls[i].name == d.name {
			c.decls[i] = d
			return c
		}
	}
	c.decls = append(c.decls, d)
	return c
}

// Field declares a field named name with declared type typ. The descriptor
// is copied, so the same *Field may be declared by several classes.
func (c *Class) Field(name string, typ cast.Type, f *Field) *Class {
	return c.declare(decl{name: name, field: f.bind(name, typ)})
}

// Shadow declares name as a plain attribute, removing an inherited field of
// that name.
func (c *Class) Shadow(name string) *Class {
	return c.declare(decl{name: name})
}

func (c *Class) SetDoc(doc string) *Class {
	c.doc = doc
	return c
}

// SetUsage overrides the usage line; "%(prog)s" is replaced by the program
// name.
func (c *Class) SetUsage(usage string) *Class {
	c.usage = &usage
	return c
}

func (c *Class) SetEpilog(epilog string) *Class {
	c.epilog = &epilog
	return c
}

func (c *Class) SetRun(run RunFunc) *Class {
	c.run = run
	return c
}

func (c *Class) Name() string { return c.name }

// Doc is the description of the class itself; it is not inherited.
func (c *Class) Doc() string { return c.doc }

func (c *Class) Parents() []*Class { return append([]*Class(nil), c.parents...) }

// Linearization returns c followed by its ancestors in resolution order.
func (c *Class) Linearization() []*Class { return append([]*Class(nil), c.mro...) }

// Usage returns the nearest usage override in resolution order.
func (c *Class) Usage() (string, bool) {
	for _, k := range c.mro {
		if k.usage != nil {
			return *k.usage, true
		}
	}
	return "", false
}

// Epilog returns the nearest epilog in resolution order.
func (c *Class) Epilog() (string, bool) {
	for _, k := range c.mro {
		if k.epilog != nil {
			return *k.epilog, true
		}
	}
	return "", false
}

// Run returns the nearest run function in resolution order.
func (c *Class) Run() RunFunc {
	for _, k := range c.mro {
		if k.run != nil {
			return k.run
		}
	}
	return nil
}

// lookup returns the declaration of name in the first class of the
// resolution order that declares it.
func (c *Class) lookup(name string) (decl, bool) {
	for _, k := range c.mro {
		for _, d := range k.decls {
			if d.name == name {
				return d, true
			}
		}
	}
	return decl{}, false
}

// Fields returns the active fields, unique by name. A name is positioned by
// the most-base class declaring it and takes the declaration of the
// most-derived one; shadowed names are left out. The result is computed once.
func (c *Class) Fields() []*Field {
	c.once.Do(func() {
		c.sealed.Store(true)
		c.index = map[string]*Field{}
		seen := map[string]bool{}
		for i := len(c.mro) - 1; i >= 0; i-- {
			for _, d := range c.mro[i].decls {
				if seen[d.name] {
					continue
				}
				seen[d.name] = true
				if found, _ := c.lookup(d.name); found.field != nil {
					c.fields = append(c.fields, found.field)
					c.index[d.name] = found.field
				}
			}
		}
	})
	return append([]*Field(nil), c.fields...)
}

// Lookup returns the active field named name.
func (c *Class) Lookup(name string) (*Field, bool) {
	c.Fields()
	f, ok := c.index[name]
	return f, ok
}

// Arg returns the active field named name, for deriving a new field from it.
// It panics with a *ConstructionError if there is none.
func (c *Class) Arg(name string) *Field {
	f, ok := c.Lookup(name)
	if !ok {
		panic(&ConstructionError{Class: c.name, Field: name, Err: ErrUnknownField})
	}
	return f
}

func (c *Class) String() string { return c.name }
