package argparse

// Namespace holds parse results keyed by destination.
type Namespace struct {
	values map[string]any
}

func NewNamespace() *Namespace {
	return &Namespace{values: map[string]any{}}
}

func (ns *Namespace) Get(dest string) (any, bool) {
	v, ok := ns.values[dest]
	return v, ok
}

func (ns *Namespace) Set(dest string, v any) {
	ns.values[dest] = v
}

func (ns *Namespace) Has(dest string) bool {
	_, ok := ns.values[dest]
	return ok
}

func (ns *Namespace) merge(other *Namespace) {
	for k, v := range other.values {
		ns.values[k] = v
	}
}
