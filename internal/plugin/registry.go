// Package plugin is the capability registry the tree view is composed from.
//
// Each plugin registers itself under a capability name at setup time. Item
// glue asks the registry whether an optional capability is present instead of
// type-asserting on the instance.
package plugin

import (
	"fmt"
	"sort"
)

const (
	Items      = "items"
	Expansion  = "expansion"
	Focus      = "focus"
	Selection  = "selection"
	Label      = "label"
	Reordering = "reordering"
)

type Registry struct {
	caps map[string]any
}

func NewRegistry() *Registry {
	return &Registry{caps: map[string]any{}}
}

// Register adds a capability. Registering the same name twice is a setup bug.
func (r *Registry) Register(name string, impl any) error {
	if impl == nil {
		return fmt.Errorf("plugin %q: nil implementation", name)
	}
	if _, ok := r.caps[name]; ok {
		return fmt.Errorf("plugin %q already registered", name)
	}
	r.caps[name] = impl
	return nil
}

func (r *Registry) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.caps[name]
	return ok
}

func (r *Registry) Lookup(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.caps[name]
	return v, ok
}

// Names returns the registered capability names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.caps))
	for k := range r.caps {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Get returns the capability registered under name when it implements T.
func Get[T any](r *Registry, name string) (T, bool) {
	var zero T
	v, ok := r.Lookup(name)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
