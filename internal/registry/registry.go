package registry

import (
	"slices"
)

// Module is the interface that all component modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds all the registered component types for a single
// application instance.
type Registry struct {
	components map[string]*RegisteredComponent
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		components: make(map[string]*RegisteredComponent),
	}
}

// Lookup returns the component type registered under name.
func (r *Registry) Lookup(name string) (*RegisteredComponent, bool) {
	c, ok := r.components[name]
	return c, ok
}

// Types returns the names of all registered component types, sorted.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
