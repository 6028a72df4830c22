package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// Model is the unified, format-agnostic representation of the host
// configuration: the set of component instances to load.
type Model struct {
	Components []*Component
}

// Component is one configured component instance.
type Component struct {
	Type string
	Name string

	// Body holds the component's raw arguments. It is decoded into the
	// component type's input struct by a Converter.
	Body hcl.Body
}

// ID returns the component's address. The host also uses it as the
// component's consumer identity in the shared data registry.
func (c *Component) ID() string {
	return fmt.Sprintf("component.%s.%s", c.Type, c.Name)
}
