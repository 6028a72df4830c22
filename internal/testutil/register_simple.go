package testutil

import "github.com/vk/sharegrid/internal/registry"

// SimpleModule is a test helper for easily creating a mock module that
// registers a single component type.
type SimpleModule struct {
	Name      string
	Component *registry.RegisteredComponent
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	if m.Name != "" && m.Component != nil {
		r.RegisterComponent(m.Name, m.Component)
	}
}
