package testutil

import (
	"context"

	"github.com/vk/sharegrid/internal/registry"
	"github.com/vk/sharegrid/internal/shared"
)

// NoOpModule registers a "noop" component type that takes no arguments and
// does nothing. It is useful for tests that only exercise loading and
// validation.
type NoOpModule struct{}

// Register implements the registry.Module interface.
func (m *NoOpModule) Register(r *registry.Registry) {
	r.RegisterComponent("noop", &registry.RegisteredComponent{
		NewInput: func() any { return new(struct{}) },
		Start:    func(context.Context, *shared.Handle, any) error { return nil },
	})
}
