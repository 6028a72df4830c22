package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vk/sharegrid/internal/shared"
)

// RegisteredComponent holds the Go parts of a component type's lifecycle.
//
// Start runs once per configured instance with the instance's decoded input
// and a shared.Handle bound to the instance's identity. The context passed to
// Start is only valid until Start returns. Stop is optional; whatever the
// component still holds through its handle is relinquished by the host after
// Stop returns.
type RegisteredComponent struct {
	NewInput func() any
	Start    func(ctx context.Context, h *shared.Handle, input any) error
	Stop     func(ctx context.Context, h *shared.Handle, input any) error
}

// RegisterComponent registers the lifecycle functions for a component type.
func (r *Registry) RegisterComponent(name string, component *RegisteredComponent) {
	if _, exists := r.components[name]; exists {
		panic(fmt.Sprintf("component type '%s' already registered", name))
	}
	if component == nil || component.Start == nil {
		panic(fmt.Sprintf("component type '%s' must provide a Start function", name))
	}
	slog.Debug("Registering component type.", "name", name)
	r.components[name] = component
}
