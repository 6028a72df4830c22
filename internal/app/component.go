package app

import (
	"context"
	"fmt"

	"github.com/vk/sharegrid/internal/config"
	"github.com/vk/sharegrid/internal/ctxlog"
	"github.com/vk/sharegrid/internal/registry"
	"github.com/vk/sharegrid/internal/shared"
)

// instance is one configured component ready to run.
type instance struct {
	cfg     *config.Component
	def     *registry.RegisteredComponent
	input   any
	handle  *shared.Handle
	started bool
}

func (i *instance) identity() shared.Identity {
	return shared.Identity(i.cfg.ID())
}

// context stamps ctx with the component's identity and logger attributes.
func (i *instance) context(ctx context.Context) context.Context {
	ctx = ctxlog.With(ctx, "component", i.cfg.ID())
	return shared.WithIdentity(ctx, i.identity())
}

// prepare decodes every component's arguments and binds a handle to its
// identity. Nothing is started yet.
func (a *App) prepare(ctx context.Context) ([]*instance, error) {
	instances := make([]*instance, 0, len(a.model.Components))
	for _, c := range a.model.Components {
		def, ok := a.components.Lookup(c.Type)
		if !ok {
			return nil, fmt.Errorf("%s: unknown component type '%s'", c.ID(), c.Type)
		}

		var input any
		if def.NewInput != nil {
			input = def.NewInput()
			if err := a.converter.DecodeBody(ctx, c.Body, input); err != nil {
				return nil, fmt.Errorf("failed to decode arguments of %s: %w", c.ID(), err)
			}
		}

		inst := &instance{cfg: c, def: def, input: input}
		inst.handle = a.shares.FromContext(inst.context(ctx))
		instances = append(instances, inst)
	}
	return instances, nil
}
