package registry

import (
	"context"
	"fmt"
	"strings"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/vk/sharegrid/internal/config"
	"github.com/vk/sharegrid/internal/ctxlog"
)

// Validate checks the loaded configuration against the registered component
// types: every component must name a known type and every component address
// must be unique, since the address doubles as the consumer identity.
func (r *Registry) Validate(ctx context.Context, model *config.Model) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string
	seen := make(map[string]struct{})

	for _, c := range model.Components {
		if c.Name == "" {
			errs = append(errs, fmt.Sprintf("component of type '%s' has an empty name", c.Type))
			continue
		}
		if _, ok := r.components[c.Type]; !ok {
			errs = append(errs, fmt.Sprintf("%s: unknown component type '%s' (registered: %s)", c.ID(), c.Type, strings.Join(r.Types(), ", ")))
		}
		if _, dup := seen[c.ID()]; dup {
			errs = append(errs, fmt.Sprintf("%s: declared more than once", c.ID()))
		}
		seen[c.ID()] = struct{}{}
	}

	if len(errs) > 0 {
		return platformerrors.Newf(platformerrors.CodeInvalidConfig, "registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry validation passed.", "components", len(model.Components))
	return nil
}
