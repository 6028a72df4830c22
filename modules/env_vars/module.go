// Package env_vars shares a snapshot of the process environment so that
// components read one consistent view of it.
package env_vars

import (
	"context"
	"os"
	"strings"

	"github.com/vk/sharegrid/internal/ctxlog"
	"github.com/vk/sharegrid/internal/registry"
	"github.com/vk/sharegrid/internal/shared"
)

// Module implements the registry.Module interface for this package. Environ
// defaults to os.Environ.
type Module struct {
	Environ func() []string
}

// Input defines the arguments of an env_vars component.
type Input struct {
	Prefix string `hcl:"prefix,optional"`
}

// Tag returns the tag the snapshot filtered by prefix is shared under.
func Tag(prefix string) string {
	if prefix == "" {
		return "env"
	}
	return "env:" + prefix
}

// Snapshot collects the KEY=VALUE pairs whose key starts with prefix.
func Snapshot(environ []string, prefix string) map[string]string {
	env := make(map[string]string)
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(k, prefix) {
			continue
		}
		env[k] = v
	}
	return env
}

func (m *Module) environ() []string {
	if m.Environ == nil {
		return os.Environ()
	}
	return m.Environ()
}

func (m *Module) start(ctx context.Context, h *shared.Handle, raw any) error {
	input := raw.(*Input)
	env, err := shared.GetOrCreate(h, Tag(input.Prefix), func() (map[string]string, error) {
		return Snapshot(m.environ(), input.Prefix), nil
	})
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("Environment snapshot available.", "tag", Tag(input.Prefix), "vars", len(env))
	return nil
}

func (m *Module) stop(ctx context.Context, h *shared.Handle, raw any) error {
	return h.Relinquish(Tag(raw.(*Input).Prefix))
}

// Register registers the env_vars component type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterComponent("env_vars", &registry.RegisteredComponent{
		NewInput: func() any { return new(Input) },
		Start:    m.start,
		Stop:     m.stop,
	})
}
