package http_client

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/sharegrid/internal/ctxlog"
	"github.com/vk/sharegrid/internal/registry"
	"github.com/vk/sharegrid/internal/shared"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of an http_client component.
type Input struct {
	Share   string `hcl:"share,optional"`
	Timeout string `hcl:"timeout,optional"`
}

func (in *Input) tag() string {
	if in.Share == "" {
		return DefaultTag
	}
	return in.Share
}

func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", s, err)
	}
	return d, nil
}

func start(ctx context.Context, h *shared.Handle, raw any) error {
	input := raw.(*Input)
	logger := ctxlog.FromContext(ctx)

	timeout, err := parseTimeout(input.Timeout)
	if err != nil {
		return err
	}
	client, err := Acquire(h, input.tag(), timeout)
	if err != nil {
		return err
	}
	logger.Info("HTTP client acquired.", "share", input.tag(), "timeout", client.Timeout)
	return nil
}

func stop(ctx context.Context, h *shared.Handle, raw any) error {
	input := raw.(*Input)
	ctxlog.FromContext(ctx).Debug("Releasing HTTP client.", "share", input.tag())
	return h.Relinquish(input.tag())
}

// Register registers the http_client component type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterComponent("http_client", &registry.RegisteredComponent{
		NewInput: func() any { return new(Input) },
		Start:    start,
		Stop:     stop,
	})
}
