package assets

import (
	"context"
	"errors"
	"time"

	"github.com/vk/sharegrid/internal/ctxlog"
	"github.com/vk/sharegrid/internal/registry"
	"github.com/vk/sharegrid/internal/shared"
	"github.com/vk/sharegrid/modules/http_client"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of an assets component.
type Input struct {
	Manifest string `hcl:"manifest"`
	Asset    string `hcl:"asset"`
	Client   string `hcl:"client,optional"`
	Timeout  string `hcl:"timeout,optional"`
}

func (in *Input) clientTag() string {
	if in.Client == "" {
		return http_client.DefaultTag
	}
	return in.Client
}

// Acquire returns the verified asset shared under Tag(name), fetching it
// with client if no consumer has fetched it yet.
func Acquire(ctx context.Context, h *shared.Handle, client *http_client.Client, manifestURL, name string) (*Asset, error) {
	return shared.GetOrCreate(h, Tag(name), func() (*Asset, error) {
		return NewFetcher(client.Client).Fetch(ctx, manifestURL, name)
	})
}

func start(ctx context.Context, h *shared.Handle, raw any) error {
	input := raw.(*Input)
	logger := ctxlog.FromContext(ctx)

	timeout := http_client.DefaultTimeout
	if input.Timeout != "" {
		d, err := time.ParseDuration(input.Timeout)
		if err != nil {
			return err
		}
		timeout = d
	}

	client, err := http_client.Acquire(h, input.clientTag(), timeout)
	if err != nil {
		return err
	}
	asset, err := Acquire(ctx, h, client, input.Manifest, input.Asset)
	if err != nil {
		return err
	}
	logger.Info("Asset available.", "asset", asset.String(), "tag", Tag(input.Asset))
	return nil
}

func stop(ctx context.Context, h *shared.Handle, raw any) error {
	input := raw.(*Input)
	ctxlog.FromContext(ctx).Debug("Releasing asset.", "asset", input.Asset)
	return errors.Join(h.Relinquish(Tag(input.Asset)), h.Relinquish(input.clientTag()))
}

// Register registers the assets component type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterComponent("assets", &registry.RegisteredComponent{
		NewInput: func() any { return new(Input) },
		Start:    start,
		Stop:     stop,
	})
}
