package http_client

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vk/sharegrid/internal/registry"
	"github.com/vk/sharegrid/internal/shared"
)

func newRegistry() *shared.Registry {
	return shared.New(shared.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestAcquire_SharesOneClient(t *testing.T) {
	t.Parallel()
	reg := newRegistry()
	a, b := reg.Handle("component.http_client.a"), reg.Handle("component.assets.b")

	c1, err := Acquire(a, "", 5*time.Second)
	require.NoError(t, err)
	c2, err := Acquire(b, DefaultTag, time.Minute)
	require.NoError(t, err)

	require.Same(t, c1, c2)
	require.Equal(t, 5*time.Second, c2.Timeout, "an existing client keeps its creation timeout")

	require.NoError(t, a.Relinquish(DefaultTag))
	require.NoError(t, b.Relinquish(DefaultTag))
	require.Equal(t, 0, reg.Len())
}

func TestComponentLifecycle(t *testing.T) {
	t.Parallel()
	components := registry.New()
	(&Module{}).Register(components)
	def, ok := components.Lookup("http_client")
	require.True(t, ok)

	reg := newRegistry()
	h := reg.Handle("component.http_client.api")
	input := def.NewInput().(*Input)
	input.Share = "api-client"
	input.Timeout = "2s"

	require.NoError(t, def.Start(context.Background(), h, input))
	client, err := shared.Get[*Client](h, "api-client")
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, client.Timeout)

	require.NoError(t, def.Stop(context.Background(), h, input))
	require.Equal(t, 0, reg.Len())
}

func TestStart_InvalidTimeout(t *testing.T) {
	t.Parallel()
	reg := newRegistry()
	err := start(context.Background(), reg.Handle("x"), &Input{Timeout: "soon"})
	require.ErrorContains(t, err, `invalid timeout "soon"`)
	require.Equal(t, 0, reg.Len())
}
