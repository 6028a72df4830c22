// Package http_request sends one HTTP request at component start through the
// shared HTTP client.
package http_request

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/vk/sharegrid/internal/ctxlog"
	"github.com/vk/sharegrid/internal/registry"
	"github.com/vk/sharegrid/internal/shared"
	"github.com/vk/sharegrid/modules/http_client"
)

// maxBody caps how much of a response is read.
const maxBody = 1 << 20

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of an http_request component.
type Input struct {
	URL          string `hcl:"url"`
	Method       string `hcl:"method,optional"`
	Client       string `hcl:"client,optional"`
	ExpectStatus int    `hcl:"expect_status,optional"`
}

func (in *Input) clientTag() string {
	if in.Client == "" {
		return http_client.DefaultTag
	}
	return in.Client
}

// Response is what Do observed.
type Response struct {
	StatusCode int
	Body       []byte
}

// Do sends the request described by input with client.
func Do(ctx context.Context, client *http_client.Client, input *Input) (*Response, error) {
	method := input.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, input.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func start(ctx context.Context, h *shared.Handle, raw any) error {
	input := raw.(*Input)
	logger := ctxlog.FromContext(ctx)

	client, err := http_client.Acquire(h, input.clientTag(), 0)
	if err != nil {
		return err
	}

	logger.Info("Making HTTP request.", "method", input.Method, "url", input.URL)
	resp, err := Do(ctx, client, input)
	if err != nil {
		return err
	}
	logger.Info("Received HTTP response.", "status", resp.StatusCode, "bytes", len(resp.Body))

	if input.ExpectStatus != 0 && resp.StatusCode != input.ExpectStatus {
		return fmt.Errorf("%s %s: expected status %d, got %d", input.Method, input.URL, input.ExpectStatus, resp.StatusCode)
	}
	return nil
}

func stop(ctx context.Context, h *shared.Handle, raw any) error {
	return h.Relinquish(raw.(*Input).clientTag())
}

// Register registers the http_request component type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterComponent("http_request", &registry.RegisteredComponent{
		NewInput: func() any { return new(Input) },
		Start:    start,
		Stop:     stop,
	})
}
