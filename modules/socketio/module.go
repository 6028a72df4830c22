package socketio

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/sharegrid/internal/ctxlog"
	"github.com/vk/sharegrid/internal/registry"
	"github.com/vk/sharegrid/internal/shared"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of a socketio component.
type Input struct {
	URL                string    `hcl:"url"`
	Namespace          string    `hcl:"namespace,optional"`
	InsecureSkipVerify bool      `hcl:"insecure_skip_verify,optional"`
	Timeout            string    `hcl:"timeout,optional"`
	EmitEvent          string    `hcl:"emit_event,optional"`
	EmitData           cty.Value `hcl:"emit_data,optional"`
}

func (in *Input) dialOptions() (DialOptions, error) {
	opts := DialOptions{
		URL:                in.URL,
		Namespace:          in.Namespace,
		InsecureSkipVerify: in.InsecureSkipVerify,
	}
	if in.Timeout != "" {
		d, err := time.ParseDuration(in.Timeout)
		if err != nil {
			return opts, fmt.Errorf("invalid timeout %q: %w", in.Timeout, err)
		}
		opts.Timeout = d
	}
	return opts, nil
}

func start(ctx context.Context, h *shared.Handle, raw any) error {
	input := raw.(*Input)
	logger := ctxlog.FromContext(ctx).With("url", input.URL, "namespace", input.Namespace)

	opts, err := input.dialOptions()
	if err != nil {
		return err
	}
	// Convert before connecting so a bad payload does not leave a socket behind.
	data, err := ctyValueToInterface(input.EmitData)
	if err != nil {
		return fmt.Errorf("failed to convert emit_data: %w", err)
	}

	conn, err := Acquire(ctx, h, opts)
	if err != nil {
		return err
	}
	logger.Info("Socket.io connection acquired.", "sid", conn.Id())

	if input.EmitEvent != "" {
		jsonData, _ := json.Marshal(data)
		logger.Debug("Emitting event.", "event", input.EmitEvent, "data", string(jsonData))
		if err := conn.Emit(input.EmitEvent, data); err != nil {
			return fmt.Errorf("failed to emit %q: %w", input.EmitEvent, err)
		}
	}
	return nil
}

func stop(ctx context.Context, h *shared.Handle, raw any) error {
	input := raw.(*Input)
	ctxlog.FromContext(ctx).Debug("Releasing socket.io connection.", "url", input.URL)
	return h.Relinquish(Tag(input.URL, input.Namespace))
}

// Register registers the socketio component type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterComponent("socketio", &registry.RegisteredComponent{
		NewInput: func() any { return new(Input) },
		Start:    start,
		Stop:     stop,
	})
}
