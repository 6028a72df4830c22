package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/vk/sharegrid/internal/registry"
	"github.com/vk/sharegrid/internal/shared"
)

// Resource is the value recorder components share. It counts its own
// disposals.
type Resource struct {
	Tag      string
	Creator  shared.Identity
	disposed *int
	mu       *sync.Mutex
}

// Dispose implements shared.Disposer.
func (r *Resource) Dispose() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.disposed++
	return nil
}

// RecorderModule registers a "recorder" component type. Each instance
// acquires a *Resource under its configured tag and records what it saw.
//
//	component "recorder" "a" {
//	  tag  = "fonts"
//	  fail = false
//	}
type RecorderModule struct {
	mu       sync.Mutex
	created  int
	disposed int
	seen     map[shared.Identity]*Resource
	stopped  []shared.Identity
}

type recorderInput struct {
	Tag     string `hcl:"tag"`
	Fail    bool   `hcl:"fail,optional"`
	Release bool   `hcl:"release,optional"`
}

// NewRecorderModule creates an empty recorder.
func NewRecorderModule() *RecorderModule {
	return &RecorderModule{seen: make(map[shared.Identity]*Resource)}
}

// Register implements the registry.Module interface.
func (m *RecorderModule) Register(r *registry.Registry) {
	r.RegisterComponent("recorder", &registry.RegisteredComponent{
		NewInput: func() any { return new(recorderInput) },
		Start:    m.start,
		Stop:     m.stop,
	})
}

func (m *RecorderModule) start(ctx context.Context, h *shared.Handle, raw any) error {
	input := raw.(*recorderInput)
	res, err := shared.GetOrCreate(h, input.Tag, func() (*Resource, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.created++
		return &Resource{Tag: input.Tag, Creator: h.Identity(), disposed: &m.disposed, mu: &m.mu}, nil
	})
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.seen[h.Identity()] = res
	m.mu.Unlock()

	if input.Fail {
		return errors.New("recorder configured to fail")
	}
	return nil
}

// stop relinquishes only when the component asked for it, leaving the rest
// to the host.
func (m *RecorderModule) stop(ctx context.Context, h *shared.Handle, raw any) error {
	input := raw.(*recorderInput)
	m.mu.Lock()
	m.stopped = append(m.stopped, h.Identity())
	m.mu.Unlock()
	if input.Release {
		return h.Relinquish(input.Tag)
	}
	return nil
}

// Created returns how many resources were created.
func (m *RecorderModule) Created() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.created
}

// Disposed returns how many resources were disposed.
func (m *RecorderModule) Disposed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disposed
}

// Seen returns the resource the given identity obtained, if any.
func (m *RecorderModule) Seen(id shared.Identity) (*Resource, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.seen[id]
	return res, ok
}

// Stopped returns the identities whose Stop ran, in call order.
func (m *RecorderModule) Stopped() []shared.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]shared.Identity(nil), m.stopped...)
}
