package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given files or directories,
	// translates it into the format-agnostic model, and returns a matching
	// Converter.
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)
}

// Converter binds a component's raw arguments to the Go input struct of its
// component type.
type Converter interface {
	DecodeBody(ctx context.Context, body hcl.Body, target any) error
}
