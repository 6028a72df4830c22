package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/sharegrid/internal/config"
	"github.com/vk/sharegrid/internal/ctxlog"
	"github.com/vk/sharegrid/internal/registry"
	"github.com/vk/sharegrid/internal/shared"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	components *registry.Registry
	shares     *shared.Registry
	model      *config.Model
	converter  config.Converter
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It loads and validates
// the component configuration and panics if either fails; the CLI recovers
// that panic into an error. When no modules are given the core modules are
// registered.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, converter, err := loader.Load(ctx, cfg.ConfigPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded.", "components", len(model.Components))

	components := registry.New()
	if len(modules) == 0 {
		modules = coreModules(outW)
	}
	for _, mod := range modules {
		mod.Register(components)
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "types", components.Types())

	if err := components.Validate(ctx, model); err != nil {
		panic(err)
	}

	return &App{
		outW:       outW,
		logger:     logger,
		config:     cfg,
		components: components,
		shares:     shared.New(shared.WithLogger(logger.With("subsystem", "shared"))),
		model:      model,
		converter:  converter,
	}
}

// Shares returns the application's shared data registry.
func (a *App) Shares() *shared.Registry {
	return a.shares
}

// Components returns the registered component types. This is primarily for testing.
func (a *App) Components() *registry.Registry {
	return a.components
}

// Model returns the loaded configuration.
func (a *App) Model() *config.Model {
	return a.model
}
