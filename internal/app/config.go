package app

import (
	"strings"

	platformerrors "github.com/jmgilman/go/errors"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // .hcl file or directory of .hcl files

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// Once makes Run stop the components right after they all started
	// instead of waiting for the context to be cancelled.
	Once bool
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, platformerrors.New(platformerrors.CodeInvalidConfig, "ConfigPath is a required configuration field and cannot be empty")
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, platformerrors.Newf(platformerrors.CodeInvalidConfig, "invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, ok := parseLevel(cfg.LogLevel); !ok {
		return nil, platformerrors.Newf(platformerrors.CodeInvalidConfig, "invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, platformerrors.Newf(platformerrors.CodeInvalidConfig, "invalid healthcheck port %d", cfg.HealthcheckPort)
	}

	return &cfg, nil
}
