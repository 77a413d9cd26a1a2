package conftool

import (
	"errors"
	"log/slog"

	"github.com/vengaer/conftool/catalog"
)

// DefaultConfigPath is the configuration file used when none is given.
const DefaultConfigPath = ".config"

// Option configures a Tool.
type Option func(*toolConfig) error

// toolConfig holds all Tool configuration.
type toolConfig struct {
	configPath string
	dryRun     bool
	format     catalog.Format

	// logger is the structured logger for debug/info output.
	// If nil, logging is disabled.
	logger *slog.Logger
}

// WithConfigPath sets the configuration file read and written by the tool.
func WithConfigPath(path string) Option {
	return func(c *toolConfig) error {
		if path == "" {
			return errors.New("config path must not be empty")
		}
		c.configPath = path
		return nil
	}
}

// WithDryRun computes mutations without writing the configuration file.
func WithDryRun(dryRun bool) Option {
	return func(c *toolConfig) error {
		c.dryRun = dryRun
		return nil
	}
}

// WithCatalogFormat overrides format detection from the catalog file name.
func WithCatalogFormat(f catalog.Format) Option {
	return func(c *toolConfig) error {
		c.format = f
		return nil
	}
}

// WithLogger sets a structured logger for diagnostics.
// If not set, logging is disabled.
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("component", "conftool")
//	tool, err := conftool.Open(".conftool.json", conftool.WithLogger(logger))
func WithLogger(l *slog.Logger) Option {
	return func(c *toolConfig) error {
		c.logger = l
		return nil
	}
}

// log returns the configured logger, or a no-op logger if none was set.
func (c *toolConfig) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.New(slog.DiscardHandler)
}

// newToolConfig applies the given options over the defaults.
func newToolConfig(opts ...Option) (*toolConfig, error) {
	c := &toolConfig{configPath: DefaultConfigPath}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}
