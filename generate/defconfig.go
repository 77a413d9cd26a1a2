// Package generate derives configurations from catalog defaults.
package generate

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/vengaer/conftool/catalog"
	"github.com/vengaer/conftool/graph"
	"github.com/vengaer/conftool/kv"
)

// ErrNonSwitchDependency indicates an option that depends on a non-switch
// option. Such dependencies have no default on/off state to follow.
var ErrNonSwitchDependency = errors.New("dependency on non-switch option")

// DependencyError names the option and the non-switch dependency it has.
type DependencyError struct {
	Option     string
	Dependency string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("option %s depends on non-switch option %s which is not supported", e.Option, e.Dependency)
}

func (e *DependencyError) Unwrap() error {
	return ErrNonSwitchDependency
}

type config struct {
	logger *slog.Logger
}

// Option configures default generation.
type Option func(*config)

// WithLogger sets a structured logger. If not set, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Defconfig returns the default configuration: every option, in catalog
// order, whose transitive dependencies are all switches enabled by
// default, set to its default value.
func Defconfig(cat *catalog.Catalog, g *graph.Graph, opts ...Option) (*kv.Set, error) {
	cfg := &config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(cfg)
	}

	out := kv.New()
	for _, e := range cat.Entries() {
		deps, err := g.DependenciesOf(e.Name)
		if err != nil {
			return nil, fmt.Errorf("dependencies of %s: %w", e.Name, err)
		}
		cfg.logger.Debug("checking dependencies", "option", e.Name, "dependencies", deps)

		include, err := enabledByDefault(cat, e.Name, deps, cfg.logger)
		if err != nil {
			return nil, err
		}
		if !include {
			continue
		}

		cfg.logger.Debug("choosing default", "option", e.Name, "value", e.Default)
		out.Set(e.Name, e.Default)
	}
	return out, nil
}

// enabledByDefault reports whether every dependency is a switch that
// defaults to "y". The first non-switch dependency is an error, even when
// an earlier dependency already disqualified the option.
func enabledByDefault(cat *catalog.Catalog, option string, deps []string, logger *slog.Logger) (bool, error) {
	include := true
	for _, name := range deps {
		dep, ok := cat.Lookup(name)
		if !ok {
			return false, fmt.Errorf("dependency %s of %s: %w", name, option, graph.ErrUnknownNode)
		}
		if !dep.IsSwitch() {
			return false, &DependencyError{Option: option, Dependency: name}
		}
		if include && !dep.EnabledByDefault() {
			logger.Info("skipping option with disabled dependency", "option", option, "dependency", name)
			include = false
		}
	}
	return include, nil
}
