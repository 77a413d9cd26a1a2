// Package cascade computes the configuration changes implied by enabling,
// disabling or setting a single option.
//
// Every operation takes the current configuration and returns a new one;
// the input set is never modified. A failed operation returns the error
// and no set.
package cascade

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vengaer/conftool/catalog"
	"github.com/vengaer/conftool/graph"
	"github.com/vengaer/conftool/kv"
)

var (
	// ErrInvalidOption indicates the option is not part of the catalog.
	ErrInvalidOption = errors.New("invalid config option")

	// ErrNotASwitch indicates a switch-only operation on a non-switch option.
	ErrNotASwitch = errors.New("not a switch option")

	// ErrInvalidValue indicates a value outside the option's domain.
	ErrInvalidValue = catalog.ErrInvalidValue
)

// OptionError ties a cascade failure to the option that triggered it.
type OptionError struct {
	Option string
	Err    error
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Option, e.Err)
}

func (e *OptionError) Unwrap() error {
	return e.Err
}

// Planner computes cascades over a catalog and its sealed dependency graph.
// It holds no mutable state and is safe for concurrent use.
type Planner struct {
	catalog *catalog.Catalog
	graph   *graph.Graph
	logger  *slog.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets a structured logger for cascade diagnostics.
// If not set, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a planner. g must be the graph built from cat.
func New(cat *catalog.Catalog, g *graph.Graph, opts ...Option) *Planner {
	p := &Planner{
		catalog: cat,
		graph:   g,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// EnableDependencies forces every transitive dependency of option to "y".
// Dependencies already present are updated in place; missing ones are
// appended. No key is ever removed.
func (p *Planner) EnableDependencies(option string, set *kv.Set) (*kv.Set, error) {
	deps, err := p.graph.DependenciesOf(option)
	if err != nil {
		return nil, &OptionError{Option: option, Err: ErrInvalidOption}
	}

	out := set.Clone()
	for _, dep := range deps {
		if e, ok := p.catalog.Lookup(dep); ok && !e.IsSwitch() {
			p.logger.Warn("forcing non-switch dependency to y", "option", option, "dependency", dep, "type", e.Kind)
		}
		out.Set(dep, string(catalog.Yes))
	}

	p.logger.Debug("enabled dependencies", "option", option, "dependencies", deps)
	return out, nil
}

// DisableDependents turns off every transitive dependent of option.
// Switch dependents are forced to "n" (appended when absent) and
// non-switch dependents are removed.
func (p *Planner) DisableDependents(option string, set *kv.Set) (*kv.Set, error) {
	dependents, err := p.graph.DependentVertices(option)
	if err != nil {
		return nil, &OptionError{Option: option, Err: ErrInvalidOption}
	}

	out := set.Clone()
	for _, dep := range dependents {
		if e, ok := p.catalog.Lookup(dep); ok && !e.IsSwitch() {
			out.Delete(dep)
			continue
		}
		out.Set(dep, string(catalog.No))
	}

	p.logger.Debug("disabled dependents", "option", option, "dependents", dependents)
	return out, nil
}

// SetSwitch sets a switch option to the desired state. It is idempotent.
func (p *Planner) SetSwitch(option string, desired catalog.Switch, set *kv.Set) (*kv.Set, error) {
	if _, err := p.switchEntry(option); err != nil {
		return nil, err
	}

	out := set.Clone()
	out.Set(option, string(desired))
	return out, nil
}

// SetValue assigns a raw value to option after validating it against the
// option's domain. Setting a switch to "n" disables its dependents; any
// other assignment enables its dependencies.
func (p *Planner) SetValue(option, raw string, set *kv.Set) (*kv.Set, error) {
	entry, ok := p.catalog.Lookup(option)
	if !ok {
		return nil, &OptionError{Option: option, Err: ErrInvalidOption}
	}

	value := strings.TrimSpace(raw)
	if err := entry.Validate(value); err != nil {
		return nil, err
	}

	var (
		out *kv.Set
		err error
	)
	if entry.IsSwitch() && catalog.Switch(value) == catalog.No {
		out, err = p.DisableDependents(option, set)
	} else {
		out, err = p.EnableDependencies(option, set)
	}
	if err != nil {
		return nil, err
	}

	out.Set(option, value)
	p.logger.Debug("set value", "option", option, "value", value)
	return out, nil
}

// Enable turns on a switch option together with all of its dependencies.
func (p *Planner) Enable(option string, set *kv.Set) (*kv.Set, error) {
	if _, err := p.switchEntry(option); err != nil {
		return nil, err
	}
	out, err := p.EnableDependencies(option, set)
	if err != nil {
		return nil, err
	}
	return p.SetSwitch(option, catalog.Yes, out)
}

// Disable turns off a switch option together with all of its dependents.
func (p *Planner) Disable(option string, set *kv.Set) (*kv.Set, error) {
	out, err := p.SetSwitch(option, catalog.No, set)
	if err != nil {
		return nil, err
	}
	return p.DisableDependents(option, out)
}

func (p *Planner) switchEntry(option string) (*catalog.Entry, error) {
	entry, ok := p.catalog.Lookup(option)
	if !ok {
		return nil, &OptionError{Option: option, Err: ErrInvalidOption}
	}
	if !entry.IsSwitch() {
		return nil, &OptionError{Option: option, Err: ErrNotASwitch}
	}
	return entry, nil
}
