// Package conftool manages a flat "KEY = value" configuration file against a
// catalog of options that may depend on one another.
//
// # Overview
//
// The module is split into small packages, tied together by Tool:
//
//   - catalog: loads option definitions from JSON, YAML, Starlark or HCL
//   - graph: the sealed dependency graph between options
//   - cascade: computes the changes implied by enabling, disabling or setting an option
//   - validate: checks a configuration file for syntax, domain and dependency errors
//   - generate: derives the default configuration from the catalog
//   - kv: the ordered key-value set and its file format
//
// # Quick Start
//
//	tool, err := conftool.Open(".conftool.json")
//	if err != nil {
//	    return err
//	}
//
//	// Enable TLS and everything it depends on.
//	diff, err := tool.Enable("TLS")
//
//	// Preview a change without touching the file.
//	preview, _ := conftool.Open(".conftool.json", conftool.WithDryRun(true))
//	diff, err = preview.Set("HTTP_PORT", "8443")
//
// # Thread Safety
//
// A Tool is safe for concurrent reads. Mutations read the whole configuration
// file, compute the new state and rewrite the file; concurrent mutations of
// the same file must be serialized by the caller.
package conftool

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/vengaer/conftool/cascade"
	"github.com/vengaer/conftool/catalog"
	"github.com/vengaer/conftool/generate"
	"github.com/vengaer/conftool/graph"
	"github.com/vengaer/conftool/kv"
	"github.com/vengaer/conftool/validate"
)

// Tool operates on one configuration file using one catalog.
type Tool struct {
	cfg       *toolConfig
	logger    *slog.Logger
	catalog   *catalog.Catalog
	graph     *graph.Graph
	planner   *cascade.Planner
	validator *validate.Validator
}

// Open loads the catalog at catalogPath and builds its dependency graph.
func Open(catalogPath string, opts ...Option) (*Tool, error) {
	cfg, err := newToolConfig(opts...)
	if err != nil {
		return nil, err
	}

	var cat *catalog.Catalog
	if cfg.format != "" {
		data, rerr := os.ReadFile(catalogPath)
		if rerr != nil {
			return nil, fmt.Errorf("read catalog: %w", rerr)
		}
		cat, err = catalog.Parse(cfg.format, catalogPath, data)
	} else {
		cat, err = catalog.Load(catalogPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	cfg.log().Debug("loaded catalog", "path", catalogPath, "options", cat.Len())
	return newTool(cat, cfg)
}

// New creates a Tool over an already loaded catalog.
func New(cat *catalog.Catalog, opts ...Option) (*Tool, error) {
	cfg, err := newToolConfig(opts...)
	if err != nil {
		return nil, err
	}
	return newTool(cat, cfg)
}

func newTool(cat *catalog.Catalog, cfg *toolConfig) (*Tool, error) {
	g, err := cat.Graph()
	if err != nil {
		return nil, err
	}

	logger := cfg.log()
	return &Tool{
		cfg:       cfg,
		logger:    logger,
		catalog:   cat,
		graph:     g,
		planner:   cascade.New(cat, g, cascade.WithLogger(logger)),
		validator: validate.New(cat, g, validate.WithLogger(logger)),
	}, nil
}

// Catalog returns the loaded catalog.
func (t *Tool) Catalog() *catalog.Catalog {
	return t.catalog
}

// Graph returns the sealed dependency graph.
func (t *Tool) Graph() *graph.Graph {
	return t.graph
}

// ConfigPath returns the configuration file the tool operates on.
func (t *Tool) ConfigPath() string {
	return t.cfg.configPath
}

// DryRun reports whether mutations skip writing the configuration file.
func (t *Tool) DryRun() bool {
	return t.cfg.dryRun
}

// Show returns the catalog entry for option.
func (t *Tool) Show(option string) (*catalog.Entry, error) {
	e, ok := t.catalog.Lookup(option)
	if !ok {
		return nil, unknownOption(option)
	}
	return e, nil
}

// Dependencies returns every option that option transitively requires,
// nearest first.
func (t *Tool) Dependencies(option string) ([]string, error) {
	deps, err := t.graph.DependenciesOf(option)
	if err != nil {
		return nil, unknownOption(option)
	}
	return deps, nil
}

// Dependents returns every option that transitively requires option,
// nearest first.
func (t *Tool) Dependents(option string) ([]string, error) {
	deps, err := t.graph.DependentVertices(option)
	if err != nil {
		return nil, unknownOption(option)
	}
	return deps, nil
}

// Config reads and parses the configuration file. A missing file reads as
// an empty configuration.
func (t *Tool) Config() (*kv.Set, error) {
	return kv.ReadFile(t.cfg.configPath)
}

// Validate checks the configuration file. The returned error reports only
// failures to read the file; violations are described by the result.
func (t *Tool) Validate() (*validate.Result, error) {
	lines, err := kv.ReadLines(t.cfg.configPath)
	if err != nil {
		return nil, err
	}
	return t.validator.Validate(lines), nil
}

// Enable turns on a switch option and all of its dependencies.
func (t *Tool) Enable(option string) (*kv.Diff, error) {
	return t.mutate("enable", option, t.planner.Enable)
}

// Disable turns off a switch option and all of its dependents.
func (t *Tool) Disable(option string) (*kv.Diff, error) {
	return t.mutate("disable", option, t.planner.Disable)
}

// Set assigns value to option and cascades the change.
func (t *Tool) Set(option, value string) (*kv.Diff, error) {
	return t.mutate("set", option, func(option string, set *kv.Set) (*kv.Set, error) {
		return t.planner.SetValue(option, value, set)
	})
}

// Defconfig replaces the configuration with the catalog defaults. The
// existing file is only read to compute the diff, so a malformed file is
// not an error.
func (t *Tool) Defconfig() (*kv.Diff, error) {
	lines, err := kv.ReadLines(t.cfg.configPath)
	if err != nil {
		return nil, err
	}
	updated, err := generate.Defconfig(t.catalog, t.graph, generate.WithLogger(t.logger))
	if err != nil {
		return nil, err
	}
	return t.commit("defconfig", "", kv.ParseLenient(lines), updated)
}

// mutate applies one planner step to the configuration file.
func (t *Tool) mutate(action, option string, step func(string, *kv.Set) (*kv.Set, error)) (*kv.Diff, error) {
	old, err := kv.ReadFile(t.cfg.configPath)
	if err != nil {
		return nil, err
	}
	updated, err := step(option, old)
	if err != nil {
		return nil, err
	}
	return t.commit(action, option, old, updated)
}

// commit writes updated back unless the tool is in dry-run mode.
func (t *Tool) commit(action, option string, old, updated *kv.Set) (*kv.Diff, error) {
	diff := kv.Compare(old, updated)
	t.logger.Info("computed changes", "action", action, "option", option, "changes", diff.TotalChanges())
	if t.cfg.dryRun {
		return diff, nil
	}

	path := t.cfg.configPath
	if err := updated.WriteFile(path); err != nil {
		return nil, err
	}
	t.logger.Debug("wrote config", "path", path, "options", updated.Len())
	return diff, nil
}
