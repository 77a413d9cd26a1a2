// Package validate checks a persisted configuration against a catalog.
//
// Validation runs three independent batch checks and collects every
// violation instead of stopping at the first one:
//
//   - line format: every non-blank line is a "KEY = value" assignment
//   - values: every key is a known option and its value is in the option's domain
//   - dependencies: every active option has all of its transitive
//     dependencies listed and set to "y"
package validate

import (
	"errors"
	"log/slog"
	"regexp"

	"github.com/vengaer/conftool/catalog"
	"github.com/vengaer/conftool/graph"
	"github.com/vengaer/conftool/kv"
)

// lineRegex matches a blank line or a single assignment.
var lineRegex = regexp.MustCompile(`^\s*([A-Za-z0-9_-]+\s*=.*)?$`)

// Validator checks configurations against a catalog and its graph.
// It is safe for concurrent use.
type Validator struct {
	catalog *catalog.Catalog
	graph   *graph.Graph
	logger  *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets a structured logger. If not set, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// New creates a validator. g must be the graph built from cat.
func New(cat *catalog.Catalog, g *graph.Graph, opts ...Option) *Validator {
	v := &Validator{
		catalog: cat,
		graph:   g,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs all checks over the raw lines of a config file.
// Malformed lines are reported and skipped; the remaining lines still go
// through the value and dependency checks.
func (v *Validator) Validate(lines []string) *Result {
	r := &Result{LineErrors: CheckLines(lines)}

	wellFormed := make([]string, 0, len(lines))
	for _, line := range lines {
		if lineRegex.MatchString(line) {
			wellFormed = append(wellFormed, line)
		}
	}
	set := kv.ParseLenient(wellFormed)

	r.UnknownOptions, r.InvalidValues = v.CheckValues(set)
	r.Missing = v.CheckDependencies(set)

	v.logger.Debug("validated config",
		"lines", len(lines),
		"options", set.Len(),
		"valid", r.Valid())
	return r
}

// CheckLines reports every line that is neither blank nor an assignment.
func CheckLines(lines []string) []LineError {
	var errs []LineError
	for i, line := range lines {
		if !lineRegex.MatchString(line) {
			errs = append(errs, LineError{Line: i + 1, Text: line})
		}
	}
	return errs
}

// CheckValues reports keys missing from the catalog and values outside
// their option's domain.
func (v *Validator) CheckValues(set *kv.Set) ([]UnknownOption, []InvalidValue) {
	var (
		unknown []UnknownOption
		invalid []InvalidValue
	)
	for _, p := range set.Pairs() {
		entry, ok := v.catalog.Lookup(p.Key)
		if !ok {
			unknown = append(unknown, UnknownOption{Option: p.Key, Value: p.Value})
			continue
		}
		if err := entry.Validate(p.Value); err != nil {
			reason := err.Error()
			var verr *catalog.ValueError
			if errors.As(err, &verr) {
				reason = verr.Reason
			}
			invalid = append(invalid, InvalidValue{Option: p.Key, Value: p.Value, Reason: reason})
		}
	}
	return unknown, invalid
}

// CheckDependencies reports the dependencies of active options that are
// absent or not set to "y". An option is active when it is known to the
// catalog and is not a switch set to "n".
func (v *Validator) CheckDependencies(set *kv.Set) []Missing {
	var (
		missing []Missing
		index   = make(map[string]int)
	)
	for _, p := range set.Pairs() {
		entry, ok := v.catalog.Lookup(p.Key)
		if !ok || (entry.IsSwitch() && catalog.Switch(p.Value) == catalog.No) {
			continue
		}

		deps, err := v.graph.DependenciesOf(p.Key)
		if err != nil {
			v.logger.Warn("option missing from dependency graph", "option", p.Key)
			continue
		}
		for _, dep := range deps {
			value, present := set.Get(dep)
			if present && catalog.Switch(value) == catalog.Yes {
				continue
			}

			if i, seen := index[dep]; seen {
				missing[i].RequiredBy = append(missing[i].RequiredBy, p.Key)
				continue
			}

			m := Missing{Option: dep, Reason: NotListed, RequiredBy: []string{p.Key}}
			if present {
				m.Reason = NotSet
				m.Value = value
			}
			index[dep] = len(missing)
			missing = append(missing, m)
		}
	}
	return missing
}
