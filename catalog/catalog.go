// Package catalog defines configuration options and loads them from catalog
// documents.
//
// A catalog is an ordered list of entries. Each entry names an option, its
// value domain, its default, optional choices and the options it depends on.
// Catalogs can be written as JSON, YAML, Starlark or HCL:
//
//	cat, err := catalog.Load(".conftool.json")
//	g, err := cat.Graph()
//
// The dependency graph is built by inserting entries in catalog order, so an
// entry may depend on one declared further down.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vengaer/conftool/graph"
)

// Catalog is an immutable, ordered set of option entries.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return IsIdentifier(fl.Field().String())
	})
	_ = v.RegisterValidation("kind", func(fl validator.FieldLevel) bool {
		return Kind(fl.Field().Int()).Valid()
	})
	return v
}

// New creates a catalog from entries, preserving their order.
//
// Every entry must have a valid identifier, unique dependencies, a known
// kind and a default inside its own domain. Names must be unique.
func New(entries ...Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}

	for _, e := range entries {
		if err := checkEntry(&e); err != nil {
			return nil, err
		}
		if _, dup := c.index[e.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate option %q", ErrInvalidCatalog, e.Name)
		}

		e.Depends = append([]string(nil), e.Depends...)
		e.Choices = append([]string(nil), e.Choices...)
		c.index[e.Name] = len(c.entries)
		c.entries = append(c.entries, e)
	}

	return c, nil
}

// checkEntry validates a single entry in isolation.
func checkEntry(e *Entry) error {
	if err := validate.Struct(e); err != nil {
		return describeValidation(e.Name, err)
	}
	if err := e.Validate(e.Default); err != nil {
		return fmt.Errorf("%w: default: %w", ErrInvalidCatalog, err)
	}
	for _, choice := range e.Choices {
		if e.Kind == KindSwitch && Switch(choice) != Yes && Switch(choice) != No {
			return fmt.Errorf("%w: option %q: switch choice %q must be y or n", ErrInvalidCatalog, e.Name, choice)
		}
		if e.Kind == KindInteger && !integerRegex.MatchString(choice) {
			return fmt.Errorf("%w: option %q: integer choice %q is not a non-negative integer", ErrInvalidCatalog, e.Name, choice)
		}
	}
	return nil
}

func describeValidation(name string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: option %q: %w", ErrInvalidCatalog, name, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
		case "identifier":
			msgs = append(msgs, fmt.Sprintf("%s %q is not a valid identifier", strings.ToLower(fe.StructField()), fe.Value()))
		case "unique":
			msgs = append(msgs, "dependencies must be unique")
		case "kind":
			msgs = append(msgs, fmt.Sprintf("unknown type %v", fe.Value()))
		default:
			msgs = append(msgs, fe.Error())
		}
	}
	if name == "" {
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: option %q: %s", ErrInvalidCatalog, name, strings.Join(msgs, "; "))
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Lookup returns the entry for name. The returned entry must not be modified.
func (c *Catalog) Lookup(name string) (*Entry, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return &c.entries[i], true
}

// Entries returns all entries in catalog order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Names returns all option identifiers in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i := range c.entries {
		names[i] = c.entries[i].Name
	}
	return names
}

// Graph builds and seals the dependency graph of the catalog.
// Entries are inserted in catalog order; forward references are allowed.
func (c *Catalog) Graph() (*graph.Graph, error) {
	b := graph.NewBuilder()
	for i := range c.entries {
		if err := b.Insert(c.entries[i].Name, c.entries[i].Depends...); err != nil {
			return nil, fmt.Errorf("build dependency graph: %w", err)
		}
	}
	g, err := b.Seal()
	if err != nil {
		return nil, fmt.Errorf("build dependency graph: %w", err)
	}
	return g, nil
}
