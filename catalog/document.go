package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// maxExactFloat is the largest magnitude below which every integral float64
// is exact.
const maxExactFloat = 1 << 53

// document is the format-neutral shape every loader decodes into.
type document struct {
	Entries []entryDocument `json:"entries" yaml:"entries"`
}

// entryDocument is one catalog entry as written in a document. Default and
// choices keep the decoded representation of the source format until the
// entry type is known.
type entryDocument struct {
	Name      string   `json:"name" yaml:"name"`
	Depends   []string `json:"depends" yaml:"depends"`
	EntryType string   `json:"entrytype" yaml:"entrytype"`
	Default   any      `json:"default" yaml:"default"`
	Choices   []any    `json:"choices,omitempty" yaml:"choices,omitempty"`
	Help      string   `json:"help" yaml:"help"`

	pos Position
}

// build converts decoded entries into a catalog.
func (d *document) build() (*Catalog, error) {
	entries := make([]Entry, 0, len(d.Entries))
	for _, doc := range d.Entries {
		e, err := doc.entry()
		if err == nil {
			err = checkEntry(&e)
		}
		if err != nil {
			return nil, &ParseError{Pos: doc.pos, Message: err.Error(), Wrapped: err}
		}
		entries = append(entries, e)
	}
	return New(entries...)
}

func (d *entryDocument) entry() (Entry, error) {
	kind, err := ParseKind(d.EntryType)
	if err != nil {
		return Entry{}, fmt.Errorf("option %q: %w", d.Name, err)
	}

	def, err := textValue(kind, d.Default)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: option %q: default: %w", ErrInvalidCatalog, d.Name, err)
	}

	var choices []string
	for _, c := range d.Choices {
		s, err := textValue(kind, c)
		if err != nil {
			return Entry{}, fmt.Errorf("%w: option %q: choice: %w", ErrInvalidCatalog, d.Name, err)
		}
		choices = append(choices, s)
	}

	return Entry{
		Name:    d.Name,
		Depends: d.Depends,
		Kind:    kind,
		Default: def,
		Choices: choices,
		Help:    d.Help,
	}, nil
}

// textValue converts a decoded scalar into the textual value form of kind.
// Switches accept "y"/"n" or booleans; integers accept integral numbers or
// digit strings.
func textValue(kind Kind, v any) (string, error) {
	if v == nil {
		return "", fmt.Errorf("missing value")
	}

	switch kind {
	case KindSwitch:
		switch x := v.(type) {
		case bool:
			if x {
				return string(Yes), nil
			}
			return string(No), nil
		case string:
			return x, nil
		}
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindInteger:
		switch x := v.(type) {
		case int:
			return strconv.Itoa(x), nil
		case int64:
			return strconv.FormatInt(x, 10), nil
		case uint64:
			return strconv.FormatUint(x, 10), nil
		case float64:
			if x != math.Trunc(x) || math.IsInf(x, 0) {
				return "", fmt.Errorf("%v is not an integer", x)
			}
			if math.Abs(x) > maxExactFloat {
				return "", fmt.Errorf("%v is out of range for an integer", x)
			}
			return strconv.FormatInt(int64(x), 10), nil
		case json.Number:
			i, err := x.Int64()
			if err != nil {
				return "", fmt.Errorf("%s is not an integer in range", x)
			}
			return strconv.FormatInt(i, 10), nil
		case string:
			return x, nil
		}
	}
	return "", fmt.Errorf("%v (%T) is not a valid %s value", v, v, kind)
}
