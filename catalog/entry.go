package catalog

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Kind is the value domain of an option.
type Kind int

const (
	// KindSwitch options hold "y" or "n".
	KindSwitch Kind = iota
	// KindString options hold arbitrary text.
	KindString
	// KindInteger options hold a non-negative decimal integer.
	KindInteger
)

var kindNames = [...]string{
	KindSwitch:  "switch",
	KindString:  "string",
	KindInteger: "integer",
}

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k >= KindSwitch && k <= KindInteger
}

// ParseKind converts a kind name ("switch", "string", "integer") to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown type %q", ErrInvalidCatalog, s)
}

// Switch is the value of a switch option.
type Switch string

const (
	Yes Switch = "y"
	No  Switch = "n"
)

var (
	identifierRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	integerRegex    = regexp.MustCompile(`^[0-9]+$`)
)

// IsIdentifier reports whether s is a valid option identifier.
func IsIdentifier(s string) bool {
	return identifierRegex.MatchString(s)
}

// Entry describes a single configuration option.
type Entry struct {
	// Name is the unique option identifier.
	Name string `validate:"required,identifier"`

	// Depends lists the options this one requires, in declaration order.
	Depends []string `validate:"unique,dive,identifier"`

	// Kind is the value domain.
	Kind Kind `validate:"kind"`

	// Default is the default value in its textual form: "y" or "n" for
	// switches, the text for strings, decimal digits for integers.
	Default string

	// Choices optionally restricts the accepted values.
	Choices []string

	// Help is a human-readable description.
	Help string
}

// IsSwitch reports whether the option is a switch.
func (e *Entry) IsSwitch() bool {
	return e.Kind == KindSwitch
}

// EnabledByDefault reports whether the option is a switch defaulting to "y".
func (e *Entry) EnabledByDefault() bool {
	return e.IsSwitch() && Switch(e.Default) == Yes
}

// Validate checks a raw value against the option's domain.
// The value is expected to be trimmed already.
func (e *Entry) Validate(value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return &ValueError{Option: e.Name, Value: value, Reason: "must be a single line"}
	}

	switch e.Kind {
	case KindSwitch:
		if Switch(value) != Yes && Switch(value) != No {
			return &ValueError{Option: e.Name, Value: value, Reason: "switch value must be y or n"}
		}
	case KindInteger:
		if !integerRegex.MatchString(value) {
			return &ValueError{Option: e.Name, Value: value, Reason: "not a non-negative integer"}
		}
	}

	if len(e.Choices) > 0 && !slices.Contains(e.Choices, value) {
		return &ValueError{
			Option: e.Name,
			Value:  value,
			Reason: fmt.Sprintf("must be one of %s", strings.Join(e.Choices, ", ")),
		}
	}
	return nil
}

// String renders the entry the way `list --show` prints it.
func (e *Entry) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s:\n", e.Name)
	fmt.Fprintf(&b, "  depends: [%s]\n", strings.Join(e.Depends, ", "))
	fmt.Fprintf(&b, "  type: %s\n", e.Kind)

	var choices string
	switch {
	case len(e.Choices) > 0:
		choices = "[" + strings.Join(e.Choices, ", ") + "]"
	case e.IsSwitch():
		choices = "y, n"
	default:
		choices = "Any " + e.Kind.String()
	}
	fmt.Fprintf(&b, "  choices: %s\n", choices)
	fmt.Fprintf(&b, "  default: %s\n", e.Default)
	fmt.Fprintf(&b, "  help: %s", e.Help)

	return b.String()
}
