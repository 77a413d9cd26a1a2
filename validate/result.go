package validate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig indicates a configuration that failed validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// LineError is a line that is neither blank nor a "KEY = value" assignment.
type LineError struct {
	Line int    `json:"line"` // 1-based
	Text string `json:"text"`
}

func (e LineError) String() string {
	return fmt.Sprintf("syntax error on line %d: %s", e.Line, e.Text)
}

// UnknownOption is a key that does not name a catalog option.
type UnknownOption struct {
	Option string `json:"option"`
	Value  string `json:"value"`
}

func (u UnknownOption) String() string {
	return fmt.Sprintf("unknown option %s", u.Option)
}

// InvalidValue is a value outside its option's domain.
type InvalidValue struct {
	Option string `json:"option"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

func (iv InvalidValue) String() string {
	return fmt.Sprintf("invalid value %q for %s: %s", iv.Value, iv.Option, iv.Reason)
}

// MissingReason tells why a dependency is unsatisfied.
type MissingReason int

const (
	// NotListed means the dependency does not appear in the config.
	NotListed MissingReason = iota
	// NotSet means the dependency appears with a value other than "y".
	NotSet
)

func (r MissingReason) String() string {
	if r == NotSet {
		return "not set"
	}
	return "not listed"
}

// MarshalText implements encoding.TextMarshaler.
func (r MissingReason) MarshalText() ([]byte, error) {
	return []byte(strings.ReplaceAll(r.String(), " ", "_")), nil
}

// Missing is an unsatisfied dependency together with every active option
// that requires it, in the order they appear in the config.
type Missing struct {
	Option     string        `json:"option"`
	Reason     MissingReason `json:"reason"`
	Value      string        `json:"value,omitempty"` // set when Reason is NotSet
	RequiredBy []string      `json:"required_by"`
}

func (m Missing) String() string {
	by := strings.Join(m.RequiredBy, ", ")
	if m.Reason == NotSet {
		return fmt.Sprintf("%s is set to %q, required by %s", m.Option, m.Value, by)
	}
	return fmt.Sprintf("%s is not listed, required by %s", m.Option, by)
}

// Result collects every violation found in a configuration.
type Result struct {
	LineErrors     []LineError     `json:"line_errors,omitempty"`
	UnknownOptions []UnknownOption `json:"unknown_options,omitempty"`
	InvalidValues  []InvalidValue  `json:"invalid_values,omitempty"`
	Missing        []Missing       `json:"missing,omitempty"`
}

// Valid reports whether no violation was found.
func (r *Result) Valid() bool {
	return len(r.LineErrors) == 0 &&
		len(r.UnknownOptions) == 0 &&
		len(r.InvalidValues) == 0 &&
		len(r.Missing) == 0
}

// Messages returns one human-readable line per violation, grouped by check.
func (r *Result) Messages() []string {
	var msgs []string
	for _, e := range r.LineErrors {
		msgs = append(msgs, e.String())
	}
	for _, u := range r.UnknownOptions {
		msgs = append(msgs, u.String())
	}
	for _, iv := range r.InvalidValues {
		msgs = append(msgs, iv.String())
	}
	for _, m := range r.Missing {
		msgs = append(msgs, m.String())
	}
	return msgs
}

// Err returns nil for a valid result and an *Error otherwise.
func (r *Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &Error{
		Lines:   len(r.LineErrors),
		Unknown: len(r.UnknownOptions),
		Invalid: len(r.InvalidValues),
		Missing: len(r.Missing),
	}
}

// Error summarises a failed validation.
type Error struct {
	Lines   int
	Unknown int
	Invalid int
	Missing int
}

func (e *Error) Error() string {
	var parts []string
	add := func(n int, what string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, what))
		}
	}
	add(e.Lines, "syntax error(s)")
	add(e.Unknown, "unknown option(s)")
	add(e.Invalid, "invalid value(s)")
	add(e.Missing, "unsatisfied dependency(ies)")
	return fmt.Sprintf("%v: %s", ErrInvalidConfig, strings.Join(parts, ", "))
}

func (e *Error) Unwrap() error {
	return ErrInvalidConfig
}
