package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors for catalog failures.
var (
	// ErrInvalidCatalog indicates the catalog document is structurally invalid.
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrInvalidValue indicates a value outside an option's domain.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnsupportedFormat indicates the catalog file extension is not recognized.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
)

// ValueError describes a value rejected by an option's domain.
type ValueError struct {
	Option string
	Value  string
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %s", e.Value, e.Option, e.Reason)
}

func (e *ValueError) Unwrap() error {
	return ErrInvalidValue
}

// Position identifies a location in a catalog source file.
type Position struct {
	Filename string
	Line     int
	Column   int
}

// ParseError represents a catalog parsing error with position information.
type ParseError struct {
	Pos     Position
	Message string
	Wrapped error
}

func (e *ParseError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename, e.Pos.Line, e.Pos.Column, e.Message)
	}
	if e.Pos.Filename != "" {
		return fmt.Sprintf("%s: %s", e.Pos.Filename, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Wrapped
}

// Is reports every ParseError as an ErrInvalidCatalog.
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidCatalog
}
