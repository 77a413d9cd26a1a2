package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors reported by the graph engine.
var (
	// ErrDuplicateNode indicates an identifier was inserted twice.
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrSelfDependency indicates a node lists itself as a dependency.
	ErrSelfDependency = errors.New("node depends on itself")

	// ErrDuplicateDependency indicates a node lists the same dependency twice.
	ErrDuplicateDependency = errors.New("duplicate dependency")

	// ErrIncompleteGraph indicates dependencies were declared but never inserted.
	ErrIncompleteGraph = errors.New("incomplete graph")

	// ErrCycle indicates the dependencies form at least one cycle.
	ErrCycle = errors.New("dependency cycle")

	// ErrUnknownNode indicates a query named an identifier that is not in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrSealed indicates the builder was already sealed.
	ErrSealed = errors.New("builder already sealed")
)

// InsertError describes a rejected insertion.
type InsertError struct {
	ID         string
	Dependency string // offending dependency, empty for ErrDuplicateNode
	Err        error
}

func (e *InsertError) Error() string {
	if e.Dependency == "" {
		return fmt.Sprintf("insert %q: %v", e.ID, e.Err)
	}
	return fmt.Sprintf("insert %q: %v %q", e.ID, e.Err, e.Dependency)
}

func (e *InsertError) Unwrap() error {
	return e.Err
}

// Unresolved is a dependency that no inserted node satisfies.
type Unresolved struct {
	// Name is the missing identifier.
	Name string

	// ReferencedBy lists the nodes declaring the dependency, in insertion order.
	ReferencedBy []string
}

// IncompleteError is returned by Seal when outstanding links remain.
type IncompleteError struct {
	Missing []Unresolved
}

func (e *IncompleteError) Error() string {
	parts := make([]string, 0, len(e.Missing))
	for _, m := range e.Missing {
		parts = append(parts, fmt.Sprintf("%q (required by %s)", m.Name, strings.Join(m.ReferencedBy, ", ")))
	}
	return fmt.Sprintf("%v: missing %s", ErrIncompleteGraph, strings.Join(parts, "; "))
}

func (e *IncompleteError) Unwrap() error {
	return ErrIncompleteGraph
}

// CycleError is returned by Seal when the dependencies are not acyclic.
// Each cycle lists its members in insertion order.
type CycleError struct {
	Cycles [][]string
}

func (e *CycleError) Error() string {
	parts := make([]string, 0, len(e.Cycles))
	for _, c := range e.Cycles {
		parts = append(parts, strings.Join(c, " <-> "))
	}
	return fmt.Sprintf("%v: %s", ErrCycle, strings.Join(parts, "; "))
}

func (e *CycleError) Unwrap() error {
	return ErrCycle
}

// UnknownNodeError is returned by queries naming an absent identifier.
type UnknownNodeError struct {
	ID string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("%v %q", ErrUnknownNode, e.ID)
}

func (e *UnknownNodeError) Unwrap() error {
	return ErrUnknownNode
}
