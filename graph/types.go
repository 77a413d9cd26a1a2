package graph

import (
	dgraph "github.com/dominikbraun/graph"
)

// unresolvedIndex marks a parent link that names a node not yet inserted.
const unresolvedIndex = -1

// link is a parent reference held by a node while the graph is being built.
type link struct {
	name  string
	index int // arena index, or unresolvedIndex while outstanding
}

// node is an arena entry. Parents keep declaration order; children are
// appended in the order their links were resolved.
type node struct {
	id       string
	parents  []link
	children []int
}

// pendingRef locates an outstanding link: the owning node and the slot in
// its parent list.
type pendingRef struct {
	node int
	slot int
}

// Graph is a sealed, immutable option dependency graph.
// It supports bidirectional traversal (dependencies and dependents) and is
// safe for concurrent use by multiple readers.
type Graph struct {
	ids      []string
	index    map[string]int
	parents  [][]int
	children [][]int

	// mirror holds the same topology for ordering and rendering.
	// Edges point from a dependent to its dependency.
	mirror dgraph.Graph[string, string]
}

// Stats provides statistics about the graph.
type Stats struct {
	// Nodes is the total number of options in the graph.
	Nodes int `json:"nodes"`

	// Edges is the number of depends-on relations.
	Edges int `json:"edges"`

	// Roots is the number of options nothing depends on.
	Roots int `json:"roots"`

	// Leaves is the number of options without dependencies.
	Leaves int `json:"leaves"`

	// MaxDepth is the length of the longest dependency chain.
	MaxDepth int `json:"max_depth"`
}
