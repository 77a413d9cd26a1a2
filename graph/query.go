package graph

import (
	"fmt"

	dgraph "github.com/dominikbraun/graph"
)

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.ids)
}

// Contains returns true if the graph contains the given identifier.
func (g *Graph) Contains(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Nodes returns all identifiers in insertion order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.ids...)
}

// DirectDependencies returns the declared dependencies of id, in declaration order.
func (g *Graph) DirectDependencies(id string) ([]string, error) {
	i, err := g.lookup(id)
	if err != nil {
		return nil, err
	}
	return g.names(g.parents[i]), nil
}

// DirectDependents returns the nodes that declare id as a dependency.
func (g *Graph) DirectDependents(id string) ([]string, error) {
	i, err := g.lookup(id)
	if err != nil {
		return nil, err
	}
	return g.names(g.children[i]), nil
}

// DependenciesOf returns every node id transitively depends on.
// The result is in breadth-first order (direct dependencies first, in
// declaration order) and never contains id itself.
func (g *Graph) DependenciesOf(id string) ([]string, error) {
	i, err := g.lookup(id)
	if err != nil {
		return nil, err
	}
	return g.walk(i, g.parents), nil
}

// DependentVertices returns every node that transitively depends on id.
// The result is in breadth-first order (closest dependents first).
func (g *Graph) DependentVertices(id string) ([]string, error) {
	i, err := g.lookup(id)
	if err != nil {
		return nil, err
	}
	return g.walk(i, g.children), nil
}

// walk performs a breadth-first traversal from start along edges.
func (g *Graph) walk(start int, edges [][]int) []string {
	result := make([]string, 0)
	visited := make([]bool, len(g.ids))

	queue := []int{start}
	visited[start] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range edges[current] {
			if !visited[next] {
				visited[next] = true
				result = append(result, g.ids[next])
				queue = append(queue, next)
			}
		}
	}

	return result
}

// Path finds the shortest dependency chain from one node to another.
// Returns nil if from does not depend on to.
func (g *Graph) Path(from, to string) ([]string, error) {
	start, err := g.lookup(from)
	if err != nil {
		return nil, err
	}
	target, err := g.lookup(to)
	if err != nil {
		return nil, err
	}
	if start == target {
		return []string{from}, nil
	}

	prev := make([]int, len(g.ids))
	for i := range prev {
		prev[i] = unresolvedIndex
	}
	visited := make([]bool, len(g.ids))
	queue := []int{start}
	visited[start] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, dep := range g.parents[current] {
			if visited[dep] {
				continue
			}
			visited[dep] = true
			prev[dep] = current
			if dep == target {
				return g.trace(prev, start, target), nil
			}
			queue = append(queue, dep)
		}
	}

	return nil, nil
}

func (g *Graph) trace(prev []int, start, target int) []string {
	var reversed []int
	for at := target; at != start; at = prev[at] {
		reversed = append(reversed, at)
	}
	reversed = append(reversed, start)

	path := make([]string, len(reversed))
	for i, idx := range reversed {
		path[len(reversed)-1-i] = g.ids[idx]
	}
	return path
}

// Roots returns the nodes nothing depends on, in insertion order.
func (g *Graph) Roots() []string {
	var roots []string
	for i, id := range g.ids {
		if len(g.children[i]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// Leaves returns the nodes without dependencies, in insertion order.
func (g *Graph) Leaves() []string {
	var leaves []string
	for i, id := range g.ids {
		if len(g.parents[i]) == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// Stats returns statistics about the graph.
func (g *Graph) Stats() Stats {
	stats := Stats{
		Nodes:  len(g.ids),
		Roots:  len(g.Roots()),
		Leaves: len(g.Leaves()),
	}
	for _, p := range g.parents {
		stats.Edges += len(p)
	}
	stats.MaxDepth = g.maxDepth()
	return stats
}

// maxDepth computes the longest dependency chain with memoized DFS.
// The graph is acyclic once sealed, so no path tracking is needed.
func (g *Graph) maxDepth() int {
	depths := make([]int, len(g.ids))
	done := make([]bool, len(g.ids))

	var depth func(i int) int
	depth = func(i int) int {
		if done[i] {
			return depths[i]
		}
		best := 0
		for _, dep := range g.parents[i] {
			if d := depth(dep) + 1; d > best {
				best = d
			}
		}
		depths[i] = best
		done[i] = true
		return best
	}

	var maxDepth int
	for i := range g.ids {
		if d := depth(i); d > maxDepth {
			maxDepth = d
		}
	}
	return maxDepth
}

// TopologicalOrder returns every node such that each node precedes all of
// its dependencies. Ties are broken by insertion order.
func (g *Graph) TopologicalOrder() ([]string, error) {
	order, err := dgraph.StableTopologicalSort(g.mirror, func(a, b string) bool {
		return g.index[a] < g.index[b]
	})
	if err != nil {
		return nil, fmt.Errorf("topological order: %w", err)
	}
	return order, nil
}

func (g *Graph) lookup(id string) (int, error) {
	i, ok := g.index[id]
	if !ok {
		return 0, &UnknownNodeError{ID: id}
	}
	return i, nil
}

func (g *Graph) names(indexes []int) []string {
	result := make([]string, len(indexes))
	for i, idx := range indexes {
		result[i] = g.ids[idx]
	}
	return result
}
