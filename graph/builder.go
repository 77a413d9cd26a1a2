package graph

import (
	"fmt"
	"sort"

	dgraph "github.com/dominikbraun/graph"
)

// Builder accumulates nodes before the graph is sealed.
//
// Dependencies may name identifiers that have not been inserted yet. Such
// forward references stay outstanding until the named node arrives, at which
// point every link waiting on it is patched. A Builder is not safe for
// concurrent use.
type Builder struct {
	nodes []node
	index map[string]int

	// pending maps a missing identifier to the links waiting on it.
	pending      map[string][]pendingRef
	pendingOrder []string

	sealed bool
}

// NewBuilder creates an empty graph builder.
func NewBuilder() *Builder {
	return &Builder{
		index:   make(map[string]int),
		pending: make(map[string][]pendingRef),
	}
}

// Len returns the number of inserted nodes.
func (b *Builder) Len() int {
	return len(b.nodes)
}

// Insert adds a node with the given direct dependencies.
//
// Dependencies already present become resolved links and the new node is
// registered as their dependent. Absent dependencies are kept as named
// outstanding links. Any earlier node waiting on id is resolved to it.
func (b *Builder) Insert(id string, deps ...string) error {
	if b.sealed {
		return ErrSealed
	}
	if _, ok := b.index[id]; ok {
		return &InsertError{ID: id, Err: ErrDuplicateNode}
	}

	seen := make(map[string]struct{}, len(deps))
	for _, dep := range deps {
		if dep == id {
			return &InsertError{ID: id, Dependency: dep, Err: ErrSelfDependency}
		}
		if _, dup := seen[dep]; dup {
			return &InsertError{ID: id, Dependency: dep, Err: ErrDuplicateDependency}
		}
		seen[dep] = struct{}{}
	}

	idx := len(b.nodes)
	b.nodes = append(b.nodes, node{id: id, parents: make([]link, len(deps))})

	for slot, dep := range deps {
		if p, ok := b.index[dep]; ok {
			b.nodes[idx].parents[slot] = link{name: dep, index: p}
			b.nodes[p].children = append(b.nodes[p].children, idx)
			continue
		}
		b.nodes[idx].parents[slot] = link{name: dep, index: unresolvedIndex}
		if _, waiting := b.pending[dep]; !waiting {
			b.pendingOrder = append(b.pendingOrder, dep)
		}
		b.pending[dep] = append(b.pending[dep], pendingRef{node: idx, slot: slot})
	}

	b.index[id] = idx
	for _, ref := range b.pending[id] {
		b.nodes[ref.node].parents[ref.slot].index = idx
		b.nodes[idx].children = append(b.nodes[idx].children, ref.node)
	}
	delete(b.pending, id)

	return nil
}

// Outstanding returns identifiers referenced as dependencies but not yet
// inserted, in order of first reference.
func (b *Builder) Outstanding() []string {
	result := make([]string, 0, len(b.pending))
	for _, name := range b.pendingOrder {
		if _, ok := b.pending[name]; ok {
			result = append(result, name)
		}
	}
	return result
}

// Seal finalizes the graph.
//
// Sealing fails with an *IncompleteError if any dependency was never
// inserted, and with a *CycleError if the dependencies are not acyclic.
// The builder is spent afterwards regardless of the outcome.
func (b *Builder) Seal() (*Graph, error) {
	if b.sealed {
		return nil, ErrSealed
	}
	b.sealed = true

	if missing := b.Outstanding(); len(missing) > 0 {
		incomplete := &IncompleteError{Missing: make([]Unresolved, 0, len(missing))}
		for _, name := range missing {
			refs := b.pending[name]
			u := Unresolved{Name: name, ReferencedBy: make([]string, 0, len(refs))}
			for _, ref := range refs {
				u.ReferencedBy = append(u.ReferencedBy, b.nodes[ref.node].id)
			}
			incomplete.Missing = append(incomplete.Missing, u)
		}
		return nil, incomplete
	}

	g := &Graph{
		ids:      make([]string, len(b.nodes)),
		index:    make(map[string]int, len(b.nodes)),
		parents:  make([][]int, len(b.nodes)),
		children: make([][]int, len(b.nodes)),
		mirror:   dgraph.New(dgraph.StringHash, dgraph.Directed()),
	}

	for i, n := range b.nodes {
		g.ids[i] = n.id
		g.index[n.id] = i
		g.parents[i] = make([]int, len(n.parents))
		for slot, l := range n.parents {
			g.parents[i][slot] = l.index
		}
		g.children[i] = append([]int(nil), n.children...)
		if err := g.mirror.AddVertex(n.id); err != nil {
			return nil, fmt.Errorf("seal: add vertex %q: %w", n.id, err)
		}
	}
	for _, n := range b.nodes {
		for _, l := range n.parents {
			if err := g.mirror.AddEdge(n.id, b.nodes[l.index].id); err != nil {
				return nil, fmt.Errorf("seal: add edge %q -> %q: %w", n.id, l.name, err)
			}
		}
	}

	if cycles, err := g.cycles(); err != nil {
		return nil, err
	} else if len(cycles) > 0 {
		return nil, &CycleError{Cycles: cycles}
	}

	return g, nil
}

// cycles returns every strongly connected component with more than one
// member. Members and components are ordered by insertion.
func (g *Graph) cycles() ([][]string, error) {
	components, err := dgraph.StronglyConnectedComponents(g.mirror)
	if err != nil {
		return nil, fmt.Errorf("seal: detect cycles: %w", err)
	}

	var cycles [][]string
	for _, component := range components {
		if len(component) < 2 {
			continue
		}
		members := append([]string(nil), component...)
		sort.Slice(members, func(i, j int) bool {
			return g.index[members[i]] < g.index[members[j]]
		})
		cycles = append(cycles, members)
	}
	sort.Slice(cycles, func(i, j int) bool {
		return g.index[cycles[i][0]] < g.index[cycles[j][0]]
	})
	return cycles, nil
}
