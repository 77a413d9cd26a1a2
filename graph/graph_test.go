package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Helper to create a test graph:
//
//	root
//	├── a
//	│   └── c
//	└── b
//	    └── c (shared)
//
// root is inserted first so every link starts out as a forward reference.
func createTestGraph(t *testing.T) *Graph {
	t.Helper()

	b := NewBuilder()
	mustInsert(t, b, "root", "a", "b")
	mustInsert(t, b, "a", "c")
	mustInsert(t, b, "b", "c")
	mustInsert(t, b, "c")

	g, err := b.Seal()
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	return g
}

func mustInsert(t *testing.T, b *Builder, id string, deps ...string) {
	t.Helper()
	if err := b.Insert(id, deps...); err != nil {
		t.Fatalf("Insert(%q) error = %v", id, err)
	}
}

func TestBuilder_InsertErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   [][]string
		id      string
		deps    []string
		wantErr error
		wantDep string
	}{
		{
			name:    "duplicate node",
			setup:   [][]string{{"A"}},
			id:      "A",
			wantErr: ErrDuplicateNode,
		},
		{
			name:    "duplicate node inserted with forward ref",
			setup:   [][]string{{"A", "B"}},
			id:      "A",
			deps:    []string{"C"},
			wantErr: ErrDuplicateNode,
		},
		{
			name:    "self dependency",
			id:      "A",
			deps:    []string{"B", "A"},
			wantErr: ErrSelfDependency,
			wantDep: "A",
		},
		{
			name:    "duplicate dependency",
			id:      "A",
			deps:    []string{"B", "C", "B"},
			wantErr: ErrDuplicateDependency,
			wantDep: "B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			for _, s := range tt.setup {
				mustInsert(t, b, s[0], s[1:]...)
			}
			before := b.Len()

			err := b.Insert(tt.id, tt.deps...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Insert() error = %v, want %v", err, tt.wantErr)
			}
			var insertErr *InsertError
			if !errors.As(err, &insertErr) {
				t.Fatalf("Insert() error type = %T, want *InsertError", err)
			}
			if insertErr.ID != tt.id || insertErr.Dependency != tt.wantDep {
				t.Errorf("InsertError = {%q, %q}, want {%q, %q}", insertErr.ID, insertErr.Dependency, tt.id, tt.wantDep)
			}
			if b.Len() != before {
				t.Errorf("Len() = %d after failed insert, want %d", b.Len(), before)
			}
		})
	}
}

func TestBuilder_Outstanding(t *testing.T) {
	b := NewBuilder()
	mustInsert(t, b, "C", "B", "X")
	mustInsert(t, b, "B", "A")

	want := []string{"X", "A"}
	if diff := cmp.Diff(want, b.Outstanding()); diff != "" {
		t.Errorf("Outstanding() mismatch (-want +got):\n%s", diff)
	}

	mustInsert(t, b, "A")
	mustInsert(t, b, "X")
	if got := b.Outstanding(); len(got) != 0 {
		t.Errorf("Outstanding() = %v, want empty", got)
	}
}

func TestBuilder_SealIncomplete(t *testing.T) {
	b := NewBuilder()
	mustInsert(t, b, "A", "MISSING")
	mustInsert(t, b, "B", "A", "MISSING", "GONE")

	g, err := b.Seal()
	if g != nil {
		t.Fatal("Seal() returned a graph for an incomplete builder")
	}
	if !errors.Is(err, ErrIncompleteGraph) {
		t.Fatalf("Seal() error = %v, want ErrIncompleteGraph", err)
	}

	var incomplete *IncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("Seal() error type = %T, want *IncompleteError", err)
	}
	want := []Unresolved{
		{Name: "MISSING", ReferencedBy: []string{"A", "B"}},
		{Name: "GONE", ReferencedBy: []string{"B"}},
	}
	if diff := cmp.Diff(want, incomplete.Missing); diff != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_SealCycle(t *testing.T) {
	b := NewBuilder()
	mustInsert(t, b, "A", "B")
	mustInsert(t, b, "B", "C")
	mustInsert(t, b, "C", "A")
	mustInsert(t, b, "D", "A")
	mustInsert(t, b, "E", "F")
	mustInsert(t, b, "F", "E")

	_, err := b.Seal()
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("Seal() error = %v, want ErrCycle", err)
	}
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("Seal() error type = %T, want *CycleError", err)
	}
	want := [][]string{{"A", "B", "C"}, {"E", "F"}}
	if diff := cmp.Diff(want, cycleErr.Cycles); diff != "" {
		t.Errorf("Cycles mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_SpentAfterSeal(t *testing.T) {
	b := NewBuilder()
	mustInsert(t, b, "A")
	if _, err := b.Seal(); err != nil {
		t.Fatalf("Seal() error = %v", err)
	}

	if err := b.Insert("B"); !errors.Is(err, ErrSealed) {
		t.Errorf("Insert() after Seal error = %v, want ErrSealed", err)
	}
	if _, err := b.Seal(); !errors.Is(err, ErrSealed) {
		t.Errorf("second Seal() error = %v, want ErrSealed", err)
	}
}

func TestBuilder_SealEmpty(t *testing.T) {
	g, err := NewBuilder().Seal()
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if g.Len() != 0 {
		t.Errorf("Len() = %d, want 0", g.Len())
	}
}

func TestGraph_DependenciesOf(t *testing.T) {
	g := createTestGraph(t)

	tests := []struct {
		id   string
		want []string
	}{
		{"root", []string{"a", "b", "c"}},
		{"a", []string{"c"}},
		{"b", []string{"c"}},
		{"c", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := g.DependenciesOf(tt.id)
			if err != nil {
				t.Fatalf("DependenciesOf() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DependenciesOf(%q) mismatch (-want +got):\n%s", tt.id, diff)
			}
		})
	}
}

func TestGraph_DependentVertices(t *testing.T) {
	g := createTestGraph(t)

	tests := []struct {
		id   string
		want []string
	}{
		{"c", []string{"a", "b", "root"}},
		{"a", []string{"root"}},
		{"root", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := g.DependentVertices(tt.id)
			if err != nil {
				t.Fatalf("DependentVertices() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DependentVertices(%q) mismatch (-want +got):\n%s", tt.id, diff)
			}
		})
	}
}

func TestGraph_EmptyResultIsNotNil(t *testing.T) {
	g := createTestGraph(t)

	deps, _ := g.DependenciesOf("c")
	if deps == nil {
		t.Error("DependenciesOf() of a leaf returned nil, want empty slice")
	}
	dependents, _ := g.DependentVertices("root")
	if dependents == nil {
		t.Error("DependentVertices() of a root returned nil, want empty slice")
	}
}

func TestGraph_UnknownNode(t *testing.T) {
	g := createTestGraph(t)

	queries := map[string]func(string) ([]string, error){
		"DependenciesOf":     g.DependenciesOf,
		"DependentVertices":  g.DependentVertices,
		"DirectDependencies": g.DirectDependencies,
		"DirectDependents":   g.DirectDependents,
	}
	for name, query := range queries {
		t.Run(name, func(t *testing.T) {
			_, err := query("nope")
			if !errors.Is(err, ErrUnknownNode) {
				t.Errorf("%s() error = %v, want ErrUnknownNode", name, err)
			}
		})
	}
}

// Property: B is a dependency of A iff A is a dependent of B.
func TestGraph_QuerySymmetry(t *testing.T) {
	b := NewBuilder()
	mustInsert(t, b, "app", "net", "log")
	mustInsert(t, b, "net", "crypto", "log")
	mustInsert(t, b, "crypto")
	mustInsert(t, b, "log")
	mustInsert(t, b, "tool", "app")
	mustInsert(t, b, "lonely")
	g, err := b.Seal()
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}

	for _, a := range g.Nodes() {
		deps, _ := g.DependenciesOf(a)
		depSet := make(map[string]bool, len(deps))
		for _, d := range deps {
			depSet[d] = true
		}
		for _, other := range g.Nodes() {
			dependents, _ := g.DependentVertices(other)
			found := false
			for _, d := range dependents {
				if d == a {
					found = true
				}
			}
			if depSet[other] != found {
				t.Errorf("%q in DependenciesOf(%q) = %v, but %q in DependentVertices(%q) = %v",
					other, a, depSet[other], a, other, found)
			}
		}
	}
}

func TestGraph_ForwardReferenceLinks(t *testing.T) {
	g := createTestGraph(t)

	got, _ := g.DirectDependents("c")
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Errorf("DirectDependents(c) mismatch (-want +got):\n%s", diff)
	}
	got, _ = g.DirectDependencies("root")
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Errorf("DirectDependencies(root) mismatch (-want +got):\n%s", diff)
	}
}

func TestGraph_Path(t *testing.T) {
	g := createTestGraph(t)

	tests := []struct {
		from, to string
		want     []string
	}{
		{"root", "c", []string{"root", "a", "c"}},
		{"b", "c", []string{"b", "c"}},
		{"root", "root", []string{"root"}},
		{"c", "root", nil},
		{"a", "b", nil},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			got, err := g.Path(tt.from, tt.to)
			if err != nil {
				t.Fatalf("Path() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Path() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGraph_RootsAndLeaves(t *testing.T) {
	g := createTestGraph(t)

	if diff := cmp.Diff([]string{"root"}, g.Roots()); diff != "" {
		t.Errorf("Roots() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"c"}, g.Leaves()); diff != "" {
		t.Errorf("Leaves() mismatch (-want +got):\n%s", diff)
	}
}

func TestGraph_Stats(t *testing.T) {
	g := createTestGraph(t)

	want := Stats{Nodes: 4, Edges: 4, Roots: 1, Leaves: 1, MaxDepth: 2}
	if diff := cmp.Diff(want, g.Stats()); diff != "" {
		t.Errorf("Stats() mismatch (-want +got):\n%s", diff)
	}
}

func TestGraph_TopologicalOrder(t *testing.T) {
	g := createTestGraph(t)

	order, err := g.TopologicalOrder()
	if err != nil {
		t.Fatalf("TopologicalOrder() error = %v", err)
	}
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	if len(pos) != g.Len() {
		t.Fatalf("TopologicalOrder() = %v, want all %d nodes", order, g.Len())
	}
	for _, id := range g.Nodes() {
		deps, _ := g.DirectDependencies(id)
		for _, dep := range deps {
			if pos[id] > pos[dep] {
				t.Errorf("%q ordered after its dependency %q in %v", id, dep, order)
			}
		}
	}
}

func TestGraph_ToJSON(t *testing.T) {
	g := createTestGraph(t)

	data, err := g.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("ToJSON() produced invalid JSON: %v", err)
	}
	if len(doc.Nodes) != 4 || doc.Nodes[0].ID != "root" {
		t.Fatalf("unexpected nodes: %+v", doc.Nodes)
	}
	if diff := cmp.Diff([]string{"a", "b"}, doc.Nodes[0].Dependencies); diff != "" {
		t.Errorf("root dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestGraph_ToDOT(t *testing.T) {
	g := createTestGraph(t)

	var buf bytes.Buffer
	if err := g.ToDOT(&buf); err != nil {
		t.Fatalf("ToDOT() error = %v", err)
	}
	dot := buf.String()

	if !strings.Contains(dot, "digraph") {
		t.Error("DOT output should declare a digraph")
	}
	for _, id := range []string{"root", "a", "b", "c"} {
		if !strings.Contains(dot, `"`+id+`"`) {
			t.Errorf("DOT output missing node %q", id)
		}
	}
}

func TestGraph_ToText(t *testing.T) {
	g := createTestGraph(t)
	text := g.ToText()

	for _, want := range []string{
		"Option Dependency Graph",
		"Options: 4",
		"Max depth: 2",
		"root\n",
		"├── a\n",
		"│   └── c\n",
		"└── b\n",
		"    └── c\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("ToText() missing %q\n%s", want, text)
		}
	}
}
