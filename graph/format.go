package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dominikbraun/graph/draw"
)

const separatorWidth = 60 // Width of separator lines in text output

// Document is the JSON representation of a sealed graph.
type Document struct {
	Nodes []NodeDocument `json:"nodes"`
	Stats Stats          `json:"stats"`
}

// NodeDocument describes one option and its direct relations.
type NodeDocument struct {
	ID           string   `json:"id"`
	Dependencies []string `json:"dependencies,omitempty"`
	Dependents   []string `json:"dependents,omitempty"`
}

// ToJSON outputs the graph as indented JSON, nodes in insertion order.
func (g *Graph) ToJSON() ([]byte, error) {
	doc := Document{
		Nodes: make([]NodeDocument, len(g.ids)),
		Stats: g.Stats(),
	}
	for i, id := range g.ids {
		doc.Nodes[i] = NodeDocument{
			ID:           id,
			Dependencies: g.names(g.parents[i]),
			Dependents:   g.names(g.children[i]),
		}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ToDOT writes the graph in Graphviz DOT format. Edges point from an
// option to the options it depends on.
func (g *Graph) ToDOT(w io.Writer) error {
	if err := draw.DOT(g.mirror, w); err != nil {
		return fmt.Errorf("render dot: %w", err)
	}
	return nil
}

// ToText outputs a human-readable text representation of the graph.
// Every root is printed as a tree of its dependencies; a subtree that was
// already printed is abbreviated with "(...)".
func (g *Graph) ToText() string {
	var buf bytes.Buffer

	buf.WriteString("Option Dependency Graph\n")
	buf.WriteString(strings.Repeat("=", separatorWidth) + "\n\n")

	stats := g.Stats()
	buf.WriteString(fmt.Sprintf("Options: %d\n", stats.Nodes))
	buf.WriteString(fmt.Sprintf("Dependencies: %d\n", stats.Edges))
	buf.WriteString(fmt.Sprintf("Max depth: %d\n", stats.MaxDepth))
	buf.WriteString("\n")

	buf.WriteString("Dependency Tree:\n")
	expanded := make([]bool, len(g.ids))
	for _, root := range g.Roots() {
		g.printTree(&buf, g.index[root], "", true, true, expanded)
	}

	return buf.String()
}

func (g *Graph) printTree(buf *bytes.Buffer, i int, prefix string, isLast, top bool, expanded []bool) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}
	if top {
		buf.WriteString(g.ids[i])
	} else {
		buf.WriteString(prefix + connector + g.ids[i])
	}

	if expanded[i] && len(g.parents[i]) > 0 {
		buf.WriteString(" (...)\n")
		return
	}
	buf.WriteString("\n")
	expanded[i] = true

	childPrefix := prefix
	if !top {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}
	for n, dep := range g.parents[i] {
		g.printTree(buf, dep, childPrefix, n == len(g.parents[i])-1, false, expanded)
	}
}
