package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

func parseYAML(name string, data []byte) (*document, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ParseError{
			Pos:     Position{Filename: name},
			Message: fmt.Sprintf("failed to unmarshal: %v", err),
			Wrapped: err,
		}
	}

	// A second pass over the node tree recovers entry positions.
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err == nil {
		if seq := mappingValue(&root, "entries"); seq != nil && seq.Kind == yaml.SequenceNode {
			for i, n := range seq.Content {
				if i < len(doc.Entries) {
					doc.Entries[i].pos = Position{Filename: name, Line: n.Line, Column: n.Column}
				}
			}
		}
	}
	for i := range doc.Entries {
		if doc.Entries[i].pos.Filename == "" {
			doc.Entries[i].pos = Position{Filename: name}
		}
	}

	return &doc, nil
}

// mappingValue returns the value node of key in the top-level mapping.
func mappingValue(root *yaml.Node, key string) *yaml.Node {
	n := root
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}
