package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

// Schema returns the JSON Schema describing JSON catalog documents.
func Schema() []byte {
	return append([]byte(nil), schemaJSON...)
}

func parseJSON(name string, data []byte) (*document, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &ParseError{
			Pos:     Position{Filename: name},
			Message: fmt.Sprintf("failed to validate against schema: %v", err),
			Wrapped: err,
		}
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			msgs = append(msgs, re.String())
		}
		return nil, &ParseError{
			Pos:     Position{Filename: name},
			Message: "schema validation failed: " + strings.Join(msgs, "; "),
		}
	}

	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, &ParseError{
			Pos:     Position{Filename: name},
			Message: fmt.Sprintf("failed to unmarshal: %v", err),
			Wrapped: err,
		}
	}
	for i := range doc.Entries {
		doc.Entries[i].pos = Position{Filename: name}
	}
	return &doc, nil
}
