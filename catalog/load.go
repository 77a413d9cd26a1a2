package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a catalog document syntax.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatStarlark Format = "starlark"
	FormatHCL      Format = "hcl"
)

// DetectFormat picks the document format from a file name.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".star", ".bzl", ".bazel":
		return FormatStarlark, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Load reads and parses a catalog file, choosing the format by extension.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return LoadBytes(path, data)
}

// LoadBytes parses catalog content. The name selects the format and is
// used in error positions.
func LoadBytes(name string, data []byte) (*Catalog, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}
	return Parse(format, name, data)
}

// Parse parses catalog content in the given format.
func Parse(format Format, name string, data []byte) (*Catalog, error) {
	var (
		doc *document
		err error
	)
	switch format {
	case FormatJSON:
		doc, err = parseJSON(name, data)
	case FormatYAML:
		doc, err = parseYAML(name, data)
	case FormatStarlark:
		doc, err = parseStarlark(name, data)
	case FormatHCL:
		doc, err = parseHCL(name, data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return doc.build()
}
