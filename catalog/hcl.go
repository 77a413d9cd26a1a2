package catalog

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// hclCatalogFile represents the top-level structure of an HCL catalog:
//
//	option "NET" {
//	  type    = "switch"
//	  default = true
//	  depends = ["BASE"]
//	  help    = "Networking support"
//	}
type hclCatalogFile struct {
	Options []*hclOption `hcl:"option,block"`
}

type hclOption struct {
	Name    string         `hcl:"name,label"`
	Type    string         `hcl:"type"`
	Default hcl.Expression `hcl:"default"`
	Depends []string       `hcl:"depends,optional"`
	Choices hcl.Expression `hcl:"choices,optional"`
	Help    string         `hcl:"help,optional"`

	DeclRange hcl.Range `hcl:",def_range"`
}

func parseHCL(name string, data []byte) (*document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, name)
	if diags.HasErrors() {
		return nil, diagnosticsError(name, diags)
	}

	var parsed hclCatalogFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, diagnosticsError(name, diags)
	}

	doc := &document{Entries: make([]entryDocument, 0, len(parsed.Options))}
	var errs []error
	for _, opt := range parsed.Options {
		pos := Position{
			Filename: opt.DeclRange.Filename,
			Line:     opt.DeclRange.Start.Line,
			Column:   opt.DeclRange.Start.Column,
		}

		def, err := exprValue(opt.Default)
		if err != nil {
			errs = append(errs, &ParseError{Pos: pos, Message: fmt.Sprintf("option %q: default: %v", opt.Name, err), Wrapped: err})
			continue
		}

		var choices []any
		if raw, err := exprValue(opt.Choices); err != nil {
			errs = append(errs, &ParseError{Pos: pos, Message: fmt.Sprintf("option %q: choices: %v", opt.Name, err), Wrapped: err})
			continue
		} else if raw != nil {
			list, ok := raw.([]any)
			if !ok {
				errs = append(errs, &ParseError{Pos: pos, Message: fmt.Sprintf("option %q: choices must be a list", opt.Name)})
				continue
			}
			choices = list
		}

		doc.Entries = append(doc.Entries, entryDocument{
			Name:      opt.Name,
			Depends:   opt.Depends,
			EntryType: opt.Type,
			Default:   def,
			Choices:   choices,
			Help:      opt.Help,
			pos:       pos,
		})
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return doc, nil
}

// exprValue evaluates a constant expression and converts the result into
// the decoded scalar representation shared by all formats.
func exprValue(expr hcl.Expression) (any, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	return ctyToGo(val)
}

func ctyToGo(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if !bf.IsInt() {
			return nil, fmt.Errorf("%s is not an integer", bf.String())
		}
		i, acc := bf.Int64()
		if acc != big.Exact {
			return nil, fmt.Errorf("%s is out of range for an integer", bf.Text('g', 10))
		}
		return i, nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		result := make([]any, 0, val.LengthInt())
		for _, elem := range val.AsValueSlice() {
			v, err := ctyToGo(elem)
			if err != nil {
				return nil, err
			}
			result = append(result, v)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %s", ty.FriendlyName())
	}
}

func diagnosticsError(name string, diags hcl.Diagnostics) error {
	errs := make([]error, 0, len(diags))
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		pos := Position{Filename: name}
		if d.Subject != nil {
			pos = Position{Filename: d.Subject.Filename, Line: d.Subject.Start.Line, Column: d.Subject.Start.Column}
		}
		msg := d.Summary
		if d.Detail != "" {
			msg += ": " + d.Detail
		}
		errs = append(errs, &ParseError{Pos: pos, Message: msg})
	}
	return errors.Join(errs...)
}
