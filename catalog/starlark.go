package catalog

import (
	"errors"
	"fmt"

	"github.com/bazelbuild/buildtools/build"

	"github.com/vengaer/conftool/internal/buildutil"
)

// optionAttrs are the keyword arguments accepted by option().
var optionAttrs = map[string]bool{
	"name":    true,
	"type":    true,
	"default": true,
	"depends": true,
	"choices": true,
	"help":    true,
}

// starlarkParser reads catalogs written as a sequence of option() calls:
//
//	option(
//	    name = "NET",
//	    type = "switch",
//	    default = True,
//	    depends = ["BASE"],
//	    help = "Networking support",
//	)
type starlarkParser struct {
	filename string
	errors   []error
}

func parseStarlark(name string, data []byte) (*document, error) {
	p := &starlarkParser{filename: name}
	return p.parse(data)
}

func (p *starlarkParser) parse(content []byte) (*document, error) {
	raw, err := build.ParseBzl(p.filename, content)
	if err != nil {
		return nil, &ParseError{
			Pos:     Position{Filename: p.filename},
			Message: fmt.Sprintf("syntax error: %v", err),
			Wrapped: err,
		}
	}

	doc := &document{}
	for _, stmt := range raw.Stmt {
		if e := p.parseStatement(stmt); e != nil {
			doc.Entries = append(doc.Entries, *e)
		}
	}

	if len(p.errors) > 0 {
		return nil, errors.Join(p.errors...)
	}
	return doc, nil
}

func (p *starlarkParser) parseStatement(expr build.Expr) *entryDocument {
	switch expr.(type) {
	case *build.CommentBlock, *build.LoadStmt:
		return nil
	}

	call, ok := expr.(*build.CallExpr)
	if !ok {
		p.addError(p.position(expr), "unexpected statement; only option() calls are allowed")
		return nil
	}

	pos := p.position(call)
	if fn := buildutil.FuncName(call); fn != "option" {
		p.addError(pos, "unknown function %q", fn)
		return nil
	}
	return p.parseOption(call, pos)
}

func (p *starlarkParser) parseOption(call *build.CallExpr, pos Position) *entryDocument {
	for _, kw := range buildutil.Keywords(call) {
		if !optionAttrs[kw] {
			p.addError(pos, "option: unknown attribute %q", kw)
		}
	}

	e := &entryDocument{
		Name:      buildutil.String(call, "name"),
		EntryType: buildutil.String(call, "type"),
		Help:      buildutil.String(call, "help"),
		pos:       pos,
	}
	if e.Name == "" {
		p.addError(pos, "option: missing required name attribute")
		return nil
	}

	depends, ok := buildutil.StringList(call, "depends")
	if !ok {
		p.addError(pos, "option %q: depends must be a list of strings", e.Name)
	}
	e.Depends = depends

	if expr, ok := buildutil.Attr(call, "default"); ok {
		e.Default = buildutil.Value(expr)
	} else {
		p.addError(pos, "option %q: missing required default attribute", e.Name)
	}

	if expr, ok := buildutil.Attr(call, "choices"); ok {
		list, isList := buildutil.Value(expr).([]any)
		if !isList {
			p.addError(pos, "option %q: choices must be a list", e.Name)
		}
		e.Choices = list
	}

	return e
}

func (p *starlarkParser) position(expr build.Expr) Position {
	start, _ := expr.Span()
	return Position{
		Filename: p.filename,
		Line:     start.Line,
		Column:   start.LineRune,
	}
}

func (p *starlarkParser) addError(pos Position, format string, args ...any) {
	p.errors = append(p.errors, &ParseError{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	})
}
