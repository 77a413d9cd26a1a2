// Package buildutil provides utilities for extracting attributes from
// buildtools AST nodes.
//
// It is used by the Starlark catalog loader to read keyword arguments of
// option(...) calls.
package buildutil

import (
	"strconv"

	"github.com/bazelbuild/buildtools/build"
)

// Attr returns the expression bound to a keyword argument.
// The second result is false if the call has no such argument.
func Attr(call *build.CallExpr, name string) (build.Expr, bool) {
	for _, arg := range call.List {
		assign, ok := arg.(*build.AssignExpr)
		if !ok {
			continue
		}
		lhs, ok := assign.LHS.(*build.Ident)
		if !ok || lhs.Name != name {
			continue
		}
		return assign.RHS, true
	}
	return nil, false
}

// Keywords returns the keyword argument names of a call, in source order.
func Keywords(call *build.CallExpr) []string {
	var names []string
	for _, arg := range call.List {
		if assign, ok := arg.(*build.AssignExpr); ok {
			if lhs, ok := assign.LHS.(*build.Ident); ok {
				names = append(names, lhs.Name)
			}
		}
	}
	return names
}

// String extracts a string attribute from a function call by name.
// If name is empty and the call has positional arguments, returns the first
// positional string argument.
// Returns empty string if the attribute is not found or not a string.
func String(call *build.CallExpr, name string) string {
	if name == "" {
		if len(call.List) > 0 {
			if str, ok := call.List[0].(*build.StringExpr); ok {
				return str.Value
			}
		}
		return ""
	}

	if expr, ok := Attr(call, name); ok {
		if str, ok := expr.(*build.StringExpr); ok {
			return str.Value
		}
	}
	return ""
}

// StringList extracts a list of strings attribute from a function call by name.
// Returns nil if the attribute is not found or not a list.
// The second result is false if any element is not a string literal.
func StringList(call *build.CallExpr, name string) ([]string, bool) {
	expr, ok := Attr(call, name)
	if !ok {
		return nil, true
	}
	list, ok := expr.(*build.ListExpr)
	if !ok {
		return nil, false
	}
	result := make([]string, 0, len(list.List))
	for _, elem := range list.List {
		str, ok := elem.(*build.StringExpr)
		if !ok {
			return result, false
		}
		result = append(result, str.Value)
	}
	return result, true
}

// Value converts a literal build.Expr to a Go value.
// Handles strings, integers, booleans (True/False/None) and lists.
// Returns the raw expression for unhandled types.
func Value(expr build.Expr) any {
	switch e := expr.(type) {
	case *build.StringExpr:
		return e.Value
	case *build.LiteralExpr:
		if val, err := strconv.ParseInt(e.Token, 0, 64); err == nil {
			return val
		}
		return e.Token
	case *build.Ident:
		switch e.Name {
		case "True":
			return true
		case "False":
			return false
		case "None":
			return nil
		default:
			return e.Name
		}
	case *build.ListExpr:
		result := make([]any, 0, len(e.List))
		for _, item := range e.List {
			result = append(result, Value(item))
		}
		return result
	default:
		return expr
	}
}

// FuncName returns the function name from a CallExpr.
// Returns empty string if the call is not a simple function call
// (e.g., method calls like foo.bar()).
func FuncName(call *build.CallExpr) string {
	if ident, ok := call.X.(*build.Ident); ok {
		return ident.Name
	}
	return ""
}
