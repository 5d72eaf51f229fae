// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tei evaluates XPath queries against TEI manuscript descriptions.
//
// The corpus mixes documents that declare the TEI namespace with documents
// that do not. Every Query is therefore compiled twice from the same path
// builder: once with element names qualified by the tei prefix and bound to
// Namespace, and once with bare local names. Evaluation tries the bound
// form first and falls back to the unbound form when the result is empty,
// so callers never need to detect which flavour a document uses.
package tei

import (
	"fmt"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

const (
	// Namespace is the TEI namespace URI.
	Namespace = "http://www.tei-c.org/ns/1.0"

	// Prefix is the prefix bound to Namespace in the bound context.
	Prefix = "tei"
)

// Context selects how a Query's element names are resolved.
type Context int

const (
	// Bound resolves tei:-prefixed names against Namespace.
	Bound Context = iota
	// Unbound matches bare local names with no namespace.
	Unbound
)

func (c Context) String() string {
	if c == Bound {
		return "bound"
	}
	return "unbound"
}

// Qualifier renders a TEI element name for one Context.
type Qualifier func(local string) string

// Builder produces the text of an XPath expression. It must route every
// TEI element name through q and leave attribute names and functions bare.
type Builder func(q Qualifier) string

// Query is an XPath expression compiled for both contexts.
type Query struct {
	bound   *xpath.Expr
	unbound *xpath.Expr
	text    string
}

// Compile compiles b for the bound and unbound contexts.
func Compile(b Builder) (*Query, error) {
	boundText := b(func(local string) string { return Prefix + ":" + local })
	bound, err := xpath.CompileWithNS(boundText, map[string]string{Prefix: Namespace})
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", boundText, err)
	}

	unboundText := b(func(local string) string { return local })
	unbound, err := xpath.Compile(unboundText)
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", unboundText, err)
	}

	return &Query{bound: bound, unbound: unbound, text: boundText}, nil
}

// MustCompile is like Compile but panics on error. It is intended for
// package-level query variables.
func MustCompile(b Builder) *Query {
	q, err := Compile(b)
	if err != nil {
		panic(err)
	}
	return q
}

// String returns the bound form of the expression.
func (q *Query) String() string { return q.text }

// Expr returns the compiled expression for ctx.
func (q *Query) Expr(ctx Context) *xpath.Expr {
	if ctx == Bound {
		return q.bound
	}
	return q.unbound
}

// Engine evaluates a Query in a single context. Node-set results are
// returned as []*xmlquery.Node; other results keep their XPath type
// (string, bool, float64).
type Engine interface {
	Evaluate(node *xmlquery.Node, q *Query, ctx Context) any
}

// XPathEngine evaluates queries with antchfx/xpath over an xmlquery tree.
type XPathEngine struct{}

// Evaluate implements Engine.
func (XPathEngine) Evaluate(node *xmlquery.Node, q *Query, ctx Context) any {
	v := q.Expr(ctx).Evaluate(xmlquery.CreateXPathNavigator(node))
	iter, ok := v.(*xpath.NodeIterator)
	if !ok {
		return v
	}
	var nodes []*xmlquery.Node
	for iter.MoveNext() {
		if nav, ok := iter.Current().(*xmlquery.NodeNavigator); ok {
			nodes = append(nodes, nav.Current())
		}
	}
	return nodes
}

// DefaultEngine is used by Text, Bool, Nodes and First.
var DefaultEngine Engine = XPathEngine{}

// Evaluate runs q in the bound context and, if the result is empty, in the
// unbound context. It never fails: absence is an empty result.
func Evaluate(e Engine, node *xmlquery.Node, q *Query) any {
	if v := e.Evaluate(node, q, Bound); !empty(v) {
		return v
	}
	return e.Evaluate(node, q, Unbound)
}

// empty reports whether v is an XPath falsy value.
func empty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case []*xmlquery.Node:
		return len(t) == 0
	}
	return false
}

// Text evaluates a string-valued query. Non-string results yield "".
func Text(node *xmlquery.Node, q *Query) string {
	s, _ := Evaluate(DefaultEngine, node, q).(string)
	return s
}

// Bool evaluates a boolean-valued query. Non-boolean results yield false.
func Bool(node *xmlquery.Node, q *Query) bool {
	b, _ := Evaluate(DefaultEngine, node, q).(bool)
	return b
}

// Nodes evaluates a node-set query.
func Nodes(node *xmlquery.Node, q *Query) []*xmlquery.Node {
	nodes, _ := Evaluate(DefaultEngine, node, q).([]*xmlquery.Node)
	return nodes
}

// First returns the first node of a node-set query, or nil.
func First(node *xmlquery.Node, q *Query) *xmlquery.Node {
	if nodes := Nodes(node, q); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}
