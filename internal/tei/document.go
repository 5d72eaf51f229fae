// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tei

import (
	"github.com/antchfx/xmlquery"
)

// Document is one parsed manuscript description.
type Document struct {
	// Source is the file path or archive entry name.
	Source string

	// Root is the document node of the parsed tree.
	Root *xmlquery.Node
}

// Text evaluates a string-valued query against the document.
func (d Document) Text(q *Query) string { return Text(d.Root, q) }

// Bool evaluates a boolean-valued query against the document.
func (d Document) Bool(q *Query) bool { return Bool(d.Root, q) }

// Nodes evaluates a node-set query against the document.
func (d Document) Nodes(q *Query) []*xmlquery.Node { return Nodes(d.Root, q) }

// First returns the first node matched by q, or nil.
func (d Document) First(q *Query) *xmlquery.Node { return First(d.Root, q) }

// Path joins element names into a slash-separated location path with each
// name qualified by q. A leading "" element produces an absolute path.
func Path(q Qualifier, names ...string) string {
	var s string
	for i, n := range names {
		if i > 0 {
			s += "/"
		}
		if n != "" {
			s += q(n)
		}
	}
	return s
}
