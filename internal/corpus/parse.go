// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/pdiddy/genizah-data/internal/logger"
	"github.com/pdiddy/genizah-data/internal/tei"
)

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

var (
	// ErrMalformed marks a source that is not well-formed XML.
	ErrMalformed = errors.New("malformed XML")

	// ErrInvalidID marks a source with an xml:id that is not an NCName.
	ErrInvalidID = errors.New("invalid xml:id")
)

// ParseError is a tolerated per-source parse failure. Err wraps either
// ErrMalformed or ErrInvalidID.
type ParseError struct {
	Source string
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Source, e.Err, e.Detail)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseDocument parses one entry. Syntax errors, documents without exactly
// one root element, and invalid xml:id values return a *ParseError; a
// failure to read the body is returned as is.
func ParseDocument(e Entry) (tei.Document, error) {
	body := &readErrRecorder{r: e.Body}
	root, err := xmlquery.Parse(body)
	if err != nil {
		if body.err != nil {
			return tei.Document{}, fmt.Errorf("reading %s: %w", e.Name, body.err)
		}
		detail := err.Error()
		var syn *xml.SyntaxError
		if errors.As(err, &syn) {
			detail = syn.Error()
		}
		return tei.Document{}, &ParseError{Source: e.Name, Detail: detail, Err: ErrMalformed}
	}

	if detail := prologProblem(root); detail != "" {
		return tei.Document{}, &ParseError{Source: e.Name, Detail: detail, Err: ErrMalformed}
	}
	if id, ok := invalidID(root); ok {
		return tei.Document{}, &ParseError{Source: e.Name, Detail: fmt.Sprintf("%q is not an NCName", id), Err: ErrInvalidID}
	}
	return tei.Document{Source: e.Name, Root: root}, nil
}

// readErrRecorder keeps the first non-EOF read error so it can be told
// apart from a syntax error reported by the parser.
type readErrRecorder struct {
	r   io.Reader
	err error
}

func (r *readErrRecorder) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && r.err == nil {
		r.err = err
	}
	return n, err
}

// prologProblem describes why the document level of root is not a single
// element surrounded by markup and whitespace, or returns "".
func prologProblem(root *xmlquery.Node) string {
	elements := 0
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.ElementNode:
			elements++
		case xmlquery.TextNode, xmlquery.CharDataNode:
			if strings.TrimSpace(c.Data) != "" {
				return "extra content at the end of the document"
			}
		}
	}
	switch {
	case elements == 0:
		return "no root element"
	case elements > 1:
		return "extra content at the end of the document"
	}
	return ""
}

// invalidID returns the first xml:id value under n that is not an NCName.
func invalidID(n *xmlquery.Node) (string, bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		for _, a := range c.Attr {
			if isXMLID(a) && !ValidNCName(a.Value) {
				return a.Value, true
			}
		}
		if id, ok := invalidID(c); ok {
			return id, true
		}
	}
	return "", false
}

func isXMLID(a xmlquery.Attr) bool {
	if a.Name.Local != "id" {
		return false
	}
	return a.Name.Space == "xml" || a.Name.Space == xmlNamespace || a.NamespaceURI == xmlNamespace
}

// Stats counts the outcome of a parse run.
type Stats struct {
	Parsed    int
	Malformed int
	InvalidID int
}

// Skipped returns the number of sources dropped by tolerated failures.
func (s Stats) Skipped() int {
	return s.Malformed + s.InvalidID
}

// Parser turns entries into documents, logging and skipping sources that
// fail with a tolerated ParseError.
type Parser struct {
	log   logger.Logger
	stats Stats
}

// NewParser returns a Parser reporting to log.
func NewParser(log logger.Logger) *Parser {
	if log == nil {
		log = logger.NewNop()
	}
	return &Parser{log: log}
}

// Stats returns the counts accumulated so far.
func (p *Parser) Stats() Stats { return p.stats }

// Parse yields a document for each well-formed entry in order. Malformed
// sources are logged as errors and skipped; invalid xml:id sources are
// logged as warnings and skipped. Entry errors and other parse failures
// are yielded to the consumer.
func (p *Parser) Parse(entries iter.Seq2[Entry, error]) iter.Seq2[tei.Document, error] {
	return func(yield func(tei.Document, error) bool) {
		for entry, err := range entries {
			if err != nil {
				if !yield(tei.Document{}, err) {
					return
				}
				continue
			}

			doc, err := ParseDocument(entry)
			var perr *ParseError
			switch {
			case errors.As(err, &perr) && errors.Is(perr, ErrInvalidID):
				p.stats.InvalidID++
				p.log.Warn("skipping source with invalid xml:id",
					logger.String("source", perr.Source),
					logger.String("detail", perr.Detail),
				)
			case errors.As(err, &perr):
				p.stats.Malformed++
				p.log.Error("invalid XML file",
					logger.String("source", perr.Source),
					logger.String("detail", perr.Detail),
				)
			case err != nil:
				if !yield(tei.Document{}, err) {
					return
				}
			default:
				p.stats.Parsed++
				if !yield(doc, nil) {
					return
				}
			}
		}
	}
}

// Documents yields only the successfully parsed documents of seq,
// stopping at the first error. The error, if any, is stored in *errp.
func Documents(seq iter.Seq2[tei.Document, error], errp *error) iter.Seq[tei.Document] {
	return func(yield func(tei.Document) bool) {
		for doc, err := range seq {
			if err != nil {
				*errp = err
				return
			}
			if !yield(doc) {
				return
			}
		}
	}
}
