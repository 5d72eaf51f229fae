// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify selects the documents relevant for extraction: Genizah
// items, by subject keyword, whose title marks them as medical.
package classify

import (
	"fmt"
	"iter"
	"strings"

	"golang.org/x/text/cases"

	"github.com/pdiddy/genizah-data/internal/extract"
	"github.com/pdiddy/genizah-data/internal/tei"
	"github.com/pdiddy/genizah-data/pkg/types"
)

// Filter holds a subject-keyword predicate and a title-substring predicate.
type Filter struct {
	subject *tei.Query
	keyword string
}

// NewFilter builds a Filter from cfg, applying defaults for empty fields.
func NewFilter(cfg types.FilterConfig) (*Filter, error) {
	subject := cfg.Subject
	if subject == "" {
		subject = types.DefaultSubject
	}
	keyword := cfg.Keyword
	if keyword == "" {
		keyword = types.DefaultKeyword
	}
	if strings.Contains(subject, `"`) {
		return nil, fmt.Errorf("subject %q must not contain a double quote", subject)
	}

	q, err := tei.Compile(subjectQuery(subject))
	if err != nil {
		return nil, fmt.Errorf("compiling subject query: %w", err)
	}
	return &Filter{subject: q, keyword: fold(keyword)}, nil
}

func subjectQuery(subject string) tei.Builder {
	return func(q tei.Qualifier) string {
		return "boolean(" +
			tei.Path(q, "", "TEI", "teiHeader", "profileDesc", "textClass", "keywords") +
			"//" + q("ref") + `[@target="` + subject + `"])`
	}
}

// fold returns the Unicode case folding of s. A Caser holds state, so a
// new one is taken for every call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// HasSubject reports whether doc's keywords contain a ref targeting the
// filter's subject.
func (f *Filter) HasSubject(doc tei.Document) bool {
	return doc.Bool(f.subject)
}

// HasKeyword reports whether doc's case-folded title contains the filter's
// keyword. Only the title is inspected.
func (f *Filter) HasKeyword(doc tei.Document) bool {
	title, _ := extract.Title(doc).Get()
	return strings.Contains(fold(title), f.keyword)
}

// Match reports whether doc satisfies both predicates.
func (f *Filter) Match(doc tei.Document) bool {
	return f.HasSubject(doc) && f.HasKeyword(doc)
}

// Select yields, lazily and in order, the documents of seq that Match.
func (f *Filter) Select(seq iter.Seq[tei.Document]) iter.Seq[tei.Document] {
	return func(yield func(tei.Document) bool) {
		for doc := range seq {
			if f.Match(doc) && !yield(doc) {
				return
			}
		}
	}
}

var defaultFilter = func() *Filter {
	f, err := NewFilter(types.FilterConfig{})
	if err != nil {
		panic(err)
	}
	return f
}()

// IsGenizahItem reports whether doc carries the Genizah subject keyword.
func IsGenizahItem(doc tei.Document) bool {
	return defaultFilter.HasSubject(doc)
}

// IsMedicalItem reports whether doc's title contains "medical" in any case.
func IsMedicalItem(doc tei.Document) bool {
	return defaultFilter.HasKeyword(doc)
}

// MedicalElements yields the Genizah medical items of seq in input order.
func MedicalElements(seq iter.Seq[tei.Document]) iter.Seq[tei.Document] {
	return defaultFilter.Select(seq)
}
