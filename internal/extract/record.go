// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"iter"

	"github.com/pdiddy/genizah-data/internal/tei"
	"github.com/pdiddy/genizah-data/pkg/types"
)

// Record assembles every field of doc into a flat Record. Paired values
// are split into their halves; a missing pair leaves both halves missing.
func (e *Extractor) Record(doc tei.Document) types.Record {
	r := types.Record{
		Source:    doc.Source,
		Classmark: Classmark(doc.Source),
		Title:     Title(doc),
		Summary:   Summary(doc),
		Material:  Material(doc),
	}

	if dates, ok := DateRange(doc).Get(); ok {
		r.DateStart = types.Text(dates.Start)
		r.DateEnd = types.Text(dates.End)
	}
	if size, ok := e.FragmentSize(doc).Get(); ok {
		r.Width = types.Some(size.Width)
		r.Height = types.Some(size.Height)
	}
	if layout, ok := e.Layout(doc).Get(); ok {
		r.Columns = types.Some(layout.Columns)
		r.Lines = types.Some(layout.Lines)
	}
	return r
}

// Sink receives assembled records in input order.
type Sink interface {
	Write(r types.Record) error
}

// BatchResult holds counts from an extraction run.
type BatchResult struct {
	Extracted int
	Filtered  int
}

// Total returns the number of documents seen.
func (r BatchResult) Total() int {
	return r.Extracted + r.Filtered
}

// ExtractAll assembles a record for every document accepted by keep and
// writes it to sink. A nil keep accepts every document. Errors from docs
// or sink stop the run; context cancellation is checked between documents.
func (e *Extractor) ExtractAll(ctx context.Context, docs iter.Seq2[tei.Document, error], keep func(tei.Document) bool, sink Sink) (BatchResult, error) {
	var result BatchResult
	for doc, err := range docs {
		if err != nil {
			return result, err
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if keep != nil && !keep(doc) {
			result.Filtered++
			continue
		}
		if err := sink.Write(e.Record(doc)); err != nil {
			return result, fmt.Errorf("writing record for %s: %w", doc.Source, err)
		}
		result.Extracted++
	}
	return result, nil
}

// TitleRecord fills only the fields of the narrow title listing: source,
// classmark, title, summary and date range. It never logs.
func TitleRecord(doc tei.Document) types.Record {
	r := types.Record{
		Source:    doc.Source,
		Classmark: Classmark(doc.Source),
		Title:     Title(doc),
		Summary:   Summary(doc),
	}
	if dates, ok := DateRange(doc).Get(); ok {
		r.DateStart = types.Text(dates.Start)
		r.DateEnd = types.Text(dates.End)
	}
	return r
}
