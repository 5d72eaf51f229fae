// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the extraction
// pipeline: the flat manuscript Record, the paired measurements it is
// assembled from, and stage configuration.
package types

// Column names in output order.
const (
	ColumnPath      = "path"
	ColumnClassmark = "classmark"
	ColumnTitle     = "title"
	ColumnSummary   = "summary"
	ColumnMaterial  = "material"
	ColumnDateStart = "date_start"
	ColumnDateEnd   = "date_end"
	ColumnWidth     = "width"
	ColumnHeight    = "height"
	ColumnColumns   = "columns"
	ColumnLines     = "lines"
)

// Columns is the full record column order.
var Columns = []string{
	ColumnClassmark, ColumnTitle, ColumnSummary, ColumnMaterial,
	ColumnDateStart, ColumnDateEnd,
	ColumnWidth, ColumnHeight,
	ColumnColumns, ColumnLines,
}

// TitleColumns is the narrow column set written by the titles command.
var TitleColumns = []string{
	ColumnPath, ColumnTitle, ColumnSummary, ColumnDateStart, ColumnDateEnd,
}

// DateRange holds the notBefore/notAfter attributes of an origin date,
// verbatim and unvalidated.
type DateRange struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// FragmentSize holds fragment dimensions in centimetres.
type FragmentSize struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Layout holds the column and line counts of a written page.
type Layout struct {
	Columns int `json:"columns" yaml:"columns"`
	Lines   int `json:"lines" yaml:"lines"`
}

// Record is the flat metadata for one manuscript description. Every field
// is always present; absence of the underlying value is a missing Optional.
type Record struct {
	// Source is the file path or archive entry name the record came from.
	Source string `json:"-" yaml:"-"`

	Classmark string           `json:"classmark" yaml:"classmark"`
	Title     Optional[string] `json:"title" yaml:"title"`
	Summary   Optional[string] `json:"summary" yaml:"summary"`
	Material  Optional[string] `json:"material" yaml:"material"`

	DateStart Optional[string] `json:"date_start" yaml:"date_start"`
	DateEnd   Optional[string] `json:"date_end" yaml:"date_end"`

	Width  Optional[float64] `json:"width" yaml:"width"`
	Height Optional[float64] `json:"height" yaml:"height"`

	Columns Optional[int] `json:"columns" yaml:"columns"`
	Lines   Optional[int] `json:"lines" yaml:"lines"`
}

// Field returns the rendered value of the named column. Missing values and
// unknown columns render as "".
func (r Record) Field(name string) string {
	switch name {
	case ColumnPath:
		return r.Source
	case ColumnClassmark:
		return r.Classmark
	case ColumnTitle:
		return r.Title.String()
	case ColumnSummary:
		return r.Summary.String()
	case ColumnMaterial:
		return r.Material.String()
	case ColumnDateStart:
		return r.DateStart.String()
	case ColumnDateEnd:
		return r.DateEnd.String()
	case ColumnWidth:
		return r.Width.String()
	case ColumnHeight:
		return r.Height.String()
	case ColumnColumns:
		return r.Columns.String()
	case ColumnLines:
		return r.Lines.String()
	}
	return ""
}

// Values returns the rendered fields for columns, in order.
func (r Record) Values(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = r.Field(c)
	}
	return out
}

// Map returns the record keyed by column name. Missing values map to nil
// so that every key is present.
func (r Record) Map(columns []string) map[string]any {
	m := make(map[string]any, len(columns))
	for _, c := range columns {
		m[c] = r.value(c)
	}
	return m
}

func (r Record) value(name string) any {
	switch name {
	case ColumnPath:
		return r.Source
	case ColumnClassmark:
		return r.Classmark
	case ColumnTitle:
		return optionalValue(r.Title)
	case ColumnSummary:
		return optionalValue(r.Summary)
	case ColumnMaterial:
		return optionalValue(r.Material)
	case ColumnDateStart:
		return optionalValue(r.DateStart)
	case ColumnDateEnd:
		return optionalValue(r.DateEnd)
	case ColumnWidth:
		return optionalValue(r.Width)
	case ColumnHeight:
		return optionalValue(r.Height)
	case ColumnColumns:
		return optionalValue(r.Columns)
	case ColumnLines:
		return optionalValue(r.Lines)
	}
	return nil
}

func optionalValue[T any](o Optional[T]) any {
	if v, ok := o.Get(); ok {
		return v
	}
	return nil
}
