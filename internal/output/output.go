// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output serializes Records as CSV, JSON, YAML, a terminal table,
// an Excel workbook, or a SQLite table. Missing values render as empty
// cells in tabular formats and as null in JSON, YAML and SQLite.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/xuri/excelize/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/genizah-data/pkg/types"
)

// RecordWriter writes records in order. Close flushes buffered output and
// must be called once after the last Write.
type RecordWriter interface {
	Write(r types.Record) error
	Close() error
}

// New returns a RecordWriter for format that writes the given columns to w.
func New(format types.OutputFormat, w io.Writer, columns []string) (RecordWriter, error) {
	switch format {
	case types.FormatCSV, "":
		return newCSVWriter(w, columns), nil
	case types.FormatJSON:
		return &jsonWriter{w: w, columns: columns, rows: []map[string]any{}}, nil
	case types.FormatYAML:
		return &yamlWriter{w: w, columns: columns}, nil
	case types.FormatTable:
		return newTableWriter(w, columns), nil
	case types.FormatXLSX:
		return newXLSXWriter(w, columns)
	case types.FormatSQLite:
		return nil, fmt.Errorf("sqlite output writes to a file; use NewSQLite")
	}
	return nil, fmt.Errorf("unknown output format %q (want csv, json, yaml, table, xlsx, or sqlite)", format)
}

// --- csv ---

type csvWriter struct {
	cw      *csv.Writer
	columns []string
	header  bool
}

func newCSVWriter(w io.Writer, columns []string) *csvWriter {
	return &csvWriter{cw: csv.NewWriter(w), columns: columns}
}

func (c *csvWriter) writeHeader() error {
	if c.header {
		return nil
	}
	c.header = true
	return c.cw.Write(c.columns)
}

func (c *csvWriter) Write(r types.Record) error {
	if err := c.writeHeader(); err != nil {
		return err
	}
	return c.cw.Write(r.Values(c.columns))
}

func (c *csvWriter) Close() error {
	if err := c.writeHeader(); err != nil {
		return err
	}
	c.cw.Flush()
	return c.cw.Error()
}

// --- json ---

type jsonWriter struct {
	w       io.Writer
	columns []string
	rows    []map[string]any
}

func (j *jsonWriter) Write(r types.Record) error {
	j.rows = append(j.rows, r.Map(j.columns))
	return nil
}

func (j *jsonWriter) Close() error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(j.rows)
}

// --- yaml ---

// yamlWriter keeps column order by building mapping nodes directly.
type yamlWriter struct {
	w       io.Writer
	columns []string
	seq     yaml.Node
}

func (y *yamlWriter) Write(r types.Record) error {
	m := r.Map(y.columns)
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, c := range y.columns {
		var v yaml.Node
		if err := v.Encode(m[c]); err != nil {
			return fmt.Errorf("encoding %s: %w", c, err)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c}, &v)
	}
	y.seq.Content = append(y.seq.Content, node)
	return nil
}

func (y *yamlWriter) Close() error {
	y.seq.Kind = yaml.SequenceNode
	y.seq.Tag = "!!seq"
	enc := yaml.NewEncoder(y.w)
	enc.SetIndent(2)
	if err := enc.Encode(&y.seq); err != nil {
		return err
	}
	return enc.Close()
}

// --- table ---

type tableWriter struct {
	t       table.Writer
	columns []string
	rows    int
}

func newTableWriter(w io.Writer, columns []string) *tableWriter {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	header := make(table.Row, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	t.AppendHeader(header)
	return &tableWriter{t: t, columns: columns}
}

func (tw *tableWriter) Write(r types.Record) error {
	vals := r.Values(tw.columns)
	row := make(table.Row, len(vals))
	for i, v := range vals {
		row[i] = v
	}
	tw.t.AppendRow(row)
	tw.rows++
	return nil
}

func (tw *tableWriter) Close() error {
	tw.t.AppendFooter(table.Row{fmt.Sprintf("%d records", tw.rows)})
	tw.t.Render()
	return nil
}

// --- xlsx ---

const sheetName = "Records"

type xlsxWriter struct {
	w       io.Writer
	f       *excelize.File
	columns []string
	row     int
}

func newXLSXWriter(w io.Writer, columns []string) (*xlsxWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	x := &xlsxWriter{w: w, f: f, columns: columns, row: 1}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := x.setRow(header); err != nil {
		f.Close()
		return nil, err
	}
	return x, nil
}

func (x *xlsxWriter) setRow(values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, x.row)
	if err != nil {
		return err
	}
	if err := x.f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("writing row %d: %w", x.row, err)
	}
	x.row++
	return nil
}

func (x *xlsxWriter) Write(r types.Record) error {
	m := r.Map(x.columns)
	values := make([]any, len(x.columns))
	for i, c := range x.columns {
		if v := m[c]; v != nil {
			values[i] = v
		} else {
			values[i] = ""
		}
	}
	return x.setRow(values)
}

func (x *xlsxWriter) Close() error {
	defer x.f.Close()
	if err := x.f.Write(x.w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
