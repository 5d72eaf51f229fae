// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/genizah-data/pkg/types"
)

const tableName = "records"

// sqlType maps a column to its SQLite storage class.
func sqlType(column string) string {
	switch column {
	case types.ColumnWidth, types.ColumnHeight:
		return "REAL"
	case types.ColumnColumns, types.ColumnLines:
		return "INTEGER"
	}
	return "TEXT"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

type sqliteWriter struct {
	db      *sql.DB
	tx      *sql.Tx
	insert  *sql.Stmt
	columns []string
}

// NewSQLite returns a RecordWriter that replaces the records table of the
// SQLite database at path. Rows are written in one transaction committed
// by Close. Missing values are stored as NULL.
func NewSQLite(path string, columns []string) (RecordWriter, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite output needs a file path")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s := &sqliteWriter{db: db, columns: columns}
	if err := s.prepare(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *sqliteWriter) prepare() error {
	defs := make([]string, len(s.columns))
	names := make([]string, len(s.columns))
	marks := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = quoteIdent(c)
		defs[i] = names[i] + " " + sqlType(c)
		marks[i] = "?"
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	statements := []string{
		`DROP TABLE IF EXISTS ` + tableName,
		`CREATE TABLE ` + tableName + ` (` + strings.Join(defs, ", ") + `)`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	insert, err := tx.Prepare(`INSERT INTO ` + tableName + ` (` + strings.Join(names, ", ") +
		`) VALUES (` + strings.Join(marks, ", ") + `)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing insert: %w", err)
	}
	s.tx = tx
	s.insert = insert
	return nil
}

func (s *sqliteWriter) Write(r types.Record) error {
	m := r.Map(s.columns)
	args := make([]any, len(s.columns))
	for i, c := range s.columns {
		args[i] = m[c]
	}
	if _, err := s.insert.Exec(args...); err != nil {
		return fmt.Errorf("inserting %s: %w", r.Classmark, err)
	}
	return nil
}

func (s *sqliteWriter) Close() error {
	defer s.db.Close()
	s.insert.Close()
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("committing records: %w", err)
	}
	return nil
}
