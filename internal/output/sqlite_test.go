// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/genizah-data/pkg/types"
)

func writeSQLite(t *testing.T, path string) {
	t.Helper()
	w, err := NewSQLite(path, types.Columns)
	require.NoError(t, err)
	for _, r := range sampleRecords() {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Close())
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	writeSQLite(t, path)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var (
		title   string
		width   float64
		lines   int
		summary sql.NullString
	)
	row := db.QueryRow(`SELECT title, width, lines FROM records WHERE classmark = ?`, "T-S 8J4.1")
	require.NoError(t, row.Scan(&title, &width, &lines))
	assert.Equal(t, "Medical prescription", title)
	assert.Equal(t, 12.5, width)
	assert.Equal(t, 15, lines)

	row = db.QueryRow(`SELECT summary FROM records WHERE classmark = ?`, "ENA 1234")
	require.NoError(t, row.Scan(&summary))
	assert.False(t, summary.Valid, "missing values are NULL")
}

func TestSQLite_ReplacesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	writeSQLite(t, path)
	writeSQLite(t, path)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM records`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestNewSQLite_NeedsPath(t *testing.T) {
	_, err := NewSQLite("", types.Columns)
	require.Error(t, err)
}
