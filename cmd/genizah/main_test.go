// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/genizah-data/pkg/types"
)

var (
	medicalFixture = filepath.Join("..", "..", "internal", "extract", "testdata", "T-S 8J4.1.xml")
	poemFixture    = filepath.Join("..", "..", "internal", "extract", "testdata", "ENA 1234.xml")
)

func testCommand(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetContext(context.Background())
	return cmd
}

func TestRunTitles(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runTitles(testCommand(&out), []string{medicalFixture, poemFixture}))

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus the one medical item")
	assert.Equal(t, types.TitleColumns, rows[0])
	assert.Equal(t, medicalFixture, rows[1][0])
	assert.Equal(t, "Medical prescription", rows[1][1])
	assert.Equal(t, "1100", rows[1][3])
	assert.Equal(t, "1200", rows[1][4])
}

func TestRunTitles_SkipsMalformed(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.xml")
	require.NoError(t, os.WriteFile(bad, []byte("<TEI><teiHeader>"), 0o644))

	var out bytes.Buffer
	require.NoError(t, runTitles(testCommand(&out), []string{bad, medicalFixture}))

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRunTitles_MissingFile(t *testing.T) {
	var out bytes.Buffer
	err := runTitles(testCommand(&out), []string{filepath.Join(t.TempDir(), "absent.xml")})
	require.Error(t, err)
}

func TestExtractConfig_Defaults(t *testing.T) {
	cfg := extractConfig()
	assert.Equal(t, types.FormatCSV, cfg.Format)
	assert.Equal(t, types.DefaultSubject, cfg.Filter.Subject)
	assert.Equal(t, types.DefaultKeyword, cfg.Filter.Keyword)
	assert.False(t, cfg.Filter.All)
	assert.Empty(t, cfg.Output)
}

func TestRunExtract(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runExtract(testCommand(&out), []string{medicalFixture, poemFixture}))

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, types.Columns, rows[0])
	assert.Equal(t, []string{
		"T-S 8J4.1", "Medical prescription",
		"Prescription for an eye ailment, with instructions for preparing the salve.",
		"paper", "1100", "1200", "12.5", "7.25", "2", "15",
	}, rows[1])
}

func TestOpenOutput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")
	w, closeFn, err := openOutput(testCommand(&bytes.Buffer{}), path)
	require.NoError(t, err)
	_, err = w.Write([]byte("classmark\n"))
	require.NoError(t, err)
	closeFn()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "classmark\n", string(data))
}

func allConfig(format types.OutputFormat, out string) types.ExtractConfig {
	cfg := types.ExtractConfig{Filter: types.FilterConfig{All: true}, Format: format, Output: out}
	cfg.SetDefaults()
	return cfg
}

func TestRunExtract_MissingFileKeepsEarlierRecords(t *testing.T) {
	var out bytes.Buffer
	absent := filepath.Join(t.TempDir(), "absent.xml")
	err := runExtract(testCommand(&out), []string{medicalFixture, absent})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2, "header and the record written before the failure")
	assert.Equal(t, "T-S 8J4.1", rows[1][0])
}

func TestExtractRecords_Formats(t *testing.T) {
	tests := []struct {
		format types.OutputFormat
		check  func(t *testing.T, path string)
	}{
		{types.FormatCSV, func(t *testing.T, path string) {
			f, err := os.Open(path)
			require.NoError(t, err)
			defer f.Close()
			rows, err := csv.NewReader(f).ReadAll()
			require.NoError(t, err)
			assert.Len(t, rows, 3)
		}},
		{types.FormatJSON, func(t *testing.T, path string) {
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			var got []map[string]any
			require.NoError(t, json.Unmarshal(data, &got))
			require.Len(t, got, 2)
			assert.Equal(t, "ENA 1234", got[1]["classmark"])
		}},
		{types.FormatYAML, func(t *testing.T, path string) {
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			var got []map[string]any
			require.NoError(t, yaml.Unmarshal(data, &got))
			assert.Len(t, got, 2)
		}},
		{types.FormatTable, func(t *testing.T, path string) {
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), "2 RECORDS")
		}},
		{types.FormatXLSX, func(t *testing.T, path string) {
			f, err := excelize.OpenFile(path)
			require.NoError(t, err)
			defer f.Close()
			rows, err := f.GetRows("Records")
			require.NoError(t, err)
			assert.Len(t, rows, 3)
		}},
		{types.FormatSQLite, func(t *testing.T, path string) {
			db, err := sql.Open("sqlite3", path)
			require.NoError(t, err)
			defer db.Close()
			var n int
			require.NoError(t, db.QueryRow(`SELECT count(*) FROM records`).Scan(&n))
			assert.Equal(t, 2, n)
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "records."+string(tt.format))
			var stdout bytes.Buffer
			require.NoError(t, extractRecords(testCommand(&stdout), allConfig(tt.format, path), []string{medicalFixture, poemFixture}))
			assert.Empty(t, stdout.String(), "records go to the output file")
			tt.check(t, path)
		})
	}
}

func TestExtractRecords_SQLiteNeedsOutput(t *testing.T) {
	err := extractRecords(testCommand(&bytes.Buffer{}), allConfig(types.FormatSQLite, ""), []string{medicalFixture})
	require.Error(t, err)
}

func writeArchive(t *testing.T, members map[string]string, order []string) string {
	t.Helper()
	var tarBuf bytes.Buffer
	tw := tar.NewWriter(&tarBuf)
	for _, name := range order {
		body := members[name]
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: int64(len(body)), Typeflag: tar.TypeReg}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())

	path := filepath.Join(t.TempDir(), "corpus.tar.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	gz := gzip.NewWriter(f)
	_, err = gz.Write(tarBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return path
}

func TestExtractRecords_Archive(t *testing.T) {
	medical, err := os.ReadFile(medicalFixture)
	require.NoError(t, err)

	archive := writeArchive(t, map[string]string{
		"batch/T-S 8J4.1.xml": string(medical),
		"batch/T-S 9.xml":     "<TEI/>trailing text",
		"batch/T-S 10.xml":    `<TEI><teiHeader xml:id="not an id"/></TEI>`,
		"batch/README.txt":    "not xml",
		"batch/ENA 2.xml":     `<TEI><teiHeader/></TEI>`,
	}, []string{"batch/T-S 8J4.1.xml", "batch/T-S 9.xml", "batch/T-S 10.xml", "batch/README.txt", "batch/ENA 2.xml"})

	var out bytes.Buffer
	require.NoError(t, extractRecords(testCommand(&out), allConfig(types.FormatCSV, ""), []string{archive}))

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	var classmarks []string
	for _, row := range rows[1:] {
		classmarks = append(classmarks, row[0])
	}
	assert.Equal(t, []string{"T-S 8J4.1", "ENA 2"}, classmarks,
		"malformed and invalid xml:id members contribute no records")
}
