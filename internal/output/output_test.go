// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/genizah-data/pkg/types"
)

func sampleRecords() []types.Record {
	return []types.Record{
		{
			Source:    "corpus/T-S 8J4.1.xml",
			Classmark: "T-S 8J4.1",
			Title:     types.Some("Medical prescription"),
			Summary:   types.Some("Eye salve, with \"quoted\" text, and commas"),
			Material:  types.Some("paper"),
			DateStart: types.Some("1100"),
			DateEnd:   types.Some("1200"),
			Width:     types.Some(12.5),
			Height:    types.Some(7.25),
			Columns:   types.Some(2),
			Lines:     types.Some(15),
		},
		{
			Source:    "corpus/ENA 1234.xml",
			Classmark: "ENA 1234",
			Title:     types.Some("Medical glossary"),
		},
	}
}

func writeAll(t *testing.T, format types.OutputFormat, columns []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := New(format, &buf, columns)
	require.NoError(t, err)
	for _, r := range sampleRecords() {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestCSV(t *testing.T) {
	rows, err := csv.NewReader(bytes.NewReader(writeAll(t, types.FormatCSV, types.Columns))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, types.Columns, rows[0])
	assert.Equal(t, []string{
		"T-S 8J4.1", "Medical prescription", `Eye salve, with "quoted" text, and commas`, "paper",
		"1100", "1200", "12.5", "7.25", "2", "15",
	}, rows[1])
	assert.Equal(t, []string{"ENA 1234", "Medical glossary", "", "", "", "", "", "", "", ""}, rows[2])
}

func TestCSV_TitleColumns(t *testing.T) {
	rows, err := csv.NewReader(bytes.NewReader(writeAll(t, types.FormatCSV, types.TitleColumns))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"path", "title", "summary", "date_start", "date_end"}, rows[0])
	assert.Equal(t, []string{"corpus/ENA 1234.xml", "Medical glossary", "", "", ""}, rows[2])
}

func TestCSV_HeaderOnlyWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(types.FormatCSV, &buf, types.TitleColumns)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "path,title,summary,date_start,date_end\n", buf.String())
}

func TestJSON(t *testing.T) {
	var got []map[string]any
	require.NoError(t, json.Unmarshal(writeAll(t, types.FormatJSON, types.Columns), &got))
	require.Len(t, got, 2)

	assert.Equal(t, "T-S 8J4.1", got[0]["classmark"])
	assert.Equal(t, 12.5, got[0]["width"])
	assert.Equal(t, float64(15), got[0]["lines"])

	require.Len(t, got[1], len(types.Columns), "missing values keep their keys")
	assert.Nil(t, got[1]["width"])
	assert.Nil(t, got[1]["date_start"])
}

func TestJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(types.FormatJSON, &buf, types.Columns)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "[]\n", buf.String())
}

func TestYAML(t *testing.T) {
	out := writeAll(t, types.FormatYAML, types.Columns)

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(out, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "1100", got[0]["date_start"], "dates stay strings")
	assert.Equal(t, 7.25, got[0]["height"])
	assert.Equal(t, 2, got[0]["columns"])
	assert.Nil(t, got[1]["material"])

	first := strings.SplitN(string(out), "\n", 2)[0]
	assert.Equal(t, "- classmark: T-S 8J4.1", first, "column order preserved")
}

func TestTable(t *testing.T) {
	out := string(writeAll(t, types.FormatTable, types.TitleColumns))
	assert.Contains(t, out, "PATH")
	assert.Contains(t, out, "Medical prescription")
	assert.Contains(t, out, "corpus/ENA 1234.xml")
	assert.Contains(t, out, "2 RECORDS")
}

func TestXLSX(t *testing.T) {
	out := writeAll(t, types.FormatXLSX, types.Columns)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, types.Columns, rows[0])
	assert.Equal(t, "Medical prescription", rows[1][1])
	assert.Equal(t, "12.5", rows[1][6])
	assert.Equal(t, "ENA 1234", rows[2][0])
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New("parquet", &bytes.Buffer{}, types.Columns)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parquet")
}
