package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRows_Table(t *testing.T) {
	var buf bytes.Buffer
	err := renderRows(&buf, []string{"name", "amount"}, [][]any{
		{"north", int64(120)},
		{"south", nil},
	}, "table")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "north")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "(2 rows)")
}

func TestRenderRows_TableEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := renderRows(&buf, []string{"a"}, nil, "table")
	require.NoError(t, err)
	assert.Equal(t, "(0 rows)\n", buf.String())
}

func TestRenderRows_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := renderRows(&buf, []string{"name", "amount"}, [][]any{
		{"north", int64(120)},
	}, "json")
	require.NoError(t, err)

	var parsed []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	require.Len(t, parsed, 1)
	assert.Equal(t, "north", parsed[0]["name"])
	assert.Equal(t, float64(120), parsed[0]["amount"])
}

func TestRenderRows_CSV(t *testing.T) {
	var buf bytes.Buffer
	err := renderRows(&buf, []string{"name", "note"}, [][]any{
		{"north", "plain"},
		{"south", `has "quotes", and commas`},
		{"east", nil},
	}, "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "name,note", lines[0])
	assert.Equal(t, "north,plain", lines[1])
	assert.Equal(t, `south,"has ""quotes"", and commas"`, lines[2])
	assert.Equal(t, "east,NULL", lines[3])
}

func TestRenderRows_Markdown(t *testing.T) {
	var buf bytes.Buffer
	err := renderRows(&buf, []string{"a", "b"}, [][]any{
		{int64(1), "x"},
	}, "markdown")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "| a | b |", lines[0])
	assert.Equal(t, "| --- | --- |", lines[1])
	assert.Equal(t, "| 1 | x |", lines[2])
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "NULL", formatValue(nil))
	assert.Equal(t, "1.5", formatValue(1.5))
	assert.Equal(t, "true", formatValue(true))
}

func TestTableNameFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"sales.csv", "sales"},
		{"/data/monthly sales.csv", "monthly_sales"},
		{"report-2024.csv", "report_2024"},
		{"2024.csv", "t_2024"},
		{"data.backup.csv", "data_backup"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, tableNameFor(tt.path))
		})
	}
}
