package export_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Tiliavir/worktime/internal/export"
)

func TestWriteCSV(t *testing.T) {
	tbl := export.Table{
		Headers: []string{"project", "comment"},
		Rows: [][]string{
			{"plain", "with,comma"},
			{"quote", `with"quote`},
			{"newline", "a\nb"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, tbl, export.SeparatorComma))
	want := "project,comment\n" +
		"plain,\"with,comma\"\n" +
		"quote,\"with\"\"quote\"\n" +
		"newline,\"a\nb\"\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVSemicolonWithoutHeaders(t *testing.T) {
	tbl := export.Table{Rows: [][]string{{"a", "b,c", "d;e"}}}

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, tbl, export.SeparatorSemicolon))
	assert.Equal(t, "a;b,c;\"d;e\"\n", buf.String())
}

func TestWriteCSVInvalidSeparator(t *testing.T) {
	tbl := export.Table{Rows: [][]string{{"a"}}}
	err := export.WriteCSV(&bytes.Buffer{}, tbl, export.Separator('"'))
	require.Error(t, err)
	assert.ErrorIs(t, err, export.ErrGeneralExport)
}

func TestSaveCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "report.csv")
	tbl := export.Table{Headers: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}}

	require.NoError(t, export.SaveCSV(path, tbl, export.SeparatorComma))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must not remain")
}

func TestSaveCSVFailureIsGeneralExport(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := export.SaveCSV(filepath.Join(blocker, "out.csv"), export.Table{}, export.SeparatorComma)
	require.Error(t, err)
	assert.ErrorIs(t, err, export.ErrGeneralExport)
}

func TestSaveWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xlsx")
	wb := export.Workbook{Sheets: map[string]export.Table{
		export.SheetReport: {},
		export.SheetData: {
			Headers: []string{"Start date", "Project"},
			Rows:    [][]string{{"2023-01-01", "Worktime"}, {"2023-01-02", "Other"}},
		},
	}}

	require.NoError(t, export.SaveWorkbook(path, wb))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{export.SheetReport, export.SheetData}, f.GetSheetList())

	rows, err := f.GetRows(export.SheetData)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Start date", "Project"},
		{"2023-01-01", "Worktime"},
		{"2023-01-02", "Other"},
	}, rows)

	report, err := f.GetRows(export.SheetReport)
	require.NoError(t, err)
	assert.Empty(t, report)
}

func TestSaveWorkbookFailureIsGeneralExport(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := export.SaveWorkbook(filepath.Join(blocker, "out.xlsx"), export.Workbook{})
	require.Error(t, err)
	assert.ErrorIs(t, err, export.ErrGeneralExport)
}

func TestSavePDF(t *testing.T) {
	dir := t.TempDir()
	tbl := export.Table{
		Headers: []string{"Project", "Task", "", "Total"},
		Rows:    [][]string{{"Worktime", "Backend", "", "01h 30m 45s"}},
	}

	for name, table := range map[string]export.Table{"report.pdf": tbl, "empty.pdf": {}} {
		path := filepath.Join(dir, name)
		require.NoError(t, export.SavePDF(path, "Week 2026-W09", table))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "%s is not a PDF", name)
	}
}

func TestParseSeparator(t *testing.T) {
	tests := []struct {
		in   string
		want export.Separator
	}{
		{"comma", export.SeparatorComma},
		{",", export.SeparatorComma},
		{"Semicolon", export.SeparatorSemicolon},
		{"tab", export.SeparatorTab},
		{"|", export.SeparatorPipe},
	}
	for _, tt := range tests {
		got, err := export.ParseSeparator(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := export.ParseSeparator("colon")
	assert.Error(t, err)
}
