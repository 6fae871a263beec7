package render

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFormatWorkbook_BannerAndSections(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Salesperson", "Total"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Alice", 15.0}))

	out, err := FormatWorkbook(f, "result_251103.xlsx")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	rule := strings.Repeat("=", 68)
	require.Equal(t, rule, lines[0])
	require.Equal(t, "Sales Performance Report: result_251103.xlsx", lines[1])
	require.Equal(t, rule, lines[2])

	require.Contains(t, out, "Sheet: Sheet1")
	require.Contains(t, out, "Salesperson | Total")
	require.Contains(t, out, "Alice | 15.00")
}

func TestFormatFile_RoundTrip(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "hello"))
	path := filepath.Join(t.TempDir(), "result_240101.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	out, err := FormatFile(path)
	require.NoError(t, err)
	require.Contains(t, out, "Sales Performance Report: result_240101.xlsx")
	require.Contains(t, out, "hello")
}

func TestFormatRow_AllEmptyIsBlankLine(t *testing.T) {
	require.Equal(t, "", formatRow([]string{"", "  ", ""}))
	require.Equal(t, "", formatRow(nil))
}

func TestFormatCell_NumericRendering(t *testing.T) {
	cases := map[string]string{
		"15":          "15.00",
		"0.5":         "0.50",
		"-3.126":      "-3.13",
		"999.994":     "999.99",
		"1000":        "1,000.00",
		"1234567.5":   "1,234,567.50",
		"-1234567.5":  "-1,234,567.50",
		"text":        "text",
		"FY2025Q1":    "FY2025Q1",
		"Alice Smith": "Alice Smith",
	}
	for in, want := range cases {
		require.Equal(t, want, formatCell(in), "in=%q", in)
	}
}
