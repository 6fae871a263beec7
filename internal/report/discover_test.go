package report

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sheetWithTwoBlocks(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	sh := "Sheet1"
	// Block 1 at A1:B3
	require.NoError(t, f.SetSheetRow(sh, "A1", &[]string{"Label", "Count"}))
	require.NoError(t, f.SetSheetRow(sh, "A2", &[]string{"x", "1"}))
	require.NoError(t, f.SetSheetRow(sh, "A3", &[]string{"y", "2"}))
	// Gap, then block 2 at D6:F8
	require.NoError(t, f.SetSheetRow(sh, "D6", &[]string{"Geo", "Quarter", "Revenue ($M)"}))
	require.NoError(t, f.SetSheetRow(sh, "D7", &[]string{"NA", "FY2025Q1", "1.5"}))
	require.NoError(t, f.SetSheetRow(sh, "D8", &[]string{"AP", "FY2025Q1", "2.0"}))
	return f
}

func TestDetectTables_FindsSeparatedBlocks(t *testing.T) {
	f := sheetWithTwoBlocks(t)
	defer f.Close()

	cands, err := detectTables(f, "Sheet1")
	require.NoError(t, err)
	require.Len(t, cands, 2)

	first := cands[0]
	require.Equal(t, 0, first.HeaderRow)
	require.Equal(t, 0, first.ColStart)
	require.Equal(t, []string{"Label", "Count"}, first.Header)

	second := cands[1]
	require.Equal(t, 5, second.HeaderRow)
	require.Equal(t, 3, second.ColStart)
	require.Equal(t, 5, second.ColEnd)
	require.Equal(t, []string{"Geo", "Quarter", "Revenue ($M)"}, second.Header)
}

func TestDetectTables_IgnoresIsolatedCells(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "orphan"))
	require.NoError(t, f.SetCellValue("Sheet1", "E9", "another"))

	cands, err := detectTables(f, "Sheet1")
	require.NoError(t, err)
	require.Empty(t, cands)
}

func TestHeaderIndex_AbsoluteColumns(t *testing.T) {
	idx := headerIndex(tableCandidate{
		HeaderRow: 5,
		ColStart:  3,
		ColEnd:    5,
		Header:    []string{"Geo", " Quarter ", ""},
	})
	require.Equal(t, 3, idx["Geo"])
	require.Equal(t, 4, idx["Quarter"])
	_, ok := idx[""]
	require.False(t, ok)
}
