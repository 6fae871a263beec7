package artifact

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/salesops/georeport/internal/report"
)

func fixedClock() time.Time {
	return time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)
}

func sampleResults() Results {
	quarters := []string{"FY2025Q1", "FY2025Q2"}
	return Results{
		SourceName: "raw_data_251103.xlsx",
		Quarters:   quarters,
		AllTop: map[string][]report.RankedEntry{
			"NA": {
				{Salesperson: "Alice", PerQuarter: []float64{10, 5}, Total: 15},
				{Salesperson: "Bob", PerQuarter: []float64{7, 0}, Total: 7},
			},
			"AP": {
				{Salesperson: "Chen", PerQuarter: []float64{4, 0}, Total: 4},
			},
		},
		FilteredTop: map[string][]report.RankedEntry{
			"NA": {
				{Salesperson: "Alice", PerQuarter: []float64{10, 0}, Total: 10},
			},
		},
		AllShares: []report.BucketShare{
			{
				Bucket:          "NA",
				Total:           report.GroupTotals{PerQuarter: []float64{17, 5}, Grand: 22},
				TopN:            report.GroupTotals{PerQuarter: []float64{17, 5}, Grand: 22},
				PercentQuarters: []float64{1, 1},
				PercentGrand:    1,
			},
		},
		FilteredShares: []report.BucketShare{
			{
				Bucket:          "NA",
				Total:           report.GroupTotals{PerQuarter: []float64{10, 0}, Grand: 10},
				TopN:            report.GroupTotals{PerQuarter: []float64{10, 0}, Grand: 10},
				PercentQuarters: []float64{1, 0},
				PercentGrand:    1,
			},
		},
	}
}

func TestWrite_FreshArtifactLayout(t *testing.T) {
	cfg := report.Default()
	w := NewWriter(cfg).WithClock(fixedClock)
	path := filepath.Join(t.TempDir(), "result_251103.xlsx")

	require.NoError(t, w.Write(path, sampleResults()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	// Exactly the owned sheets, summary first; the default Sheet1 is gone.
	require.Equal(t, cfg.OwnedSheets(), f.GetSheetList())

	rows, err := f.GetRows(cfg.AllSheet)
	require.NoError(t, err)

	// AP precedes NA because geographies render in configured order.
	require.Equal(t, "AP", rows[0][0])
	require.Equal(t, []string{"Salesperson", "FY2025Q1", "FY2025Q2", "Total"}, rows[1])
	require.Equal(t, "Chen", rows[2][0])
	require.Equal(t, "AP Total", rows[3][0])

	require.Equal(t, "NA", rows[5][0])
	require.Equal(t, "Alice", rows[7][0])
	require.Equal(t, "Bob", rows[8][0])
	require.Equal(t, "NA Total", rows[9][0])

	total, err := f.GetCellValue(cfg.AllSheet, "D9", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Equal(t, "7", total)
}

func TestWrite_PercentSheetRows(t *testing.T) {
	cfg := report.Default()
	w := NewWriter(cfg).WithClock(fixedClock)
	path := filepath.Join(t.TempDir(), "result_251103.xlsx")
	require.NoError(t, w.Write(path, sampleResults()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(cfg.PercentSheet)
	require.NoError(t, err)
	require.Equal(t, "NA", rows[0][0])
	require.Equal(t, []string{"", "FY2025Q1", "FY2025Q2", "Grand Total"}, rows[1])
	require.Equal(t, "Sum of Revenue ($M)", rows[2][0])
	require.Equal(t, "Top 10 FTF", rows[3][0])
	require.Equal(t, "Top 10 FTF Rev %", rows[4][0])
}

func TestWrite_SummaryMetadata(t *testing.T) {
	cfg := report.Default()
	w := NewWriter(cfg).WithClock(fixedClock)
	path := filepath.Join(t.TempDir(), "result_251103.xlsx")
	require.NoError(t, w.Write(path, sampleResults()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(cfg.SummarySheet, "A1")
	require.NoError(t, err)
	require.Equal(t, "Sales Performance Report", title)

	source, err := f.GetCellValue(cfg.SummarySheet, "B3")
	require.NoError(t, err)
	require.Equal(t, "raw_data_251103.xlsx", source)

	generated, err := f.GetCellValue(cfg.SummarySheet, "B4")
	require.NoError(t, err)
	require.Equal(t, "2025-11-03 09:30:00", generated)
}

func TestWrite_NoDataMarker(t *testing.T) {
	cfg := report.Default()
	w := NewWriter(cfg).WithClock(fixedClock)
	path := filepath.Join(t.TempDir(), "result_251103.xlsx")

	res := sampleResults()
	res.FilteredTop = map[string][]report.RankedEntry{}
	require.NoError(t, w.Write(path, res))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	marker, err := f.GetCellValue(cfg.FilteredSheet, "A1")
	require.NoError(t, err)
	require.Equal(t, "No data available.", marker)
}

func TestWrite_RerunIsIdempotent(t *testing.T) {
	cfg := report.Default()
	w := NewWriter(cfg).WithClock(fixedClock)
	path := filepath.Join(t.TempDir(), "result_251103.xlsx")
	res := sampleResults()

	require.NoError(t, w.Write(path, res))
	first := readAllSheets(t, path)

	require.NoError(t, w.Write(path, res))
	second := readAllSheets(t, path)

	require.Equal(t, first, second)
}

func TestWrite_PreservesUnownedSheets(t *testing.T) {
	cfg := report.Default()
	path := filepath.Join(t.TempDir(), "result_251103.xlsx")

	// Seed the artifact with a sheet the pipeline does not own.
	seed := excelize.NewFile()
	_, err := seed.NewSheet("Notes")
	require.NoError(t, err)
	require.NoError(t, seed.SetCellValue("Notes", "A1", "keep me"))
	require.NoError(t, seed.SaveAs(path))
	require.NoError(t, seed.Close())

	w := NewWriter(cfg).WithClock(fixedClock)
	require.NoError(t, w.Write(path, sampleResults()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	kept, err := f.GetCellValue("Notes", "A1")
	require.NoError(t, err)
	require.Equal(t, "keep me", kept)

	sheets := f.GetSheetList()
	require.Equal(t, cfg.SummarySheet, sheets[0])
	require.Contains(t, sheets, "Notes")
	// The pre-existing default sheet survives; only a fresh workbook's
	// default sheet is removed.
	require.Contains(t, sheets, "Sheet1")
}

func readAllSheets(t *testing.T, path string) map[string][][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	out := make(map[string][][]string)
	for _, sheet := range f.GetSheetList() {
		rows, rerr := f.GetRows(sheet)
		require.NoError(t, rerr)
		out[sheet] = rows
	}
	return out
}
