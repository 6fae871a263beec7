package artifact

import (
	"fmt"
	"os"
	"time"

	"github.com/salesops/georeport/internal/report"
	"github.com/xuri/excelize/v2"
)

// currencyFormat matches the revenue cell rendering of the report sheets.
const currencyFormat = `[$$-409]#,##0.00`

// Results bundles everything the writer persists for one pipeline run.
type Results struct {
	SourceName     string
	Quarters       []string
	AllTop         map[string][]report.RankedEntry
	FilteredTop    map[string][]report.RankedEntry
	AllShares      []report.BucketShare
	FilteredShares []report.BucketShare
}

// Writer serializes ranking and percent-analysis results into the named
// sheets of a persisted workbook. Each owned sheet is deleted and recreated
// on every run; sheets the writer does not own survive untouched. The write
// is not all-or-nothing: a failure mid-write can leave some owned sheets
// replaced and others not.
type Writer struct {
	cfg   report.Config
	clock func() time.Time
}

// NewWriter constructs a Writer for the given configuration.
func NewWriter(cfg report.Config) *Writer {
	return &Writer{cfg: cfg, clock: time.Now}
}

// WithClock overrides the generation timestamp source, for reproducible
// artifacts in tests.
func (w *Writer) WithClock(clock func() time.Time) *Writer {
	w.clock = clock
	return w
}

// Write loads or creates the artifact at path, replaces every owned sheet,
// and saves. Failures are reported as *report.ArtifactWriteError.
func (w *Writer) Write(path string, res Results) error {
	f, fresh, err := loadOrCreate(path)
	if err != nil {
		return &report.ArtifactWriteError{Path: path, Err: err}
	}
	defer f.Close()

	if err := w.writeSheets(f, res); err != nil {
		return &report.ArtifactWriteError{Path: path, Err: err}
	}

	// A fresh workbook starts with a default sheet the pipeline does not own.
	if fresh {
		if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 && !w.owns("Sheet1") {
			if err := f.DeleteSheet("Sheet1"); err != nil {
				return &report.ArtifactWriteError{Path: path, Err: err}
			}
		}
	}
	if err := w.moveSummaryFirst(f); err != nil {
		return &report.ArtifactWriteError{Path: path, Err: err}
	}

	if err := f.SaveAs(path); err != nil {
		return &report.ArtifactWriteError{Path: path, Err: err}
	}
	return nil
}

func (w *Writer) writeSheets(f *excelize.File, res Results) error {
	if err := w.writeSummary(f, res.SourceName); err != nil {
		return err
	}

	currency, percent, err := newStyles(f)
	if err != nil {
		return err
	}
	if err := w.writeRanking(f, w.cfg.AllSheet, res.Quarters, res.AllTop, currency); err != nil {
		return err
	}
	if err := w.writeRanking(f, w.cfg.FilteredSheet, res.Quarters, res.FilteredTop, currency); err != nil {
		return err
	}
	if err := w.writePercent(f, w.cfg.PercentSheet, res.Quarters, res.AllShares, currency, percent); err != nil {
		return err
	}
	return w.writePercent(f, w.cfg.PercentFilteredSheet, res.Quarters, res.FilteredShares, currency, percent)
}

// writeRanking lays out one geography-ranking sheet: per geography a label
// row, a header row, one row per ranked entry with currency-formatted cells,
// a "<Geo> Total" row, and a blank separator. Geographies with no entries
// are skipped; a sheet with no data anywhere gets a single marker cell.
func (w *Writer) writeRanking(f *excelize.File, sheet string, quarters []string, top map[string][]report.RankedEntry, currency int) error {
	if err := replaceSheet(f, sheet); err != nil {
		return err
	}

	hasData := false
	for _, geo := range w.cfg.Geos {
		if len(top[geo]) > 0 {
			hasData = true
			break
		}
	}
	if !hasData {
		return f.SetCellValue(sheet, "A1", "No data available.")
	}

	header := make([]interface{}, 0, len(quarters)+2)
	header = append(header, "Salesperson")
	for _, q := range quarters {
		header = append(header, q)
	}
	header = append(header, "Total")

	row := 1
	for _, geo := range w.cfg.Geos {
		entries := top[geo]
		if len(entries) == 0 {
			continue
		}

		if err := f.SetCellValue(sheet, cellName(1, row), geo); err != nil {
			return err
		}
		row++
		if err := setRow(f, sheet, row, header); err != nil {
			return err
		}
		row++

		geoTotals := make([]float64, len(quarters)+1)
		for _, e := range entries {
			line := make([]interface{}, 0, len(header))
			line = append(line, e.Salesperson)
			for i, v := range e.PerQuarter {
				line = append(line, v)
				geoTotals[i] += v
			}
			line = append(line, e.Total)
			geoTotals[len(quarters)] += e.Total
			if err := setRow(f, sheet, row, line); err != nil {
				return err
			}
			if err := styleRange(f, sheet, 2, len(header), row, currency); err != nil {
				return err
			}
			row++
		}

		if err := f.SetCellValue(sheet, cellName(1, row), geo+" Total"); err != nil {
			return err
		}
		for i, v := range geoTotals {
			if err := f.SetCellValue(sheet, cellName(i+2, row), v); err != nil {
				return err
			}
		}
		if err := styleRange(f, sheet, 2, len(header), row, currency); err != nil {
			return err
		}
		row += 2 // blank row between geographies
	}
	return nil
}

// writePercent lays out one percent-analysis sheet: per bucket a label row,
// a header row, the raw-total row, the top-10-total row, and a percentage
// row, with a blank separator between buckets.
func (w *Writer) writePercent(f *excelize.File, sheet string, quarters []string, shares []report.BucketShare, currency, percent int) error {
	if err := replaceSheet(f, sheet); err != nil {
		return err
	}

	header := make([]interface{}, 0, len(quarters)+2)
	header = append(header, "")
	for _, q := range quarters {
		header = append(header, q)
	}
	header = append(header, "Grand Total")
	width := len(header)

	row := 1
	for _, share := range shares {
		if err := f.SetCellValue(sheet, cellName(1, row), share.Bucket); err != nil {
			return err
		}
		row++
		if err := setRow(f, sheet, row, header); err != nil {
			return err
		}
		row++

		totalLine := numberLine("Sum of Revenue ($M)", share.Total.PerQuarter, share.Total.Grand)
		if err := setRow(f, sheet, row, totalLine); err != nil {
			return err
		}
		if err := styleRange(f, sheet, 2, width, row, currency); err != nil {
			return err
		}
		row++

		topLine := numberLine("Top 10 FTF", share.TopN.PerQuarter, share.TopN.Grand)
		if err := setRow(f, sheet, row, topLine); err != nil {
			return err
		}
		if err := styleRange(f, sheet, 2, width, row, currency); err != nil {
			return err
		}
		row++

		pctLine := numberLine("Top 10 FTF Rev %", share.PercentQuarters, share.PercentGrand)
		if err := setRow(f, sheet, row, pctLine); err != nil {
			return err
		}
		if err := styleRange(f, sheet, 2, width, row, percent); err != nil {
			return err
		}
		row += 2 // blank row between buckets
	}
	return nil
}

// writeSummary records generation metadata and a static description of every
// other owned sheet. The summary sheet is always placed first.
func (w *Writer) writeSummary(f *excelize.File, sourceName string) error {
	sheet := w.cfg.SummarySheet
	if err := replaceSheet(f, sheet); err != nil {
		return err
	}

	lines := [][]interface{}{
		{"Sales Performance Report"},
		nil,
		{"Source file", sourceName},
		{"Generated", w.clock().Format("2006-01-02 15:04:05")},
		nil,
		{"Sheet", "Description"},
		{w.cfg.AllSheet, "Top 10 salespeople by total revenue for each geography."},
		{w.cfg.FilteredSheet, fmt.Sprintf("Top 10 %s salespeople for each geography.", w.cfg.FilterOfferingValue)},
		{w.cfg.PercentSheet, "Top 10 share of total revenue per geography bucket."},
		{w.cfg.PercentFilteredSheet, fmt.Sprintf("Top 10 share of %s revenue per geography bucket.", w.cfg.FilterOfferingValue)},
	}
	for i, line := range lines {
		if line == nil {
			continue
		}
		if err := setRow(f, sheet, i+1, line); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) owns(name string) bool {
	for _, s := range w.cfg.OwnedSheets() {
		if s == name {
			return true
		}
	}
	return false
}

func (w *Writer) moveSummaryFirst(f *excelize.File) error {
	sheets := f.GetSheetList()
	if len(sheets) == 0 || sheets[0] == w.cfg.SummarySheet {
		return nil
	}
	return f.MoveSheet(w.cfg.SummarySheet, sheets[0])
}

// loadOrCreate opens an existing artifact or starts a fresh workbook.
func loadOrCreate(path string) (*excelize.File, bool, error) {
	if _, err := os.Stat(path); err == nil {
		f, oerr := excelize.OpenFile(path)
		return f, false, oerr
	} else if !os.IsNotExist(err) {
		return nil, false, err
	}
	return excelize.NewFile(), true, nil
}

// replaceSheet deletes an owned sheet when present and recreates it empty.
func replaceSheet(f *excelize.File, name string) error {
	if idx, err := f.GetSheetIndex(name); err == nil && idx != -1 {
		if err := f.DeleteSheet(name); err != nil {
			return err
		}
	}
	_, err := f.NewSheet(name)
	return err
}

func newStyles(f *excelize.File) (currency, percent int, err error) {
	fmtStr := currencyFormat
	currency, err = f.NewStyle(&excelize.Style{CustomNumFmt: &fmtStr})
	if err != nil {
		return 0, 0, err
	}
	percent, err = f.NewStyle(&excelize.Style{NumFmt: 9}) // "0%"
	if err != nil {
		return 0, 0, err
	}
	return currency, percent, nil
}

func setRow(f *excelize.File, sheet string, row int, vals []interface{}) error {
	return f.SetSheetRow(sheet, cellName(1, row), &vals)
}

func styleRange(f *excelize.File, sheet string, colFrom, colTo, row, style int) error {
	return f.SetCellStyle(sheet, cellName(colFrom, row), cellName(colTo, row), style)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func numberLine(label string, perQuarter []float64, grand float64) []interface{} {
	line := make([]interface{}, 0, len(perQuarter)+2)
	line = append(line, label)
	for _, v := range perQuarter {
		line = append(line, v)
	}
	return append(line, grand)
}
