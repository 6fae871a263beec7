package report

import (
	"io"
	"sort"

	"github.com/xuri/excelize/v2"
)

// Loader locates the table containing the required columns, coerces raw
// cells into typed SalesRecords, and tracks quarter label ordering.
type Loader struct {
	cfg Config
}

// NewLoader constructs a Loader bound to an immutable configuration.
func NewLoader(cfg Config) *Loader {
	return &Loader{cfg: cfg}
}

// selectedTable pins the chosen table: its sheet, 1-based header row, and
// column-name to absolute 0-based column index mapping.
type selectedTable struct {
	Sheet     string
	HeaderRow int
	Columns   map[string]int
}

// Load opens a workbook file and loads its sales table.
func (l *Loader) Load(path string) ([]string, []SalesRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return l.loadFile(f, path)
}

// LoadReader loads a sales table from a raw workbook byte stream, for
// callers that hand over bytes rather than a filesystem path.
func (l *Loader) LoadReader(r io.Reader, source string) ([]string, []SalesRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return l.loadFile(f, source)
}

func (l *Loader) loadFile(f *excelize.File, source string) ([]string, []SalesRecord, error) {
	sel, err := l.selectTable(f)
	if err != nil {
		return nil, nil, err
	}
	if sel == nil {
		cols := append([]string(nil), l.cfg.RequiredColumns...)
		sort.Strings(cols)
		return nil, nil, &MissingColumnsError{Path: source, Columns: cols}
	}
	return l.readRecords(f, sel)
}

// selectTable scans candidate tables across all sheets and picks the first
// one whose header set is a superset of the required columns.
func (l *Loader) selectTable(f *excelize.File) (*selectedTable, error) {
	for _, sheet := range f.GetSheetList() {
		cands, err := detectTables(f, sheet)
		if err != nil {
			return nil, err
		}
		for _, cand := range cands {
			idx := headerIndex(cand)
			if !containsColumns(idx, l.cfg.RequiredColumns) {
				continue
			}
			return &selectedTable{Sheet: sheet, HeaderRow: cand.HeaderRow + 1, Columns: idx}, nil
		}
	}
	return nil, nil
}

// readRecords streams every row below the header. Rows with a geography
// outside the allowed set are skipped silently; a non-numeric revenue cell
// aborts the whole load.
func (l *Loader) readRecords(f *excelize.File, sel *selectedTable) ([]string, []SalesRecord, error) {
	rows, err := f.Rows(sel.Sheet)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	geoCol := sel.Columns[l.cfg.GeoColumn]
	nameCol := sel.Columns[l.cfg.SalespersonColumn]
	quarterCol := sel.Columns[l.cfg.QuarterColumn]
	revenueCol := sel.Columns[l.cfg.RevenueColumn]
	offeringCol := sel.Columns[l.cfg.OfferingColumn]

	firstSeen := make(map[string]int)
	var order []string
	var records []SalesRecord

	rowIdx := 0
	for rows.Next() {
		rowIdx++
		if rowIdx <= sel.HeaderRow {
			continue
		}
		vals, cerr := rows.Columns()
		if cerr != nil {
			return nil, nil, cerr
		}

		geo := cellAt(vals, geoCol).String()
		if !l.cfg.AllowsGeo(geo) {
			continue
		}

		salesperson := cellAt(vals, nameCol).String()
		if salesperson == "" {
			salesperson = BlankSalesperson
		}
		quarter := cellAt(vals, quarterCol).String()
		if quarter == "" {
			quarter = UnknownQuarter
		}
		offering := cellAt(vals, offeringCol).String()

		revCell := cellAt(vals, revenueCol)
		revenue, ok := revCell.Float()
		if !ok {
			cell, _ := excelize.CoordinatesToCellName(revenueCol+1, rowIdx)
			return nil, nil, &ValueConversionError{Sheet: sel.Sheet, Cell: cell, Value: revCell.Text}
		}

		if _, seen := firstSeen[quarter]; !seen {
			firstSeen[quarter] = len(order)
			order = append(order, quarter)
		}
		records = append(records, SalesRecord{
			Geo:         geo,
			Salesperson: salesperson,
			Quarter:     quarter,
			Offering:    offering,
			Revenue:     revenue,
		})
	}
	if err := rows.Error(); err != nil {
		return nil, nil, err
	}

	sort.SliceStable(order, func(i, j int) bool {
		return lessQuarterKey(
			quarterSortKey(order[i], firstSeen[order[i]]),
			quarterSortKey(order[j], firstSeen[order[j]]),
		)
	})
	return order, records, nil
}

func cellAt(vals []string, col int) CellValue {
	if col < 0 || col >= len(vals) {
		return CellValue{Kind: CellEmpty}
	}
	return ParseCell(vals[col])
}

func containsColumns(idx map[string]int, required []string) bool {
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return false
		}
	}
	return true
}
