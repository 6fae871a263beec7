package report

import (
	"strings"

	"github.com/salesops/georeport/config"
	"github.com/xuri/excelize/v2"
)

// tableCandidate describes a detected rectangular region that likely forms a
// table. Coordinates are 0-based within the scanned grid; HeaderRow is the
// first row of the block.
type tableCandidate struct {
	HeaderRow int
	ColStart  int
	ColEnd    int
	Header    []string
}

// detectTables scans a sheet for rectangular table regions using a bounded
// streaming read and 4-directional connected-component growth over non-empty
// cells. Candidates are returned top-to-bottom, left-to-right, so the first
// qualifying header wins during loading. Only the block header row matters
// downstream; data rows are re-streamed by the loader without a row bound.
func detectTables(f *excelize.File, sheet string) ([]tableCandidate, error) {
	scanRows, scanCols := scanBounds(f, sheet)

	vals := make([][]string, scanRows)
	present := make([][]bool, scanRows)
	for i := 0; i < scanRows; i++ {
		vals[i] = make([]string, scanCols)
		present[i] = make([]bool, scanCols)
	}

	r, err := f.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	rowIdx := 0
	for r.Next() {
		rowIdx++
		if rowIdx > scanRows {
			break
		}
		rowVals, cerr := r.Columns()
		if cerr != nil {
			return nil, cerr
		}
		for c := 0; c < scanCols && c < len(rowVals); c++ {
			v := strings.TrimSpace(rowVals[c])
			if v != "" {
				present[rowIdx-1][c] = true
				vals[rowIdx-1][c] = v
			}
		}
	}
	if err := r.Error(); err != nil {
		return nil, err
	}

	type rect struct{ r1, c1, r2, c2 int }
	visited := make([][]bool, scanRows)
	for i := 0; i < scanRows; i++ {
		visited[i] = make([]bool, scanCols)
	}

	var blocks []rect
	var queue [][2]int
	for row := 0; row < scanRows; row++ {
		for col := 0; col < scanCols; col++ {
			if !present[row][col] || visited[row][col] {
				continue
			}
			visited[row][col] = true
			queue = append(queue[:0], [2]int{row, col})
			b := rect{r1: row, c1: col, r2: row, c2: col}
			for len(queue) > 0 {
				cr, cc := queue[0][0], queue[0][1]
				queue = queue[1:]
				if cr < b.r1 {
					b.r1 = cr
				}
				if cr > b.r2 {
					b.r2 = cr
				}
				if cc < b.c1 {
					b.c1 = cc
				}
				if cc > b.c2 {
					b.c2 = cc
				}
				if cr > 0 && present[cr-1][cc] && !visited[cr-1][cc] {
					visited[cr-1][cc] = true
					queue = append(queue, [2]int{cr - 1, cc})
				}
				if cr+1 < scanRows && present[cr+1][cc] && !visited[cr+1][cc] {
					visited[cr+1][cc] = true
					queue = append(queue, [2]int{cr + 1, cc})
				}
				if cc > 0 && present[cr][cc-1] && !visited[cr][cc-1] {
					visited[cr][cc-1] = true
					queue = append(queue, [2]int{cr, cc - 1})
				}
				if cc+1 < scanCols && present[cr][cc+1] && !visited[cr][cc+1] {
					visited[cr][cc+1] = true
					queue = append(queue, [2]int{cr, cc + 1})
				}
			}
			// A table needs a header row plus at least one data row.
			if b.r2 > b.r1 && b.c2 >= b.c1 {
				blocks = append(blocks, b)
			}
		}
	}

	cands := make([]tableCandidate, 0, len(blocks))
	for _, b := range blocks {
		header := make([]string, 0, b.c2-b.c1+1)
		for c := b.c1; c <= b.c2; c++ {
			header = append(header, vals[b.r1][c])
		}
		cands = append(cands, tableCandidate{
			HeaderRow: b.r1,
			ColStart:  b.c1,
			ColEnd:    b.c2,
			Header:    header,
		})
	}
	return cands, nil
}

// scanBounds caps the detection grid to the sheet's used range and the
// configured scan limits.
func scanBounds(f *excelize.File, sheet string) (rows, cols int) {
	rows, cols = config.DefaultMaxScanRows, config.DefaultMaxScanCols
	dim, err := f.GetSheetDimension(sheet)
	if err != nil || dim == "" {
		return rows, cols
	}
	parts := strings.Split(dim, ":")
	if len(parts) != 2 {
		return rows, cols
	}
	_, _, e1 := excelize.CellNameToCoordinates(parts[0])
	x2, y2, e2 := excelize.CellNameToCoordinates(parts[1])
	if e1 != nil || e2 != nil {
		return rows, cols
	}
	if y2 > 0 && y2 < rows {
		rows = y2
	}
	if x2 > 0 && x2 < cols {
		cols = x2
	}
	// Keep the presence grid within the per-sheet cell cap.
	if rows*cols > config.DefaultMaxCellsPerSheet {
		rows = config.DefaultMaxCellsPerSheet / cols
		if rows < 1 {
			rows = 1
		}
	}
	return rows, cols
}

// headerIndex maps trimmed non-empty header names to absolute 0-based column
// indexes within the sheet.
func headerIndex(cand tableCandidate) map[string]int {
	idx := make(map[string]int, len(cand.Header))
	for off, name := range cand.Header {
		name = strings.TrimSpace(name)
		if name != "" {
			idx[name] = cand.ColStart + off
		}
	}
	return idx
}
