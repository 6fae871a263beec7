package report

import (
	"regexp"
	"strconv"
	"strings"
)

// SalesRecord is one typed row from the input table. Records are immutable
// after loading; rows whose geography is outside the allowed set never
// become records.
type SalesRecord struct {
	Geo         string
	Salesperson string
	Quarter     string
	Offering    string
	Revenue     float64
}

// CellKind discriminates the tagged CellValue variant.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
)

// CellValue models a dynamically typed spreadsheet cell: empty, text, or
// numeric. Coercions carry the loader's fallback and rejection rules.
type CellValue struct {
	Kind   CellKind
	Text   string
	Number float64
}

// ParseCell classifies a raw cell string. Values are trimmed; empty input
// yields CellEmpty, parseable numbers yield CellNumber, anything else text.
func ParseCell(raw string) CellValue {
	s := strings.TrimSpace(raw)
	if s == "" {
		return CellValue{Kind: CellEmpty}
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return CellValue{Kind: CellNumber, Text: s, Number: n}
	}
	return CellValue{Kind: CellText, Text: s}
}

// String returns the trimmed text of the cell, or "" when empty.
func (c CellValue) String() string {
	if c.Kind == CellEmpty {
		return ""
	}
	return c.Text
}

// Float coerces the cell to a float64. Empty cells and the literal "null"
// coerce to 0.0; any other non-numeric text is a conversion failure and the
// caller must abort the load.
func (c CellValue) Float() (float64, bool) {
	switch c.Kind {
	case CellEmpty:
		return 0.0, true
	case CellNumber:
		return c.Number, true
	default:
		if strings.EqualFold(c.Text, "null") {
			return 0.0, true
		}
		return 0, false
	}
}

// BlankSalesperson substitutes for an empty salesperson-name cell.
const BlankSalesperson = "blank"

// UnknownQuarter substitutes for an empty quarter cell.
const UnknownQuarter = "Unknown"

var quarterPattern = regexp.MustCompile(`^FY(\d{4})Q(\d)$`)

// quarterSortKey orders fiscal quarters chronologically. Labels matching
// FY<year>Q<quarter> sort by (year, quarter); unrecognized labels sort after
// all recognized ones, in first-seen order among themselves.
func quarterSortKey(label string, firstSeen int) [3]int {
	if m := quarterPattern.FindStringSubmatch(label); m != nil {
		year, _ := strconv.Atoi(m[1])
		q, _ := strconv.Atoi(m[2])
		return [3]int{0, year, q}
	}
	return [3]int{1, firstSeen, 0}
}

func lessQuarterKey(a, b [3]int) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[2] < b[2]
}
