// Package render turns a persisted report artifact into an aligned,
// human-readable text block. It is purely a read operation.
package render

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const bannerWidth = 68

// groupingThreshold is the magnitude above which numeric cells are rendered
// with thousands separators.
const groupingThreshold = 1000

// FormatFile opens the artifact at path and renders every sheet.
func FormatFile(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return FormatWorkbook(f, filepath.Base(path))
}

// FormatWorkbook renders each sheet in artifact order: a banner header names
// the report and source artifact, then every sheet becomes a bordered
// section of "|"-joined rows. Rows whose cells are all empty render as a
// blank line.
func FormatWorkbook(f *excelize.File, source string) (string, error) {
	var b strings.Builder
	rule := strings.Repeat("=", bannerWidth)

	b.WriteString(rule + "\n")
	b.WriteString("Sales Performance Report: " + source + "\n")
	b.WriteString(rule + "\n")

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("render: read sheet %q: %w", sheet, err)
		}
		b.WriteString("\n" + strings.Repeat("-", bannerWidth) + "\n")
		b.WriteString("Sheet: " + sheet + "\n")
		b.WriteString(strings.Repeat("-", bannerWidth) + "\n")
		for _, row := range rows {
			b.WriteString(formatRow(row) + "\n")
		}
	}
	return b.String(), nil
}

func formatRow(cells []string) string {
	empty := true
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			empty = false
			break
		}
	}
	if empty {
		return ""
	}
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = formatCell(c)
	}
	return strings.Join(parts, " | ")
}

// formatCell renders numeric values with two decimals, thousands-grouped
// above the magnitude threshold; everything else passes through trimmed.
func formatCell(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return formatNumber(n)
}

func formatNumber(n float64) string {
	s := strconv.FormatFloat(n, 'f', 2, 64)
	if n < groupingThreshold && n > -groupingThreshold {
		return s
	}
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]
	var grouped []string
	for len(intPart) > 3 {
		grouped = append([]string{intPart[len(intPart)-3:]}, grouped...)
		intPart = intPart[:len(intPart)-3]
	}
	grouped = append([]string{intPart}, grouped...)
	out := strings.Join(grouped, ",") + frac
	if neg {
		out = "-" + out
	}
	return out
}
