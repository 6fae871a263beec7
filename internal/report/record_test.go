package report

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCell_Kinds(t *testing.T) {
	require.Equal(t, CellEmpty, ParseCell("").Kind)
	require.Equal(t, CellEmpty, ParseCell("   ").Kind)
	require.Equal(t, CellNumber, ParseCell("12.5").Kind)
	require.Equal(t, CellNumber, ParseCell(" -3 ").Kind)
	require.Equal(t, CellText, ParseCell("FY2025Q1").Kind)
}

func TestCellValue_Float(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"", 0.0, true},
		{"  ", 0.0, true},
		{"null", 0.0, true},
		{"NULL", 0.0, true},
		{"Null", 0.0, true},
		{"12.5", 12.5, true},
		{"-0.25", -0.25, true},
		{"abc", 0, false},
		{"12,5", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseCell(tc.raw).Float()
		require.Equal(t, tc.ok, ok, "raw=%q", tc.raw)
		if ok {
			require.Equal(t, tc.want, got, "raw=%q", tc.raw)
		}
	}
}

func TestCellValue_StringTrims(t *testing.T) {
	require.Equal(t, "Alice", ParseCell("  Alice ").String())
	require.Equal(t, "", ParseCell("   ").String())
}

func TestQuarterSortKey_Ordering(t *testing.T) {
	fy := quarterSortKey("FY2025Q4", 0)
	fyNext := quarterSortKey("FY2026Q1", 1)
	unknown := quarterSortKey("Unknown", 2)
	odd := quarterSortKey("H1-2025", 3)

	require.True(t, lessQuarterKey(fy, fyNext))
	require.True(t, lessQuarterKey(fyNext, unknown))
	require.True(t, lessQuarterKey(unknown, odd))
	require.False(t, lessQuarterKey(odd, unknown))
}
