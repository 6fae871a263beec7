package registry

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/salesops/georeport/pkg/pagination"
)

func TestRegistry_RegisterAndList(t *testing.T) {
	r := New()
	r.Register(mcp.NewTool("format_result"))
	r.Register(mcp.NewTool("process_workbook"))

	tool, ok := r.Get("process_workbook")
	require.True(t, ok)
	require.Equal(t, "process_workbook", tool.Name)

	tools, err := r.Tools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 2)
	// Stable name order for discovery.
	require.Equal(t, "format_result", tools[0].Name)
	require.Equal(t, "process_workbook", tools[1].Name)
}

func TestRegistry_ModelContextSize(t *testing.T) {
	r := New()
	require.Greater(t, r.ModelContextSize("gpt-4o"), 0)
}

func TestReadOnlyToolFilter(t *testing.T) {
	tools := []mcp.Tool{
		mcp.NewTool("process_workbook"),
		mcp.NewTool("format_result"),
		mcp.NewTool("list_results"),
	}

	open := (&ReadOnlyToolFilter{}).FilterTools(context.Background(), tools)
	require.Len(t, open, 3)

	locked := (&ReadOnlyToolFilter{readOnly: true}).FilterTools(context.Background(), tools)
	require.Len(t, locked, 2)
	for _, tool := range locked {
		require.False(t, strings.HasPrefix(tool.Name, "process_"))
	}
}

func TestPageReport_PagesAndCursor(t *testing.T) {
	text := strings.Join([]string{"l1", "l2", "l3", "l4", "l5"}, "\n")

	out, err := pageReport("result_251103.xlsx", text, 0, 2, 1<<20)
	require.NoError(t, err)
	require.Equal(t, "l1\nl2", out.Report)
	require.Equal(t, 5, out.Meta.TotalLines)
	require.Equal(t, 2, out.Meta.Returned)
	require.True(t, out.Meta.Truncated)
	require.NotEmpty(t, out.Meta.NextCursor)

	c, err := pagination.DecodeCursor(out.Meta.NextCursor)
	require.NoError(t, err)
	require.Equal(t, 2, c.Off)
	require.Equal(t, 2, c.Ps)

	// Resume from the cursor to the end.
	out, err = pageReport("result_251103.xlsx", text, c.Off, 10, 1<<20)
	require.NoError(t, err)
	require.Equal(t, "l3\nl4\nl5", out.Report)
	require.False(t, out.Meta.Truncated)
	require.Empty(t, out.Meta.NextCursor)
}

func TestPageReport_CharBudgetBounds(t *testing.T) {
	long := strings.Repeat("x", 100)
	text := strings.Join([]string{long, long, long}, "\n")

	out, err := pageReport("r.xlsx", text, 0, 10, 150)
	require.NoError(t, err)
	require.Equal(t, 1, out.Meta.Returned)
	require.True(t, out.Meta.Truncated)
}

func TestPageReport_OffsetPastEnd(t *testing.T) {
	out, err := pageReport("r.xlsx", "only", 42, 10, 1<<20)
	require.NoError(t, err)
	require.Equal(t, "", out.Report)
	require.False(t, out.Meta.Truncated)
}
