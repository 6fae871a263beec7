package registry

import (
	"context"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReadOnlyToolFilter conditionally hides pipeline tools that write artifacts.
// Enable read-only mode by setting environment variable GEOREPORT_READ_ONLY=true.
type ReadOnlyToolFilter struct {
	readOnly bool
}

// NewReadOnlyToolFilterFromEnv constructs a filter using GEOREPORT_READ_ONLY.
func NewReadOnlyToolFilterFromEnv() *ReadOnlyToolFilter {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("GEOREPORT_READ_ONLY")))
	ro := v == "1" || v == "true" || v == "yes"
	return &ReadOnlyToolFilter{readOnly: ro}
}

// FilterTools implements server tool filtering semantics. In read-only mode,
// tools prefixed with process_ are excluded from discovery; formatting and
// listing tools remain available.
func (f *ReadOnlyToolFilter) FilterTools(ctx context.Context, tools []mcp.Tool) []mcp.Tool {
	if !f.readOnly {
		return tools
	}
	out := make([]mcp.Tool, 0, len(tools))
	for _, t := range tools {
		if strings.HasPrefix(strings.ToLower(t.Name), "process_") {
			continue
		}
		out = append(out, t)
	}
	return out
}
