package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/salesops/georeport/config"
	"github.com/salesops/georeport/internal/artifact"
	"github.com/salesops/georeport/internal/pipeline"
	"github.com/salesops/georeport/internal/render"
	"github.com/salesops/georeport/internal/report"
	"github.com/salesops/georeport/internal/runtime"
	"github.com/salesops/georeport/internal/security"
	"github.com/salesops/georeport/pkg/mcperr"
	"github.com/salesops/georeport/pkg/pagination"
	"github.com/salesops/georeport/pkg/validation"
)

// approxBytesPerToken is the coarse ratio used to turn a model context size
// into a character budget for inline report text.
const approxBytesPerToken = 4

// Deps carries everything the report tools need at registration time.
type Deps struct {
	Cfg      report.Config
	Limits   runtime.Limits
	Manager  *artifact.Manager
	Security *security.Manager
	Logger   zerolog.Logger
}

// --- Input / Output Schemas (typed for discovery) ---

// ProcessWorkbookInput defines parameters for running the report pipeline.
type ProcessWorkbookInput struct {
	Path      string `json:"path" validate:"required,filepath_ext,raw_filename" jsonschema_description:"Allowed path to a raw_data_YYMMDD.xlsx workbook"`
	OutputDir string `json:"output_dir" validate:"required" jsonschema_description:"Allowed directory where result_YYMMDD.xlsx is written"`
}

// ProcessWorkbookOutput documents the response fields for process_workbook.
type ProcessWorkbookOutput struct {
	ArtifactPath string   `json:"artifact_path" jsonschema_description:"Path of the persisted result artifact"`
	Timestamp    string   `json:"timestamp" jsonschema_description:"YYMMDD timestamp extracted from the input filename"`
	Sheets       []string `json:"sheets" jsonschema_description:"Pipeline-owned sheets written into the artifact"`
	Records      int      `json:"records" jsonschema_description:"Count of loaded sales records"`
}

// FormatResultInput defines parameters for rendering a result artifact as text.
// Cursor takes precedence over path and resumes a previous page.
type FormatResultInput struct {
	Path       string `json:"path,omitempty" validate:"required_without_all=Cursor ArtifactID,omitempty,filepath_ext" jsonschema_description:"Allowed path to a result artifact"`
	ArtifactID string `json:"artifact_id,omitempty" jsonschema_description:"Handle from open_result; alternative to path"`
	Cursor     string `json:"cursor,omitempty" validate:"omitempty,cursor" jsonschema_description:"Opaque token resuming a previous page"`
	Lines      int    `json:"lines,omitempty" validate:"omitempty,min=1,max=2000" jsonschema_description:"Max report lines per page"`
}

// PageMeta captures paging/truncation metadata.
type PageMeta struct {
	TotalLines int    `json:"total_lines"`
	Returned   int    `json:"returned"`
	Truncated  bool   `json:"truncated"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// FormatResultOutput documents the response fields for format_result.
type FormatResultOutput struct {
	Path   string   `json:"path"`
	Report string   `json:"report"`
	Meta   PageMeta `json:"meta"`
}

// ListResultsInput defines parameters for listing available result artifacts.
type ListResultsInput struct {
	Dir string `json:"dir" validate:"required" jsonschema_description:"Allowed directory containing result artifacts"`
}

// ResultInfo summarizes one persisted result artifact.
type ResultInfo struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	ModifiedAt string `json:"modified_at"`
	SizeBytes  int64  `json:"size_bytes"`
}

// ListResultsOutput documents the response fields for list_results.
type ListResultsOutput struct {
	Dir     string       `json:"dir"`
	Results []ResultInfo `json:"results"`
}

// OpenResultInput defines parameters for opening a result artifact handle.
type OpenResultInput struct {
	Path string `json:"path" validate:"required,filepath_ext" jsonschema_description:"Allowed path to a result artifact"`
}

// OpenResultOutput documents the response fields for open_result.
type OpenResultOutput struct {
	ArtifactID string `json:"artifact_id" jsonschema_description:"Server-assigned artifact handle ID"`
	Path       string `json:"path"`
}

// CloseResultInput defines parameters for closing an artifact handle.
type CloseResultInput struct {
	ArtifactID string `json:"artifact_id" validate:"required" jsonschema_description:"Artifact handle ID to close"`
}

// CloseResultOutput documents the response fields for close_result.
type CloseResultOutput struct {
	Success bool `json:"success" jsonschema_description:"True when the handle was closed"`
}

// RegisterReportTools wires the sales report pipeline tools.
func RegisterReportTools(s *server.MCPServer, reg *Registry, deps Deps) {
	registerProcessWorkbook(s, reg, deps)
	registerFormatResult(s, reg, deps)
	registerListResults(s, reg, deps)
	registerOpenClose(s, reg, deps)
}

func registerProcessWorkbook(s *server.MCPServer, reg *Registry, deps Deps) {
	tool := mcp.NewTool(
		"process_workbook",
		mcp.WithDescription("Run the geo sales report pipeline on a raw_data_YYMMDD.xlsx workbook: discover the sales table, aggregate revenue by geography/salesperson/quarter, rank the top 10 per geography (all offerings and ThinkShield Security), compute top-10 revenue share per geography bucket, and persist result_YYMMDD.xlsx. Owned sheets in an existing artifact are replaced; other sheets survive. Errors include INVALID_FILENAME, MISSING_COLUMNS, VALUE_CONVERSION, NO_DATA, and WRITE_FAILED."),
		mcp.WithInputSchema[ProcessWorkbookInput](),
		mcp.WithOutputSchema[ProcessWorkbookOutput](),
	)
	s.AddTool(tool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in ProcessWorkbookInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcperr.FromText(msg), nil
		}
		inputPath, err := deps.Security.ValidateOpenPath(in.Path)
		if err != nil {
			return securityError(err), nil
		}
		outDir, err := deps.Security.ValidateOutputDir(in.OutputDir)
		if err != nil {
			return securityError(err), nil
		}

		res, err := pipeline.New(deps.Cfg, deps.Logger).Run(inputPath, outDir)
		if err != nil {
			return pipelineError(err), nil
		}

		out := ProcessWorkbookOutput{
			ArtifactPath: res.ArtifactPath,
			Timestamp:    res.Timestamp,
			Sheets:       res.Sheets,
			Records:      res.Records,
		}
		summary := fmt.Sprintf("artifact=%s timestamp=%s records=%d sheets=%d", out.ArtifactPath, out.Timestamp, out.Records, len(out.Sheets))
		result := mcp.NewToolResultStructured(out, summary)
		result.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return result, nil
	}))
	reg.Register(tool)
}

func registerFormatResult(s *server.MCPServer, reg *Registry, deps Deps) {
	tool := mcp.NewTool(
		"format_result",
		mcp.WithDescription("Render a persisted result artifact as a human-readable text report: a banner naming the source artifact followed by one bordered section per sheet, rows joined with '|', numbers shown with two decimals and thousands grouping. Long reports are paged by line; pass the returned cursor to fetch the next page. Errors include OPEN_FAILED, FORMAT_FAILED, CURSOR_INVALID, and PERMISSION_DENIED."),
		mcp.WithInputSchema[FormatResultInput](),
		mcp.WithOutputSchema[FormatResultOutput](),
	)
	s.AddTool(tool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in FormatResultInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcperr.FromText(msg), nil
		}

		pageSize := in.Lines
		if pageSize <= 0 {
			pageSize = deps.Limits.ReportPageLines
		}
		offset := 0

		var path string
		var text string
		switch {
		case strings.TrimSpace(in.Cursor) != "":
			c, err := pagination.DecodeCursor(in.Cursor)
			if err != nil {
				return mcperr.New(mcperr.CursorInvalid, err.Error()), nil
			}
			// The path inside a cursor is client-supplied; re-check the allow-list.
			path, err = deps.Security.ValidateOpenPath(c.P)
			if err != nil {
				return securityError(err), nil
			}
			offset = c.Off
			pageSize = c.Ps
			text, err = render.FormatFile(path)
			if err != nil {
				return mcperr.New(mcperr.FormatFailed, err.Error()), nil
			}
		case strings.TrimSpace(in.ArtifactID) != "":
			var err error
			text, path, err = formatHandle(deps.Manager, in.ArtifactID)
			if errors.Is(err, artifact.ErrHandleNotFound) {
				return mcperr.New(mcperr.InvalidHandle, ""), nil
			}
			if err != nil {
				return mcperr.New(mcperr.FormatFailed, err.Error()), nil
			}
		default:
			var err error
			path, err = deps.Security.ValidateOpenPath(in.Path)
			if err != nil {
				return securityError(err), nil
			}
			text, err = render.FormatFile(path)
			if err != nil {
				return mcperr.New(mcperr.FormatFailed, err.Error()), nil
			}
		}

		out, err := pageReport(path, text, offset, pageSize, reportBudget(reg, deps.Limits))
		if err != nil {
			return mcperr.New(mcperr.FormatFailed, err.Error()), nil
		}
		summary := fmt.Sprintf("path=%s lines=%d/%d truncated=%v", out.Path, out.Meta.Returned, out.Meta.TotalLines, out.Meta.Truncated)
		result := mcp.NewToolResultStructured(out, summary)
		result.Content = []mcp.Content{mcp.NewTextContent(out.Report)}
		return result, nil
	}))
	reg.Register(tool)
}

func registerListResults(s *server.MCPServer, reg *Registry, deps Deps) {
	tool := mcp.NewTool(
		"list_results",
		mcp.WithDescription("List persisted result artifacts (result_*.xlsx) in an allowed directory, newest first, with modification time and size. Errors include LIST_FAILED and PERMISSION_DENIED."),
		mcp.WithInputSchema[ListResultsInput](),
		mcp.WithOutputSchema[ListResultsOutput](),
	)
	s.AddTool(tool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in ListResultsInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcperr.FromText(msg), nil
		}
		dir, err := deps.Security.ValidateOutputDir(in.Dir)
		if err != nil {
			return securityError(err), nil
		}
		matches, err := filepath.Glob(filepath.Join(dir, "result_*.xlsx"))
		if err != nil {
			return mcperr.New(mcperr.ListFailed, err.Error()), nil
		}

		out := ListResultsOutput{Dir: dir, Results: make([]ResultInfo, 0, len(matches))}
		for _, m := range matches {
			info, serr := os.Stat(m)
			if serr != nil {
				continue
			}
			out.Results = append(out.Results, ResultInfo{
				Name:       filepath.Base(m),
				Path:       m,
				ModifiedAt: info.ModTime().Format("2006-01-02 15:04:05"),
				SizeBytes:  info.Size(),
			})
		}
		sort.Slice(out.Results, func(i, j int) bool { return out.Results[i].ModifiedAt > out.Results[j].ModifiedAt })

		summary := fmt.Sprintf("dir=%s results=%d", dir, len(out.Results))
		result := mcp.NewToolResultStructured(out, summary)
		result.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return result, nil
	}))
	reg.Register(tool)
}

func registerOpenClose(s *server.MCPServer, reg *Registry, deps Deps) {
	openTool := mcp.NewTool(
		"open_result",
		mcp.WithDescription("Open a result artifact and return a TTL-bearing handle ID for repeated formatting without reopening the file. Errors include OPEN_FAILED, UNSUPPORTED_FORMAT, and PERMISSION_DENIED."),
		mcp.WithInputSchema[OpenResultInput](),
		mcp.WithOutputSchema[OpenResultOutput](),
	)
	s.AddTool(openTool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in OpenResultInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcperr.FromText(msg), nil
		}
		id, err := deps.Manager.Open(ctx, in.Path)
		if err != nil {
			if errors.Is(err, security.ErrNotAllowed) || errors.Is(err, security.ErrNotFound) || errors.Is(err, security.ErrUnsupportedExtension) {
				return securityError(err), nil
			}
			return mcperr.New(mcperr.OpenFailed, err.Error()), nil
		}
		out := OpenResultOutput{ArtifactID: id, Path: in.Path}
		summary := "artifact_id=" + id
		result := mcp.NewToolResultStructured(out, summary)
		result.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return result, nil
	}))
	reg.Register(openTool)

	closeTool := mcp.NewTool(
		"close_result",
		mcp.WithDescription("Close a previously opened result artifact handle."),
		mcp.WithInputSchema[CloseResultInput](),
		mcp.WithOutputSchema[CloseResultOutput](),
	)
	s.AddTool(closeTool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in CloseResultInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcperr.FromText(msg), nil
		}
		if err := deps.Manager.CloseHandle(in.ArtifactID); err != nil {
			if errors.Is(err, artifact.ErrHandleNotFound) {
				return mcperr.New(mcperr.InvalidHandle, ""), nil
			}
			return mcperr.New(mcperr.OpenFailed, err.Error()), nil
		}
		result := mcp.NewToolResultStructured(CloseResultOutput{Success: true}, "closed")
		result.Content = []mcp.Content{mcp.NewTextContent("closed")}
		return result, nil
	}))
	reg.Register(closeTool)
}

// formatHandle renders a report through a cached artifact handle.
func formatHandle(mgr *artifact.Manager, id string) (text, path string, err error) {
	h, ok := mgr.Get(id)
	if !ok {
		return "", "", artifact.ErrHandleNotFound
	}
	path = h.Path
	err = mgr.WithRead(id, func(f *excelize.File) error {
		text, err = render.FormatWorkbook(f, filepath.Base(path))
		return err
	})
	return text, path, err
}

// pageReport slices the rendered report into one page of lines and encodes a
// resume cursor when more lines remain. charBudget additionally bounds the
// page so the inline text stays within the model context window.
func pageReport(path, text string, offset, pageSize, charBudget int) (FormatResultOutput, error) {
	lines := strings.Split(text, "\n")
	total := len(lines)
	if offset > total {
		offset = total
	}
	end := offset + pageSize
	if end > total {
		end = total
	}

	page := lines[offset:end]
	size := 0
	for i, l := range page {
		size += len(l) + 1
		if size > charBudget {
			page = page[:i]
			end = offset + i
			break
		}
	}

	out := FormatResultOutput{
		Path:   path,
		Report: strings.Join(page, "\n"),
		Meta: PageMeta{
			TotalLines: total,
			Returned:   len(page),
			Truncated:  end < total,
		},
	}
	if out.Meta.Truncated {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			P:   path,
			Off: pagination.NextOffset(offset, len(page)),
			Ps:  pageSize,
		})
		if err != nil {
			return out, err
		}
		out.Meta.NextCursor = token
	}
	return out, nil
}

// reportBudget converts the configured model context window into a character
// budget, clamped to the payload limit.
func reportBudget(reg *Registry, limits runtime.Limits) int {
	budget := reg.ModelContextSize(config.DefaultModelName) * approxBytesPerToken
	if budget <= 0 || budget > limits.MaxPayloadBytes {
		budget = limits.MaxPayloadBytes
	}
	return budget
}

// securityError maps security manager failures to canonical tool errors.
func securityError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, security.ErrUnsupportedExtension):
		return mcperr.New(mcperr.UnsupportedFormat, "")
	case errors.Is(err, security.ErrNotFound):
		return mcperr.New(mcperr.OpenFailed, "file not found")
	default:
		return mcperr.New(mcperr.PermissionDenied, err.Error())
	}
}

// pipelineError maps pipeline error types to canonical tool errors.
func pipelineError(err error) *mcp.CallToolResult {
	var missingCols *report.MissingColumnsError
	var badValue *report.ValueConversionError
	var badName *report.InvalidFilenameError
	var writeErr *report.ArtifactWriteError
	switch {
	case errors.As(err, &badName):
		return mcperr.New(mcperr.InvalidFilename, badName.Error())
	case errors.As(err, &missingCols):
		return mcperr.New(mcperr.MissingColumns, missingCols.Error())
	case errors.As(err, &badValue):
		return mcperr.New(mcperr.ValueConversion, badValue.Error())
	case errors.As(err, &writeErr):
		return mcperr.New(mcperr.WriteFailed, writeErr.Error())
	case errors.Is(err, pipeline.ErrNoQuarters):
		return mcperr.New(mcperr.NoData, "")
	default:
		return mcperr.New(mcperr.OpenFailed, err.Error())
	}
}
