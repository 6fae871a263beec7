package mcperr

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Code defines a canonical MCP error code used across tools.
type Code string

const (
	// Validation & Input
	Validation      Code = "VALIDATION"
	InvalidHandle   Code = "INVALID_HANDLE"
	InvalidFilename Code = "INVALID_FILENAME"
	CursorInvalid   Code = "CURSOR_INVALID"

	// Resource & Limits
	BusyResource    Code = "BUSY_RESOURCE"
	Timeout         Code = "TIMEOUT"
	PayloadTooLarge Code = "PAYLOAD_TOO_LARGE"

	// IO & Formats
	OpenFailed        Code = "OPEN_FAILED"
	WriteFailed       Code = "WRITE_FAILED"
	FormatFailed      Code = "FORMAT_FAILED"
	ListFailed        Code = "LIST_FAILED"
	UnsupportedFormat Code = "UNSUPPORTED_FORMAT"
	PermissionDenied  Code = "PERMISSION_DENIED"

	// Pipeline
	MissingColumns  Code = "MISSING_COLUMNS"
	ValueConversion Code = "VALUE_CONVERSION"
	NoData          Code = "NO_DATA"
)

// Entry documents a code's standard message, retry semantics, and next steps.
type Entry struct {
	Code      Code
	Message   string
	Retryable bool
	NextSteps []string
}

// catalog maps canonical codes to guidance. Messages can be overridden per error.
var catalog = map[Code]Entry{
	Validation:      {Code: Validation, Message: "invalid inputs", Retryable: true, NextSteps: []string{"Correct the inputs per schema and retry", "See examples in tool description"}},
	InvalidHandle:   {Code: InvalidHandle, Message: "artifact handle not found or expired", Retryable: true, NextSteps: []string{"Reopen the artifact via path and retry"}},
	InvalidFilename: {Code: InvalidFilename, Message: "input filename must match raw_data_YYMMDD.xlsx", Retryable: true, NextSteps: []string{"Rename the workbook to raw_data_<YYMMDD>.xlsx and retry"}},
	CursorInvalid:   {Code: CursorInvalid, Message: "cursor is invalid for current context", Retryable: true, NextSteps: []string{"Restart pagination from the first page"}},

	BusyResource:    {Code: BusyResource, Message: "concurrent request limit reached", Retryable: true, NextSteps: []string{"Retry after a short delay"}},
	Timeout:         {Code: Timeout, Message: "operation exceeded configured time limit", Retryable: true, NextSteps: []string{"Retry with a smaller workbook or increase the timeout"}},
	PayloadTooLarge: {Code: PayloadTooLarge, Message: "payload exceeds configured size", Retryable: true, NextSteps: []string{"Use pagination to fetch the report in pages"}},

	OpenFailed:        {Code: OpenFailed, Message: "failed to open workbook", Retryable: true, NextSteps: []string{"Verify path, permissions, and format"}},
	WriteFailed:       {Code: WriteFailed, Message: "failed to write report artifact", Retryable: false, NextSteps: []string{"Verify the output directory is writable", "Check disk space"}},
	FormatFailed:      {Code: FormatFailed, Message: "failed to format result artifact", Retryable: true, NextSteps: []string{"Verify the artifact was produced by process_workbook"}},
	ListFailed:        {Code: ListFailed, Message: "failed to list result artifacts", Retryable: true, NextSteps: []string{"Verify the output directory exists"}},
	UnsupportedFormat: {Code: UnsupportedFormat, Message: "unsupported workbook format", Retryable: false, NextSteps: []string{"Convert to .xlsx and retry"}},
	PermissionDenied:  {Code: PermissionDenied, Message: "insufficient permissions to access path", Retryable: false, NextSteps: []string{"Choose a path inside an allowed directory"}},

	MissingColumns:  {Code: MissingColumns, Message: "no table exposes the required column set", Retryable: false, NextSteps: []string{"Ensure the workbook has Geo, FTF_Name, Quarter, Revenue ($M), oh_l3_sub_offering columns"}},
	ValueConversion: {Code: ValueConversion, Message: "a revenue cell holds a non-numeric value", Retryable: false, NextSteps: []string{"Fix the offending cell and re-upload; blank and null cells are treated as 0"}},
	NoData:          {Code: NoData, Message: "no quarter data found in the input workbook", Retryable: false, NextSteps: []string{"Verify the table contains data rows for recognized geographies"}},
}

// normalize builds a standard error string including next steps for MCP clients that
// surface only a message string. Format: "CODE: message" followed by a guidance tail.
func normalize(code Code, msg string) string {
	base := strings.TrimSpace(msg)
	e, ok := catalog[code]
	if !ok {
		// Unknown code; preserve as-is
		if base == "" {
			return string(code)
		}
		return fmt.Sprintf("%s: %s", string(code), base)
	}
	if base == "" {
		base = e.Message
	}
	guidance := ""
	if len(e.NextSteps) > 0 {
		guidance = " | nextSteps: " + strings.Join(e.NextSteps, "; ")
	}
	return fmt.Sprintf("%s: %s%s", e.Code, base, guidance)
}

// FromText parses a "CODE: message" string, enriches it with catalog guidance,
// and returns an MCP tool error result.
func FromText(text string) *mcp.CallToolResult {
	t := strings.TrimSpace(text)
	if t == "" {
		return mcp.NewToolResultError(normalize(Validation, ""))
	}
	parts := strings.SplitN(t, ":", 2)
	code := Code(strings.TrimSpace(parts[0]))
	msg := ""
	if len(parts) > 1 {
		msg = strings.TrimSpace(parts[1])
	}
	return mcp.NewToolResultError(normalize(code, msg))
}

// New returns an MCP error result for a given code and optional message override.
func New(code Code, message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(normalize(code, message))
}

// Wrapf formats details and returns an MCP error result for the code.
func Wrapf(code Code, format string, args ...any) *mcp.CallToolResult {
	return mcp.NewToolResultError(normalize(code, fmt.Sprintf(format, args...)))
}
