// Package mcperr defines the canonical tool error codes and attaches
// next-step guidance for MCP clients that surface only a message string.
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
	Validation     Code = "VALIDATION"
	InvalidDataset Code = "INVALID_DATASET"
	CursorInvalid  Code = "CURSOR_INVALID"

	// Resource & Limits
	BusyResource  Code = "BUSY_RESOURCE"
	Timeout       Code = "TIMEOUT"
	LimitExceeded Code = "LIMIT_EXCEEDED"

	// IO & Formats
	LoadFailed        Code = "LOAD_FAILED"
	UnsupportedFormat Code = "UNSUPPORTED_FORMAT"
	PermissionDenied  Code = "PERMISSION_DENIED"
	ExportFailed      Code = "EXPORT_FAILED"

	// Analysis
	AnalysisFailed Code = "ANALYSIS_FAILED"
	EmptyResult    Code = "EMPTY_RESULT"
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
	Validation:     {Code: Validation, Message: "invalid inputs", Retryable: true, NextSteps: []string{"Correct the inputs per schema and retry", "See examples in tool description"}},
	InvalidDataset: {Code: InvalidDataset, Message: "dataset not found or expired", Retryable: true, NextSteps: []string{"Reload the export via load_export and retry"}},
	CursorInvalid:  {Code: CursorInvalid, Message: "cursor is invalid for current context", Retryable: true, NextSteps: []string{"Restart pagination from the first page", "Reissue the view with the same keys and filters"}},

	BusyResource:  {Code: BusyResource, Message: "concurrent request limit reached", Retryable: true, NextSteps: []string{"Retry after a short delay"}},
	Timeout:       {Code: Timeout, Message: "operation exceeded configured time limit", Retryable: true, NextSteps: []string{"Narrow the filters or reduce page size"}},
	LimitExceeded: {Code: LimitExceeded, Message: "operation exceeded configured limits", Retryable: true, NextSteps: []string{"Reduce rows, groups, or page size"}},

	LoadFailed:        {Code: LoadFailed, Message: "failed to load export", Retryable: true, NextSteps: []string{"Verify path, permissions, and format"}},
	UnsupportedFormat: {Code: UnsupportedFormat, Message: "unsupported export format", Retryable: false, NextSteps: []string{"Provide a .csv or .xlsx Pipedrive export"}},
	PermissionDenied:  {Code: PermissionDenied, Message: "path is outside the allowed directories", Retryable: false, NextSteps: []string{"Choose a file inside LEADFUNNEL_ALLOWED_DIRS"}},
	ExportFailed:      {Code: ExportFailed, Message: "failed to render metrics export", Retryable: true, NextSteps: []string{"Retry or reduce the number of groups"}},

	AnalysisFailed: {Code: AnalysisFailed, Message: "metrics computation failed", Retryable: true, NextSteps: []string{"Verify group keys and filters"}},
	EmptyResult:    {Code: EmptyResult, Message: "no records match the selected filters", Retryable: true, NextSteps: []string{"Relax the date range or filter sets", "Check the source-code selection (SC5/SC6 are excluded by default)"}},
}

// normalize builds a standard error string including next steps. Format:
// "CODE: message" followed by a guidance tail.
func normalize(code Code, msg string) string {
	base := strings.TrimSpace(msg)
	e, ok := catalog[code]
	if !ok {
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

// New returns an MCP error result for a given code and optional message override.
func New(code Code, message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(normalize(code, message))
}

// Wrapf formats details and returns an MCP error result for the code.
func Wrapf(code Code, format string, args ...any) *mcp.CallToolResult {
	return mcp.NewToolResultError(normalize(code, fmt.Sprintf(format, args...)))
}
