package registry

import (
	"context"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ExportToolFilter conditionally hides file-export tools unless explicitly
// enabled. Enable by setting environment variable LEADFUNNEL_ENABLE_EXPORTS=true.
type ExportToolFilter struct {
	allowExports bool
}

// NewExportToolFilterFromEnv constructs a filter using LEADFUNNEL_ENABLE_EXPORTS.
func NewExportToolFilterFromEnv() *ExportToolFilter {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("LEADFUNNEL_ENABLE_EXPORTS")))
	allow := v == "1" || v == "true" || v == "yes"
	return &ExportToolFilter{allowExports: allow}
}

// FilterTools implements server tool filtering semantics. When exports are
// disabled, tools prefixed export_ are excluded from discovery.
func (f *ExportToolFilter) FilterTools(ctx context.Context, tools []mcp.Tool) []mcp.Tool {
	if f.allowExports {
		return tools
	}
	out := make([]mcp.Tool, 0, len(tools))
	for _, t := range tools {
		if strings.HasPrefix(strings.ToLower(t.Name), "export_") {
			continue
		}
		out = append(out, t)
	}
	return out
}
