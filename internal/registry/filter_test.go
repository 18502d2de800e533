package registry

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
)

func toolNames(tools []mcp.Tool) []string {
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name
	}
	return names
}

func TestExportToolFilter_HidesExportsByDefault(t *testing.T) {
	t.Setenv("LEADFUNNEL_ENABLE_EXPORTS", "")
	f := NewExportToolFilterFromEnv()

	tools := []mcp.Tool{
		{Name: "load_export"},
		{Name: "metrics_view"},
		{Name: "export_metrics_csv"},
	}
	got := f.FilterTools(context.Background(), tools)
	require.Equal(t, []string{"load_export", "metrics_view"}, toolNames(got))
}

func TestExportToolFilter_EnabledByEnv(t *testing.T) {
	for _, v := range []string{"1", "true", "YES"} {
		t.Setenv("LEADFUNNEL_ENABLE_EXPORTS", v)
		f := NewExportToolFilterFromEnv()
		tools := []mcp.Tool{{Name: "export_metrics_csv"}}
		require.Len(t, f.FilterTools(context.Background(), tools), 1, "env=%q", v)
	}
}

func TestRegistry_ToolsSorted(t *testing.T) {
	r := New()
	r.Register(mcp.Tool{Name: "metrics_view"})
	r.Register(mcp.Tool{Name: "load_export"})
	r.Register(mcp.Tool{Name: "summary_metrics"})

	tools, err := r.Tools(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"load_export", "metrics_view", "summary_metrics"}, toolNames(tools))

	_, ok := r.Get("load_export")
	require.True(t, ok)
	_, ok = r.Get("unknown")
	require.False(t, ok)
}
