package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/closerlabs/leadfunnel/internal/datasets"
	"github.com/closerlabs/leadfunnel/internal/deals"
	"github.com/closerlabs/leadfunnel/internal/metrics"
	"github.com/closerlabs/leadfunnel/pkg/mcperr"
	"github.com/closerlabs/leadfunnel/pkg/pagination"
	"github.com/closerlabs/leadfunnel/pkg/validation"
)

// FilterInput selects the record subset fed to the metrics engine. Empty
// fields impose no constraint.
type FilterInput struct {
	DateFrom    string   `json:"date_from,omitempty" validate:"omitempty,isodate" jsonschema_description:"Inclusive creation-date lower bound (YYYY-MM-DD); requires date_to"`
	DateTo      string   `json:"date_to,omitempty" validate:"omitempty,isodate" jsonschema_description:"Inclusive creation-date upper bound (YYYY-MM-DD); requires date_from"`
	SourceCodes []string `json:"sc_types,omitempty" jsonschema_description:"Lead-source codes to keep (e.g. SC1, SC3, No SC)"`
	Pipelines   []string `json:"pipelines,omitempty" jsonschema_description:"Pipeline names to keep"`
	Segments    []string `json:"segments,omitempty" jsonschema_description:"Segments to keep (AAA, B-Tier, Non-Demo)"`
	AEs         []string `json:"aes,omitempty" jsonschema_description:"AE names to keep; unattributed records always pass this filter"`
	HeldOnly    bool     `json:"held_only,omitempty" jsonschema_description:"Restrict to AE-held deals (the per-AE view scoping)"`
}

// SummaryMetricsInput defines parameters for the top-line KPI aggregate.
type SummaryMetricsInput struct {
	DatasetID string      `json:"dataset_id" validate:"required" jsonschema_description:"Dataset handle ID"`
	Filters   FilterInput `json:"filters,omitempty"`
}

// SummaryMetricsOutput wraps the ungrouped aggregate.
type SummaryMetricsOutput struct {
	DatasetID string          `json:"dataset_id"`
	Records   int             `json:"records"`
	Summary   metrics.Summary `json:"summary"`
}

// MetricsViewInput defines parameters for a grouped metrics view.
type MetricsViewInput struct {
	DatasetID string      `json:"dataset_id" validate:"required" jsonschema_description:"Dataset handle ID"`
	GroupKeys []string    `json:"group_keys" validate:"required,min=1,dive,groupkey" jsonschema_description:"Ordered grouping fields: country, segment, ae_name, sc_type"`
	Filters   FilterInput `json:"filters,omitempty"`
	PageSize  int         `json:"page_size,omitempty" validate:"omitempty,min=1" jsonschema_description:"Max metrics rows per page (bounded)"`
	Cursor    string      `json:"cursor,omitempty" validate:"omitempty,cursor" jsonschema_description:"Opaque cursor from a previous page"`
}

// MetricsViewOutput documents grouped metrics results.
type MetricsViewOutput struct {
	DatasetID string        `json:"dataset_id"`
	GroupKeys []string      `json:"group_keys"`
	Rows      []metrics.Row `json:"rows"`
	Meta      PageMeta      `json:"meta"`
}

// ExportMetricsInput defines parameters for CSV rendering of a metrics view.
type ExportMetricsInput struct {
	DatasetID string      `json:"dataset_id" validate:"required" jsonschema_description:"Dataset handle ID"`
	GroupKeys []string    `json:"group_keys" validate:"required,min=1,dive,groupkey" jsonschema_description:"Ordered grouping fields: country, segment, ae_name, sc_type"`
	Filters   FilterInput `json:"filters,omitempty"`
}

// ExportMetricsOutput carries the rendered CSV text.
type ExportMetricsOutput struct {
	DatasetID string   `json:"dataset_id"`
	GroupKeys []string `json:"group_keys"`
	Rows      int      `json:"rows"`
	CSV       string   `json:"csv"`
}

// RegisterMetricsTools wires the funnel metrics tools.
func RegisterMetricsTools(s *server.MCPServer, reg *Registry, svc *Service) {
	// summary_metrics
	st := mcp.NewTool(
		"summary_metrics",
		mcp.WithDescription("Compute the top-line funnel KPIs over the filtered record set: demos booked, demos held, no-shows, won count, won value, no-show rate, and win rate. Zero denominators resolve to 0 by policy. Returns EMPTY_RESULT when the filters match no records."),
		mcp.WithInputSchema[SummaryMetricsInput](),
		mcp.WithOutputSchema[SummaryMetricsOutput](),
	)
	s.AddTool(st, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in SummaryMetricsInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		opts, errRes := filterOptionsOf(in.Filters)
		if errRes != nil {
			return errRes, nil
		}
		var out SummaryMetricsOutput
		out.DatasetID = in.DatasetID
		err := svc.Mgr.WithRecords(in.DatasetID, func(d *datasets.Dataset) error {
			subset := deals.Filter(d.Records, opts)
			out.Records = len(subset)
			out.Summary = metrics.ComputeSummary(subset)
			return nil
		})
		if errRes := toolError(err); errRes != nil {
			return errRes, nil
		}
		if out.Records == 0 {
			return mcperr.New(mcperr.EmptyResult, ""), nil
		}
		summary := fmt.Sprintf("booked=%d held=%d won=%d won_value=%.0f noshow_pct=%.1f won_pct=%.1f",
			out.Summary.DemosBooked, out.Summary.DemosHeld, out.Summary.Won, out.Summary.WonValue,
			out.Summary.NoShowPct*100, out.Summary.WonPct*100)
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(st)

	// metrics_view
	mv := mcp.NewTool(
		"metrics_view",
		mcp.WithDescription("Group the filtered records by an ordered list of classifier fields (country, segment, ae_name, sc_type, in any combination) and compute per-group funnel metrics: Booked, No-Show %, Held, Won, Won %, Value, Value/Held. One row per key combination present; no zero-filling; deterministic first-appearance order. Cursor-paginated. Set held_only for the per-AE views. Returns EMPTY_RESULT when the filters match no records."),
		mcp.WithInputSchema[MetricsViewInput](),
		mcp.WithOutputSchema[MetricsViewOutput](),
	)
	s.AddTool(mv, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in MetricsViewInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		out, table, errRes := svc.metricsView(in)
		if errRes != nil {
			return errRes, nil
		}
		summary := fmt.Sprintf("groups=%d returned=%d truncated=%v", out.Meta.Total, out.Meta.Returned, out.Meta.Truncated)
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary + "\n" + table)}
		return res, nil
	}))
	reg.Register(mv)

	// export_metrics_csv
	ex := mcp.NewTool(
		"export_metrics_csv",
		mcp.WithDescription("Render a grouped metrics view as CSV text with human-readable headers (Booked, No-Show %, Held, Won, Won %, Value, Value/Held). Percentages are scaled x100 with one decimal. Hidden unless LEADFUNNEL_ENABLE_EXPORTS is set."),
		mcp.WithInputSchema[ExportMetricsInput](),
		mcp.WithOutputSchema[ExportMetricsOutput](),
	)
	s.AddTool(ex, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in ExportMetricsInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		out, errRes := svc.exportMetricsCSV(in)
		if errRes != nil {
			return errRes, nil
		}
		summary := fmt.Sprintf("rows=%d bytes=%d", out.Rows, len(out.CSV))
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(out.CSV)}
		return res, nil
	}))
	reg.Register(ex)
}

func (svc *Service) metricsView(in MetricsViewInput) (MetricsViewOutput, string, *mcp.CallToolResult) {
	var out MetricsViewOutput
	out.DatasetID = in.DatasetID
	out.GroupKeys = in.GroupKeys

	keys, err := metrics.ParseKeys(in.GroupKeys)
	if err != nil {
		return out, "", mcperr.Wrapf(mcperr.Validation, "%v", err)
	}
	opts, errRes := filterOptionsOf(in.Filters)
	if errRes != nil {
		return out, "", errRes
	}

	pageSize := in.PageSize
	if pageSize <= 0 || pageSize > svc.Limits.MaxRowsPerPage {
		pageSize = svc.Limits.MaxRowsPerPage
	}

	viewHash := pagination.ViewHash(append([]string{in.DatasetID, "metrics", filterSignature(in.Filters)}, in.GroupKeys...)...)
	offset := 0
	if in.Cursor != "" {
		c, derr := pagination.DecodeCursor(in.Cursor)
		if derr != nil || c.Did != in.DatasetID || c.Vh != viewHash {
			return out, "", mcperr.New(mcperr.CursorInvalid, "")
		}
		offset = c.Off
		// Re-clamp the decoded page size and derive the page end by
		// subtraction so client-supplied extremes cannot overflow into a bad
		// slice bound.
		pageSize = c.Ps
		if pageSize > svc.Limits.MaxRowsPerPage {
			pageSize = svc.Limits.MaxRowsPerPage
		}
	}

	var table string
	err = svc.Mgr.WithRecords(in.DatasetID, func(d *datasets.Dataset) error {
		subset := deals.Filter(d.Records, opts)
		if len(subset) == 0 {
			return errEmptyResult
		}
		rows := metrics.Compute(subset, keys)
		total := len(rows)
		out.Meta.Total = total

		if offset > total {
			offset = total
		}
		end := total
		if total-offset > pageSize {
			end = offset + pageSize
		}
		out.Rows = rows[offset:end]
		out.Meta.Returned = len(out.Rows)
		out.Meta.Truncated = end < total
		if out.Meta.Truncated {
			next, eerr := pagination.EncodeCursor(pagination.Cursor{
				Did: in.DatasetID,
				Vh:  viewHash,
				Off: pagination.NextOffset(offset, out.Meta.Returned),
				Ps:  pageSize,
			})
			if eerr != nil {
				return eerr
			}
			out.Meta.NextCursor = next
		}
		table = metrics.RenderText(keys, out.Rows, metrics.RenderOptions{OmitBookedColumns: in.Filters.HeldOnly})
		return nil
	})
	if err == errEmptyResult {
		return out, "", mcperr.New(mcperr.EmptyResult, "")
	}
	if errRes := toolError(err); errRes != nil {
		return out, "", errRes
	}
	return out, table, nil
}

func (svc *Service) exportMetricsCSV(in ExportMetricsInput) (ExportMetricsOutput, *mcp.CallToolResult) {
	var out ExportMetricsOutput
	out.DatasetID = in.DatasetID
	out.GroupKeys = in.GroupKeys

	keys, err := metrics.ParseKeys(in.GroupKeys)
	if err != nil {
		return out, mcperr.Wrapf(mcperr.Validation, "%v", err)
	}
	opts, errRes := filterOptionsOf(in.Filters)
	if errRes != nil {
		return out, errRes
	}

	err = svc.Mgr.WithRecords(in.DatasetID, func(d *datasets.Dataset) error {
		subset := deals.Filter(d.Records, opts)
		if len(subset) == 0 {
			return errEmptyResult
		}
		rows := metrics.Compute(subset, keys)
		out.Rows = len(rows)

		var b strings.Builder
		if werr := metrics.WriteCSV(&b, keys, rows, metrics.RenderOptions{OmitBookedColumns: in.Filters.HeldOnly}); werr != nil {
			return werr
		}
		out.CSV = b.String()
		return nil
	})
	if err == errEmptyResult {
		return out, mcperr.New(mcperr.EmptyResult, "")
	}
	if err == datasets.ErrNotFound {
		return out, mcperr.New(mcperr.InvalidDataset, "")
	}
	if err != nil {
		return out, mcperr.Wrapf(mcperr.ExportFailed, "%v", err)
	}
	return out, nil
}

// errEmptyResult signals a zero-row subset out of a WithRecords closure so
// the handler can map it to the EMPTY_RESULT tool error.
var errEmptyResult = fmt.Errorf("empty result")

// filterOptionsOf converts tool filter inputs to the core filter options.
func filterOptionsOf(in FilterInput) (deals.FilterOptions, *mcp.CallToolResult) {
	var opts deals.FilterOptions
	if (in.DateFrom == "") != (in.DateTo == "") {
		return opts, mcperr.New(mcperr.Validation, "date_from and date_to must be provided together")
	}
	if in.DateFrom != "" {
		from, err := time.Parse("2006-01-02", in.DateFrom)
		if err != nil {
			return opts, mcperr.Wrapf(mcperr.Validation, "invalid date_from: %v", err)
		}
		to, err := time.Parse("2006-01-02", in.DateTo)
		if err != nil {
			return opts, mcperr.Wrapf(mcperr.Validation, "invalid date_to: %v", err)
		}
		if to.Before(from) {
			return opts, mcperr.New(mcperr.Validation, "date_to precedes date_from")
		}
		opts.From = &from
		opts.To = &to
	}
	opts.SourceCodes = in.SourceCodes
	opts.Pipelines = in.Pipelines
	opts.Segments = in.Segments
	opts.AEs = in.AEs
	opts.HeldOnly = in.HeldOnly
	return opts, nil
}

// filterSignature produces a stable string over filter inputs for view
// hashing, so cursors cannot cross filter changes.
func filterSignature(in FilterInput) string {
	parts := []string{
		in.DateFrom, in.DateTo,
		strings.Join(in.SourceCodes, ","),
		strings.Join(in.Pipelines, ","),
		strings.Join(in.Segments, ","),
		strings.Join(in.AEs, ","),
		fmt.Sprintf("held=%v", in.HeldOnly),
	}
	return strings.Join(parts, ";")
}

// toolError maps shared closure errors to canonical tool errors; nil when err
// is nil.
func toolError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return nil
	case err == datasets.ErrNotFound:
		return mcperr.New(mcperr.InvalidDataset, "")
	default:
		return mcperr.Wrapf(mcperr.AnalysisFailed, "%v", err)
	}
}
