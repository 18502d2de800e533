package registry

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/closerlabs/leadfunnel/internal/datasets"
	"github.com/closerlabs/leadfunnel/internal/deals"
	"github.com/closerlabs/leadfunnel/internal/ingest"
	"github.com/closerlabs/leadfunnel/internal/lookup"
	"github.com/closerlabs/leadfunnel/internal/runtime"
	"github.com/closerlabs/leadfunnel/internal/security"
	"github.com/closerlabs/leadfunnel/internal/telemetry"
	"github.com/closerlabs/leadfunnel/pkg/mcperr"
	"github.com/closerlabs/leadfunnel/pkg/pagination"
	"github.com/closerlabs/leadfunnel/pkg/validation"
)

// PathValidator abstracts export path validation. *security.Manager satisfies
// it; tests may substitute a permissive stub.
type PathValidator interface {
	ValidateOpenPath(path string) (string, error)
}

// Service holds the shared dependencies behind the analytics tool handlers.
type Service struct {
	Limits runtime.Limits
	Mgr    *datasets.Manager
	Sec    PathValidator
	Tel    *telemetry.Hooks
}

// --- load_export ---

// LoadExportInput defines parameters for loading a Pipedrive export.
type LoadExportInput struct {
	Path    string `json:"path" validate:"required,export_ext" jsonschema_description:"Path to a Pipedrive export (.csv or .xlsx) inside an allowed directory"`
	MaxRows int    `json:"max_rows,omitempty" validate:"omitempty,min=1" jsonschema_description:"Max data rows to load (bounded by global limits)"`
}

// SourceCodeOption describes one selectable lead-source code.
type SourceCodeOption struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
	Default     bool   `json:"default"`
}

// FilterOptionValues lists the distinct values available for each filter,
// derived from the loaded records.
type FilterOptionValues struct {
	SourceCodes []SourceCodeOption `json:"source_codes"`
	Pipelines   []string           `json:"pipelines"`
	Segments    []string           `json:"segments"`
	AEs         []string           `json:"aes"`
}

// LoadExportOutput documents the response fields for load_export.
type LoadExportOutput struct {
	DatasetID string             `json:"dataset_id" jsonschema_description:"Server-assigned dataset handle ID"`
	Path      string             `json:"path"`
	Rows      int                `json:"rows"`
	Truncated bool               `json:"truncated"`
	Mapped    []string           `json:"mapped_columns"`
	Unmapped  []string           `json:"unmapped_columns,omitempty"`
	DateFrom  string             `json:"date_from,omitempty" jsonschema_description:"Earliest deal creation date (YYYY-MM-DD) when any date parsed"`
	DateTo    string             `json:"date_to,omitempty"`
	Options   FilterOptionValues `json:"filter_options"`
}

// CloseExportInput defines parameters for dropping a dataset handle.
type CloseExportInput struct {
	DatasetID string `json:"dataset_id" validate:"required" jsonschema_description:"Dataset handle ID to close"`
}

// --- preview_deals ---

// PreviewDealsInput defines parameters for a bounded enriched-row preview.
type PreviewDealsInput struct {
	DatasetID string `json:"dataset_id" validate:"required" jsonschema_description:"Dataset handle ID"`
	Rows      int    `json:"rows,omitempty" validate:"omitempty,min=1" jsonschema_description:"Max rows per page (bounded)"`
	Cursor    string `json:"cursor,omitempty" validate:"omitempty,cursor" jsonschema_description:"Opaque cursor from a previous page"`
}

// DealPreview is one enriched record in preview form.
type DealPreview struct {
	Title      string  `json:"title"`
	Pipeline   string  `json:"pipeline,omitempty"`
	Status     string  `json:"status"`
	Owner      string  `json:"owner,omitempty"`
	Value      float64 `json:"value"`
	CreatedAt  string  `json:"created_at,omitempty"`
	SourceCode string  `json:"sc_type"`
	DemoHeld   bool    `json:"is_demo_held"`
	AEName     string  `json:"ae_name,omitempty"`
	Country    string  `json:"country"`
	Segment    string  `json:"segment"`
	Won        bool    `json:"is_won"`
}

// PageMeta captures paging/truncation metadata.
type PageMeta struct {
	Total      int    `json:"total"`
	Returned   int    `json:"returned"`
	Truncated  bool   `json:"truncated"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// PreviewDealsOutput documents preview results.
type PreviewDealsOutput struct {
	DatasetID string        `json:"dataset_id"`
	Deals     []DealPreview `json:"deals"`
	Meta      PageMeta      `json:"meta"`
}

// RegisterDatasetTools wires the export lifecycle tools.
func RegisterDatasetTools(s *server.MCPServer, reg *Registry, svc *Service) {
	// load_export
	loadTool := mcp.NewTool(
		"load_export",
		mcp.WithDescription("Load a Pipedrive deal export (.csv or .xlsx), normalize its columns, enrich every row (lead-source code, AE attribution, country, segment, won flag), and register it as a dataset. Returns the dataset ID, row count, detected date span, and the distinct filter option values (source codes with defaults, pipelines, segments, AEs). Allowed directories are enforced; errors include VALIDATION, PERMISSION_DENIED, and LOAD_FAILED."),
		mcp.WithInputSchema[LoadExportInput](),
		mcp.WithOutputSchema[LoadExportOutput](),
	)
	s.AddTool(loadTool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in LoadExportInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		out, errRes := svc.loadExport(ctx, in)
		if errRes != nil {
			return errRes, nil
		}
		summary := fmt.Sprintf("dataset=%s rows=%d truncated=%v", out.DatasetID, out.Rows, out.Truncated)
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(loadTool)

	// close_export
	closeTool := mcp.NewTool(
		"close_export",
		mcp.WithDescription("Drop a previously loaded dataset handle and free its capacity slot."),
		mcp.WithInputSchema[CloseExportInput](),
		mcp.WithOutputSchema[struct {
			Success bool `json:"success" jsonschema_description:"True when the handle was dropped"`
		}](),
	)
	s.AddTool(closeTool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in CloseExportInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		if err := svc.Mgr.CloseDataset(in.DatasetID); err != nil {
			return mcperr.New(mcperr.InvalidDataset, ""), nil
		}
		res := mcp.NewToolResultStructured(struct {
			Success bool `json:"success"`
		}{Success: true}, "closed")
		return res, nil
	}))
	reg.Register(closeTool)

	// preview_deals
	previewTool := mcp.NewTool(
		"preview_deals",
		mcp.WithDescription("Return a bounded, cursor-paginated preview of the enriched deal rows in load order. Use after load_export to sanity-check column mapping and classification before running metrics."),
		mcp.WithInputSchema[PreviewDealsInput](),
		mcp.WithOutputSchema[PreviewDealsOutput](),
	)
	s.AddTool(previewTool, mcp.NewTypedToolHandler(func(ctx context.Context, req mcp.CallToolRequest, in PreviewDealsInput) (*mcp.CallToolResult, error) {
		if msg := validation.ValidateStruct(in); msg != "" {
			return mcp.NewToolResultError(msg), nil
		}
		out, errRes := svc.previewDeals(in)
		if errRes != nil {
			return errRes, nil
		}
		summary := fmt.Sprintf("returned=%d total=%d truncated=%v", out.Meta.Returned, out.Meta.Total, out.Meta.Truncated)
		res := mcp.NewToolResultStructured(out, summary)
		res.Content = []mcp.Content{mcp.NewTextContent(summary)}
		return res, nil
	}))
	reg.Register(previewTool)
}

func (svc *Service) loadExport(ctx context.Context, in LoadExportInput) (LoadExportOutput, *mcp.CallToolResult) {
	var out LoadExportOutput
	start := time.Now()

	canonical, err := svc.Sec.ValidateOpenPath(in.Path)
	if err != nil {
		switch {
		case err == security.ErrUnsupportedExtension:
			return out, mcperr.New(mcperr.UnsupportedFormat, "")
		case err == security.ErrNotFound:
			return out, mcperr.Wrapf(mcperr.LoadFailed, "file not found: %s", in.Path)
		default:
			return out, mcperr.New(mcperr.PermissionDenied, "")
		}
	}
	out.Path = canonical

	maxRows := in.MaxRows
	if maxRows <= 0 || maxRows > svc.Limits.MaxRowsPerLoad {
		maxRows = svc.Limits.MaxRowsPerLoad
	}

	raw, info, err := ingest.LoadFile(canonical, maxRows)
	if err != nil {
		return out, mcperr.Wrapf(mcperr.LoadFailed, "%v", err)
	}

	enriched := deals.Enrich(raw)
	id, err := svc.Mgr.Register(ctx, canonical, enriched, info)
	if err != nil {
		return out, mcperr.Wrapf(mcperr.LimitExceeded, "dataset capacity: %v", err)
	}

	out.DatasetID = id
	out.Rows = info.Rows
	out.Truncated = info.Truncated
	out.Mapped = info.Mapped
	out.Unmapped = info.Unmapped
	out.DateFrom, out.DateTo = dateSpan(enriched)
	out.Options = filterOptions(enriched)
	if svc.Tel != nil {
		svc.Tel.OnDatasetLoad(id, canonical, info.Rows, time.Since(start))
	}
	return out, nil
}

func (svc *Service) previewDeals(in PreviewDealsInput) (PreviewDealsOutput, *mcp.CallToolResult) {
	var out PreviewDealsOutput
	out.DatasetID = in.DatasetID

	pageSize := in.Rows
	if pageSize <= 0 {
		pageSize = svc.Limits.PreviewRowLimit
	}
	if pageSize > svc.Limits.MaxRowsPerPage {
		pageSize = svc.Limits.MaxRowsPerPage
	}

	offset := 0
	viewHash := pagination.ViewHash(in.DatasetID, "preview")
	if in.Cursor != "" {
		c, err := pagination.DecodeCursor(in.Cursor)
		if err != nil || c.Did != in.DatasetID || c.Vh != viewHash {
			return out, mcperr.New(mcperr.CursorInvalid, "")
		}
		offset = c.Off
		// Decoded values are structurally valid but still client-supplied;
		// re-clamp the page size and compute the page end without addition so
		// extreme offsets cannot overflow into a bad slice bound.
		pageSize = c.Ps
		if pageSize > svc.Limits.MaxRowsPerPage {
			pageSize = svc.Limits.MaxRowsPerPage
		}
	}

	err := svc.Mgr.WithRecords(in.DatasetID, func(d *datasets.Dataset) error {
		total := len(d.Records)
		out.Meta.Total = total
		if offset > total {
			offset = total
		}
		end := total
		if total-offset > pageSize {
			end = offset + pageSize
		}
		for _, r := range d.Records[offset:end] {
			out.Deals = append(out.Deals, previewOf(r))
		}
		out.Meta.Returned = len(out.Deals)
		out.Meta.Truncated = end < total
		if out.Meta.Truncated {
			next, err := pagination.EncodeCursor(pagination.Cursor{
				Did: in.DatasetID,
				Vh:  viewHash,
				Off: pagination.NextOffset(offset, out.Meta.Returned),
				Ps:  pageSize,
			})
			if err != nil {
				return err
			}
			out.Meta.NextCursor = next
		}
		return nil
	})
	if err == datasets.ErrNotFound {
		return out, mcperr.New(mcperr.InvalidDataset, "")
	}
	if err != nil {
		return out, mcperr.Wrapf(mcperr.AnalysisFailed, "%v", err)
	}
	return out, nil
}

func previewOf(r deals.Enriched) DealPreview {
	p := DealPreview{
		Title:      r.Title,
		Pipeline:   r.Pipeline,
		Status:     r.Status,
		Owner:      r.Owner,
		Value:      r.Value,
		SourceCode: r.SourceCode,
		DemoHeld:   r.DemoHeld,
		AEName:     r.AEName,
		Country:    r.Country,
		Segment:    r.Segment,
		Won:        r.Won,
	}
	if r.CreatedAt != nil {
		p.CreatedAt = r.CreatedAt.Format("2006-01-02")
	}
	return p
}

// dateSpan returns the earliest and latest creation dates present, as
// calendar dates, or empty strings when no row carries a parseable date.
func dateSpan(records []deals.Enriched) (string, string) {
	var min, max *time.Time
	for i := range records {
		t := records[i].CreatedAt
		if t == nil {
			continue
		}
		if min == nil || t.Before(*min) {
			min = t
		}
		if max == nil || t.After(*max) {
			max = t
		}
	}
	if min == nil {
		return "", ""
	}
	return min.Format("2006-01-02"), max.Format("2006-01-02")
}

// filterOptions derives the distinct selectable filter values from a loaded
// record set, mirroring what the presentation layer offers as widgets.
func filterOptions(records []deals.Enriched) FilterOptionValues {
	var opts FilterOptionValues

	scSeen := map[string]struct{}{}
	plSeen := map[string]struct{}{}
	segSeen := map[string]struct{}{}
	aeSeen := map[string]struct{}{}
	for _, r := range records {
		scSeen[r.SourceCode] = struct{}{}
		if r.Pipeline != "" {
			plSeen[r.Pipeline] = struct{}{}
		}
		segSeen[r.Segment] = struct{}{}
		if r.AEName != "" {
			aeSeen[r.AEName] = struct{}{}
		}
	}

	// Source codes: registry entries first (carrying display names and
	// default-include flags), then any extra codes found in titles.
	known := map[string]struct{}{}
	for _, sc := range lookup.SourceCodes() {
		known[sc.Code] = struct{}{}
		if _, ok := scSeen[sc.Code]; ok {
			opts.SourceCodes = append(opts.SourceCodes, SourceCodeOption{Code: sc.Code, DisplayName: sc.DisplayName, Default: sc.IncludeDefault})
		}
	}
	var extra []string
	for code := range scSeen {
		if _, ok := known[code]; !ok {
			extra = append(extra, code)
		}
	}
	sort.Strings(extra)
	for _, code := range extra {
		opts.SourceCodes = append(opts.SourceCodes, SourceCodeOption{Code: code, DisplayName: lookup.SourceCodeDisplayName(code)})
	}

	opts.Pipelines = sortedKeys(plSeen)
	for _, seg := range lookup.Segments() {
		if _, ok := segSeen[seg]; ok {
			opts.Segments = append(opts.Segments, seg)
		}
	}
	opts.AEs = sortedKeys(aeSeen)
	return opts
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
