// Package ingest loads a Pipedrive deal export (CSV or XLSX), maps the
// export's column naming convention onto canonical field names, and coerces
// dates and deal values. Malformed cells degrade to defaults (absent date,
// zero value) rather than failing the load.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/closerlabs/leadfunnel/internal/deals"
)

// columnMappings renames Pipedrive export headers to canonical field names.
// Unmapped columns are passed through unused.
var columnMappings = map[string]string{
	"Deal - Title":           "title",
	"Deal - Deal value":      "deal_value",
	"Deal - Pipeline":        "pipeline",
	"Deal - Status":          "status",
	"Deal - Owner":           "owner",
	"Person - Phone":         "phone",
	"Deal - Deal created on": "created_date",
	"Person - Timezone":      "timezone",
}

// dateLayouts covers the timestamp formats Pipedrive exports have been seen
// to use, plus a few common spreadsheet re-saves.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
}

// Info summarizes a completed load.
type Info struct {
	Rows      int
	Truncated bool
	// Mapped lists the canonical fields found in the header; Unmapped lists
	// header names passed through unused.
	Mapped   []string
	Unmapped []string
}

// LoadFile reads an export by extension (.csv or .xlsx) and returns the
// normalized raw records. maxRows bounds the number of data rows read; rows
// beyond it are dropped and Info.Truncated is set.
func LoadFile(path string, maxRows int) ([]deals.Raw, Info, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, Info{}, fmt.Errorf("ingest: open %s: %w", path, err)
		}
		defer f.Close()
		return LoadCSV(f, maxRows)
	case ".xlsx":
		return LoadXLSX(path, maxRows)
	default:
		return nil, Info{}, fmt.Errorf("ingest: unsupported format: %s", ext)
	}
}

// LoadCSV reads a CSV export from r.
func LoadCSV(r io.Reader, maxRows int) ([]deals.Raw, Info, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // Pipedrive pads ragged rows

	header, err := cr.Read()
	if err != nil {
		return nil, Info{}, fmt.Errorf("ingest: read header: %w", err)
	}
	fields, info := mapHeader(header)

	var records []deals.Raw
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, info, fmt.Errorf("ingest: read row: %w", err)
		}
		if maxRows > 0 && len(records) >= maxRows {
			info.Truncated = true
			break
		}
		records = append(records, buildRecord(fields, row))
	}
	info.Rows = len(records)
	return records, info, nil
}

// LoadXLSX streams the first sheet of an XLSX export.
func LoadXLSX(path string, maxRows int) ([]deals.Raw, Info, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, Info{}, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, Info{}, fmt.Errorf("ingest: workbook has no sheets")
	}
	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, Info{}, err
	}
	defer rows.Close()

	var (
		fields  map[int]string
		info    Info
		records []deals.Raw
	)
	first := true
	for rows.Next() {
		vals, err := rows.Columns()
		if err != nil {
			return nil, info, err
		}
		if first {
			first = false
			fields, info = mapHeader(vals)
			continue
		}
		if maxRows > 0 && len(records) >= maxRows {
			info.Truncated = true
			break
		}
		records = append(records, buildRecord(fields, vals))
	}
	if err := rows.Error(); err != nil {
		return nil, info, err
	}
	if first {
		return nil, Info{}, fmt.Errorf("ingest: sheet %s is empty", sheets[0])
	}
	info.Rows = len(records)
	return records, info, nil
}

// mapHeader resolves each header cell to a canonical field name by column
// index. Canonical names are also accepted directly so re-saved or
// hand-trimmed exports keep working.
func mapHeader(header []string) (map[int]string, Info) {
	fields := make(map[int]string, len(header))
	var info Info
	seen := map[string]struct{}{}
	for i, h := range header {
		name := strings.TrimSpace(h)
		canonical, ok := columnMappings[name]
		if !ok {
			if isCanonical(name) {
				canonical = name
				ok = true
			}
		}
		if !ok {
			if name != "" {
				info.Unmapped = append(info.Unmapped, name)
			}
			continue
		}
		if _, dup := seen[canonical]; dup {
			continue // first occurrence wins
		}
		seen[canonical] = struct{}{}
		fields[i] = canonical
		info.Mapped = append(info.Mapped, canonical)
	}
	return fields, info
}

func isCanonical(name string) bool {
	for _, v := range columnMappings {
		if v == name {
			return true
		}
	}
	return false
}

func buildRecord(fields map[int]string, row []string) deals.Raw {
	var r deals.Raw
	for i, field := range fields {
		if i >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[i])
		switch field {
		case "title":
			r.Title = cell
		case "deal_value":
			r.Value = parseValue(cell)
		case "pipeline":
			r.Pipeline = cell
		case "status":
			r.Status = cell
		case "owner":
			r.Owner = cell
		case "phone":
			r.Phone = cell
		case "created_date":
			r.CreatedAt = parseDate(cell)
		case "timezone":
			r.Timezone = cell
		}
	}
	return r
}

// parseValue coerces a deal value to a non-negative float. Currency symbols
// and thousands separators are stripped; anything unparseable becomes 0.
func parseValue(s string) float64 {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ',', '$', ' ':
			return -1
		default:
			return r
		}
	}, s)
	if clean == "" {
		return 0
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// parseDate tries the known layouts in order; invalid dates become absent.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
