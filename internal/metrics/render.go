package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// RenderOptions controls table rendering.
type RenderOptions struct {
	// OmitBookedColumns drops "Booked" and "No-Show %", matching the held-only
	// AE views where every deal is held and both columns are constant.
	OmitBookedColumns bool
}

// WriteCSV renders metrics rows as delimited text with human-readable column
// headers. Percentages are scaled x100 with one decimal; value columns are
// rounded to whole units.
func WriteCSV(w io.Writer, keys []Key, rows []Row, opts RenderOptions) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header(keys, opts)); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(record(row, opts)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderText renders a compact pipe-separated table for tool text content.
func RenderText(keys []Key, rows []Row, opts RenderOptions) string {
	var b strings.Builder
	b.WriteString(strings.Join(header(keys, opts), " | "))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(strings.Join(record(row, opts), " | "))
	}
	return b.String()
}

func header(keys []Key, opts RenderOptions) []string {
	cols := make([]string, 0, len(keys)+7)
	for _, k := range keys {
		cols = append(cols, k.DisplayName())
	}
	if !opts.OmitBookedColumns {
		cols = append(cols, "Booked", "No-Show %")
	}
	cols = append(cols, "Held", "Won", "Won %", "Value", "Value/Held")
	return cols
}

func record(row Row, opts RenderOptions) []string {
	rec := make([]string, 0, len(row.Keys)+7)
	rec = append(rec, row.Keys...)
	if !opts.OmitBookedColumns {
		rec = append(rec, strconv.Itoa(row.DemosBooked), pct(row.NoShowPct))
	}
	rec = append(rec,
		strconv.Itoa(row.DemosHeld),
		strconv.Itoa(row.Won),
		pct(row.WonPct),
		whole(row.WonValue),
		whole(row.ValuePerHeld),
	)
	return rec
}

// pct formats a 0..1 ratio as a x100 percentage with one decimal.
func pct(v float64) string {
	return fmt.Sprintf("%.1f", v*100)
}

func whole(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', -1, 64)
}
