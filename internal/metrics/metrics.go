// Package metrics computes funnel metrics over enriched deal records, grouped
// by an arbitrary list of classifier-derived keys.
package metrics

import (
	"fmt"
	"strings"

	"github.com/closerlabs/leadfunnel/internal/deals"
)

// Key identifies a grouping field on an enriched record.
type Key string

const (
	KeyCountry    Key = "country"
	KeySegment    Key = "segment"
	KeyAE         Key = "ae_name"
	KeySourceCode Key = "sc_type"
)

// keyExtractors maps each grouping key to its field accessor. Grouping is one
// generic routine parameterized by these extractors, so additivity across key
// refinements holds by construction.
var keyExtractors = map[Key]func(deals.Enriched) string{
	KeyCountry:    func(r deals.Enriched) string { return r.Country },
	KeySegment:    func(r deals.Enriched) string { return r.Segment },
	KeyAE:         func(r deals.Enriched) string { return r.AEName },
	KeySourceCode: func(r deals.Enriched) string { return r.SourceCode },
}

// displayNames maps keys to the column headers used in rendered tables.
var displayNames = map[Key]string{
	KeyCountry:    "Country",
	KeySegment:    "Segment",
	KeyAE:         "AE",
	KeySourceCode: "SC Type",
}

// ParseKeys validates caller-supplied key names and returns them typed.
func ParseKeys(names []string) ([]Key, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("at least one group key is required")
	}
	keys := make([]Key, 0, len(names))
	seen := map[Key]struct{}{}
	for _, n := range names {
		k := Key(strings.TrimSpace(strings.ToLower(n)))
		if _, ok := keyExtractors[k]; !ok {
			return nil, fmt.Errorf("unknown group key %q; valid keys: country, segment, ae_name, sc_type", n)
		}
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("duplicate group key %q", n)
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys, nil
}

// DisplayName returns the table header for a key.
func (k Key) DisplayName() string {
	if n, ok := displayNames[k]; ok {
		return n
	}
	return string(k)
}

// Row is the aggregate for one distinct combination of group key values.
// DemosBooked = DemosHeld + NoShows always; the three ratios resolve to 0
// rather than an undefined value when their denominator is 0.
type Row struct {
	Keys []string `json:"keys"`

	DemosBooked int     `json:"demos_booked"`
	DemosHeld   int     `json:"demos_held"`
	NoShows     int     `json:"no_shows"`
	Won         int     `json:"won"`
	WonValue    float64 `json:"won_value"`

	NoShowPct    float64 `json:"noshow_pct"`
	WonPct       float64 `json:"won_pct"`
	ValuePerHeld float64 `json:"value_per_held"`
}

// Summary holds the same quantities computed over the whole record set,
// used for top-line KPIs.
type Summary struct {
	DemosBooked int     `json:"demos_booked"`
	DemosHeld   int     `json:"demos_held"`
	NoShows     int     `json:"no_shows"`
	Won         int     `json:"won"`
	WonValue    float64 `json:"won_value"`

	NoShowPct float64 `json:"noshow_pct"`
	WonPct    float64 `json:"won_pct"`
}

type accumulator struct {
	keys     []string
	booked   int
	held     int
	won      int
	wonValue float64
}

// tupleSep joins key values into a map key; 0x1f never occurs in export data.
const tupleSep = "\x1f"

// Compute partitions records by the tuple of group key values and aggregates
// each partition. One row is produced per combination present in the input
// (no zero-filling); rows come back in first-appearance order, which is
// deterministic for a given input. Callers may re-sort.
func Compute(records []deals.Enriched, keys []Key) []Row {
	extractors := make([]func(deals.Enriched) string, len(keys))
	for i, k := range keys {
		extractors[i] = keyExtractors[k]
	}

	groups := map[string]*accumulator{}
	var order []string
	for _, r := range records {
		vals := make([]string, len(extractors))
		for i, ex := range extractors {
			vals[i] = ex(r)
		}
		id := strings.Join(vals, tupleSep)
		acc, ok := groups[id]
		if !ok {
			acc = &accumulator{keys: vals}
			groups[id] = acc
			order = append(order, id)
		}
		acc.booked++
		if r.DemoHeld {
			acc.held++
		}
		if r.Won {
			acc.won++
			acc.wonValue += r.Value
		}
	}

	rows := make([]Row, 0, len(order))
	for _, id := range order {
		acc := groups[id]
		row := Row{
			Keys:        acc.keys,
			DemosBooked: acc.booked,
			DemosHeld:   acc.held,
			NoShows:     acc.booked - acc.held,
			Won:         acc.won,
			WonValue:    acc.wonValue,
		}
		row.NoShowPct = ratio(float64(row.NoShows), float64(row.DemosBooked))
		row.WonPct = ratio(float64(row.Won), float64(row.DemosHeld))
		row.ValuePerHeld = ratio(row.WonValue, float64(row.DemosHeld))
		rows = append(rows, row)
	}
	return rows
}

// ComputeSummary aggregates the whole record set without grouping.
func ComputeSummary(records []deals.Enriched) Summary {
	var s Summary
	s.DemosBooked = len(records)
	for _, r := range records {
		if r.DemoHeld {
			s.DemosHeld++
		}
		if r.Won {
			s.Won++
			s.WonValue += r.Value
		}
	}
	s.NoShows = s.DemosBooked - s.DemosHeld
	s.NoShowPct = ratio(float64(s.NoShows), float64(s.DemosBooked))
	s.WonPct = ratio(float64(s.Won), float64(s.DemosHeld))
	return s
}

// ratio divides num by den, resolving the zero-denominator case to 0 by
// policy so degenerate groups never surface NaN or an error.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
