// Package deals defines the deal record model and the enrichment stage that
// appends classifier-derived fields to every raw row.
package deals

import (
	"time"

	"github.com/closerlabs/leadfunnel/internal/classify"
)

// Raw is one normalized export row before enrichment. Optional text columns
// use "" for absent; CreatedAt is nil when the export date failed to parse.
type Raw struct {
	Title     string
	Value     float64
	Pipeline  string
	Status    string
	Owner     string
	Phone     string
	CreatedAt *time.Time
	Timezone  string
}

// Enriched is a Raw row plus the derived classification fields. Records are
// immutable once enriched; filtering produces new slices and never mutates.
//
// Invariant: DemoHeld is true exactly when AEName is non-empty; both come
// from the same registry match.
type Enriched struct {
	Raw

	SourceCode string
	DemoHeld   bool
	AEName     string
	Country    string
	Segment    string
	Won        bool
}

// Enrich applies the row classifier to every record independently. Output
// preserves input order and count exactly; no row is ever dropped or merged.
func Enrich(records []Raw) []Enriched {
	out := make([]Enriched, len(records))
	for i, r := range records {
		out[i] = enrichOne(r)
	}
	return out
}

func enrichOne(r Raw) Enriched {
	aeName, held := classify.AccountExecutive(r.Owner)
	country := classify.Country(r.Timezone, r.Phone)
	return Enriched{
		Raw:        r,
		SourceCode: classify.SourceCode(r.Title),
		DemoHeld:   held,
		AEName:     aeName,
		Country:    country,
		Segment:    classify.Segment(country),
		Won:        classify.Won(r.Status),
	}
}
