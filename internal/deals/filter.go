package deals

import "time"

// FilterOptions subsets enriched records before metrics computation. Nil or
// empty sets impose no constraint on their field.
type FilterOptions struct {
	// From/To bound the deal creation calendar date, inclusive. Both must be
	// set for the range to apply; records without a creation date are excluded
	// when it does.
	From *time.Time
	To   *time.Time

	SourceCodes []string
	Pipelines   []string
	Segments    []string

	// AEs keeps records whose AEName is in the set, plus every record that is
	// not held at all: unattributed no-shows have no AE to match against and
	// are never excluded purely by AE selection.
	AEs []string

	// HeldOnly restricts to AE-held deals, the scoping used by the per-AE
	// views.
	HeldOnly bool
}

// Filter returns the records that pass every constraint in opts. The input
// slice is never mutated.
func Filter(records []Enriched, opts FilterOptions) []Enriched {
	scSet := toSet(opts.SourceCodes)
	plSet := toSet(opts.Pipelines)
	segSet := toSet(opts.Segments)
	aeSet := toSet(opts.AEs)

	out := make([]Enriched, 0, len(records))
	for _, r := range records {
		if opts.HeldOnly && !r.DemoHeld {
			continue
		}
		if opts.From != nil && opts.To != nil {
			if r.CreatedAt == nil {
				continue
			}
			d := dateOnly(*r.CreatedAt)
			if d.Before(dateOnly(*opts.From)) || d.After(dateOnly(*opts.To)) {
				continue
			}
		}
		if scSet != nil {
			if _, ok := scSet[r.SourceCode]; !ok {
				continue
			}
		}
		if plSet != nil {
			if _, ok := plSet[r.Pipeline]; !ok {
				continue
			}
		}
		if segSet != nil {
			if _, ok := segSet[r.Segment]; !ok {
				continue
			}
		}
		if aeSet != nil && r.DemoHeld {
			if _, ok := aeSet[r.AEName]; !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func toSet(vals []string) map[string]struct{} {
	if len(vals) == 0 {
		return nil
	}
	s := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
