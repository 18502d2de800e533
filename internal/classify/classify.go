// Package classify derives per-deal classification fields from raw Pipedrive
// columns. Every function is pure and total: malformed or missing input
// degrades to an explicit default, never an error, so enrichment stays total
// over arbitrary export content.
package classify

import (
	"regexp"
	"strings"

	"github.com/closerlabs/leadfunnel/internal/lookup"
)

// UnknownCountry is the fallback when neither timezone nor phone resolves.
const UnknownCountry = "Unknown"

var sourceCodeRe = regexp.MustCompile(`(?i)SC(\d+)`)

// SourceCode extracts the lead-source tag from a deal title. Only the first
// SC<digits> occurrence counts; a missing or untagged title yields
// lookup.NoSourceCode.
func SourceCode(title string) string {
	if title == "" {
		return lookup.NoSourceCode
	}
	m := sourceCodeRe.FindStringSubmatch(title)
	if m == nil {
		return lookup.NoSourceCode
	}
	return "SC" + m[1]
}

// AccountExecutive attributes a deal owner to a canonical AE name. A match
// occurs when any registry name, lowercased, is a substring of the lowercased
// owner text; the first registry entry wins. The boolean doubles as the
// demo-held flag, so attribution and held status always come from the same
// match.
func AccountExecutive(owner string) (string, bool) {
	if owner == "" {
		return "", false
	}
	ownerLower := strings.ToLower(strings.TrimSpace(owner))
	for _, ae := range lookup.AccountExecutives() {
		if strings.Contains(ownerLower, strings.ToLower(ae)) {
			return ae, true
		}
	}
	return "", false
}

// Country resolves a deal's country with a two-stage fallback: exact timezone
// lookup first, then phone calling-code parsing. A timezone hit resolves
// immediately even when it maps to "Unknown" (UTC).
func Country(timezone, phone string) string {
	if tz := strings.TrimSpace(timezone); tz != "" {
		if c, ok := lookup.CountryForTimezone(tz); ok {
			return c
		}
	}
	if c := countryFromPhone(phone); c != "" {
		return c
	}
	return UnknownCountry
}

// countryFromPhone parses a free-format phone number into a country name,
// returning "" when nothing resolves.
func countryFromPhone(phone string) string {
	if phone == "" {
		return ""
	}
	cleaned := strings.NewReplacer("'", "", " ", "", "-", "").Replace(strings.TrimSpace(phone))

	// +1 (and bare leading 1 on full-length numbers): North America, split
	// between USA and Canada on the area code.
	if strings.HasPrefix(cleaned, "+1") || (strings.HasPrefix(cleaned, "1") && len(cleaned) >= 11) {
		var area string
		if strings.HasPrefix(cleaned, "+1") {
			if len(cleaned) >= 5 {
				area = cleaned[2:5]
			}
		} else if len(cleaned) >= 4 {
			area = cleaned[1:4]
		}
		if lookup.IsCanadianAreaCode(area) {
			return "Canada"
		}
		return "USA"
	}

	// Longest prefix wins so "+351" cannot be shadowed by a shorter code.
	for _, prefix := range lookup.PhonePrefixes() {
		if strings.HasPrefix(cleaned, prefix) {
			c, _ := lookup.CountryForPhonePrefix(prefix)
			return c
		}
	}
	return ""
}

// Segment maps a resolved country to its market tier.
func Segment(country string) string {
	return lookup.SegmentForCountry(country)
}

// Won reports whether a deal status marks the deal as won.
func Won(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), "won")
}
