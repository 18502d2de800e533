package lookup

// Segment tiers derived from a resolved country. Countries absent from the
// table fall into SegmentNonDemo.
const (
	SegmentAAA     = "AAA"
	SegmentBTier   = "B-Tier"
	SegmentNonDemo = "Non-Demo"
)

var countryToSegment = map[string]string{
	// AAA Tier (Premium Markets)
	"USA":         SegmentAAA,
	"Canada":      SegmentAAA,
	"UK":          SegmentAAA,
	"Germany":     SegmentAAA,
	"France":      SegmentAAA,
	"Netherlands": SegmentAAA,
	"Belgium":     SegmentAAA,
	"Switzerland": SegmentAAA,
	"Austria":     SegmentAAA,
	"Ireland":     SegmentAAA,
	"Spain":       SegmentAAA,
	"Italy":       SegmentAAA,
	"Portugal":    SegmentAAA,
	"Denmark":     SegmentAAA,
	"Sweden":      SegmentAAA,
	"Norway":      SegmentAAA,
	"Finland":     SegmentAAA,
	"Iceland":     SegmentAAA,
	"Australia":   SegmentAAA,
	"New Zealand": SegmentAAA,

	// B-Tier (Secondary Markets)
	"Poland":         SegmentBTier,
	"Czech Republic": SegmentBTier,
	"Romania":        SegmentBTier,
	"Hungary":        SegmentBTier,
	"Slovakia":       SegmentBTier,
	"Croatia":        SegmentBTier,
	"Slovenia":       SegmentBTier,
	"Bulgaria":       SegmentBTier,
	"Estonia":        SegmentBTier,
	"Latvia":         SegmentBTier,
	"Lithuania":      SegmentBTier,
	"Singapore":      SegmentBTier,
	"Malaysia":       SegmentBTier,
	"Mexico":         SegmentBTier,
	"Brazil":         SegmentBTier,
	"Argentina":      SegmentBTier,
	"Chile":          SegmentBTier,
	"Colombia":       SegmentBTier,
	"Costa Rica":     SegmentBTier,
	"Panama":         SegmentBTier,
	"Peru":           SegmentBTier,
	"UAE":            SegmentBTier,
	"Saudi Arabia":   SegmentBTier,
	"Qatar":          SegmentBTier,
	"Israel":         SegmentBTier,
	"Jordan":         SegmentBTier,
	"Bahrain":        SegmentBTier,
	"Kuwait":         SegmentBTier,
	"Oman":           SegmentBTier,
	"Japan":          SegmentBTier,
	"South Korea":    SegmentBTier,
	"Hong Kong":      SegmentBTier,
	"Taiwan":         SegmentBTier,
	"South Africa":   SegmentBTier,
}

// SegmentForCountry returns the market tier for a country, defaulting to
// SegmentNonDemo for anything unlisted (including "Unknown").
func SegmentForCountry(country string) string {
	if s, ok := countryToSegment[country]; ok {
		return s
	}
	return SegmentNonDemo
}

// Segments lists the three tiers in display order.
func Segments() []string {
	return []string{SegmentAAA, SegmentBTier, SegmentNonDemo}
}
