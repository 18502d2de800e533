package lookup

// NoSourceCode is the lead-source bucket for deals whose title carries no
// recognizable SC tag.
const NoSourceCode = "No SC"

// SourceCode describes a known lead-source tag embedded in deal titles.
type SourceCode struct {
	Code           string
	DisplayName    string
	IncludeDefault bool
}

// sourceCodes is the lead-source registry. SC5/SC6 (AI demos) are excluded
// from the default filter selection.
var sourceCodes = []SourceCode{
	{Code: "SC1", DisplayName: "Meta", IncludeDefault: true},
	{Code: "SC3", DisplayName: "Organic", IncludeDefault: true},
	{Code: "SC5", DisplayName: "AI Demo", IncludeDefault: false},
	{Code: "SC6", DisplayName: "AI Demo", IncludeDefault: false},
	{Code: NoSourceCode, DisplayName: "Unknown", IncludeDefault: true},
}

// SourceCodes returns the registry in display order.
func SourceCodes() []SourceCode {
	out := make([]SourceCode, len(sourceCodes))
	copy(out, sourceCodes)
	return out
}

// DefaultSourceCodes returns the codes selected by default when filtering.
func DefaultSourceCodes() []string {
	var out []string
	for _, sc := range sourceCodes {
		if sc.IncludeDefault {
			out = append(out, sc.Code)
		}
	}
	return out
}

// SourceCodeDisplayName returns the registry display name for a code, or the
// code itself for codes outside the registry (titles can carry any SC number).
func SourceCodeDisplayName(code string) string {
	for _, sc := range sourceCodes {
		if sc.Code == code {
			return sc.DisplayName
		}
	}
	return code
}
