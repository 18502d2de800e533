package classify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/closerlabs/leadfunnel/internal/lookup"
)

func TestSourceCode(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Acme Corp - SC3 inbound", "SC3"},
		{"sc1 facebook lead", "SC1"},
		{"SC10 campaign", "SC10"},
		{"Discovery call with Acme", lookup.NoSourceCode},
		{"", lookup.NoSourceCode},
		{"SC without digits", lookup.NoSourceCode},
		{"first SC2 then SC5", "SC2"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, SourceCode(tc.title), "title=%q", tc.title)
	}
}

func TestAccountExecutive(t *testing.T) {
	name, held := AccountExecutive("edgar smith")
	require.True(t, held)
	require.Equal(t, "Edgar", name)

	name, held = AccountExecutive("  VANESSA jones ")
	require.True(t, held)
	require.Equal(t, "Vanessa", name)

	_, held = AccountExecutive("Jane Doe")
	require.False(t, held)

	_, held = AccountExecutive("")
	require.False(t, held)
}

func TestAccountExecutive_FirstRegistryMatchWins(t *testing.T) {
	// "Zach" precedes "Zachary" in the registry, so the shorter form is the
	// canonical attribution even for owners named Zachary.
	name, held := AccountExecutive("Zachary Miller")
	require.True(t, held)
	require.Equal(t, "Zach", name)

	name, held = AccountExecutive("marc james beauchamp")
	require.True(t, held)
	require.Equal(t, "Marc James", name)
}

func TestCountry_TimezoneBeatsPhone(t *testing.T) {
	// A recognized timezone resolves immediately even when the phone points
	// elsewhere.
	require.Equal(t, "Brazil", Country("America/Sao_Paulo", "+4479112345678"))
	// UTC maps to Unknown and still terminates resolution.
	require.Equal(t, UnknownCountry, Country("UTC", "+4479112345678"))
}

func TestCountry_PhoneFallback(t *testing.T) {
	cases := []struct {
		phone string
		want  string
	}{
		{"+14165550123", "Canada"},
		{"+12125550123", "USA"},
		{"14165550123", "Canada"},
		{"12125550123", "USA"},
		{"+447911123456", "UK"},
		{"+3519123456789", "Portugal"},
		{"+551199998888", "Brazil"},
		{"'+61 412-345-678", "Australia"},
		{"+18095551234", "USA"},
		{"", UnknownCountry},
		{"not a number", UnknownCountry},
		{"+9999123", UnknownCountry},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Country("", tc.phone), "phone=%q", tc.phone)
	}
}

func TestCountry_UnrecognizedTimezoneFallsThrough(t *testing.T) {
	require.Equal(t, "Canada", Country("Mars/Olympus", "+14165550123"))
}

func TestSegment(t *testing.T) {
	require.Equal(t, lookup.SegmentAAA, Segment("USA"))
	require.Equal(t, lookup.SegmentAAA, Segment("Canada"))
	require.Equal(t, lookup.SegmentAAA, Segment("UK"))
	require.Equal(t, lookup.SegmentBTier, Segment("Brazil"))
	require.Equal(t, lookup.SegmentBTier, Segment("Mexico"))
	require.Equal(t, lookup.SegmentNonDemo, Segment(UnknownCountry))
	require.Equal(t, lookup.SegmentNonDemo, Segment("Atlantis"))
}

func TestWon(t *testing.T) {
	require.True(t, Won("won"))
	require.True(t, Won("Won"))
	require.True(t, Won("WON"))
	require.False(t, Won("lost"))
	require.False(t, Won("open"))
	require.False(t, Won(""))
}
