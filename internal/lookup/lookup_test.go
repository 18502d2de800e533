package lookup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCountryForTimezone(t *testing.T) {
	c, ok := CountryForTimezone("America/Toronto")
	require.True(t, ok)
	require.Equal(t, "Canada", c)

	// UTC is a recognized entry that deliberately maps to Unknown.
	c, ok = CountryForTimezone("UTC")
	require.True(t, ok)
	require.Equal(t, "Unknown", c)

	_, ok = CountryForTimezone("Mars/Olympus")
	require.False(t, ok)
}

func TestPhonePrefixes_LongestFirst(t *testing.T) {
	prefixes := PhonePrefixes()
	require.NotEmpty(t, prefixes)
	for i := 1; i < len(prefixes); i++ {
		require.GreaterOrEqual(t, len(prefixes[i-1]), len(prefixes[i]), "index %d", i)
	}
}

func TestIsCanadianAreaCode(t *testing.T) {
	require.True(t, IsCanadianAreaCode("416"))
	require.True(t, IsCanadianAreaCode("604"))
	require.False(t, IsCanadianAreaCode("212"))
	require.False(t, IsCanadianAreaCode(""))
}

func TestSegmentForCountry_Default(t *testing.T) {
	require.Equal(t, SegmentAAA, SegmentForCountry("Germany"))
	require.Equal(t, SegmentBTier, SegmentForCountry("Singapore"))
	require.Equal(t, SegmentNonDemo, SegmentForCountry("Atlantis"))
}

func TestSourceCodes(t *testing.T) {
	codes := SourceCodes()
	require.Equal(t, "SC1", codes[0].Code)
	require.Equal(t, NoSourceCode, codes[len(codes)-1].Code)

	// AI demo codes are excluded from the default selection.
	defaults := DefaultSourceCodes()
	require.Equal(t, []string{"SC1", "SC3", NoSourceCode}, defaults)

	require.Equal(t, "Meta", SourceCodeDisplayName("SC1"))
	require.Equal(t, "SC42", SourceCodeDisplayName("SC42"))
}

func TestAccountExecutives_ReturnsCopy(t *testing.T) {
	a := AccountExecutives()
	a[0] = "mutated"
	require.NotEqual(t, "mutated", AccountExecutives()[0])
}
