package inclusion

import (
	"testing"

	"github.com/hightemp/countrykit/internal/countries"
	"github.com/hightemp/countrykit/internal/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func country(code string, w *countries.Wiki) countries.Country {
	return countries.Country{Alpha2Code: code, Wiki: w}
}

func codes(list []countries.Country) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Alpha2Code
	}
	return out
}

func TestIncludes(t *testing.T) {
	sovereign := country("AA", &countries.Wiki{})
	territory := country("BB", &countries.Wiki{SovereignStateCountryCode: "AA"})
	empty := country("CC", &countries.Wiki{NoPermanentPopulation: true})
	disputed := country("DD", &countries.Wiki{DisputedTerritory: true})
	member := country("EE", &countries.Wiki{CommonwealthMember: true})
	memberTerritory := country("FF", &countries.Wiki{CommonwealthMember: true, SovereignStateCountryCode: "EE"})
	bare := country("GG", nil)

	tests := []struct {
		name string
		opts Options
		c    countries.Country
		want bool
	}{
		{"sovereign state", SovereignState, sovereign, true},
		{"territory is not sovereign", SovereignState, territory, false},
		{"unpopulated is not sovereign", SovereignState, empty, false},
		{"disputed is not sovereign", SovereignState, disputed, false},
		{"unenriched counts as sovereign", SovereignState, bare, true},
		{"commonwealth", CommonwealthMember, member, true},
		{"commonwealth territory", CommonwealthMember, memberTerritory, true},
		{"not commonwealth", CommonwealthMember, sovereign, false},
		{"dependent", DependentTerritory, territory, true},
		{"sovereign is not dependent", DependentTerritory, sovereign, false},
		{"unpopulated", NoPermanentPopulation, empty, true},
		{"populated", NoPermanentPopulation, sovereign, false},
		{"disputed", DisputedTerritories, disputed, true},
		{"undisputed", DisputedTerritories, sovereign, false},
		{"all", All, territory, true},
		{"none", 0, sovereign, false},
		{"any requested category", SovereignState | DependentTerritory, territory, true},
		{"commonwealth rule after sovereign", SovereignState | CommonwealthMember, memberTerritory, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.opts.Includes(tc.c))
		})
	}
}

func TestParseOptions(t *testing.T) {
	o, err := ParseOptions("Sovereign, commonwealth")
	require.NoError(t, err)
	assert.Equal(t, SovereignState|CommonwealthMember, o)
	assert.Equal(t, "sovereign,commonwealth", o.String())

	o, err = ParseOptions("")
	require.NoError(t, err)
	assert.Equal(t, All, o)

	_, err = ParseOptions("sovereign,martian")
	assert.ErrorIs(t, err, ErrUnknownOption)

	assert.Equal(t, "none", Options(0).String())
}

func TestRosterOverridesOptions(t *testing.T) {
	list := metadata.DefaultCatalog().List()

	got := Rules{Options: All, Roster: []string{"us", "CA", "MX"}}.Apply(list)
	assert.ElementsMatch(t, []string{"US", "CA", "MX"}, codes(got))

	got = Rules{Options: SovereignState, Roster: []string{"GU"}, Excluded: []string{"GU"}}.Apply(list)
	assert.Equal(t, []string{"GU"}, codes(got), "roster wins over options and exclusions")
}

func TestExcludedAfterOptions(t *testing.T) {
	list := []countries.Country{
		country("AA", &countries.Wiki{}),
		country("BB", &countries.Wiki{SovereignStateCountryCode: "AA"}),
		country("CC", &countries.Wiki{}),
		country("DD", &countries.Wiki{}),
	}
	got := Rules{Options: SovereignState, Excluded: []string{" cc "}}.Apply(list)
	assert.Equal(t, []string{"AA", "DD"}, codes(got))
}

func TestApplyKeepsOrder(t *testing.T) {
	list := metadata.DefaultCatalog().List()
	got := Rules{Options: All}.Apply(list)
	assert.Equal(t, codes(list), codes(got))

	dependent := Rules{Options: DependentTerritory}.Apply(list)
	require.NotEmpty(t, dependent)
	for _, c := range dependent {
		assert.NotEmpty(t, c.SovereignStateCode(), c.Alpha2Code)
	}
	assert.Contains(t, codes(dependent), "GL")
	assert.NotContains(t, codes(dependent), "DK")
}

func TestApplyZeroOptionsOffersNothing(t *testing.T) {
	list := metadata.DefaultCatalog().List()
	assert.Empty(t, Rules{}.Apply(list))
	assert.Empty(t, Rules{Excluded: []string{"US"}}.Apply(list))
}
