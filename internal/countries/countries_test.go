package countries

import (
	"strings"
	"testing"

	"github.com/hightemp/countrykit/internal/address"
	"golang.org/x/text/language"
)

func TestFind(t *testing.T) {
	c := New()

	tests := []struct {
		code     string
		expected string
	}{
		{"US", "US"},
		{"us", "US"},
		{" gb ", "GB"},
		{"DE", "DE"},
		{"JP", "JP"},
		{"WW", WorldwideCode},
		{"ww", WorldwideCode},
		{"ZZ", UnknownCode},
		{"zz", UnknownCode},
		{"", UnknownCode},
		{"USA", UnknownCode},
	}

	for _, tc := range tests {
		result := c.Find(tc.code)
		if result.Alpha2Code != tc.expected {
			t.Errorf("Find(%q) = %q, expected %q", tc.code, result.Alpha2Code, tc.expected)
		}
	}
}

func TestFindRoundTrip(t *testing.T) {
	c := New()
	for _, code := range c.Codes() {
		if got := c.Find(strings.ToLower(code)).Alpha2Code; got != code {
			t.Errorf("Find(%q) = %q", strings.ToLower(code), got)
		}
	}
}

func TestFindAlpha3(t *testing.T) {
	c := New()

	tests := []struct {
		code     string
		expected string
	}{
		{"USA", "US"},
		{"gbr", "GB"},
		{"DEU", "DE"},
		{"XKX", "XK"},
		{"WWW", WorldwideCode},
		{"ZZZ", UnknownCode},
		{"US", UnknownCode},
	}

	for _, tc := range tests {
		result := c.FindAlpha3(tc.code)
		if result.Alpha2Code != tc.expected {
			t.Errorf("FindAlpha3(%q) = %q, expected %q", tc.code, result.Alpha2Code, tc.expected)
		}
	}
}

func TestFindLocale(t *testing.T) {
	c := New()

	tests := []struct {
		locale   string
		expected string
	}{
		{"en_US", "US"},
		{"en-GB", "GB"},
		{"zh-Hant-TW", "TW"},
		{"zh_Hans_CN", "CN"},
		{"de_CH", "CH"},
		{"fr", UnknownCode},
		{"es-419", UnknownCode},
		{"", UnknownCode},
		{"xx_QQ", UnknownCode},
	}

	for _, tc := range tests {
		result := c.FindLocale(tc.locale)
		if result.Alpha2Code != tc.expected {
			t.Errorf("FindLocale(%q) = %q, expected %q", tc.locale, result.Alpha2Code, tc.expected)
		}
	}
}

func TestFindAny(t *testing.T) {
	c := New()
	for id, expected := range map[string]string{
		"fr":    "FR",
		"fra":   "FR",
		"fr_FR": "FR",
		"nope!": UnknownCode,
	} {
		if got := c.FindAny(id).Alpha2Code; got != expected {
			t.Errorf("FindAny(%q) = %q, expected %q", id, got, expected)
		}
	}
}

func TestCatalogInvariants(t *testing.T) {
	c := New()

	if c.Len() < 245 {
		t.Errorf("Expected at least 245 countries, got %d", c.Len())
	}

	alpha3 := make(map[string]bool)
	for _, country := range c.List() {
		if country.IsSentinel() {
			t.Errorf("sentinel %s listed in catalog", country.Alpha2Code)
		}
		if alpha3[country.Alpha3Code] {
			t.Errorf("duplicate alpha3 %s", country.Alpha3Code)
		}
		alpha3[country.Alpha3Code] = true

		labels := country.AddressLabels
		if len(labels) == 0 {
			t.Errorf("%s has no address labels", country.Alpha2Code)
			continue
		}
		if labels[len(labels)-1] != address.Country {
			t.Errorf("%s address layout does not end with country", country.Alpha2Code)
		}
		if err := address.Validate(labels, country.PrefersAscendingAddressScope); err != nil {
			t.Errorf("%s: %v", country.Alpha2Code, err)
		}
		if country.LocalizedName == "" {
			t.Errorf("%s has no localized name", country.Alpha2Code)
		}
	}

	if len(c.All()) != c.Len() {
		t.Errorf("All() has %d entries, expected %d", len(c.All()), c.Len())
	}
}

func TestDescendingAddressScope(t *testing.T) {
	c := New()
	descending := map[string]bool{
		"CN": true, "JP": true, "KR": true, "TW": true, "HK": true,
		"MO": true, "KG": true, "KP": true, "HU": true,
	}
	for _, country := range c.List() {
		if country.PrefersAscendingAddressScope == descending[country.Alpha2Code] {
			t.Errorf("%s: PrefersAscendingAddressScope = %v", country.Alpha2Code, country.PrefersAscendingAddressScope)
		}
	}
}

func TestLocalizedNames(t *testing.T) {
	en := New()
	if got := en.Find("US").LocalizedName; got != "United States" {
		t.Errorf("English US name = %q", got)
	}
	if got := en.Find("DE").EnglishName; got != "Germany" {
		t.Errorf("English DE name = %q", got)
	}

	de := New(WithLanguage(language.German))
	if got := de.Find("DE").LocalizedName; got != "Deutschland" {
		t.Errorf("German DE name = %q", got)
	}
	if got := de.Find("DE").EnglishName; got != "Germany" {
		t.Errorf("EnglishName changed with language: %q", got)
	}
}

func TestSentinels(t *testing.T) {
	c := New()
	if c.Worldwide().LocalizedName != "Worldwide" || c.Unknown().LocalizedName != "Unknown" {
		t.Errorf("unexpected sentinel names %q, %q", c.Worldwide().LocalizedName, c.Unknown().LocalizedName)
	}
	if !c.Find("WW").IsWorldwide() || !c.Find("??").IsUnknown() {
		t.Error("sentinel predicates")
	}
	if len(c.Unknown().AddressLabels) == 0 {
		t.Error("Unknown has no address labels")
	}

	de := New(WithLanguage(language.German))
	if de.Worldwide().LocalizedName != "Weltweit" {
		t.Errorf("German worldwide = %q", de.Worldwide().LocalizedName)
	}

	custom := New(WithSentinelNames("Everywhere", ""))
	if custom.Worldwide().LocalizedName != "Everywhere" {
		t.Errorf("custom worldwide = %q", custom.Worldwide().LocalizedName)
	}
	if custom.Unknown().LocalizedName != "Unknown" {
		t.Errorf("custom unknown = %q", custom.Unknown().LocalizedName)
	}
}

func TestEnrichDoesNotMutate(t *testing.T) {
	base := New()
	enriched := base.Enrich(
		map[string]Wiki{"FR": {Area: 643801, CommonwealthMember: false}},
		map[string][]string{"FR": {"fr_FR"}},
	)

	if base.Find("FR").Wiki != nil {
		t.Error("base catalog was mutated")
	}
	fr := enriched.Find("FR")
	if fr.Area() != 643801 {
		t.Errorf("Area = %v", fr.Area())
	}
	if len(fr.Locales) != 1 || fr.Locales[0] != "fr_FR" {
		t.Errorf("Locales = %v", fr.Locales)
	}
	if enriched.Find("DE").Wiki != nil {
		t.Error("DE should have no wiki data")
	}
}

func TestUnenrichedDefaults(t *testing.T) {
	us := New().Find("US")
	if us.Area() != 0 || us.IsCommonwealthMember() || us.IsDependentTerritory() || us.IsDisputedTerritory() {
		t.Error("unenriched country reports metadata")
	}
	if !us.HasPermanentPopulation() {
		t.Error("unenriched country should count as populated")
	}
	if _, ok := us.FirstTimeZone(); ok {
		t.Error("unenriched country has a time zone")
	}
}

func TestRegionOf(t *testing.T) {
	tests := map[string]string{
		"en_US":       "US",
		"sr-Latn-ME":  "ME",
		"en":          "",
		"en-001":      "",
		"  pt_BR  ":   "BR",
		"i-klingon":   "",
		"x-bogus-zz!": "",
	}
	for in, expected := range tests {
		if got := RegionOf(in); got != expected {
			t.Errorf("RegionOf(%q) = %q, expected %q", in, got, expected)
		}
	}
}

func TestParseCodeList(t *testing.T) {
	content := `# Comment line
US
GB
de

FR
invalid
XX
`
	codes, err := ParseCodeList(content)
	if err != nil {
		t.Fatalf("ParseCodeList failed: %v", err)
	}

	expected := []string{"US", "GB", "DE", "FR", "XX"}
	if len(codes) != len(expected) {
		t.Fatalf("Expected %d codes, got %d", len(expected), len(codes))
	}
	for i, c := range codes {
		if c != expected[i] {
			t.Errorf("Code %d: got %s, expected %s", i, c, expected[i])
		}
	}
}

func TestParseTableRejectsBadRows(t *testing.T) {
	bad := []string{
		"US,USA,United States,standard",
		"US,USA,United States,atlantis,",
		"US,USA,United States,standard,sideways",
		"USA,US,United States,standard,",
		"US,USA,United States,,\nUS,USB,Again,,",
	}
	for _, data := range bad {
		if _, err := parseTable(data); err == nil {
			t.Errorf("parseTable(%q) expected error", data)
		}
	}

	entries, err := parseTable("# header\nus,usa,United States,,\n")
	if err != nil {
		t.Fatalf("parseTable: %v", err)
	}
	if len(entries) != 1 || entries[0].alpha2 != "US" || !entries[0].ascending {
		t.Errorf("unexpected entries %+v", entries)
	}
}
