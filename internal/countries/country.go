package countries

import (
	"github.com/hightemp/countrykit/internal/address"
	"github.com/hightemp/countrykit/internal/timezone"
)

// Sentinel codes. They never appear in the catalog listing.
const (
	WorldwideCode       = "WW"
	WorldwideAlpha3Code = "WWW"
	UnknownCode         = "_U"
	UnknownAlpha3Code   = "_UK"
)

// Country is a country or territory record. Identity is Alpha2Code.
type Country struct {
	Alpha2Code    string          `json:"alpha2"`
	Alpha3Code    string          `json:"alpha3"`
	EnglishName   string          `json:"english_name"`
	LocalizedName string          `json:"localized_name"`
	AddressLabels []address.Label `json:"address_labels"`

	// PrefersAscendingAddressScope is true when address fields run from the
	// smallest area to the largest (street, city, province).
	PrefersAscendingAddressScope bool `json:"prefers_ascending_address_scope"`

	// Wiki is nil until the catalog has been enriched.
	Wiki    *Wiki    `json:"wiki,omitempty"`
	Locales []string `json:"locales,omitempty"`
}

// Wiki holds the metadata loaded from the wiki resource file.
type Wiki struct {
	TopLevelDomain                 string            `json:"top_level_domain,omitempty"`
	WikipediaURL                   string            `json:"wikipedia_url,omitempty"`
	CapitalDeJure                  string            `json:"capital_de_jure,omitempty"`
	CapitalDeFacto                 string            `json:"capital_de_facto,omitempty"`
	OfficialLanguages              []string          `json:"official_languages,omitempty"`
	Area                           float64           `json:"area"`
	TimeZoneOffsets                []timezone.Offset `json:"time_zone_offsets,omitempty"`
	DaylightSavingsTimeZoneOffsets []timezone.Offset `json:"daylight_savings_time_zone_offsets,omitempty"`
	InternationalCallingCode       string            `json:"international_calling_code,omitempty"`
	DedicatedAreaCodes             []string          `json:"dedicated_area_codes,omitempty"`
	CommonwealthMember             bool              `json:"commonwealth_member"`
	SovereignStateCountryCode      string            `json:"sovereign_state_country_code,omitempty"`
	NoPermanentPopulation          bool              `json:"no_permanent_population"`
	DisputedTerritory              bool              `json:"disputed_territory"`
}

// Capital returns the de facto capital when it differs from the de jure one.
func (w *Wiki) Capital() string {
	if w == nil {
		return ""
	}
	if w.CapitalDeFacto != "" {
		return w.CapitalDeFacto
	}
	return w.CapitalDeJure
}

// IsSentinel reports whether c is the Worldwide or Unknown placeholder.
func (c Country) IsSentinel() bool {
	return c.Alpha2Code == WorldwideCode || c.Alpha2Code == UnknownCode
}

// IsUnknown reports whether c is the Unknown placeholder.
func (c Country) IsUnknown() bool {
	return c.Alpha2Code == UnknownCode
}

// IsWorldwide reports whether c is the Worldwide placeholder.
func (c Country) IsWorldwide() bool {
	return c.Alpha2Code == WorldwideCode
}

// The accessors below read wiki metadata and return zero values when the
// record has not been enriched.

func (c Country) Area() float64 {
	if c.Wiki == nil {
		return 0
	}
	return c.Wiki.Area
}

func (c Country) TimeZones() []timezone.Offset {
	if c.Wiki == nil {
		return nil
	}
	return c.Wiki.TimeZoneOffsets
}

// FirstTimeZone returns the first listed offset, which is the one sorting
// uses.
func (c Country) FirstTimeZone() (timezone.Offset, bool) {
	tz := c.TimeZones()
	if len(tz) == 0 {
		return timezone.Offset{}, false
	}
	return tz[0], true
}

func (c Country) IsCommonwealthMember() bool {
	return c.Wiki != nil && c.Wiki.CommonwealthMember
}

func (c Country) SovereignStateCode() string {
	if c.Wiki == nil {
		return ""
	}
	return c.Wiki.SovereignStateCountryCode
}

func (c Country) IsDependentTerritory() bool {
	return c.SovereignStateCode() != ""
}

func (c Country) HasPermanentPopulation() bool {
	return c.Wiki == nil || !c.Wiki.NoPermanentPopulation
}

func (c Country) IsDisputedTerritory() bool {
	return c.Wiki != nil && c.Wiki.DisputedTerritory
}

func (c Country) CallingCode() string {
	if c.Wiki == nil {
		return ""
	}
	return c.Wiki.InternationalCallingCode
}

// AddressComponents maps the address layout onto coarse components.
func (c Country) AddressComponents() []address.Component {
	return address.Components(c.AddressLabels)
}
