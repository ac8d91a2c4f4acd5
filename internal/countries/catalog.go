// Package countries holds the catalog of countries and territories offered
// by a picker, keyed by ISO 3166-1 alpha-2 code.
package countries

import (
	"log/slog"
	"strings"

	"github.com/hightemp/countrykit/internal/address"
	"github.com/hightemp/countrykit/internal/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Catalog is an immutable set of country records. Lookups never fail:
// unknown input resolves to the Unknown sentinel.
type Catalog struct {
	lang      language.Tag
	countries []Country
	index     map[string]int
	worldwide Country
	unknown   Country
	logger    *slog.Logger
}

type options struct {
	lang          language.Tag
	worldwideName string
	unknownName   string
	logger        *slog.Logger
}

// Option configures New.
type Option func(*options)

// WithLanguage sets the language localized names are resolved in.
func WithLanguage(tag language.Tag) Option {
	return func(o *options) { o.lang = tag }
}

// WithSentinelNames overrides the display names of the Worldwide and Unknown
// entries. Empty strings keep the translated defaults.
func WithSentinelNames(worldwide, unknown string) Option {
	return func(o *options) {
		o.worldwideName = worldwide
		o.unknownName = unknown
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New builds a catalog from the embedded table.
func New(opts ...Option) *Catalog {
	o := options{lang: language.English}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	entries := loadTable()
	namer := display.Regions(o.lang)

	c := &Catalog{
		lang:      o.lang,
		countries: make([]Country, 0, len(entries)),
		index:     make(map[string]int, len(entries)),
		logger:    o.logger,
	}
	for _, e := range entries {
		c.index[e.alpha2] = len(c.countries)
		c.countries = append(c.countries, Country{
			Alpha2Code:                   e.alpha2,
			Alpha3Code:                   e.alpha3,
			EnglishName:                  e.name,
			LocalizedName:                localizedName(namer, e.alpha2, e.name),
			AddressLabels:                e.labels,
			PrefersAscendingAddressScope: e.ascending,
		})
	}

	wwName, unkName := i18n.SentinelNames(o.lang)
	if !i18n.Translated(o.lang) {
		o.logger.Debug("no placeholder translations, using English", "language", o.lang.String())
	}
	if o.worldwideName != "" {
		wwName = o.worldwideName
	}
	if o.unknownName != "" {
		unkName = o.unknownName
	}
	c.worldwide = sentinel(WorldwideCode, WorldwideAlpha3Code, "Worldwide", wwName)
	c.unknown = sentinel(UnknownCode, UnknownAlpha3Code, "Unknown", unkName)

	c.logger.Debug("country catalog built", "countries", len(c.countries), "language", o.lang.String())
	return c
}

func sentinel(alpha2, alpha3, english, localized string) Country {
	return Country{
		Alpha2Code:                   alpha2,
		Alpha3Code:                   alpha3,
		EnglishName:                  english,
		LocalizedName:                localized,
		AddressLabels:                address.StandardLayout(),
		PrefersAscendingAddressScope: true,
	}
}

func localizedName(namer display.Namer, alpha2, fallback string) string {
	if namer == nil {
		return fallback
	}
	region, err := language.ParseRegion(alpha2)
	if err != nil {
		return fallback
	}
	if name := namer.Name(region); name != "" {
		return name
	}
	return fallback
}

// Language returns the language of localized names.
func (c *Catalog) Language() language.Tag {
	return c.lang
}

// Len returns the number of countries, sentinels excluded.
func (c *Catalog) Len() int {
	return len(c.countries)
}

// List returns every country in catalog order.
func (c *Catalog) List() []Country {
	out := make([]Country, len(c.countries))
	copy(out, c.countries)
	return out
}

// All returns every country keyed by upper case alpha-2 code.
func (c *Catalog) All() map[string]Country {
	out := make(map[string]Country, len(c.countries))
	for _, country := range c.countries {
		out[country.Alpha2Code] = country
	}
	return out
}

// Codes returns every alpha-2 code in catalog order.
func (c *Catalog) Codes() []string {
	out := make([]string, len(c.countries))
	for i, country := range c.countries {
		out[i] = country.Alpha2Code
	}
	return out
}

// Contains reports whether code is a catalog alpha-2 code.
func (c *Catalog) Contains(code string) bool {
	_, ok := c.index[normalizeCode(code)]
	return ok
}

// Worldwide returns the Worldwide sentinel.
func (c *Catalog) Worldwide() Country {
	return c.worldwide
}

// Unknown returns the Unknown sentinel.
func (c *Catalog) Unknown() Country {
	return c.unknown
}

// Find returns the country with the given alpha-2 code, the Worldwide
// sentinel for "WW", or the Unknown sentinel.
func (c *Catalog) Find(alpha2 string) Country {
	code := normalizeCode(alpha2)
	if i, ok := c.index[code]; ok {
		return c.countries[i]
	}
	if code == WorldwideCode {
		return c.worldwide
	}
	return c.unknown
}

// FindAlpha3 is Find for alpha-3 codes.
func (c *Catalog) FindAlpha3(alpha3 string) Country {
	code := normalizeCode(alpha3)
	for _, country := range c.countries {
		if country.Alpha3Code == code {
			return country
		}
	}
	if code == WorldwideAlpha3Code {
		return c.worldwide
	}
	return c.unknown
}

// FindLocale returns the country named by the region subtag of a locale
// identifier such as "en_US" or "zh-Hant-TW". Locales without a region
// resolve to Unknown.
func (c *Catalog) FindLocale(locale string) Country {
	region := RegionOf(locale)
	if region == "" {
		return c.unknown
	}
	if i, ok := c.index[region]; ok {
		return c.countries[i]
	}
	return c.unknown
}

// FindAny resolves an alpha-2 code, an alpha-3 code or a locale.
func (c *Catalog) FindAny(id string) Country {
	id = strings.TrimSpace(id)
	switch {
	case len(id) == 2:
		return c.Find(id)
	case len(id) == 3 && !strings.ContainsAny(id, "-_"):
		return c.FindAlpha3(id)
	default:
		return c.FindLocale(id)
	}
}

// Enrich returns a copy of the catalog whose records carry the given wiki
// metadata and locales. c itself is left untouched.
func (c *Catalog) Enrich(wiki map[string]Wiki, locales map[string][]string) *Catalog {
	out := &Catalog{
		lang:      c.lang,
		countries: make([]Country, len(c.countries)),
		index:     c.index,
		worldwide: c.worldwide,
		unknown:   c.unknown,
		logger:    c.logger,
	}
	enriched := 0
	for i, country := range c.countries {
		country.Wiki = nil
		country.Locales = nil
		if w, ok := wiki[country.Alpha2Code]; ok {
			country.Wiki = &w
			enriched++
		}
		if l, ok := locales[country.Alpha2Code]; ok && len(l) > 0 {
			country.Locales = append([]string(nil), l...)
		}
		out.countries[i] = country
	}
	c.logger.Debug("country catalog enriched", "wiki", enriched, "locales", len(locales))
	return out
}

// RegionOf extracts the upper case region subtag of a locale identifier, or
// "" when there is none.
func RegionOf(locale string) string {
	locale = strings.TrimSpace(strings.ReplaceAll(locale, "_", "-"))
	if locale == "" {
		return ""
	}
	if tag, err := language.Parse(locale); err == nil {
		_, _, region := tag.Raw()
		if region.IsCountry() {
			return region.String()
		}
		return ""
	}

	// Tags x/text rejects (private extensions, odd variants) still tend to
	// carry a plain two letter region after the language.
	parts := strings.Split(locale, "-")
	for _, p := range parts[1:] {
		if len(p) == 2 && isAlpha(p) {
			return strings.ToUpper(p)
		}
	}
	return ""
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
