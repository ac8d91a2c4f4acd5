// Package metadata enriches the country catalog with the bundled locale and
// wiki resource files.
//
// Both files are versioned with the code, so malformed rows are skipped
// rather than reported as errors. Skips are counted in Stats and logged at
// debug level.
package metadata

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/hightemp/countrykit/internal/countries"
	"github.com/hightemp/countrykit/internal/timezone"
)

// WikiColumns is the exact column count of a wiki row.
const WikiColumns = 19

// Wiki file columns.
const (
	colRowNumber = iota
	colAlpha2
	colName
	colTopLevelDomain
	colWikipediaURL
	colCapitalDeJure
	colCapitalDeFacto
	colLanguagesDisplay
	colLanguageCodes
	colArea
	colTimeZones
	colDaylightTimeZones
	colCallingCode
	colAreaCodes
	colCommonwealth
	colSovereignStateName
	colSovereignStateAlpha2
	colNoPermanentPopulation
	colDisputed
)

// Stats counts what the last Load calls did.
type Stats struct {
	LocaleRows     int `json:"locale_rows"`
	LocalesSkipped int `json:"locales_skipped"`
	WikiRows       int `json:"wiki_rows"`
	WikiSkipped    int `json:"wiki_skipped"`
}

// Loader collects metadata for the countries of one catalog.
type Loader struct {
	catalog *countries.Catalog
	logger  *slog.Logger

	wiki    map[string]countries.Wiki
	locales map[string][]string
	stats   Stats
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a loader for c.
func NewLoader(c *countries.Catalog, opts ...Option) *Loader {
	l := &Loader{
		catalog: c,
		logger:  slog.Default(),
		wiki:    make(map[string]countries.Wiki),
		locales: make(map[string][]string),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadLocales reads locale rows ("locale,regioncode,..."). The first row is
// the header. Each call replaces the locales read before.
func (l *Loader) LoadLocales(rows []string) {
	locales := make(map[string][]string)
	seen := make(map[string]bool)
	loaded, skipped := 0, 0

	for i, row := range rows {
		if i == 0 {
			continue
		}
		cols := strings.Split(row, ",")
		if len(cols) <= 2 {
			skipped++
			continue
		}
		locale := strings.TrimSpace(cols[0])
		region := strings.ToUpper(strings.TrimSpace(cols[1]))
		if locale == "" || !l.catalog.Contains(region) {
			skipped++
			continue
		}
		if seen[locale] {
			continue
		}
		seen[locale] = true
		locales[region] = append(locales[region], locale)
		loaded++
	}

	l.locales = locales
	l.stats.LocaleRows = loaded
	l.stats.LocalesSkipped = skipped
	l.logger.Debug("locales loaded", "rows", loaded, "skipped", skipped, "countries", len(locales))
}

// LoadWiki reads wiki rows. The first row is the header. Rows without
// exactly WikiColumns columns, or naming a country the catalog does not
// have, are dropped. Each call replaces the metadata read before.
func (l *Loader) LoadWiki(rows []string) {
	wiki := make(map[string]countries.Wiki)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			continue
		}
		cols := strings.Split(row, ",")
		if len(cols) != WikiColumns {
			skipped++
			continue
		}
		code := strings.ToUpper(strings.TrimSpace(cols[colAlpha2]))
		if !l.catalog.Contains(code) {
			skipped++
			continue
		}
		wiki[code] = parseWikiRow(cols)
	}

	l.wiki = wiki
	l.stats.WikiRows = len(wiki)
	l.stats.WikiSkipped = skipped
	l.logger.Debug("wiki metadata loaded", "rows", len(wiki), "skipped", skipped)
}

func parseWikiRow(cols []string) countries.Wiki {
	field := func(i int) string { return strings.TrimSpace(cols[i]) }

	return countries.Wiki{
		TopLevelDomain:                 field(colTopLevelDomain),
		WikipediaURL:                   field(colWikipediaURL),
		CapitalDeJure:                  field(colCapitalDeJure),
		CapitalDeFacto:                 field(colCapitalDeFacto),
		OfficialLanguages:              splitPipe(field(colLanguageCodes)),
		Area:                           parseFloat(field(colArea)),
		TimeZoneOffsets:                timezone.ParseList(splitPipe(field(colTimeZones))),
		DaylightSavingsTimeZoneOffsets: timezone.ParseList(splitPipe(field(colDaylightTimeZones))),
		InternationalCallingCode:       field(colCallingCode),
		DedicatedAreaCodes:             splitPipe(field(colAreaCodes)),
		CommonwealthMember:             parseBool(field(colCommonwealth)),
		SovereignStateCountryCode:      strings.ToUpper(field(colSovereignStateAlpha2)),
		NoPermanentPopulation:          parseBool(field(colNoPermanentPopulation)),
		DisputedTerritory:              parseBool(field(colDisputed)),
	}
}

// Load reads both resource files from p. Missing files leave the
// corresponding metadata empty.
func (l *Loader) Load(p Provider) {
	if text, ok := p.FileContents(LocalesResource, CSVExtension); ok {
		l.LoadLocales(SplitRows(text))
	} else {
		l.logger.Debug("resource missing", "name", LocalesResource)
	}
	if text, ok := p.FileContents(WikiResource, CSVExtension); ok {
		l.LoadWiki(SplitRows(text))
	} else {
		l.logger.Debug("resource missing", "name", WikiResource)
	}
}

// Apply returns the enriched catalog.
func (l *Loader) Apply() *countries.Catalog {
	return l.catalog.Enrich(l.wiki, l.locales)
}

// Stats returns the counters of the last loads.
func (l *Loader) Stats() Stats {
	return l.stats
}

// Enrich loads p and returns the enriched copy of c.
func Enrich(c *countries.Catalog, p Provider, opts ...Option) *countries.Catalog {
	l := NewLoader(c, opts...)
	l.Load(p)
	return l.Apply()
}

var (
	defaultCatalog     *countries.Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the English catalog enriched from the embedded
// resources. It is built once per process.
func DefaultCatalog() *countries.Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog = Enrich(countries.New(), EmbeddedProvider{})
	})
	return defaultCatalog
}

// SplitRows splits resource text into lines, tolerating CRLF and a missing
// trailing newline.
func SplitRows(text string) []string {
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func splitPipe(s string) []string {
	var out []string
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// parseFloat returns 0 for anything that is not a finite number.
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
