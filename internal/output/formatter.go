// Package output handles output formatting.
package output

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hightemp/countrykit/internal/countries"
	"github.com/hightemp/countrykit/internal/search"
	"github.com/hightemp/countrykit/internal/timezone"
)

// HighlightStyle selects how matched text is marked in text output.
type HighlightStyle int

const (
	HighlightNone HighlightStyle = iota
	HighlightBrackets
	HighlightANSI
)

// ParseHighlightStyle parses none, brackets or ansi.
func ParseHighlightStyle(s string) (HighlightStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off":
		return HighlightNone, nil
	case "", "brackets":
		return HighlightBrackets, nil
	case "ansi", "color":
		return HighlightANSI, nil
	default:
		return HighlightNone, fmt.Errorf("invalid highlight style %q", s)
	}
}

var matchStyle = lipgloss.NewStyle().Bold(true).Underline(true)

// Row is one line of a country list.
type Row struct {
	Section    string        `json:"section"`
	Code       string        `json:"code"`
	Alpha3     string        `json:"alpha3"`
	Name       string        `json:"name"`
	Highlights []search.Span `json:"highlights,omitempty"`
	Area       float64       `json:"area_km2,omitempty"`
	TimeZone   string        `json:"time_zone,omitempty"`
}

// NewRow builds the row of a search result.
func NewRow(section string, r search.Result) Row {
	row := Row{
		Section:    section,
		Code:       r.Country.Alpha2Code,
		Alpha3:     r.Country.Alpha3Code,
		Name:       r.Country.LocalizedName,
		Highlights: r.Highlights,
		Area:       r.Country.Area(),
	}
	if tz, ok := r.Country.FirstTimeZone(); ok {
		row.TimeZone = tz.String()
	}
	return row
}

// FormatText formats the row as tab-separated text.
func (r Row) FormatText(style HighlightStyle) string {
	area := "-"
	if r.Area > 0 {
		area = strconv.FormatFloat(r.Area, 'f', -1, 64)
	}
	tz := r.TimeZone
	if tz == "" {
		tz = "-"
	}
	return fmt.Sprintf("%s\t%s\t%s\t%s\t%s",
		r.Code,
		r.Alpha3,
		Highlight(r.Name, r.Highlights, style),
		area,
		tz,
	)
}

// Highlight marks spans of name. Overlapping spans are merged.
func Highlight(name string, spans []search.Span, style HighlightStyle) string {
	if style == HighlightNone || len(spans) == 0 {
		return name
	}

	var b strings.Builder
	pos := 0
	for _, s := range mergeSpans(spans, len(name)) {
		b.WriteString(name[pos:s.Start])
		match := name[s.Start:s.End]
		switch style {
		case HighlightANSI:
			b.WriteString(matchStyle.Render(match))
		default:
			b.WriteString("[" + match + "]")
		}
		pos = s.End
	}
	b.WriteString(name[pos:])
	return b.String()
}

func mergeSpans(spans []search.Span, limit int) []search.Span {
	sorted := make([]search.Span, 0, len(spans))
	for _, s := range spans {
		if s.Start < 0 || s.End > limit || s.Start >= s.End {
			continue
		}
		sorted = append(sorted, s)
	}
	slices.SortFunc(sorted, func(a, b search.Span) int { return a.Start - b.Start })

	var merged []search.Span
	for _, s := range sorted {
		if n := len(merged); n > 0 && s.Start <= merged[n-1].End {
			merged[n-1].End = max(merged[n-1].End, s.End)
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// ListResult is a filtered and sorted country list.
type ListResult struct {
	Query      string `json:"query,omitempty"`
	SearchMode bool   `json:"search_mode"`
	Rows       []Row  `json:"rows"`
}

// FormatText formats the list one row per line.
func (l *ListResult) FormatText(style HighlightStyle) string {
	lines := make([]string, len(l.Rows))
	for i, r := range l.Rows {
		lines[i] = r.FormatText(style)
	}
	return strings.Join(lines, "\n")
}

// FormatJSON formats the list as JSON.
func (l *ListResult) FormatJSON() (string, error) {
	return formatJSON(l)
}

// LookupResult contains the result of resolving one identifier.
type LookupResult struct {
	Input  string `json:"input"`
	Code   string `json:"code"`
	Alpha3 string `json:"alpha3,omitempty"`
	Name   string `json:"name,omitempty"`
	Error  string `json:"error,omitempty"`
}

// FormatText formats result as tab-separated text.
func (r *LookupResult) FormatText() string {
	if r.Error != "" {
		return fmt.Sprintf("%s\t-\t-\t-\tERROR: %s", r.Input, r.Error)
	}
	return fmt.Sprintf("%s\t%s\t%s\t%s", r.Input, r.Code, r.Alpha3, r.Name)
}

// FormatJSON formats result as JSON.
func (r *LookupResult) FormatJSON() (string, error) {
	return formatJSON(r)
}

// BatchResult contains results for batch processing.
type BatchResult struct {
	Results []*LookupResult
}

// FormatText formats batch results as text (one line per result).
func (b *BatchResult) FormatText() string {
	var lines []string
	for _, r := range b.Results {
		lines = append(lines, r.FormatText())
	}
	return strings.Join(lines, "\n")
}

// FormatJSON formats batch results as JSON array.
func (b *BatchResult) FormatJSON() (string, error) {
	return formatJSON(b.Results)
}

// FormatCountry formats the details of one country, one "key: value" pair
// per line. Empty values are left out.
func FormatCountry(c countries.Country) string {
	var lines []string
	add := func(key, value string) {
		if value != "" {
			lines = append(lines, fmt.Sprintf("%-16s %s", key+":", value))
		}
	}

	add("Code", c.Alpha2Code)
	add("Alpha-3", c.Alpha3Code)
	add("Name", c.LocalizedName)
	if c.EnglishName != c.LocalizedName {
		add("English name", c.EnglishName)
	}

	labels := make([]string, len(c.AddressLabels))
	for i, l := range c.AddressLabels {
		labels[i] = l.String()
	}
	add("Address", strings.Join(labels, ", "))
	add("Address parts", joinComponents(c))
	if !c.PrefersAscendingAddressScope {
		add("Address order", "largest first")
	}

	if w := c.Wiki; w != nil {
		add("Capital", w.Capital())
		add("Domain", w.TopLevelDomain)
		add("Languages", strings.Join(w.OfficialLanguages, ", "))
		if w.Area > 0 {
			add("Area", strconv.FormatFloat(w.Area, 'f', -1, 64)+" km²")
		}
		add("Time zones", joinOffsets(w.TimeZoneOffsets))
		add("Summer time", joinOffsets(w.DaylightSavingsTimeZoneOffsets))
		if w.InternationalCallingCode != "" {
			add("Calling code", "+"+w.InternationalCallingCode)
		}
		add("Area codes", strings.Join(w.DedicatedAreaCodes, ", "))
		add("Sovereign state", w.SovereignStateCountryCode)
		if w.CommonwealthMember {
			add("Commonwealth", "yes")
		}
		if w.NoPermanentPopulation {
			add("Population", "none permanent")
		}
		if w.DisputedTerritory {
			add("Disputed", "yes")
		}
		add("Wikipedia", w.WikipediaURL)
	}
	add("Locales", strings.Join(c.Locales, ", "))

	return strings.Join(lines, "\n")
}

// FormatCountryJSON formats a country record as JSON.
func FormatCountryJSON(c countries.Country) (string, error) {
	return formatJSON(c)
}

// joinComponents lists the address components in layout order, collapsing
// neighbours that share a component.
func joinComponents(c countries.Country) string {
	var out []string
	for _, comp := range c.AddressComponents() {
		name := comp.String()
		if len(out) > 0 && out[len(out)-1] == name {
			continue
		}
		out = append(out, name)
	}
	return strings.Join(out, ", ")
}

// joinOffsets lists offsets easternmost first.
func joinOffsets(offsets []timezone.Offset) string {
	zones := slices.Clone(offsets)
	timezone.Sort(zones)
	out := make([]string, len(zones))
	for i, z := range zones {
		out[i] = z.String()
	}
	return strings.Join(out, ", ")
}

func formatJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
