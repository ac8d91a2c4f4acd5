// Package inclusion decides which countries a picker offers.
package inclusion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hightemp/countrykit/internal/countries"
)

// ErrUnknownOption is returned by ParseOptions for an unrecognized name.
var ErrUnknownOption = errors.New("unknown inclusion option")

// Options is a set of country categories.
type Options uint8

const (
	SovereignState Options = 1 << iota
	CommonwealthMember
	DependentTerritory
	NoPermanentPopulation
	DisputedTerritories
	All
)

// Default offers every country.
const Default = All

var optionNames = []struct {
	opt  Options
	name string
}{
	{SovereignState, "sovereign"},
	{CommonwealthMember, "commonwealth"},
	{DependentTerritory, "dependent"},
	{NoPermanentPopulation, "unpopulated"},
	{DisputedTerritories, "disputed"},
	{All, "all"},
}

// Has reports whether every bit of flag is set.
func (o Options) Has(flag Options) bool {
	return o&flag == flag
}

func (o Options) String() string {
	if o == 0 {
		return "none"
	}
	var names []string
	for _, n := range optionNames {
		if o.Has(n.opt) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, ",")
}

// ParseOptions parses a comma separated list such as "sovereign,commonwealth".
// An empty string yields Default.
func ParseOptions(s string) (Options, error) {
	var o Options
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		found := false
		for _, n := range optionNames {
			if n.name == part {
				o |= n.opt
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: %q", ErrUnknownOption, part)
		}
	}
	if o == 0 {
		return Default, nil
	}
	return o, nil
}

// Includes reports whether c belongs to one of the requested categories.
// The rules are tried in order and the first one that applies wins.
func (o Options) Includes(c countries.Country) bool {
	switch {
	case o.Has(All):
		return true
	case o.Has(SovereignState) && c.SovereignStateCode() == "" && !c.IsDisputedTerritory() && c.HasPermanentPopulation():
		return true
	case o.Has(CommonwealthMember) && c.IsCommonwealthMember():
		return true
	case o.Has(DependentTerritory) && c.SovereignStateCode() != "":
		return true
	case o.Has(NoPermanentPopulation) && !c.HasPermanentPopulation():
		return true
	case o.Has(DisputedTerritories) && c.IsDisputedTerritory():
		return true
	default:
		return false
	}
}

// Rules combines the inclusion options with the roster and deny-list
// overrides.
type Rules struct {
	Options Options
	// Roster, when non-empty, is the only set of countries offered.
	Roster []string
	// Excluded is dropped after Options runs. Ignored when Roster is set.
	Excluded []string
}

// Apply filters list, keeping its order.
func (r Rules) Apply(list []countries.Country) []countries.Country {
	out := make([]countries.Country, 0, len(list))

	if len(r.Roster) > 0 {
		roster := codeSet(r.Roster)
		for _, c := range list {
			if roster[c.Alpha2Code] {
				out = append(out, c)
			}
		}
		return out
	}

	excluded := codeSet(r.Excluded)
	for _, c := range list {
		if !r.Options.Includes(c) {
			continue
		}
		if excluded[c.Alpha2Code] {
			continue
		}
		out = append(out, c)
	}
	return out
}

func codeSet(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, code := range codes {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			set[code] = true
		}
	}
	return set
}
