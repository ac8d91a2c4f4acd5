// Package sorting provides the display orders of a country list.
package sorting

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/hightemp/countrykit/internal/countries"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ErrUnknownPolicy is returned by Named for an unrecognized policy name.
var ErrUnknownPolicy = errors.New("unknown sort policy")

// Policy reports whether lhs sorts before rhs.
type Policy func(lhs, rhs countries.Country) bool

// Policy names accepted by Named.
const (
	NameLocalized = "name"
	NameAlpha2    = "alpha2"
	NameArea      = "area"
	NameTimeZone  = "timezone"
	NamePinned    = "pinned"
)

// Names lists the policy names accepted by Named.
var Names = []string{NameLocalized, NameAlpha2, NameArea, NameTimeZone, NamePinned}

// ByLocalizedName compares localized names in the collation order of tag,
// ignoring case and diacritics. It is the default policy.
func ByLocalizedName(tag language.Tag) Policy {
	var mu sync.Mutex
	col := collate.New(tag, collate.IgnoreCase, collate.IgnoreDiacritics)
	return func(lhs, rhs countries.Country) bool {
		mu.Lock()
		defer mu.Unlock()
		return col.CompareString(lhs.LocalizedName, rhs.LocalizedName) < 0
	}
}

// ByAlpha2 orders by alpha-2 code.
func ByAlpha2(lhs, rhs countries.Country) bool {
	return strings.ToUpper(lhs.Alpha2Code) < strings.ToUpper(rhs.Alpha2Code)
}

// ByArea puts larger countries first. Countries without metadata have no
// area.
func ByArea(lhs, rhs countries.Country) bool {
	return lhs.Area() > rhs.Area()
}

// ByTimeZone orders by first time zone, easternmost first. Countries with a
// time zone come before those without.
func ByTimeZone(lhs, rhs countries.Country) bool {
	l, lok := lhs.FirstTimeZone()
	r, rok := rhs.FirstTimeZone()
	switch {
	case lok && rok:
		return l.Before(r)
	case lok:
		return true
	default:
		return false
	}
}

// Pinned puts the countries named by codes first and orders each partition
// with fallback.
func Pinned(codes []string, fallback Policy) Policy {
	pinned := make(map[string]bool, len(codes))
	for _, code := range codes {
		pinned[strings.ToUpper(strings.TrimSpace(code))] = true
	}
	return func(lhs, rhs countries.Country) bool {
		lp, rp := pinned[lhs.Alpha2Code], pinned[rhs.Alpha2Code]
		if lp != rp {
			return lp
		}
		return fallback(lhs, rhs)
	}
}

// Sort orders list in place. Ties keep their relative order.
func Sort(list []countries.Country, policy Policy) {
	slices.SortStableFunc(list, func(a, b countries.Country) int {
		switch {
		case policy(a, b):
			return -1
		case policy(b, a):
			return 1
		default:
			return 0
		}
	})
}

// Sorted returns a sorted copy of list.
func Sorted(list []countries.Country, policy Policy) []countries.Country {
	out := slices.Clone(list)
	Sort(out, policy)
	return out
}

// Named resolves a policy by name. Pinned codes are ordered by localized
// name in tag; an empty name selects the default policy.
func Named(name string, tag language.Tag, pinned []string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameLocalized:
		return ByLocalizedName(tag), nil
	case NameAlpha2:
		return ByAlpha2, nil
	case NameArea:
		return ByArea, nil
	case NameTimeZone, "tz":
		return ByTimeZone, nil
	case NamePinned:
		return Pinned(pinned, ByLocalizedName(tag)), nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownPolicy, name, strings.Join(Names, ", "))
	}
}
