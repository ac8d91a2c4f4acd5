package address

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// StandardLayoutName is used for countries without a dedicated layout.
const StandardLayoutName = "standard"

var (
	ErrEmptyLayout    = errors.New("address layout is empty")
	ErrMissingCountry = errors.New("address layout does not end with the country field")
)

var layouts = map[string][]Label{
	StandardLayoutName: {Street1, Street2, City, Province, PostalCode, Country},
	"postalFirst":      {Street1, Street2, PostalCode, City, Country},
	"postalFirstState": {Street1, Street2, PostalCode, City, Province, Country},
	"noPostal":         {Street1, Street2, City, Province, Country},
	"cityOnly":         {Street1, Street2, City, Country},
	"cityPostal":       {Street1, Street2, City, PostalCode, Country},
	"county":           {Street1, Street2, City, County, PostalCode, Country},
	"suburb":           {Street1, Street2, Suburb, City, Province, PostalCode, Country},
	"suburbState":      {Street1, Street2, Suburb, State, PostalCode, Country},
	"neighborhood":     {Street1, Street2, Neighborhood, City, State, PostalCode, Country},
	"district":         {Street1, Street2, District, City, Province, PostalCode, Country},
	"island":           {Street1, Street2, City, Island, Country},
	"region":           {Street1, Street2, City, Region, Country},
	"state":            {Street1, Street2, City, State, PostalCode, Country},

	// Largest-to-smallest layouts.
	"china":      {Province, City, District, Street1, Street2, PostalCode, Country},
	"japan":      {PostalCode, Prefecture, City, Suburb, Street1, Street2, Country},
	"korea":      {Province, City, District, Street1, Street2, PostalCode, Country},
	"taiwan":     {PostalCode, County, City, District, Street1, Street2, Country},
	"hongKong":   {Region, District, Street1, Street2, Country},
	"macao":      {District, Street1, Street2, Country},
	"kyrgyzstan": {PostalCode, Province, City, Street1, Street2, Country},
	"northKorea": {Province, City, Street1, Street2, Country},
	"hungary":    {City, Street1, Street2, PostalCode, Country},
}

// StandardLayout returns the default five field layout.
func StandardLayout() []Label {
	return clone(layouts[StandardLayoutName])
}

// Layout returns a copy of the named layout. Empty names resolve to the
// standard layout.
func Layout(name string) ([]Label, bool) {
	if strings.TrimSpace(name) == "" {
		return StandardLayout(), true
	}
	l, ok := layouts[name]
	if !ok {
		return nil, false
	}
	return clone(l), true
}

// LayoutNames lists the known layouts in lexical order.
func LayoutNames() []string {
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that labels form a usable layout: non-empty, terminated by
// the country field, and with ranked fields ordered in the given direction.
func Validate(labels []Label, ascending bool) error {
	if len(labels) == 0 {
		return ErrEmptyLayout
	}
	if labels[len(labels)-1] != Country {
		return ErrMissingCountry
	}

	prev := 0
	for i, l := range labels[:len(labels)-1] {
		size := l.GeographicSize()
		if size == 0 {
			continue
		}
		if prev != 0 {
			if ascending && size < prev {
				return fmt.Errorf("field %d (%s) is smaller than the field before it", i, l)
			}
			if !ascending && size > prev {
				return fmt.Errorf("field %d (%s) is larger than the field before it", i, l)
			}
		}
		prev = size
	}
	return nil
}

// Components returns the address bucket of each label, in order.
func Components(labels []Label) []Component {
	out := make([]Component, len(labels))
	for i, l := range labels {
		out[i] = l.Component()
	}
	return out
}

func clone(l []Label) []Label {
	out := make([]Label, len(l))
	copy(out, l)
	return out
}
