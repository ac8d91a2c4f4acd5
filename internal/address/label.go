// Package address describes postal address form layouts.
package address

import (
	"fmt"
	"strings"
)

// Label is a single field of a postal address form.
type Label int

const (
	Street1 Label = iota
	Street2
	Neighborhood
	Suburb
	District
	City
	County
	Island
	Region
	State
	Province
	Prefecture
	PostalCode
	Country
)

var labelNames = [...]string{
	Street1:      "street1",
	Street2:      "street2",
	Neighborhood: "neighborhood",
	Suburb:       "suburb",
	District:     "district",
	City:         "city",
	County:       "county",
	Island:       "island",
	Region:       "region",
	State:        "state",
	Province:     "province",
	Prefecture:   "prefecture",
	PostalCode:   "postalCode",
	Country:      "country",
}

// Component is the coarse address bucket a label belongs to.
type Component int

const (
	ComponentStreet Component = iota
	ComponentSubLocality
	ComponentCity
	ComponentSubAdministrativeArea
	ComponentState
	ComponentPostalCode
	ComponentCountry
)

var componentNames = [...]string{
	ComponentStreet:                "street",
	ComponentSubLocality:           "subLocality",
	ComponentCity:                  "city",
	ComponentSubAdministrativeArea: "subAdministrativeArea",
	ComponentState:                 "state",
	ComponentPostalCode:            "postalCode",
	ComponentCountry:               "country",
}

func (c Component) String() string {
	if c < 0 || int(c) >= len(componentNames) {
		return fmt.Sprintf("Component(%d)", int(c))
	}
	return componentNames[c]
}

// String returns the stable tag used in data files.
func (l Label) String() string {
	if !l.valid() {
		return fmt.Sprintf("Label(%d)", int(l))
	}
	return labelNames[l]
}

func (l Label) valid() bool {
	return l >= 0 && int(l) < len(labelNames)
}

// GeographicSize ranks the label from street (1) to country (1000).
// Postal codes cover areas of no fixed size and return 0.
func (l Label) GeographicSize() int {
	switch l {
	case Street1, Street2:
		return 1
	case Neighborhood:
		return 10
	case Suburb:
		return 20
	case District:
		return 30
	case City:
		return 100
	case County:
		return 200
	case Island:
		return 250
	case Region:
		return 300
	case State, Province, Prefecture:
		return 400
	case PostalCode:
		return 0
	case Country:
		return 1000
	}
	panic(fmt.Sprintf("address: unknown label %d", int(l)))
}

// Component maps the label onto one of the seven address buckets.
func (l Label) Component() Component {
	switch l {
	case Street1, Street2:
		return ComponentStreet
	case Neighborhood, Suburb, District:
		return ComponentSubLocality
	case City:
		return ComponentCity
	case County, Island:
		return ComponentSubAdministrativeArea
	case Region, State, Province, Prefecture:
		return ComponentState
	case PostalCode:
		return ComponentPostalCode
	case Country:
		return ComponentCountry
	}
	panic(fmt.Sprintf("address: unknown label %d", int(l)))
}

// ParseLabel parses a label tag. Matching is case-insensitive.
func ParseLabel(s string) (Label, error) {
	s = strings.TrimSpace(s)
	for i, name := range labelNames {
		if strings.EqualFold(name, s) {
			return Label(i), nil
		}
	}
	return 0, fmt.Errorf("unknown address label %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	if !l.valid() {
		return nil, fmt.Errorf("unknown address label %d", int(l))
	}
	return []byte(labelNames[l]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(b []byte) error {
	parsed, err := ParseLabel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
