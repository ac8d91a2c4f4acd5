// Package timezone parses and orders the UTC offsets used in country metadata.
package timezone

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidOffset is returned for text that is not a UTC offset.
var ErrInvalidOffset = errors.New("invalid UTC offset")

// Offset is a fixed offset from UTC, e.g. "UTC +9:30".
type Offset struct {
	Hours    int  `json:"hours"`
	Minutes  int  `json:"minutes"`
	Negative bool `json:"negative"`
}

// UTC is the zero offset.
var UTC = Offset{}

// Parse reads "UTC", "UTC -10", "UTC +9:30" and the compact form "UTC+05:45".
// The unicode minus sign is accepted in place of '-'.
func Parse(s string) (Offset, error) {
	text := strings.TrimSpace(s)
	rest, ok := strings.CutPrefix(text, "UTC")
	if !ok {
		return Offset{}, fmt.Errorf("%w: %q", ErrInvalidOffset, s)
	}
	rest = strings.TrimSpace(rest)
	if rest == "" || rest == "±0" || rest == "+0" || rest == "-0" {
		return UTC, nil
	}

	var o Offset
	switch {
	case strings.HasPrefix(rest, "+"):
		rest = rest[1:]
	case strings.HasPrefix(rest, "-"):
		o.Negative = true
		rest = rest[1:]
	case strings.HasPrefix(rest, "−"):
		o.Negative = true
		rest = rest[len("−"):]
	default:
		return Offset{}, fmt.Errorf("%w: %q: missing sign", ErrInvalidOffset, s)
	}
	rest = strings.TrimSpace(rest)

	hours, minutes, hasMinutes := strings.Cut(rest, ":")
	h, err := strconv.Atoi(hours)
	if err != nil || h < 0 || h > 14 {
		return Offset{}, fmt.Errorf("%w: %q: bad hours", ErrInvalidOffset, s)
	}
	o.Hours = h
	if hasMinutes {
		m, err := strconv.Atoi(minutes)
		if err != nil || m < 0 || m > 59 {
			return Offset{}, fmt.Errorf("%w: %q: bad minutes", ErrInvalidOffset, s)
		}
		o.Minutes = m
	}
	if o.Hours == 0 && o.Minutes == 0 {
		o.Negative = false
	}
	return o, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Offset {
	o, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return o
}

// SecondsFromUTC returns the signed offset in seconds.
func (o Offset) SecondsFromUTC() int {
	secs := o.Hours*3600 + o.Minutes*60
	if o.Negative {
		return -secs
	}
	return secs
}

// String formats the offset the way the metadata files write it.
func (o Offset) String() string {
	if o.Hours == 0 && o.Minutes == 0 {
		return "UTC"
	}
	sign := "+"
	if o.Negative {
		sign = "-"
	}
	if o.Minutes == 0 {
		return fmt.Sprintf("UTC %s%d", sign, o.Hours)
	}
	return fmt.Sprintf("UTC %s%d:%02d", sign, o.Hours, o.Minutes)
}

// Compare orders offsets easternmost first: it returns a negative number when
// a is further east (larger SecondsFromUTC) than b.
func Compare(a, b Offset) int {
	return b.SecondsFromUTC() - a.SecondsFromUTC()
}

// Before reports whether a sorts before b.
func (o Offset) Before(other Offset) bool {
	return Compare(o, other) < 0
}

// Sort orders offsets in place, easternmost first.
func Sort(offsets []Offset) {
	slices.SortStableFunc(offsets, Compare)
}

// ParseList parses every element of list, dropping the ones that fail.
func ParseList(list []string) []Offset {
	var out []Offset
	for _, s := range list {
		o, err := Parse(s)
		if err != nil {
			continue
		}
		out = append(out, o)
	}
	return out
}
