// Package search narrows a country list by free text and computes the
// highlight spans of each match.
package search

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hightemp/countrykit/internal/countries"
	"golang.org/x/text/language"
	"golang.org/x/text/search"
)

// ErrUnknownPolicy is returned by ParsePolicy.
var ErrUnknownPolicy = errors.New("unknown search policy")

// Policy decides how the terms of a query combine.
type Policy int

const (
	// Or matches countries containing any term.
	Or Policy = iota
	// And matches countries containing every term.
	And
)

func (p Policy) String() string {
	switch p {
	case Or:
		return "or"
	case And:
		return "and"
	default:
		panic(fmt.Sprintf("search: invalid policy %d", int(p)))
	}
}

// ParsePolicy parses "and" or "or". An empty string yields Or.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "or", "any":
		return Or, nil
	case "and", "all":
		return And, nil
	default:
		return Or, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Span is a byte range of a localized name.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Result is a matched country with the spans to highlight.
type Result struct {
	Country    countries.Country `json:"country"`
	Highlights []Span            `json:"highlights,omitempty"`
}

// Outcome is the result of one Filter call.
type Outcome struct {
	Results []Result `json:"results"`
	// SearchMode is false when the query was empty.
	SearchMode bool `json:"search_mode"`
}

// Countries returns the matched countries in order.
func (o Outcome) Countries() []countries.Country {
	out := make([]countries.Country, len(o.Results))
	for i, r := range o.Results {
		out[i] = r.Country
	}
	return out
}

// Engine matches queries against localized names, ignoring case and
// diacritics.
type Engine struct {
	matcher *search.Matcher
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an engine for the language of the names it searches.
func New(tag language.Tag, opts ...Option) *Engine {
	e := &Engine{
		matcher: search.New(tag, search.IgnoreCase, search.IgnoreDiacritics),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Terms splits a query into its search terms.
func Terms(query string) []string {
	var terms []string
	for _, t := range strings.Split(strings.TrimSpace(query), " ") {
		if t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// Filter returns the countries of list whose localized name matches query.
// An empty query returns list unchanged and unhighlighted. Each term found
// in a name highlights its first occurrence.
func (e *Engine) Filter(query string, list []countries.Country, policy Policy) Outcome {
	terms := Terms(query)
	if len(terms) == 0 {
		results := make([]Result, len(list))
		for i, c := range list {
			results[i] = Result{Country: c}
		}
		return Outcome{Results: results}
	}

	patterns := make([]*search.Pattern, len(terms))
	for i, t := range terms {
		patterns[i] = e.matcher.CompileString(t)
	}

	results := make([]Result, 0, len(list))
	for _, c := range list {
		spans := make([]Span, 0, len(patterns))
		for _, p := range patterns {
			start, end := p.IndexString(c.LocalizedName)
			if start >= 0 {
				spans = append(spans, Span{Start: start, End: end})
			}
		}

		matched := len(spans) > 0
		if policy == And {
			matched = len(spans) == len(patterns)
		}
		if matched {
			results = append(results, Result{Country: c, Highlights: spans})
		}
	}

	e.logger.Debug("search filtered", "query", query, "policy", policy.String(), "terms", len(terms), "matches", len(results), "of", len(list))
	return Outcome{Results: results, SearchMode: true}
}
