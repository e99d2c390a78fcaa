// Package query builds the normalized payload sent to the catalog backend.
package query

import (
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/reflookup/internal/domain/filter"
	"github.com/kailas-cloud/reflookup/internal/domain/search/mode"
)

// Advanced is the multi-field search payload.
// Nil numeric fields serialize as JSON null.
type Advanced struct {
	ReferenceCode string   `json:"referenceCode"`
	ColorDial     string   `json:"colorDial"`
	Year          *int     `json:"year"`
	Condition     string   `json:"condition"`
	MinPrice      *float64 `json:"minPrice"`
	MaxPrice      *float64 `json:"maxPrice"`
}

// Query is a mode-tagged search payload.
type Query struct {
	searchMode mode.Mode
	reference  string
	advanced   Advanced
}

// NewBasic creates a reference lookup.
func NewBasic(reference string) Query {
	return Query{searchMode: mode.Basic, reference: reference}
}

// NewAdvanced creates a filtered lookup from the criteria, coercing numeric fields.
func NewAdvanced(s filter.State) Query {
	return Query{
		searchMode: mode.Advanced,
		reference:  s.Reference,
		advanced: Advanced{
			ReferenceCode: s.Reference,
			ColorDial:     s.Color,
			Year:          ParseYear(s.Year),
			Condition:     s.Condition,
			MinPrice:      ParsePrice(s.PriceMin),
			MaxPrice:      ParsePrice(s.PriceMax),
		},
	}
}

// Build creates the query for the given mode.
func Build(m mode.Mode, s filter.State) Query {
	if m == mode.Advanced {
		return NewAdvanced(s)
	}
	return NewBasic(s.Reference)
}

// Mode returns the search strategy.
func (q Query) Mode() mode.Mode { return q.searchMode }

// Reference returns the reference code (used by basic lookups).
func (q Query) Reference() string { return q.reference }

// Advanced returns the filtered payload. Zero value for basic queries.
func (q Query) Advanced() Advanced { return q.advanced }

// ParseYear converts a year string to an integer.
// Empty or malformed input yields nil.
func ParseYear(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// ParsePrice converts a price string to a float.
// Empty, malformed, NaN and infinite input yields nil.
func ParsePrice(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
