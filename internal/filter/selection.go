// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

// Package filter narrows the project table by the dashboard's filter
// controls and keeps the dependent region → sub-region → country selection
// consistent.
package filter

import (
	"slices"

	"github.com/windatlas/windatlas/internal/dataset"
)

// Total is the region sentinel meaning "every region".
const Total = "Total"

// YearRange is an inclusive start-year interval. A zero YearRange (Set
// false) leaves the year dimension unconstrained.
type YearRange struct {
	Min int  `json:"min"`
	Max int  `json:"max"`
	Set bool `json:"set"`
}

// Years returns an active range [minYear, maxYear].
func Years(minYear, maxYear int) YearRange {
	return YearRange{Min: minYear, Max: maxYear, Set: true}
}

// Contains reports whether y lies inside the range. An unset range contains
// every year, including a null one. A set range never contains a null year
// and contains nothing at all when inverted.
func (r YearRange) Contains(y dataset.NullYear) bool {
	if !r.Set {
		return true
	}
	if !y.Valid {
		return false
	}
	return y.Year >= r.Min && y.Year <= r.Max
}

// Dimension names one independent filter control.
type Dimension int

// Filter dimensions.
const (
	DimRegion Dimension = iota
	DimSubRegion
	DimCountry
	DimStatus
	DimType
	DimYears
)

// Selection is the filter state owned by a single dashboard session.
// The zero value is not the default state; use NewSelection.
type Selection struct {
	Region    string    `json:"region"`
	SubRegion string    `json:"sub_region,omitempty"`
	Country   string    `json:"country,omitempty"`
	Statuses  []string  `json:"statuses,omitempty"`
	Types     []string  `json:"types,omitempty"`
	Years     YearRange `json:"years"`
}

// NewSelection returns the unconstrained selection.
func NewSelection() Selection {
	return Selection{Region: Total}
}

// Clone returns a deep copy of s.
func (s Selection) Clone() Selection {
	s.Statuses = slices.Clone(s.Statuses)
	s.Types = slices.Clone(s.Types)
	return s
}

// SelectRegion makes region the active region. Narrower selections are
// reset because they may no longer belong to it.
func (s *Selection) SelectRegion(region string) {
	if region == "" {
		region = Total
	}
	s.Region = region
	s.SubRegion = ""
	s.Country = ""
}

// SelectSubRegion sets the sub-region and resets the country.
func (s *Selection) SelectSubRegion(subRegion string) {
	s.SubRegion = subRegion
	s.Country = ""
}

// SelectCountry sets the country.
func (s *Selection) SelectCountry(country string) {
	s.Country = country
}

// SetStatuses replaces the status set.
func (s *Selection) SetStatuses(statuses []string) {
	s.Statuses = compact(statuses)
}

// SetTypes replaces the installation-type set.
func (s *Selection) SetTypes(types []string) {
	s.Types = compact(types)
}

// SetYears replaces the year range.
func (s *Selection) SetYears(r YearRange) {
	s.Years = r
}

// Without returns a copy of s with dimension d unconstrained.
func (s Selection) Without(d Dimension) Selection {
	out := s.Clone()
	switch d {
	case DimRegion:
		out.Region = Total
	case DimSubRegion:
		out.SubRegion = ""
	case DimCountry:
		out.Country = ""
	case DimStatus:
		out.Statuses = nil
	case DimType:
		out.Types = nil
	case DimYears:
		out.Years = YearRange{}
	}
	return out
}

// CapacityScope returns the selection the regional capacity counters are
// computed from. The counters break capacity down by region themselves, so
// only the status, type and year filters apply to them.
func (s Selection) CapacityScope() Selection {
	return Selection{
		Region:   Total,
		Statuses: slices.Clone(s.Statuses),
		Types:    slices.Clone(s.Types),
		Years:    s.Years,
	}
}

// Normalize clears a sub-region that is not offered for the current region,
// and a country that is not offered for the current sub-region.
func Normalize(s *Selection, summary []dataset.SummaryRow) {
	if s.Region == "" {
		s.Region = Total
	}
	if s.SubRegion != "" && !slices.Contains(SubRegionOptions(summary, s.Region), s.SubRegion) {
		s.SubRegion = ""
		s.Country = ""
	}
	if s.Country != "" && !slices.Contains(CountryOptions(summary, s.SubRegion), s.Country) {
		s.Country = ""
	}
}

// compact drops empty and duplicate values, preserving order.
func compact(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
