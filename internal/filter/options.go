// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package filter

import (
	"slices"

	"github.com/windatlas/windatlas/internal/dataset"
)

// Regions returns the region buttons: Total followed by every region of the
// geographic reference table in first-seen order.
func Regions(geo []dataset.GeoRef) []string {
	regions := []string{Total}
	for _, g := range geo {
		if g.Region == "" || slices.Contains(regions, g.Region) {
			continue
		}
		regions = append(regions, g.Region)
	}
	return regions
}

// SubRegionOptions returns the sorted sub-regions of region. For Total it
// returns the sub-regions of every region.
func SubRegionOptions(summary []dataset.SummaryRow, region string) []string {
	var opts []string
	for _, r := range summary {
		if region != "" && region != Total && r.Region != region {
			continue
		}
		opts = append(opts, r.SubRegion)
	}
	return distinctSorted(opts)
}

// CountryOptions returns the sorted countries of subRegion, or an empty list
// when no sub-region is selected.
func CountryOptions(summary []dataset.SummaryRow, subRegion string) []string {
	if subRegion == "" {
		return []string{}
	}
	var opts []string
	for _, r := range summary {
		if r.SubRegion == subRegion {
			opts = append(opts, r.Country)
		}
	}
	return distinctSorted(opts)
}

// StatusOptions returns the statuses present once every other active filter
// is applied, so selecting a status never hides its siblings.
func StatusOptions(projects []dataset.Project, sel Selection) []string {
	matched := ApplyExcept(projects, sel, DimStatus)
	opts := make([]string, 0, len(matched))
	for _, p := range matched {
		opts = append(opts, p.Status)
	}
	return distinctSorted(opts)
}

// TypeOptions returns the installation types present once every other active
// filter is applied.
func TypeOptions(projects []dataset.Project, sel Selection) []string {
	matched := ApplyExcept(projects, sel, DimType)
	opts := make([]string, 0, len(matched))
	for _, p := range matched {
		opts = append(opts, p.InstallationType)
	}
	return distinctSorted(opts)
}

// Bounds describes the year slider.
type Bounds struct {
	Min   int   `json:"min"`
	Max   int   `json:"max"`
	Marks []int `json:"marks"`
	Valid bool  `json:"valid"`
}

// Range returns the full slider range as an active YearRange.
func (b Bounds) Range() YearRange {
	if !b.Valid {
		return YearRange{}
	}
	return Years(b.Min, b.Max)
}

// YearBounds spans every start and retired year in projects, with a mark on
// each decade.
func YearBounds(projects []dataset.Project) Bounds {
	var b Bounds
	see := func(y dataset.NullYear) {
		if !y.Valid {
			return
		}
		if !b.Valid || y.Year < b.Min {
			b.Min = y.Year
		}
		if !b.Valid || y.Year > b.Max {
			b.Max = y.Year
		}
		b.Valid = true
	}
	for _, p := range projects {
		see(p.StartYear)
		see(p.RetiredYear)
	}
	if !b.Valid {
		return b
	}
	for y := b.Min; y <= b.Max; y++ {
		if y%10 == 0 {
			b.Marks = append(b.Marks, y)
		}
	}
	return b
}

func distinctSorted(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
