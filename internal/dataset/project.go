// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

// Package dataset defines the wind-power project tables and loads them from
// disk. A Dataset is loaded once at startup and never mutated afterwards, so
// it can be shared freely between sessions and goroutines.
package dataset

import (
	"encoding/json"
	"math"
	"strconv"
)

// NullYear is a calendar year that may be absent.
type NullYear struct {
	Year  int
	Valid bool
}

// YearOf returns a valid NullYear for y.
func YearOf(y int) NullYear {
	return NullYear{Year: y, Valid: true}
}

// MarshalJSON encodes an invalid year as null.
func (y NullYear) MarshalJSON() ([]byte, error) {
	if !y.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(y.Year)), nil
}

// UnmarshalJSON accepts a number or null.
func (y *NullYear) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*y = NullYear{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*y = YearOf(int(v))
	return nil
}

// String returns the year, or an empty string when absent.
func (y NullYear) String() string {
	if !y.Valid {
		return ""
	}
	return strconv.Itoa(y.Year)
}

// NullFloat is a number that may be absent, such as a blank coordinate.
type NullFloat struct {
	Value float64
	Valid bool
}

// FloatOf returns a valid NullFloat for v.
func FloatOf(v float64) NullFloat {
	return NullFloat{Value: v, Valid: true}
}

// MarshalJSON encodes an invalid value as null.
func (f NullFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// UnmarshalJSON accepts a number or null.
func (f *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FloatOf(v)
	return nil
}

// Mean accumulates the average of the valid values added to it.
type Mean struct {
	sum float64
	n   int
}

// Add folds v into the mean when it is valid.
func (m *Mean) Add(v NullFloat) {
	if v.Valid {
		m.sum += v.Value
		m.n++
	}
}

// Value returns the mean, or an invalid NullFloat when nothing was added.
func (m Mean) Value() NullFloat {
	if m.n == 0 {
		return NullFloat{}
	}
	return FloatOf(m.sum / float64(m.n))
}

// Project is one phase of a wind-power project.
type Project struct {
	Region           string    `json:"region"`
	SubRegion        string    `json:"sub_region"`
	Country          string    `json:"country"`
	Status           string    `json:"status"`
	InstallationType string    `json:"installation_type"`
	ProjectName      string    `json:"project_name"`
	PhaseName        string    `json:"phase_name,omitempty"`
	CapacityMW       float64   `json:"capacity_mw"`
	Latitude         NullFloat `json:"latitude"`
	Longitude        NullFloat `json:"longitude"`
	StartYear        NullYear  `json:"start_year"`
	RetiredYear      NullYear  `json:"retired_year"`

	// Line is the source line the row was read from, header being line 1.
	// Zero for projects built in code.
	Line int `json:"-"`
}

// Located reports whether both coordinates are present.
func (p Project) Located() bool {
	return p.Latitude.Valid && p.Longitude.Valid
}

// MW returns the capacity for summing. A non-finite capacity, which
// validation reports, counts as zero.
func (p Project) MW() float64 {
	if math.IsNaN(p.CapacityMW) || math.IsInf(p.CapacityMW, 0) {
		return 0
	}
	return p.CapacityMW
}

// SummaryRow is a row of the pre-aggregated summary table. It backs the
// dependent sub-region and country option lists.
type SummaryRow struct {
	Region           string  `json:"region"`
	SubRegion        string  `json:"sub_region"`
	Country          string  `json:"country"`
	Status           string  `json:"status,omitempty"`
	InstallationType string  `json:"installation_type,omitempty"`
	CapacityMW       float64 `json:"capacity_mw,omitempty"`
}

// GeoRef is a row of the geographic reference table.
type GeoRef struct {
	Region    string `json:"region"`
	SubRegion string `json:"sub_region"`
	Country   string `json:"country"`
}

// Dataset bundles the three tables the dashboard works from.
type Dataset struct {
	Projects []Project
	Summary  []SummaryRow
	Geo      []GeoRef
}

// New builds a Dataset from projects alone, deriving the summary and
// geographic tables.
func New(projects []Project) *Dataset {
	return &Dataset{
		Projects: projects,
		Summary:  DeriveSummary(projects),
		Geo:      DeriveGeo(projects),
	}
}

// DeriveSummary sums capacity per (region, sub-region, country, status,
// installation type) in first-seen order.
func DeriveSummary(projects []Project) []SummaryRow {
	type key struct{ region, sub, country, status, itype string }
	index := make(map[key]int)
	var rows []SummaryRow
	for _, p := range projects {
		k := key{p.Region, p.SubRegion, p.Country, p.Status, p.InstallationType}
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			rows = append(rows, SummaryRow{
				Region:           p.Region,
				SubRegion:        p.SubRegion,
				Country:          p.Country,
				Status:           p.Status,
				InstallationType: p.InstallationType,
			})
		}
		rows[i].CapacityMW += p.MW()
	}
	return rows
}

// DeriveGeo returns the distinct (region, sub-region, country) triples in
// first-seen order.
func DeriveGeo(projects []Project) []GeoRef {
	seen := make(map[GeoRef]bool)
	var refs []GeoRef
	for _, p := range projects {
		g := GeoRef{Region: p.Region, SubRegion: p.SubRegion, Country: p.Country}
		if seen[g] {
			continue
		}
		seen[g] = true
		refs = append(refs, g)
	}
	return refs
}
