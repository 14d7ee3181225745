// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package aggregate

import (
	"cmp"
	"slices"

	"github.com/windatlas/windatlas/internal/dataset"
)

// DefaultTopN is the length of the bar-chart ranking.
const DefaultTopN = 20

// Ranked is one project in the capacity ranking, with its phases merged.
type Ranked struct {
	ProjectName      string            `json:"project_name"`
	Region           string            `json:"region"`
	SubRegion        string            `json:"sub_region"`
	Country          string            `json:"country"`
	InstallationType string            `json:"installation_type"`
	Status           string            `json:"status"`
	CapacityMW       float64           `json:"capacity_mw"`
	Latitude         dataset.NullFloat `json:"latitude"`
	Longitude        dataset.NullFloat `json:"longitude"`
	Color            string            `json:"color"`
}

type rankKey struct {
	region, subRegion, country, itype, name, status string
}

// TopProjects merges project phases, keyed by (region, sub-region, country,
// installation type, project name, status), sums their capacity, averages
// the positions of the located phases, keeps the n largest, and returns them
// smallest first so the largest ends up on top of a bottom-up horizontal bar
// chart. n <= 0 means DefaultTopN.
func TopProjects(projects []dataset.Project, n int, palette Palette) []Ranked {
	if n <= 0 {
		n = DefaultTopN
	}

	type acc struct {
		r        Ranked
		lat, lon dataset.Mean
	}
	groups := make(map[rankKey]*acc)
	for _, p := range projects {
		k := rankKey{p.Region, p.SubRegion, p.Country, p.InstallationType, p.ProjectName, p.Status}
		a, ok := groups[k]
		if !ok {
			a = &acc{r: Ranked{
				ProjectName:      p.ProjectName,
				Region:           p.Region,
				SubRegion:        p.SubRegion,
				Country:          p.Country,
				InstallationType: p.InstallationType,
				Status:           p.Status,
				Color:            palette.Color(p.Status),
			}}
			groups[k] = a
		}
		a.r.CapacityMW += p.MW()
		if p.Located() {
			a.lat.Add(p.Latitude)
			a.lon.Add(p.Longitude)
		}
	}

	ranked := make([]Ranked, 0, len(groups))
	for _, a := range groups {
		r := a.r
		r.Latitude, r.Longitude = a.lat.Value(), a.lon.Value()
		ranked = append(ranked, r)
	}

	// Largest first with a stable tie-break, then cut and flip.
	slices.SortFunc(ranked, func(a, b Ranked) int {
		return cmp.Or(
			cmp.Compare(b.CapacityMW, a.CapacityMW),
			cmp.Compare(a.ProjectName, b.ProjectName),
			cmp.Compare(a.Status, b.Status),
			cmp.Compare(a.Country, b.Country),
			cmp.Compare(a.InstallationType, b.InstallationType),
		)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	slices.Reverse(ranked)
	return ranked
}
