// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package filter

import "github.com/windatlas/windatlas/internal/dataset"

// Apply returns the projects matching every active dimension of sel.
//
// Region "Total" (or empty), an empty sub-region or country, and empty
// status/type sets are unconstrained. Within a set dimension any member
// matches; across dimensions all must match. A set year range keeps rows
// whose start year lies within it and drops rows without one.
//
// Apply never mutates projects and always returns a non-nil slice.
func Apply(projects []dataset.Project, sel Selection) []dataset.Project {
	out := make([]dataset.Project, 0)
	if sel.Years.Set && sel.Years.Min > sel.Years.Max {
		return out
	}

	statuses := toSet(sel.Statuses)
	types := toSet(sel.Types)

	for _, p := range projects {
		if sel.Region != "" && sel.Region != Total && p.Region != sel.Region {
			continue
		}
		if sel.SubRegion != "" && p.SubRegion != sel.SubRegion {
			continue
		}
		if sel.Country != "" && p.Country != sel.Country {
			continue
		}
		if statuses != nil && !statuses[p.Status] {
			continue
		}
		if types != nil && !types[p.InstallationType] {
			continue
		}
		if !sel.Years.Contains(p.StartYear) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ApplyExcept is Apply with dimension d left unconstrained.
func ApplyExcept(projects []dataset.Project, sel Selection, d Dimension) []dataset.Project {
	return Apply(projects, sel.Without(d))
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}
