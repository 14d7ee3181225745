// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

// Package aggregate derives the dashboard's summary views from a filtered
// project list: regional capacity counters, map markers and the top-N
// project ranking. Every function is pure; an empty input yields zero or
// empty output, never an error.
package aggregate

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/windatlas/windatlas/internal/dataset"
	"github.com/windatlas/windatlas/internal/filter"
)

// Capacity is one regional counter.
type Capacity struct {
	Region string  `json:"region"`
	MW     float64 `json:"mw"`
	Label  string  `json:"label"`
}

// German grouping gives the dotted thousands separator the counters use.
var capacityPrinter = message.NewPrinter(language.German)

// FormatCapacity rounds mw to a whole megawatt (half to even) and formats it
// with "." thousands separators and an " MW" suffix, e.g. "1.234.567 MW".
func FormatCapacity(mw float64) string {
	return capacityPrinter.Sprintf("%d MW", int64(math.RoundToEven(mw)))
}

// RegionalCapacities sums capacity for each entry of regions. The
// filter.Total entry sums every project; any other entry sums only that
// region's projects.
func RegionalCapacities(projects []dataset.Project, regions []string) []Capacity {
	byRegion := make(map[string]float64)
	var total float64
	for _, p := range projects {
		byRegion[p.Region] += p.MW()
		total += p.MW()
	}

	out := make([]Capacity, 0, len(regions))
	for _, r := range regions {
		mw := byRegion[r]
		if r == filter.Total {
			mw = total
		}
		out = append(out, Capacity{Region: r, MW: mw, Label: FormatCapacity(mw)})
	}
	return out
}

// ButtonStyle is the colour of one region button.
type ButtonStyle struct {
	Region string `json:"region"`
	Color  string `json:"color"`
}

// Button colours for the active and inactive regions.
const (
	ButtonActive   = "info"
	ButtonInactive = "secondary"
)

// RegionStyles highlights the active region's button.
func RegionStyles(regions []string, active string) []ButtonStyle {
	if active == "" {
		active = filter.Total
	}
	out := make([]ButtonStyle, len(regions))
	for i, r := range regions {
		c := ButtonInactive
		if r == active {
			c = ButtonActive
		}
		out[i] = ButtonStyle{Region: r, Color: c}
	}
	return out
}
