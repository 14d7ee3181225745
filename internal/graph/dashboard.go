// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package graph

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/windatlas/windatlas/internal/aggregate"
	"github.com/windatlas/windatlas/internal/dataset"
	"github.com/windatlas/windatlas/internal/filter"
)

// Options tunes the dashboard graph.
type Options struct {
	TopN          int
	ZoomThreshold float64
	FocusZoom     float64
	// MapColors and BarColors override the stock status colours.
	MapColors map[string]string
	BarColors map[string]string
	// InitialYears is the year range a new session starts with.
	InitialYears filter.YearRange
}

// DefaultOptions returns the stock dashboard settings.
func DefaultOptions() Options {
	return Options{
		TopN:          aggregate.DefaultTopN,
		ZoomThreshold: aggregate.ZoomThreshold,
		FocusZoom:     aggregate.FocusZoom,
	}
}

func (o Options) withDefaults() Options {
	if o.TopN <= 0 {
		o.TopN = aggregate.DefaultTopN
	}
	if o.ZoomThreshold <= 0 {
		o.ZoomThreshold = aggregate.ZoomThreshold
	}
	if o.FocusZoom <= 0 {
		o.FocusZoom = aggregate.FocusZoom
	}
	o.MapColors = maps.Clone(o.MapColors)
	o.BarColors = maps.Clone(o.BarColors)
	return o
}

func (o Options) mapOptions() aggregate.MapOptions {
	return aggregate.MapOptions{
		ZoomThreshold: o.ZoomThreshold,
		FocusZoom:     o.FocusZoom,
		Palette:       aggregate.NewPalette(aggregate.MapColors, o.MapColors),
	}
}

func (o Options) barPalette() aggregate.Palette {
	return aggregate.NewPalette(aggregate.BarColors, o.BarColors)
}

// ParseYears reads a default year range setting: "" or "all" leaves years
// unconstrained, "bounds" selects the full slider range, and "MIN-MAX"
// selects an explicit range.
func ParseYears(s string, b filter.Bounds) (filter.YearRange, error) {
	switch s = strings.TrimSpace(s); s {
	case "", "all":
		return filter.YearRange{}, nil
	case "bounds":
		return b.Range(), nil
	}
	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return filter.YearRange{}, fmt.Errorf("year range %q: want MIN-MAX, \"all\" or \"bounds\"", s)
	}
	minYear, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return filter.YearRange{}, fmt.Errorf("year range %q: %w", s, err)
	}
	maxYear, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return filter.YearRange{}, fmt.Errorf("year range %q: %w", s, err)
	}
	return filter.Years(minYear, maxYear), nil
}

// View is the result of one evaluation. Only the fields named in Outputs
// were computed; the rest are left zero.
type View struct {
	SessionID  string        `json:"session_id,omitempty"`
	State      State         `json:"state"`
	Regions    []string      `json:"regions"`
	YearBounds filter.Bounds `json:"year_bounds"`
	Matched    int           `json:"matched"`
	Outputs    []Output      `json:"outputs"`

	Capacities       []aggregate.Capacity    `json:"capacities,omitempty"`
	RegionStyles     []aggregate.ButtonStyle `json:"region_styles,omitempty"`
	SubRegionOptions []string                `json:"sub_region_options,omitempty"`
	CountryOptions   []string                `json:"country_options,omitempty"`
	StatusOptions    []string                `json:"status_options,omitempty"`
	TypeOptions      []string                `json:"type_options,omitempty"`
	Map              *aggregate.MapData      `json:"map,omitempty"`
	BarChart         []aggregate.Ranked      `json:"bar_chart,omitempty"`
}

// Has reports whether output o was computed.
func (v *View) Has(o Output) bool {
	return slices.Contains(v.Outputs, o)
}

// Dashboard returns the stock graph: eight outputs bound the way the
// dashboard page wires its controls.
func Dashboard(ds *dataset.Dataset, opts Options) *Graph {
	g := New(ds, opts)

	g.Add(Node{
		Output: OutCapacities,
		Inputs: []Input{InStatus, InType, InYears},
		Compute: func(s *Scope, v *View) {
			scoped := filter.Apply(s.Dataset.Projects, s.State.Selection.CapacityScope())
			v.Capacities = aggregate.RegionalCapacities(scoped, v.Regions)
		},
	})
	g.Add(Node{
		Output: OutRegionStyles,
		Inputs: []Input{InRegion},
		Compute: func(s *Scope, v *View) {
			v.RegionStyles = aggregate.RegionStyles(v.Regions, s.State.Selection.Region)
		},
	})
	g.Add(Node{
		Output: OutSubRegionOptions,
		Inputs: []Input{InRegion},
		Compute: func(s *Scope, v *View) {
			v.SubRegionOptions = filter.SubRegionOptions(s.Dataset.Summary, s.State.Selection.Region)
		},
	})
	g.Add(Node{
		Output: OutCountryOptions,
		Inputs: []Input{InRegion, InSubRegion},
		Compute: func(s *Scope, v *View) {
			v.CountryOptions = filter.CountryOptions(s.Dataset.Summary, s.State.Selection.SubRegion)
		},
	})
	g.Add(Node{
		Output: OutStatusOptions,
		Inputs: without(filterInputs, InStatus),
		Compute: func(s *Scope, v *View) {
			v.StatusOptions = filter.StatusOptions(s.Dataset.Projects, s.State.Selection)
		},
	})
	g.Add(Node{
		Output: OutTypeOptions,
		Inputs: without(filterInputs, InType),
		Compute: func(s *Scope, v *View) {
			v.TypeOptions = filter.TypeOptions(s.Dataset.Projects, s.State.Selection)
		},
	})
	g.Add(Node{
		Output: OutMap,
		Inputs: AllInputs,
		Compute: func(s *Scope, v *View) {
			m := aggregate.MapView(s.Filtered(), s.State.Viewport, s.Options.mapOptions())
			v.Map = &m
		},
	})
	g.Add(Node{
		Output: OutBarChart,
		Inputs: filterInputs,
		Compute: func(s *Scope, v *View) {
			v.BarChart = aggregate.TopProjects(s.Filtered(), s.Options.TopN, s.Options.barPalette())
		},
	})
	return g
}

func without(inputs []Input, drop Input) []Input {
	out := make([]Input, 0, len(inputs))
	for _, in := range inputs {
		if in != drop {
			out = append(out, in)
		}
	}
	return out
}
