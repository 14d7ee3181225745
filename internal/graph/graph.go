// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

// Package graph models the dashboard's reactive bindings as an explicit
// dependency graph. Named inputs (the filter controls and the map viewport)
// feed named outputs (counters, option lists, map, ranking); each output is
// produced by a pure function of the shared dataset and one session's state.
package graph

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/windatlas/windatlas/internal/aggregate"
	"github.com/windatlas/windatlas/internal/dataset"
	"github.com/windatlas/windatlas/internal/filter"
)

// Input names a control the user can change.
type Input string

// Inputs.
const (
	InRegion    Input = "region"
	InSubRegion Input = "sub_region"
	InCountry   Input = "country"
	InStatus    Input = "status"
	InType      Input = "type"
	InYears     Input = "years"
	InZoom      Input = "zoom"
	InFocus     Input = "focus"
)

// AllInputs lists every input in display order.
var AllInputs = []Input{InRegion, InSubRegion, InCountry, InStatus, InType, InYears, InZoom, InFocus}

// filterInputs are the six controls that narrow the project table.
var filterInputs = []Input{InRegion, InSubRegion, InCountry, InStatus, InType, InYears}

// Output names a derived view.
type Output string

// Outputs.
const (
	OutCapacities       Output = "capacities"
	OutRegionStyles     Output = "region_styles"
	OutSubRegionOptions Output = "sub_region_options"
	OutCountryOptions   Output = "country_options"
	OutStatusOptions    Output = "status_options"
	OutTypeOptions      Output = "type_options"
	OutMap              Output = "map"
	OutBarChart         Output = "bar_chart"
)

var (
	// ErrUnknownInput is returned for an event naming no known input.
	ErrUnknownInput = errors.New("unknown input")
	// ErrUnknownOutput is returned when evaluating an output no node produces.
	ErrUnknownOutput = errors.New("unknown output")
	// ErrBadValue is returned when an event value cannot be applied.
	ErrBadValue = errors.New("bad input value")
)

// State is everything one dashboard session controls.
type State struct {
	Selection filter.Selection   `json:"selection"`
	Viewport  aggregate.Viewport `json:"viewport"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	s.Selection = s.Selection.Clone()
	if s.Viewport.Center != nil {
		c := *s.Viewport.Center
		s.Viewport.Center = &c
	}
	return s
}

// Node binds one output to the inputs it reads and the function that
// computes it.
type Node struct {
	Output  Output
	Inputs  []Input
	Compute func(s *Scope, v *View)
}

// Scope is the read-only context of one evaluation.
type Scope struct {
	Dataset *dataset.Dataset
	Options Options
	State   State

	filtered []dataset.Project
	done     bool
}

// Filtered returns the projects matching the full selection. It is computed
// at most once per evaluation.
func (s *Scope) Filtered() []dataset.Project {
	if !s.done {
		s.filtered = filter.Apply(s.Dataset.Projects, s.State.Selection)
		s.done = true
	}
	return s.filtered
}

// Graph is an ordered set of nodes over one dataset.
type Graph struct {
	ds      *dataset.Dataset
	opts    Options
	regions []string
	bounds  filter.Bounds
	nodes   []Node
	index   map[Output]int
}

// New returns an empty graph over ds. Add nodes to it, or use Dashboard for
// the stock layout.
func New(ds *dataset.Dataset, opts Options) *Graph {
	return &Graph{
		ds:      ds,
		opts:    opts.withDefaults(),
		regions: filter.Regions(ds.Geo),
		bounds:  filter.YearBounds(ds.Projects),
		index:   make(map[Output]int),
	}
}

// Add registers a node. It panics if the output is already bound, the same
// way duplicate registrations fail at init time elsewhere.
func (g *Graph) Add(n Node) {
	if _, dup := g.index[n.Output]; dup {
		panic(fmt.Sprintf("graph: output %q already bound", n.Output))
	}
	g.index[n.Output] = len(g.nodes)
	g.nodes = append(g.nodes, n)
}

// Dataset returns the dataset the graph evaluates over.
func (g *Graph) Dataset() *dataset.Dataset { return g.ds }

// Options returns the effective options.
func (g *Graph) Options() Options { return g.opts }

// Regions returns the region buttons, Total first.
func (g *Graph) Regions() []string { return slices.Clone(g.regions) }

// YearBounds returns the year slider bounds.
func (g *Graph) YearBounds() filter.Bounds { return g.bounds }

// Outputs lists the bound outputs in registration order.
func (g *Graph) Outputs() []Output {
	out := make([]Output, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.Output
	}
	return out
}

// Inputs returns the inputs output o depends on.
func (g *Graph) Inputs(o Output) ([]Input, bool) {
	i, ok := g.index[o]
	if !ok {
		return nil, false
	}
	return slices.Clone(g.nodes[i].Inputs), true
}

// Affected returns, in registration order, every output reading at least
// one of the changed inputs.
func (g *Graph) Affected(changed ...Input) []Output {
	var out []Output
	for _, n := range g.nodes {
		for _, in := range n.Inputs {
			if slices.Contains(changed, in) {
				out = append(out, n.Output)
				break
			}
		}
	}
	return out
}

// NewState returns the initial state of a fresh session.
func (g *Graph) NewState() State {
	sel := filter.NewSelection()
	sel.SetYears(g.opts.InitialYears)
	return State{Selection: sel, Viewport: aggregate.DefaultViewport()}
}

// Evaluate computes the named outputs for st, or every output when none are
// named. The state is not modified.
func (g *Graph) Evaluate(ctx context.Context, st State, outputs ...Output) (*View, error) {
	if len(outputs) == 0 {
		outputs = g.Outputs()
	}
	for _, o := range outputs {
		if _, ok := g.index[o]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOutput, o)
		}
	}

	scope := &Scope{Dataset: g.ds, Options: g.opts, State: st.Clone()}
	v := &View{
		State:      scope.State,
		Regions:    g.Regions(),
		YearBounds: g.bounds,
	}
	// Nodes run in registration order so views are deterministic.
	for _, n := range g.nodes {
		if !slices.Contains(outputs, n.Output) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n.Compute(scope, v)
		v.Outputs = append(v.Outputs, n.Output)
	}
	v.Matched = len(scope.Filtered())
	return v, nil
}
