// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

// Package report renders dashboard views as aligned, coloured terminal text.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/windatlas/windatlas/internal/aggregate"
	"github.com/windatlas/windatlas/internal/filter"
	"github.com/windatlas/windatlas/internal/graph"
)

// viewSection renders the part of a view produced by one or more outputs.
type viewSection struct {
	title   string
	outputs []graph.Output
	render  func(w io.Writer, v *graph.View) error
}

var sections = []viewSection{
	{"Selection", nil, renderSelection},
	{"Installed capacity", []graph.Output{graph.OutCapacities}, renderCapacities},
	{"Options", []graph.Output{graph.OutSubRegionOptions, graph.OutCountryOptions, graph.OutStatusOptions, graph.OutTypeOptions}, renderOptions},
	{"Map", []graph.Output{graph.OutMap}, renderMap},
	{"Largest projects", []graph.Output{graph.OutBarChart}, renderRanking},
}

// RenderView writes every section whose outputs the view carries. Sections
// for outputs that were not computed are skipped.
func RenderView(w io.Writer, v *graph.View) error {
	first := true
	for _, s := range sections {
		if !hasAny(v, s.outputs) {
			continue
		}
		if !first {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		first = false
		if _, err := fmt.Fprintln(w, SectionTitle(s.title)); err != nil {
			return err
		}
		if err := s.render(w, v); err != nil {
			return fmt.Errorf("section %s: %w", s.title, err)
		}
	}
	return nil
}

func hasAny(v *graph.View, outputs []graph.Output) bool {
	if outputs == nil {
		return true
	}
	for _, o := range outputs {
		if v.Has(o) {
			return true
		}
	}
	return false
}

func renderSelection(w io.Writer, v *graph.View) error {
	sel := v.State.Selection
	tbl := NewTable(Column{Header: "Filter"}, Column{Header: "Value"})
	tbl.AddRow("Region", orAll(sel.Region))
	tbl.AddRow("Sub-region", orAll(sel.SubRegion))
	tbl.AddRow("Country", orAll(sel.Country))
	tbl.AddRow("Status", orAll(strings.Join(sel.Statuses, ", ")))
	tbl.AddRow("Type", orAll(strings.Join(sel.Types, ", ")))
	tbl.AddRow("Years", YearsLabel(sel.Years))
	tbl.AddRow("Projects", strconv.Itoa(v.Matched))
	return tbl.Render(w)
}

func renderCapacities(w io.Writer, v *graph.View) error {
	active := v.State.Selection.Region
	tbl := NewTable(
		Column{Header: "Region"},
		Column{Header: "Capacity", Align: AlignRight},
		Column{Header: "", Color: ColorActive},
	)
	for _, c := range v.Capacities {
		mark := ""
		if c.Region == active || (active == "" && c.Region == filter.Total) {
			mark = "active"
		}
		tbl.AddRow(c.Region, c.Label, mark)
	}
	return tbl.Render(w)
}

func renderOptions(w io.Writer, v *graph.View) error {
	tbl := NewTable(Column{Header: "Control"}, Column{Header: "Choices"})
	add := func(o graph.Output, name string, values []string) {
		if v.Has(o) {
			tbl.AddRow(name, orNone(values))
		}
	}
	add(graph.OutSubRegionOptions, "Sub-region", v.SubRegionOptions)
	add(graph.OutCountryOptions, "Country", v.CountryOptions)
	add(graph.OutStatusOptions, "Status", v.StatusOptions)
	add(graph.OutTypeOptions, "Type", v.TypeOptions)
	return tbl.Render(w)
}

func renderMap(w io.Writer, v *graph.View) error {
	m := v.Map
	center := "auto"
	if m.Center != nil {
		center = fmt.Sprintf("%.3f, %.3f", m.Center.Lat, m.Center.Lon)
	}
	if _, err := fmt.Fprintf(w, "  %d %s markers at zoom %g (centre %s)\n", len(m.Markers), m.Mode, m.Zoom, center); err != nil {
		return err
	}
	if len(m.Legend) == 0 {
		return nil
	}
	tbl := NewTable(Column{Header: "Status", Color: ColorStatus}, Column{Header: "Colour"})
	for _, l := range m.Legend {
		tbl.AddRow(l.Status, l.Color)
	}
	return tbl.Render(w)
}

// renderRanking lists the ranking largest first, the reading order of a
// terminal table.
func renderRanking(w io.Writer, v *graph.View) error {
	if len(v.BarChart) == 0 {
		_, err := fmt.Fprintln(w, "  no projects match")
		return err
	}
	tbl := NewTable(
		Column{Header: "#", Align: AlignRight},
		Column{Header: "Project"},
		Column{Header: "Country"},
		Column{Header: "Type"},
		Column{Header: "Status", Color: ColorStatus},
		Column{Header: "Capacity", Align: AlignRight},
	)
	for i := len(v.BarChart) - 1; i >= 0; i-- {
		r := v.BarChart[i]
		tbl.AddRow(strconv.Itoa(len(v.BarChart)-i), r.ProjectName, r.Country, r.InstallationType, r.Status, aggregate.FormatCapacity(r.CapacityMW))
	}
	return tbl.Render(w)
}

// YearsLabel renders a year range for display.
func YearsLabel(r filter.YearRange) string {
	if !r.Set {
		return "all"
	}
	return fmt.Sprintf("%d–%d", r.Min, r.Max)
}

func orAll(s string) string {
	if s == "" {
		return "all"
	}
	return s
}

func orNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}
