// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/windatlas/windatlas/internal/aggregate"
	"github.com/windatlas/windatlas/internal/graph"
	"github.com/windatlas/windatlas/internal/report"
)

func init() {
	RegisterFormatter(NewMarkdownFormatter())
}

// MarkdownFormatter writes a view as a Markdown document.
type MarkdownFormatter struct{}

var _ Formatter = (*MarkdownFormatter)(nil)

// NewMarkdownFormatter returns a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Name returns the format name.
func (m *MarkdownFormatter) Name() string {
	return "markdown"
}

// Format writes the view to w. The output includes:
//   - a title and the active filters
//   - a capacity table when counters were computed
//   - the option lists that were computed
//   - a map summary and the project ranking, largest first
func (m *MarkdownFormatter) Format(v *graph.View, w io.Writer) error {
	var b strings.Builder
	sel := v.State.Selection

	b.WriteString("# Wind power dashboard\n\n")
	fmt.Fprintf(&b, "**%d projects** match ", v.Matched)
	fmt.Fprintf(&b, "region %s", mdValue(sel.Region))
	if sel.SubRegion != "" {
		fmt.Fprintf(&b, ", sub-region %s", mdValue(sel.SubRegion))
	}
	if sel.Country != "" {
		fmt.Fprintf(&b, ", country %s", mdValue(sel.Country))
	}
	if len(sel.Statuses) > 0 {
		fmt.Fprintf(&b, ", status %s", mdValue(strings.Join(sel.Statuses, ", ")))
	}
	if len(sel.Types) > 0 {
		fmt.Fprintf(&b, ", type %s", mdValue(strings.Join(sel.Types, ", ")))
	}
	fmt.Fprintf(&b, ", years %s.\n", report.YearsLabel(sel.Years))

	if v.Has(graph.OutCapacities) {
		b.WriteString("\n## Installed capacity\n\n")
		b.WriteString("| Region | Capacity |\n|--------|---------:|\n")
		for _, c := range v.Capacities {
			name := mdEscape(c.Region)
			if c.Region == sel.Region {
				name = "**" + name + "**"
			}
			fmt.Fprintf(&b, "| %s | %s |\n", name, c.Label)
		}
	}

	writeOptions(&b, v)

	if v.Has(graph.OutMap) && v.Map != nil {
		b.WriteString("\n## Map\n\n")
		fmt.Fprintf(&b, "%d %s markers at zoom %g.", len(v.Map.Markers), v.Map.Mode, v.Map.Zoom)
		if v.Map.Center != nil {
			fmt.Fprintf(&b, " Centred on %.3f, %.3f.", v.Map.Center.Lat, v.Map.Center.Lon)
		}
		b.WriteString("\n")
	}

	if v.Has(graph.OutBarChart) {
		b.WriteString("\n## Largest projects\n\n")
		if len(v.BarChart) == 0 {
			b.WriteString("_No projects match._\n")
		} else {
			b.WriteString("| # | Project | Country | Type | Status | Capacity |\n")
			b.WriteString("|--:|---------|---------|------|--------|---------:|\n")
			for i := len(v.BarChart) - 1; i >= 0; i-- {
				r := v.BarChart[i]
				fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
					len(v.BarChart)-i, mdEscape(r.ProjectName), mdEscape(r.Country),
					r.InstallationType, r.Status, aggregate.FormatCapacity(r.CapacityMW))
			}
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

func writeOptions(b *strings.Builder, v *graph.View) {
	rows := []struct {
		out    graph.Output
		name   string
		values []string
	}{
		{graph.OutSubRegionOptions, "Sub-region", v.SubRegionOptions},
		{graph.OutCountryOptions, "Country", v.CountryOptions},
		{graph.OutStatusOptions, "Status", v.StatusOptions},
		{graph.OutTypeOptions, "Type", v.TypeOptions},
	}
	header := false
	for _, r := range rows {
		if !v.Has(r.out) {
			continue
		}
		if !header {
			b.WriteString("\n## Options\n\n")
			header = true
		}
		vals := "_none_"
		if len(r.values) > 0 {
			vals = mdEscape(strings.Join(r.values, ", "))
		}
		fmt.Fprintf(b, "- **%s**: %s\n", r.name, vals)
	}
}

func mdValue(s string) string {
	if s == "" {
		return "all"
	}
	return "`" + s + "`"
}

// mdEscape escapes characters that would break a table cell.
func mdEscape(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
