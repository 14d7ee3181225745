// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"math"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/windatlas/windatlas/internal/aggregate"
	"github.com/windatlas/windatlas/internal/chart"
	"github.com/windatlas/windatlas/internal/filter"
	"github.com/windatlas/windatlas/internal/graph"
)

func init() {
	RegisterFormatter(NewHTMLFormatter())
}

// HTMLFormatter writes a view as a self-contained HTML dashboard page. The
// filter controls form a plain GET form, so the page works against any
// handler that reads graph query parameters.
type HTMLFormatter struct {
	// Action is the form target. Empty submits to the current URL.
	Action string

	nowFunc func() time.Time
}

var _ Formatter = (*HTMLFormatter)(nil)

// NewHTMLFormatter returns a new HTMLFormatter.
func NewHTMLFormatter() *HTMLFormatter {
	return &HTMLFormatter{}
}

// Name returns the format name.
func (h *HTMLFormatter) Name() string {
	return "html"
}

var (
	htmlTmplOnce sync.Once
	htmlTmpl     *template.Template
)

// Format writes the dashboard page to w.
func (h *HTMLFormatter) Format(v *graph.View, w io.Writer) error {
	htmlTmplOnce.Do(func() {
		htmlTmpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
			"json": func(v any) template.JS {
				b, _ := json.Marshal(v)
				return template.JS(b) //nolint:gosec // JSON is safe inside a script data block
			},
		}).Parse(htmlTemplate))
	})

	now := time.Now()
	if h.nowFunc != nil {
		now = h.nowFunc()
	}

	data := buildHTMLData(v, h.Action, now)
	if err := htmlTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("execute html template: %w", err)
	}
	return nil
}

type htmlData struct {
	Action      string
	GeneratedAt string
	View        *graph.View
	Matched     int
	Selection   filter.Selection
	Buttons     []regionButton
	SubRegions  []htmlOption
	Countries   []htmlOption
	Statuses    []htmlOption
	Types       []htmlOption
	YearMin     string
	YearMax     string
	Bounds      filter.Bounds
	Zoom        float64
	MapSVG      template.HTML
	Legend      []aggregate.LegendEntry
	ChartSVG    template.HTML
	Ranking     []rankRow
}

type regionButton struct {
	Region   string
	Capacity string
	Style    string
}

type htmlOption struct {
	Value    string
	Selected bool
}

type rankRow struct {
	Rank     int
	Name     string
	Country  string
	Type     string
	Status   string
	Color    string
	Capacity string
	FocusURL string
}

func buildHTMLData(v *graph.View, action string, now time.Time) htmlData {
	sel := v.State.Selection
	d := htmlData{
		Action:      action,
		GeneratedAt: now.UTC().Format("2006-01-02 15:04 UTC"),
		View:        v,
		Matched:     v.Matched,
		Selection:   sel,
		Bounds:      v.YearBounds,
		Zoom:        v.State.Viewport.Zoom,
		SubRegions:  options(v.SubRegionOptions, sel.SubRegion),
		Countries:   options(v.CountryOptions, sel.Country),
		Statuses:    options(v.StatusOptions, sel.Statuses...),
		Types:       options(v.TypeOptions, sel.Types...),
	}
	if sel.Years.Set {
		d.YearMin = fmt.Sprint(sel.Years.Min)
		d.YearMax = fmt.Sprint(sel.Years.Max)
	}

	labels := make(map[string]string, len(v.Capacities))
	for _, c := range v.Capacities {
		labels[c.Region] = c.Label
	}
	styles := make(map[string]string, len(v.RegionStyles))
	for _, s := range v.RegionStyles {
		styles[s.Region] = s.Color
	}
	for _, r := range v.Regions {
		style := styles[r]
		if style == "" {
			style = aggregate.ButtonInactive
			if r == sel.Region {
				style = aggregate.ButtonActive
			}
		}
		d.Buttons = append(d.Buttons, regionButton{Region: r, Capacity: labels[r], Style: style})
	}

	if v.Map != nil {
		d.MapSVG = mapSVG(v.Map)
		d.Legend = v.Map.Legend
	}

	if len(v.BarChart) > 0 {
		var buf bytes.Buffer
		if err := chart.RenderBar(&buf, v.BarChart, chart.SVG, chart.Options{Width: 640, Height: 420}); err == nil {
			d.ChartSVG = template.HTML(buf.String()) //nolint:gosec // generated by the chart renderer
		}
	}
	for i := len(v.BarChart) - 1; i >= 0; i-- {
		r := v.BarChart[i]
		d.Ranking = append(d.Ranking, rankRow{
			Rank:     len(v.BarChart) - i,
			Name:     r.ProjectName,
			Country:  r.Country,
			Type:     r.InstallationType,
			Status:   r.Status,
			Color:    r.Color,
			Capacity: aggregate.FormatCapacity(r.CapacityMW),
			FocusURL: "?" + FocusQuery(v.State, r.ProjectName).Encode(),
		})
	}
	return d
}

// options marks the selected values, keeping selected values that are no
// longer offered so the form does not silently drop them.
func options(values []string, selected ...string) []htmlOption {
	out := make([]htmlOption, 0, len(values))
	for _, v := range values {
		out = append(out, htmlOption{Value: v, Selected: slices.Contains(selected, v)})
	}
	for _, s := range selected {
		if s != "" && !slices.Contains(values, s) {
			out = append(out, htmlOption{Value: s, Selected: true})
		}
	}
	return out
}

const (
	mapWidth  = 720
	mapHeight = 360
)

// mapSVG draws markers on an equirectangular projection. Marker area grows
// with capacity above the mode's minimum size.
func mapSVG(m *aggregate.MapData) template.HTML {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" class="map" role="img" aria-label="Project map">`, mapWidth, mapHeight)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" class="sea"/>`, mapWidth, mapHeight)

	maxMW := 0.0
	for _, mk := range m.Markers {
		maxMW = max(maxMW, mk.CapacityMW)
	}
	for _, mk := range m.Markers {
		x := (mk.Longitude + 180) / 360 * mapWidth
		y := (90 - mk.Latitude) / 180 * mapHeight
		r := float64(m.MarkerMin)
		if maxMW > 0 {
			r += math.Sqrt(mk.CapacityMW/maxMW) * 14
		}
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="%g"><title>%s: %s</title></circle>`,
			x, y, r, template.HTMLEscapeString(mk.Color), m.Opacity,
			template.HTMLEscapeString(mk.Label), aggregate.FormatCapacity(mk.CapacityMW))
	}
	if m.Center != nil {
		x := (m.Center.Lon + 180) / 360 * mapWidth
		y := (90 - m.Center.Lat) / 180 * mapHeight
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="3" class="focus"/>`, x, y)
	}
	b.WriteString(`</svg>`)
	return template.HTML(b.String()) //nolint:gosec // all text is escaped above
}

// FocusQuery returns the query that focuses the map on a project.
func FocusQuery(st graph.State, project string) url.Values {
	st = st.Clone()
	st.Viewport.Focus = project
	return st.Query()
}
