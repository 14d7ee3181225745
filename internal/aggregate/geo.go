// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package aggregate

import (
	"cmp"
	"math"
	"slices"

	"github.com/windatlas/windatlas/internal/dataset"
)

// Map defaults.
const (
	DefaultZoom   = 1.0
	ZoomThreshold = 3.0 // at or above: one marker per project
	FocusZoom     = 7.0 // zoom used when centring on a clicked project
)

// LatLon is a map position.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Viewport is the map state a session carries between interactions.
type Viewport struct {
	Zoom   float64 `json:"zoom"`
	Center *LatLon `json:"center,omitempty"`
	Focus  string  `json:"focus,omitempty"` // project picked in the bar chart
}

// DefaultViewport is the initial, fully zoomed-out map.
func DefaultViewport() Viewport {
	return Viewport{Zoom: DefaultZoom}
}

// Cluster is the coarse map marker for one (region, sub-region, country,
// status, installation type) group.
type Cluster struct {
	Region           string            `json:"region"`
	SubRegion        string            `json:"sub_region"`
	Country          string            `json:"country"`
	Status           string            `json:"status"`
	InstallationType string            `json:"installation_type"`
	CapacityMW       float64           `json:"capacity_mw"`
	Latitude         dataset.NullFloat `json:"latitude"`
	Longitude        dataset.NullFloat `json:"longitude"`
	StartYear        dataset.NullYear  `json:"start_year"`
	Projects         int               `json:"projects"`
}

type clusterKey struct {
	region, subRegion, country, status, itype string
}

// GeoClusters groups projects by (region, sub-region, country, status,
// installation type). Each cluster sums capacity, averages the positions of
// the located projects, and averages the start years that are present,
// rounded to a whole year. A cluster with no located project has no
// position. Clusters are ordered by their key.
func GeoClusters(projects []dataset.Project) []Cluster {
	type acc struct {
		c        Cluster
		yearSum  float64
		yearN    int
		lat, lon dataset.Mean
	}
	groups := make(map[clusterKey]*acc)
	for _, p := range projects {
		k := clusterKey{p.Region, p.SubRegion, p.Country, p.Status, p.InstallationType}
		a, ok := groups[k]
		if !ok {
			a = &acc{c: Cluster{
				Region:           p.Region,
				SubRegion:        p.SubRegion,
				Country:          p.Country,
				Status:           p.Status,
				InstallationType: p.InstallationType,
			}}
			groups[k] = a
		}
		a.c.CapacityMW += p.MW()
		a.c.Projects++
		if p.Located() {
			a.lat.Add(p.Latitude)
			a.lon.Add(p.Longitude)
		}
		if p.StartYear.Valid {
			a.yearSum += float64(p.StartYear.Year)
			a.yearN++
		}
	}

	out := make([]Cluster, 0, len(groups))
	for _, a := range groups {
		c := a.c
		c.Latitude, c.Longitude = a.lat.Value(), a.lon.Value()
		if a.yearN > 0 {
			c.StartYear = dataset.YearOf(int(math.Round(a.yearSum / float64(a.yearN))))
		}
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Cluster) int {
		return cmp.Or(
			cmp.Compare(a.Region, b.Region),
			cmp.Compare(a.SubRegion, b.SubRegion),
			cmp.Compare(a.Country, b.Country),
			cmp.Compare(a.Status, b.Status),
			cmp.Compare(a.InstallationType, b.InstallationType),
		)
	})
	return out
}

// MapMode says which marker set a map shows.
type MapMode string

// Map modes.
const (
	ModeClusters MapMode = "clusters"
	ModeProjects MapMode = "projects"
)

// Marker is one point on the map.
type Marker struct {
	Label            string           `json:"label"`
	Latitude         float64          `json:"latitude"`
	Longitude        float64          `json:"longitude"`
	CapacityMW       float64          `json:"capacity_mw"`
	Status           string           `json:"status"`
	InstallationType string           `json:"installation_type"`
	StartYear        dataset.NullYear `json:"start_year"`
	Color            string           `json:"color"`
}

// LegendEntry maps a status to its marker colour.
type LegendEntry struct {
	Status string `json:"status"`
	Color  string `json:"color"`
}

// MapData is a renderable scatter map.
type MapData struct {
	Mode      MapMode       `json:"mode"`
	Zoom      float64       `json:"zoom"`
	Center    *LatLon       `json:"center,omitempty"`
	MarkerMin int           `json:"marker_min"`
	Opacity   float64       `json:"opacity"`
	Markers   []Marker      `json:"markers"`
	Legend    []LegendEntry `json:"legend"`
}

// MapOptions tunes MapView.
type MapOptions struct {
	ZoomThreshold float64
	FocusZoom     float64
	Palette       Palette
}

// DefaultMapOptions returns the stock thresholds and marker colours.
func DefaultMapOptions() MapOptions {
	return MapOptions{
		ZoomThreshold: ZoomThreshold,
		FocusZoom:     FocusZoom,
		Palette:       NewPalette(MapColors, nil),
	}
}

// MapView builds the map for the filtered projects. Below the zoom
// threshold it shows clusters labelled by country; at or above it, one
// marker per project labelled by project name. Projects and clusters
// without a position get no marker. A focused project that is part of
// projects recentres the map on it at the focus zoom.
func MapView(projects []dataset.Project, vp Viewport, opts MapOptions) MapData {
	zoom := vp.Zoom
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	center := vp.Center
	if vp.Focus != "" {
		if pos, ok := Locate(projects, vp.Focus); ok {
			center = &pos
			zoom = opts.FocusZoom
		}
	}

	m := MapData{Zoom: zoom, Center: center, Markers: []Marker{}}
	if zoom >= opts.ZoomThreshold {
		m.Mode, m.MarkerMin, m.Opacity = ModeProjects, 3, 0.7
		for _, p := range projects {
			if !p.Located() {
				continue
			}
			m.Markers = append(m.Markers, Marker{
				Label:            p.ProjectName,
				Latitude:         p.Latitude.Value,
				Longitude:        p.Longitude.Value,
				CapacityMW:       p.MW(),
				Status:           p.Status,
				InstallationType: p.InstallationType,
				StartYear:        p.StartYear,
				Color:            opts.Palette.Color(p.Status),
			})
		}
	} else {
		m.Mode, m.MarkerMin, m.Opacity = ModeClusters, 4, 1
		for _, c := range GeoClusters(projects) {
			if !c.Latitude.Valid || !c.Longitude.Valid {
				continue
			}
			m.Markers = append(m.Markers, Marker{
				Label:            c.Country,
				Latitude:         c.Latitude.Value,
				Longitude:        c.Longitude.Value,
				CapacityMW:       c.CapacityMW,
				Status:           c.Status,
				InstallationType: c.InstallationType,
				StartYear:        c.StartYear,
				Color:            opts.Palette.Color(c.Status),
			})
		}
	}
	m.Legend = legend(m.Markers, opts.Palette)
	return m
}

// Locate returns the mean position of the located phases of the named
// project. It reports false when no phase has a position.
func Locate(projects []dataset.Project, name string) (LatLon, bool) {
	var lat, lon dataset.Mean
	for _, p := range projects {
		if p.ProjectName != name || !p.Located() {
			continue
		}
		lat.Add(p.Latitude)
		lon.Add(p.Longitude)
	}
	la, lo := lat.Value(), lon.Value()
	if !la.Valid || !lo.Valid {
		return LatLon{}, false
	}
	return LatLon{Lat: la.Value, Lon: lo.Value}, true
}

// legend lists the statuses present in markers, known statuses first in
// StatusOrder, then any others alphabetically.
func legend(markers []Marker, palette Palette) []LegendEntry {
	present := make(map[string]bool)
	for _, m := range markers {
		present[m.Status] = true
	}
	out := []LegendEntry{}
	for _, s := range StatusOrder {
		if present[s] {
			out = append(out, LegendEntry{Status: s, Color: palette.Color(s)})
			delete(present, s)
		}
	}
	var rest []string
	for s := range present {
		rest = append(rest, s)
	}
	slices.Sort(rest)
	for _, s := range rest {
		out = append(out, LegendEntry{Status: s, Color: palette.Color(s)})
	}
	return out
}
