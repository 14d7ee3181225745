package main

import (
	"net/url"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/windatlas/windatlas/internal/graph"
)

// selectionFlags are the filter controls shared by query and options.
type selectionFlags struct {
	region    string
	subRegion string
	country   string
	statuses  []string
	types     []string
	years     string
	zoom      float64
	focus     string
}

func (s *selectionFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&s.region, "region", "", "region to select, or Total (default Total)")
	fs.StringVar(&s.subRegion, "sub-region", "", "sub-region within the region")
	fs.StringVar(&s.country, "country", "", "country within the sub-region")
	fs.StringSliceVar(&s.statuses, "status", nil, "project statuses to keep (repeatable or comma-separated)")
	fs.StringSliceVar(&s.types, "type", nil, "installation types to keep (repeatable or comma-separated)")
	fs.StringVar(&s.years, "years", "", `start-year range: "all", "bounds" or MIN-MAX`)
	fs.Float64Var(&s.zoom, "zoom", 0, "map zoom level")
	fs.StringVar(&s.focus, "focus", "", "project name to centre the map on")
}

// state builds the dashboard state the flags describe, starting from a new
// session.
func (s *selectionFlags) state(g *graph.Graph) (graph.State, error) {
	q := url.Values{}
	if s.region != "" {
		q.Set(graph.ParamRegion, s.region)
	}
	if s.subRegion != "" {
		q.Set(graph.ParamSubRegion, s.subRegion)
	}
	if s.country != "" {
		q.Set(graph.ParamCountry, s.country)
	}
	if len(s.statuses) > 0 {
		q[graph.ParamStatus] = s.statuses
	}
	if len(s.types) > 0 {
		q[graph.ParamType] = s.types
	}
	if s.zoom != 0 {
		q.Set(graph.ParamZoom, strconv.FormatFloat(s.zoom, 'g', -1, 64))
	}
	if s.focus != "" {
		q.Set(graph.ParamFocus, s.focus)
	}

	st, err := g.StateFromQuery(q)
	if err != nil {
		return graph.State{}, err
	}
	if s.years != "" {
		r, err := graph.ParseYears(s.years, g.YearBounds())
		if err != nil {
			return graph.State{}, err
		}
		st.Selection.SetYears(r)
	}
	return st, nil
}

// resetFlagSet restores the zero values and clears Changed on every flag in fs.
// Used by tests that run several commands against the same rootCmd.
func resetFlagSet(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}
