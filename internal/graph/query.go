// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package graph

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/windatlas/windatlas/internal/aggregate"
	"github.com/windatlas/windatlas/internal/filter"
)

// Query parameter names used to carry a state in a URL.
const (
	ParamRegion    = "region"
	ParamSubRegion = "sub_region"
	ParamCountry   = "country"
	ParamStatus    = "status"
	ParamType      = "type"
	ParamYearMin   = "year_min"
	ParamYearMax   = "year_max"
	ParamZoom      = "zoom"
	ParamFocus     = "focus"
)

// Query encodes st as URL query values. Status and type repeat.
func (s State) Query() url.Values {
	q := url.Values{}
	sel := s.Selection
	if sel.Region != "" && sel.Region != filter.Total {
		q.Set(ParamRegion, sel.Region)
	}
	if sel.SubRegion != "" {
		q.Set(ParamSubRegion, sel.SubRegion)
	}
	if sel.Country != "" {
		q.Set(ParamCountry, sel.Country)
	}
	for _, v := range sel.Statuses {
		q.Add(ParamStatus, v)
	}
	for _, v := range sel.Types {
		q.Add(ParamType, v)
	}
	if sel.Years.Set {
		q.Set(ParamYearMin, strconv.Itoa(sel.Years.Min))
		q.Set(ParamYearMax, strconv.Itoa(sel.Years.Max))
	}
	if s.Viewport.Zoom > 0 && s.Viewport.Zoom != aggregate.DefaultZoom {
		q.Set(ParamZoom, strconv.FormatFloat(s.Viewport.Zoom, 'g', -1, 64))
	}
	if s.Viewport.Focus != "" {
		q.Set(ParamFocus, s.Viewport.Focus)
	}
	return q
}

// StateFromQuery builds a state from URL query values, applying the controls
// in dependency order so a stale sub-region or country is dropped the same
// way an interactive change would drop it. Missing parameters keep the
// values of a new session.
func (g *Graph) StateFromQuery(q url.Values) (State, error) {
	st := g.NewState()
	sel := &st.Selection

	sel.SelectRegion(q.Get(ParamRegion))
	if v := q.Get(ParamSubRegion); v != "" {
		sel.SelectSubRegion(v)
	}
	if v := q.Get(ParamCountry); v != "" {
		sel.SelectCountry(v)
	}
	if q.Has(ParamStatus) {
		sel.SetStatuses(q[ParamStatus])
	}
	if q.Has(ParamType) {
		sel.SetTypes(q[ParamType])
	}

	lo, hi := q.Get(ParamYearMin), q.Get(ParamYearMax)
	switch {
	case lo == "" && hi == "":
	case lo == "" || hi == "":
		return State{}, fmt.Errorf("%w: %s and %s go together", ErrBadValue, ParamYearMin, ParamYearMax)
	default:
		minYear, err := strconv.Atoi(lo)
		if err != nil {
			return State{}, fmt.Errorf("%w: %s: %v", ErrBadValue, ParamYearMin, err)
		}
		maxYear, err := strconv.Atoi(hi)
		if err != nil {
			return State{}, fmt.Errorf("%w: %s: %v", ErrBadValue, ParamYearMax, err)
		}
		sel.SetYears(filter.Years(minYear, maxYear))
	}

	if v := q.Get(ParamZoom); v != "" {
		z, err := strconv.ParseFloat(v, 64)
		if err != nil || z <= 0 {
			return State{}, fmt.Errorf("%w: %s must be a positive number, got %q", ErrBadValue, ParamZoom, v)
		}
		st.Viewport.Zoom = z
	}
	st.Viewport.Focus = q.Get(ParamFocus)

	filter.Normalize(sel, g.ds.Summary)
	return st, nil
}
