// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/windatlas/windatlas/internal/aggregate"
	"github.com/windatlas/windatlas/internal/filter"
)

// Event is one control interaction. Value is the control's new value:
// a string for region, sub_region, country and focus; a string list for
// status and type; a [min, max] pair or null for years; a number or
// {"zoom": z, "center": {"lat": .., "lon": ..}} for zoom.
type Event struct {
	Input Input           `json:"input"`
	Value json.RawMessage `json:"value"`
}

// Dispatch applies ev to st through the selection state machine, drops any
// sub-region or country the new scope no longer offers, and evaluates the
// outputs affected by every input that changed. st is updated in place only
// when the event is valid.
func (g *Graph) Dispatch(ctx context.Context, st *State, ev Event) (*View, error) {
	next := st.Clone()
	if err := g.apply(&next, ev); err != nil {
		return nil, err
	}
	filter.Normalize(&next.Selection, g.ds.Summary)

	changed := changedInputs(*st, next)
	if !slices.Contains(changed, ev.Input) {
		changed = append(changed, ev.Input)
	}
	affected := g.Affected(changed...)
	slog.Debug("dispatch", "input", ev.Input, "changed", changed, "affected", affected)

	*st = next
	if len(affected) == 0 {
		return &View{State: st.Clone(), Regions: g.Regions(), YearBounds: g.bounds, Outputs: []Output{}}, nil
	}
	return g.Evaluate(ctx, *st, affected...)
}

func (g *Graph) apply(st *State, ev Event) error {
	sel := &st.Selection
	switch ev.Input {
	case InRegion:
		var v string
		if err := decode(ev, &v); err != nil {
			return err
		}
		sel.SelectRegion(v)
	case InSubRegion:
		var v string
		if err := decode(ev, &v); err != nil {
			return err
		}
		sel.SelectSubRegion(v)
	case InCountry:
		var v string
		if err := decode(ev, &v); err != nil {
			return err
		}
		sel.SelectCountry(v)
	case InStatus:
		var v []string
		if err := decode(ev, &v); err != nil {
			return err
		}
		sel.SetStatuses(v)
	case InType:
		var v []string
		if err := decode(ev, &v); err != nil {
			return err
		}
		sel.SetTypes(v)
	case InYears:
		var v []int
		if err := decode(ev, &v); err != nil {
			return err
		}
		switch len(v) {
		case 0:
			sel.SetYears(filter.YearRange{})
		case 2:
			sel.SetYears(filter.Years(v[0], v[1]))
		default:
			return fmt.Errorf("%w: years wants [min, max], got %d values", ErrBadValue, len(v))
		}
	case InZoom:
		return g.applyZoom(st, ev)
	case InFocus:
		var v string
		if err := decode(ev, &v); err != nil {
			return err
		}
		st.Viewport.Focus = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownInput, ev.Input)
	}
	return nil
}

// applyZoom records a map zoom. Leaving a focused project pins the centre on
// it so the map does not jump back.
func (g *Graph) applyZoom(st *State, ev Event) error {
	var vp struct {
		Zoom   float64           `json:"zoom"`
		Center *aggregate.LatLon `json:"center"`
	}
	if err := decode(ev, &vp.Zoom); err != nil {
		if err := decode(ev, &vp); err != nil {
			return err
		}
	}
	if vp.Zoom <= 0 {
		return fmt.Errorf("%w: zoom must be positive, got %g", ErrBadValue, vp.Zoom)
	}
	if st.Viewport.Focus != "" && vp.Center == nil {
		if pos, ok := aggregate.Locate(g.ds.Projects, st.Viewport.Focus); ok {
			vp.Center = &pos
		}
	}
	st.Viewport.Zoom = vp.Zoom
	if vp.Center != nil {
		st.Viewport.Center = vp.Center
	}
	st.Viewport.Focus = ""
	return nil
}

// decode unmarshals an event value. A missing or null value leaves v zero.
func decode(ev Event, v any) error {
	raw := bytes.TrimSpace(ev.Value)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadValue, ev.Input, err)
	}
	return nil
}

// changedInputs lists the inputs whose value differs between a and b.
func changedInputs(a, b State) []Input {
	var out []Input
	sa, sb := a.Selection, b.Selection
	if sa.Region != sb.Region {
		out = append(out, InRegion)
	}
	if sa.SubRegion != sb.SubRegion {
		out = append(out, InSubRegion)
	}
	if sa.Country != sb.Country {
		out = append(out, InCountry)
	}
	if !slices.Equal(sa.Statuses, sb.Statuses) {
		out = append(out, InStatus)
	}
	if !slices.Equal(sa.Types, sb.Types) {
		out = append(out, InType)
	}
	if sa.Years != sb.Years {
		out = append(out, InYears)
	}
	va, vb := a.Viewport, b.Viewport
	if va.Zoom != vb.Zoom || !sameCenter(va.Center, vb.Center) {
		out = append(out, InZoom)
	}
	if va.Focus != vb.Focus {
		out = append(out, InFocus)
	}
	return out
}

func sameCenter(a, b *aggregate.LatLon) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
