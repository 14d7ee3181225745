// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package aggregate

// StatusOrder is the legend order of project statuses.
var StatusOrder = []string{
	"operating", "construction", "pre-construction", "announced",
	"retired", "mothballed", "shelved", "cancelled",
}

// MapColors colours map markers by status.
var MapColors = map[string]string{
	"construction":     "#5ab4ac",
	"operating":        "#01665e",
	"announced":        "#d8b365",
	"mothballed":       "#d3d3d3",
	"cancelled":        "#000000",
	"pre-construction": "#c7eae5",
	"retired":          "#666666",
	"shelved":          "#d95f02",
}

// BarColors colours ranking bars by status.
var BarColors = map[string]string{
	"operating": "#1b9e77",
	"future":    "#7570b3",
	"retired":   "#d95f02",
}

// FallbackColor is used for statuses missing from a palette.
const FallbackColor = "#999999"

// Palette resolves status colours, letting overrides win over defaults.
type Palette struct {
	defaults  map[string]string
	overrides map[string]string
}

// NewPalette returns a palette over defaults with optional overrides.
func NewPalette(defaults, overrides map[string]string) Palette {
	return Palette{defaults: defaults, overrides: overrides}
}

// Color returns the colour for status.
func (p Palette) Color(status string) string {
	if c, ok := p.overrides[status]; ok && c != "" {
		return c
	}
	if c, ok := p.defaults[status]; ok {
		return c
	}
	return FallbackColor
}
