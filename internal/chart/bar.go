// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

// Package chart renders the project ranking as a horizontal bar chart image.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/windatlas/windatlas/internal/aggregate"
)

// ErrEmpty is returned when there is nothing to draw.
var ErrEmpty = errors.New("chart: no bars to render")

// Format is an image encoding.
type Format string

// Supported formats.
const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat validates an image format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case PNG, SVG:
		return f, nil
	}
	return "", fmt.Errorf("chart: unsupported format %q (want png or svg)", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() gochart.RendererProvider {
	if f == SVG {
		return gochart.SVG
	}
	return gochart.PNG
}

// Options sizes the chart. Zero values pick defaults.
type Options struct {
	Title  string
	Width  int
	Height int
}

const (
	defaultWidth = 720
	rowPitch     = 28 // default row height including the gap
	padding      = 16
	titleHeight  = 36
	textGap      = 6
	fontSize     = 10.0
	titleSize    = 14.0
	labelLength  = 24
)

var (
	axisColor = drawing.ColorFromHex("666666")
	textColor = drawing.ColorFromHex("333333")
)

// bar is one laid-out row of the chart.
type bar struct {
	Label string
	Value string
	Color drawing.Color
	Box   gochart.Box
}

// frame holds the chart geometry shared by the bars.
type frame struct {
	Width, Height int
	PlotLeft      int
	Bars          []bar
}

// layout places ranked, which is ordered smallest first, as horizontal bars
// with the largest on top. measure returns the rendered width of a string.
func layout(ranked []aggregate.Ranked, opts Options, measure func(string) int) frame {
	n := len(ranked)
	top := padding
	if opts.Title != "" {
		top += titleHeight
	}
	f := frame{Width: opts.Width, Height: opts.Height}
	if f.Width <= 0 {
		f.Width = defaultWidth
	}
	if f.Height <= 0 {
		f.Height = top + n*rowPitch + padding
	}
	pitch := max(1, (f.Height-top-padding)/n)
	barHeight := max(1, pitch*3/4)

	maxMW := 0.0
	labelWidth, valueWidth := 0, 0
	for _, r := range ranked {
		maxMW = max(maxMW, r.CapacityMW)
		labelWidth = max(labelWidth, measure(shorten(r.ProjectName)))
		valueWidth = max(valueWidth, measure(aggregate.FormatCapacity(r.CapacityMW)))
	}
	if maxMW <= 0 {
		maxMW = 1
	}
	labelWidth = min(labelWidth, f.Width/2)
	f.PlotLeft = padding + labelWidth + textGap
	plotWidth := max(1, f.Width-padding-valueWidth-textGap-f.PlotLeft)

	f.Bars = make([]bar, n)
	for row := range n {
		r := ranked[n-1-row]
		y := top + row*pitch
		f.Bars[row] = bar{
			Label: shorten(r.ProjectName),
			Value: aggregate.FormatCapacity(r.CapacityMW),
			Color: hexColor(r.Color),
			Box: gochart.Box{
				Top:    y,
				Left:   f.PlotLeft,
				Right:  f.PlotLeft + int(math.Round(max(0, r.CapacityMW)/maxMW*float64(plotWidth))),
				Bottom: y + barHeight,
			},
		}
	}
	return f
}

// RenderBar draws ranked as horizontal bars, one per project, each filled
// with its status colour. ranked is ordered smallest first, so the largest
// project ends up on top.
func RenderBar(w io.Writer, ranked []aggregate.Ranked, f Format, opts Options) error {
	if len(ranked) == 0 {
		return ErrEmpty
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("chart: load font: %w", err)
	}

	// Measure on a scratch renderer; the real canvas size depends on it.
	scratch, err := f.provider()(1, 1)
	if err != nil {
		return fmt.Errorf("chart: create %s renderer: %w", f, err)
	}
	scratch.SetDPI(gochart.DefaultDPI)
	scratch.SetFont(font)
	scratch.SetFontSize(fontSize)
	fr := layout(ranked, opts, func(s string) int { return scratch.MeasureText(s).Width() })

	r, err := f.provider()(fr.Width, fr.Height)
	if err != nil {
		return fmt.Errorf("chart: create %s renderer: %w", f, err)
	}
	r.SetDPI(gochart.DefaultDPI)
	fillRect(r, gochart.Box{Right: fr.Width, Bottom: fr.Height}, drawing.ColorWhite)

	r.SetFont(font)
	r.SetFontColor(textColor)
	if opts.Title != "" {
		r.SetFontSize(titleSize)
		r.Text(text(f, opts.Title), padding, padding+int(titleSize))
	}

	r.SetFontSize(fontSize)
	for _, b := range fr.Bars {
		if b.Box.Right > b.Box.Left {
			fillRect(r, b.Box, b.Color)
		}
		label := text(f, b.Label)
		baseline := b.Box.Top + (b.Box.Height()+r.MeasureText(label).Height())/2
		r.SetFontColor(textColor)
		r.Text(label, fr.PlotLeft-textGap-r.MeasureText(label).Width(), baseline)
		r.Text(b.Value, b.Box.Right+textGap, baseline)
	}

	last := fr.Bars[len(fr.Bars)-1].Box
	r.SetStrokeColor(axisColor)
	r.SetStrokeWidth(1)
	r.MoveTo(fr.PlotLeft, fr.Bars[0].Box.Top)
	r.LineTo(fr.PlotLeft, last.Bottom)
	r.Stroke()

	if err := r.Save(w); err != nil {
		return fmt.Errorf("chart: render %s: %w", f, err)
	}
	return nil
}

func fillRect(r gochart.Renderer, b gochart.Box, c drawing.Color) {
	r.SetFillColor(c)
	r.SetStrokeColor(c)
	r.SetStrokeWidth(1)
	r.MoveTo(b.Left, b.Top)
	r.LineTo(b.Right, b.Top)
	r.LineTo(b.Right, b.Bottom)
	r.LineTo(b.Left, b.Bottom)
	r.Close()
	r.FillStroke()
}

// text prepares s for the renderer.
func text(f Format, s string) string {
	if f == SVG {
		return svgText.Replace(s)
	}
	return s
}

// hexColor parses "#rrggbb", falling back to the neutral status colour.
func hexColor(s string) drawing.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		s = strings.TrimPrefix(aggregate.FallbackColor, "#")
	}
	return drawing.ColorFromHex(s)
}

// svgText swaps markup characters for lookalikes; the SVG renderer writes
// text nodes verbatim.
var svgText = strings.NewReplacer("<", "‹", ">", "›", "&", "＆")

func shorten(name string) string {
	r := []rune(name)
	if len(r) <= labelLength {
		return name
	}
	return string(r[:labelLength-1]) + "…"
}
