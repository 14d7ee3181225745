// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package report

import (
	"github.com/fatih/color"
)

// Shared colour printers for report sections.
var (
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorCyan   = color.New(color.FgCyan)
	colorFaint  = color.New(color.Faint)
	colorBold   = color.New(color.Bold)
)

// ColorStatus colours a project status by lifecycle stage.
func ColorStatus(val string) string {
	switch val {
	case "operating":
		return colorGreen.Sprint(val)
	case "construction", "pre-construction":
		return colorCyan.Sprint(val)
	case "announced":
		return colorYellow.Sprint(val)
	case "retired", "cancelled":
		return colorRed.Sprint(val)
	case "mothballed", "shelved":
		return colorFaint.Sprint(val)
	default:
		return val
	}
}

// ColorActive bolds the active region button.
func ColorActive(val string) string {
	if val == "" {
		return val
	}
	return colorBold.Sprint(val)
}

// SectionTitle renders a bold section title.
func SectionTitle(title string) string {
	return colorBold.Sprint(title)
}
