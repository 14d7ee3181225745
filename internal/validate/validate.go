// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

// Package validate checks a loaded wind-power dataset for rows the dashboard
// would drop or draw in the wrong place, producing messages with fix
// suggestions.
package validate

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/windatlas/windatlas/internal/aggregate"
	"github.com/windatlas/windatlas/internal/dataset"
)

// ValidationError represents a single issue on a projects table row.
type ValidationError struct {
	Row        int    // source line (header is 1), else 1-based index; 0 for table-level issues
	Field      string // column name (empty if row-level)
	Message    string // what's wrong
	Suggestion string // how to fix it
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Row == 0 {
		return e.Message
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// Result contains the outcome of validating a dataset. Errors make rows
// unusable; warnings flag rows that render but probably not as intended.
type Result struct {
	Projects int
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid returns true if no errors were found. Warnings do not count.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(row int, field, suggestion, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Row: row, Field: field, Message: fmt.Sprintf(format, args...), Suggestion: suggestion})
}

func (r *Result) warnf(row int, field, suggestion, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Row: row, Field: field, Message: fmt.Sprintf(format, args...), Suggestion: suggestion})
}

// Validate checks every project phase in ds and the geographic lookup
// table against the projects. Rows read from a file are reported by their
// source line, the same numbering load errors use; projects built in code
// are reported by their 1-based position.
func Validate(ds *dataset.Dataset) *Result {
	result := &Result{Projects: len(ds.Projects)}
	if len(ds.Projects) == 0 {
		result.errorf(0, "", "export at least one project phase", "projects table is empty")
		return result
	}

	geo := make(map[dataset.GeoRef]bool, len(ds.Geo))
	for _, g := range ds.Geo {
		geo[g] = true
	}

	for i, p := range ds.Projects {
		row := p.Line
		if row == 0 {
			row = i + 1
		}
		checkNames(p, row, result)
		checkCapacity(p, row, result)
		checkCoordinates(p, row, result)
		checkStatus(p, row, result)
		checkYears(p, row, result)

		ref := dataset.GeoRef{Region: p.Region, SubRegion: p.SubRegion, Country: p.Country}
		if p.Region != "" && !geo[ref] {
			result.warnf(row, "Country",
				"add the row to the geo table or fix the spelling",
				"%s / %s / %s is missing from the geo table; it will never appear as an option",
				p.Region, p.SubRegion, p.Country)
		}
	}
	return result
}

func checkNames(p dataset.Project, row int, result *Result) {
	if strings.TrimSpace(p.Region) == "" {
		result.errorf(row, "Region", "fill in the region; rows without one only count towards Total",
			"missing region")
	}
	if strings.TrimSpace(p.ProjectName) == "" {
		result.errorf(row, "Project Name", "fill in the project name used for ranking",
			"missing project name")
	}
}

func checkCapacity(p dataset.Project, row int, result *Result) {
	switch {
	case math.IsNaN(p.CapacityMW) || math.IsInf(p.CapacityMW, 0):
		result.errorf(row, "Capacity (MW)", "use a finite number of megawatts",
			"capacity is not a number")
	case p.CapacityMW < 0:
		result.errorf(row, "Capacity (MW)", "capacity must be zero or more",
			"negative capacity %g MW", p.CapacityMW)
	}
}

func checkCoordinates(p dataset.Project, row int, result *Result) {
	var missing []string
	if !p.Latitude.Valid {
		missing = append(missing, "latitude")
	}
	if !p.Longitude.Valid {
		missing = append(missing, "longitude")
	}
	if len(missing) > 0 {
		field := "Latitude"
		if p.Latitude.Valid {
			field = "Longitude"
		}
		result.warnf(row, field, "fill in both coordinates to place the project on the map",
			"%s has no %s; it is left off the map", p.ProjectName, strings.Join(missing, " or "))
	}

	lat, lon := p.Latitude.Value, p.Longitude.Value
	if p.Latitude.Valid && !(lat >= -90 && lat <= 90) {
		result.errorf(row, "Latitude", "latitude must be between -90 and 90",
			"latitude %g out of range", lat)
	}
	if p.Longitude.Valid && !(lon >= -180 && lon <= 180) {
		result.errorf(row, "Longitude", "longitude must be between -180 and 180",
			"longitude %g out of range", lon)
	}
	if p.Located() && lat == 0 && lon == 0 {
		result.warnf(row, "Latitude", "check whether the coordinates were exported as zeros",
			"%s sits at 0,0", p.ProjectName)
	}
}

func checkStatus(p dataset.Project, row int, result *Result) {
	if slices.Contains(aggregate.StatusOrder, p.Status) {
		return
	}
	suggestion := fmt.Sprintf("status is one of: %s", strings.Join(aggregate.StatusOrder, ", "))
	if hint := suggestStatus(p.Status); hint != "" {
		suggestion = fmt.Sprintf("did you mean %q?", hint)
	}
	result.warnf(row, "Status", suggestion,
		"unknown status %q is drawn in the fallback colour", p.Status)
}

func checkYears(p dataset.Project, row int, result *Result) {
	if p.StartYear.Valid && p.RetiredYear.Valid && p.RetiredYear.Year < p.StartYear.Year {
		result.warnf(row, "Retired year", "swap the start and retired years",
			"retired in %d before starting in %d", p.RetiredYear.Year, p.StartYear.Year)
	}
}

// suggestStatus uses Levenshtein distance to suggest a known status for a misspelled one.
func suggestStatus(input string) string {
	return closestMatch(strings.ToLower(input), aggregate.StatusOrder, 3)
}

// closestMatch finds the closest string in candidates to input using
// Levenshtein distance. Returns empty string if no match is within maxDist.
func closestMatch(input string, candidates []string, maxDist int) string {
	best := ""
	bestDist := maxDist + 1

	for _, c := range candidates {
		d := levenshtein(input, c)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}

	if bestDist <= maxDist {
		return best
	}
	return ""
}

// levenshtein computes the Levenshtein edit distance between two strings.
func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[lb]
}
