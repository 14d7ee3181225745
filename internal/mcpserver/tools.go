// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/windatlas/windatlas/internal/aggregate"
	"github.com/windatlas/windatlas/internal/filter"
	"github.com/windatlas/windatlas/internal/graph"
	"github.com/windatlas/windatlas/internal/output"
)

// FilterInput selects the project phases a tool works on.
type FilterInput struct {
	Region    string `json:"region,omitempty" jsonschema:"Region name, or Total for every region (default: Total)"`
	SubRegion string `json:"sub_region,omitempty" jsonschema:"Sub-region within the region"`
	Country   string `json:"country,omitempty" jsonschema:"Country within the sub-region"`
	Status    string `json:"status,omitempty" jsonschema:"Comma-separated project statuses to keep (default: all)"`
	Type      string `json:"type,omitempty" jsonschema:"Comma-separated installation types to keep (default: all)"`
	YearMin   int    `json:"year_min,omitempty" jsonschema:"First start year to keep; requires year_max"`
	YearMax   int    `json:"year_max,omitempty" jsonschema:"Last start year to keep; requires year_min"`
}

// ViewInput is the input schema for the filter tool.
type ViewInput struct {
	FilterInput
	Zoom    float64 `json:"zoom,omitempty" jsonschema:"Map zoom level (default 1)"`
	Focus   string  `json:"focus,omitempty" jsonschema:"Project name to centre the map on"`
	Outputs string  `json:"outputs,omitempty" jsonschema:"Comma-separated outputs to compute (default: all)"`
	Format  string  `json:"format,omitempty" jsonschema:"Output format: json, markdown, table (default: json)"`
}

// TopInput is the input schema for the top_projects tool.
type TopInput struct {
	FilterInput
	Limit int `json:"limit,omitempty" jsonschema:"Number of projects to return, at most the configured top N"`
}

// tools binds the MCP handlers to one dashboard graph.
type tools struct {
	g *graph.Graph
}

// viewFormats are the formatters that produce text an MCP client can read.
var viewFormats = []string{"json", "markdown", "table"}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

func readOnly() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:    true,
		DestructiveHint: boolPtr(false),
		IdempotentHint:  true,
		OpenWorldHint:   boolPtr(false),
	}
}

// registerTools adds the dashboard tools to the MCP server.
func registerTools(server *mcp.Server, t *tools) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "filter",
		Description: "Evaluate the wind-power dashboard for a filter selection: regional capacities, dependent option lists, map markers and the largest projects.",
		Annotations: readOnly(),
	}, t.handleFilter)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "options",
		Description: "List the regions, the start-year bounds and the sub-region, country, status and installation type choices left open by a filter selection.",
		Annotations: readOnly(),
	}, t.handleOptions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "capacities",
		Description: "Installed capacity per region and in total for the status, installation type and year filters. Region filters do not apply.",
		Annotations: readOnly(),
	}, t.handleCapacities)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "top_projects",
		Description: "The largest projects by summed phase capacity for a filter selection, largest first.",
		Annotations: readOnly(),
	}, t.handleTopProjects)
}

func (t *tools) handleFilter(ctx context.Context, _ *mcp.CallToolRequest, input ViewInput) (*mcp.CallToolResult, any, error) {
	format := "json"
	if input.Format != "" {
		format = strings.ToLower(strings.TrimSpace(input.Format))
	}
	if !slices.Contains(viewFormats, format) {
		return nil, nil, fmt.Errorf("unsupported format %q (supported: %s)", input.Format, strings.Join(viewFormats, ", "))
	}
	formatter, err := output.GetFormatter(format)
	if err != nil {
		return nil, nil, err
	}

	q := input.query()
	if input.Zoom != 0 {
		q.Set(graph.ParamZoom, strconv.FormatFloat(input.Zoom, 'g', -1, 64))
	}
	if input.Focus != "" {
		q.Set(graph.ParamFocus, input.Focus)
	}
	st, err := t.g.StateFromQuery(q)
	if err != nil {
		return nil, nil, err
	}

	var outputs []graph.Output
	for _, name := range splitAndTrim(input.Outputs) {
		outputs = append(outputs, graph.Output(name))
	}
	v, err := t.g.Evaluate(ctx, st, outputs...)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := formatter.Format(v, &buf); err != nil {
		return nil, nil, fmt.Errorf("formatting failed: %w", err)
	}
	return textResult(buf.String()), nil, nil
}

func (t *tools) handleCapacities(ctx context.Context, _ *mcp.CallToolRequest, input FilterInput) (*mcp.CallToolResult, any, error) {
	v, err := t.evaluate(ctx, input, graph.OutCapacities)
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(struct {
		Capacities []aggregate.Capacity `json:"capacities"`
	}{v.Capacities})
}

func (t *tools) handleTopProjects(ctx context.Context, _ *mcp.CallToolRequest, input TopInput) (*mcp.CallToolResult, any, error) {
	if input.Limit < 0 {
		return nil, nil, fmt.Errorf("limit must not be negative, got %d", input.Limit)
	}
	v, err := t.evaluate(ctx, input.FilterInput, graph.OutBarChart)
	if err != nil {
		return nil, nil, err
	}

	// The chart ranks ascending; agents want the largest first.
	ranked := make([]aggregate.Ranked, 0, len(v.BarChart))
	for i := len(v.BarChart) - 1; i >= 0; i-- {
		ranked = append(ranked, v.BarChart[i])
	}
	if input.Limit > 0 && input.Limit < len(ranked) {
		ranked = ranked[:input.Limit]
	}
	return jsonResult(struct {
		Matched  int                `json:"matched"`
		Projects []aggregate.Ranked `json:"projects"`
	}{v.Matched, ranked})
}

func (t *tools) handleOptions(ctx context.Context, _ *mcp.CallToolRequest, input FilterInput) (*mcp.CallToolResult, any, error) {
	v, err := t.evaluate(ctx, input,
		graph.OutSubRegionOptions, graph.OutCountryOptions,
		graph.OutStatusOptions, graph.OutTypeOptions)
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(struct {
		Regions    []string      `json:"regions"`
		YearBounds filter.Bounds `json:"year_bounds"`
		SubRegions []string      `json:"sub_regions"`
		Countries  []string      `json:"countries"`
		Statuses   []string      `json:"statuses"`
		Types      []string      `json:"installation_types"`
	}{
		Regions:    v.Regions,
		YearBounds: v.YearBounds,
		SubRegions: nonNil(v.SubRegionOptions),
		Countries:  nonNil(v.CountryOptions),
		Statuses:   nonNil(v.StatusOptions),
		Types:      nonNil(v.TypeOptions),
	})
}

func (t *tools) evaluate(ctx context.Context, input FilterInput, outputs ...graph.Output) (*graph.View, error) {
	st, err := t.g.StateFromQuery(input.query())
	if err != nil {
		return nil, err
	}
	return t.g.Evaluate(ctx, st, outputs...)
}

// query converts the filter fields to the URL form the graph parses, so
// tools and the web page share one validation path.
func (in FilterInput) query() url.Values {
	q := url.Values{}
	if in.Region != "" {
		q.Set(graph.ParamRegion, in.Region)
	}
	if in.SubRegion != "" {
		q.Set(graph.ParamSubRegion, in.SubRegion)
	}
	if in.Country != "" {
		q.Set(graph.ParamCountry, in.Country)
	}
	for _, s := range splitAndTrim(in.Status) {
		q.Add(graph.ParamStatus, s)
	}
	for _, s := range splitAndTrim(in.Type) {
		q.Add(graph.ParamType, s)
	}
	if in.YearMin != 0 {
		q.Set(graph.ParamYearMin, strconv.Itoa(in.YearMin))
	}
	if in.YearMax != 0 {
		q.Set(graph.ParamYearMax, strconv.Itoa(in.YearMax))
	}
	return q
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}
	return textResult(string(data)), nil, nil
}

// nonNil keeps empty option lists as [] in JSON.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// splitAndTrim splits a comma-separated string and trims whitespace from each element.
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
