// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package main

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/windatlas/windatlas/internal/chart"
	"github.com/windatlas/windatlas/internal/graph"
	"github.com/windatlas/windatlas/internal/output"
)

// Query-specific flag values.
var (
	querySel     selectionFlags
	queryOutputs []string
	queryFormat  string
	queryFile    string
	queryChart   string
)

// queryCmd evaluates the dashboard once for a selection given as flags.
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Evaluate the dashboard for a filter selection",
	Long: `Evaluate the dashboard once and print the result.

The selection flags mirror the dashboard controls. A sub-region or country
that does not belong to the chosen region is dropped, the same way the page
drops it.

Examples:
  windatlas query --region Europe --status operating,construction
  windatlas query --years 2000-2010 --outputs capacities -f json
  windatlas query --region Asia -f xlsx -o asia.xlsx --chart asia.svg`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

func init() {
	querySel.register(queryCmd.Flags())
	queryCmd.Flags().StringSliceVar(&queryOutputs, "outputs", nil, "outputs to compute (default all)")
	queryCmd.Flags().StringVarP(&queryFormat, "format", "f", "", "output format: "+strings.Join(output.Names(), ", ")+" (default table)")
	queryCmd.Flags().StringVarP(&queryFile, "output", "o", "", "write to a file instead of stdout")
	queryCmd.Flags().StringVar(&queryChart, "chart", "", "also render the project ranking to this .png or .svg file")
}

func runQuery(cmd *cobra.Command, _ []string) error {
	flags := flagConfig()
	flags.Format = queryFormat

	rt, err := loadRuntime(cmd.Context(), flags)
	if err != nil {
		return err
	}
	formatter, err := output.GetFormatter(cmp.Or(rt.cfg.Format, "table"))
	if err != nil {
		return exitError(ExitInvalidArgs, "windatlas: %v", err)
	}

	st, err := querySel.state(rt.g)
	if err != nil {
		return exitError(ExitInvalidArgs, "windatlas: %v", err)
	}
	outputs := make([]graph.Output, 0, len(queryOutputs))
	for _, o := range queryOutputs {
		outputs = append(outputs, graph.Output(strings.TrimSpace(o)))
	}
	v, err := rt.g.Evaluate(cmd.Context(), st, outputs...)
	if err != nil {
		return exitError(ExitInvalidArgs, "windatlas: %v", err)
	}

	if err := writeOutput(cmd.OutOrStdout(), queryFile, func(w io.Writer) error {
		return formatter.Format(v, w)
	}); err != nil {
		return fmt.Errorf("writing %s output: %w", formatter.Name(), err)
	}

	if queryChart != "" {
		return writeChart(cmd, rt.g, st, queryChart)
	}
	return nil
}

// writeOutput runs write against path, or against stdout when path is empty.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := cmdFS.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// writeChart renders the ranking for st. The image format follows the file
// extension.
func writeChart(cmd *cobra.Command, g *graph.Graph, st graph.State, path string) error {
	format, err := chart.ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return exitError(ExitInvalidArgs, "windatlas: --chart %s: %v", path, err)
	}
	v, err := g.Evaluate(cmd.Context(), st, graph.OutBarChart)
	if err != nil {
		return exitError(ExitInvalidArgs, "windatlas: %v", err)
	}
	if len(v.BarChart) == 0 {
		slog.Warn("no projects match, chart not written", "path", path)
		return nil
	}

	err = writeOutput(nil, path, func(w io.Writer) error {
		return chart.RenderBar(w, v.BarChart, format, chart.Options{Title: "Largest projects"})
	})
	if err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	slog.Info("chart written", "path", path, "projects", len(v.BarChart))
	return nil
}
