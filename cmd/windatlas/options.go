package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/windatlas/windatlas/internal/filter"
	"github.com/windatlas/windatlas/internal/graph"
	"github.com/windatlas/windatlas/internal/report"
)

var optionsSel selectionFlags

// optionsCmd lists the choices each filter control offers.
var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the choices left open by a filter selection",
	Long: `List the regions, the start-year slider bounds and the sub-region,
country, status and installation type choices for a selection.

Examples:
  windatlas options
  windatlas options --region Europe --sub-region "Northern Europe"`,
	Args: cobra.NoArgs,
	RunE: runOptions,
}

func init() {
	optionsSel.register(optionsCmd.Flags())
}

func runOptions(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime(cmd.Context(), flagConfig())
	if err != nil {
		return err
	}
	st, err := optionsSel.state(rt.g)
	if err != nil {
		return exitError(ExitInvalidArgs, "windatlas: %v", err)
	}
	v, err := rt.g.Evaluate(cmd.Context(), st,
		graph.OutSubRegionOptions, graph.OutCountryOptions,
		graph.OutStatusOptions, graph.OutTypeOptions)
	if err != nil {
		return exitError(ExitInvalidArgs, "windatlas: %v", err)
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(w, report.SectionTitle("Filter options"))
	tbl := report.NewTable(
		report.Column{Header: "Control"},
		report.Column{Header: "Choices"},
	)
	tbl.AddRow("region", strings.Join(v.Regions, ", "))
	tbl.AddRow("years", boundsLabel(v.YearBounds))
	tbl.AddRow("sub-region", choices(v.SubRegionOptions))
	tbl.AddRow("country", choices(v.CountryOptions))
	tbl.AddRow("status", choices(v.StatusOptions))
	tbl.AddRow("type", choices(v.TypeOptions))
	return tbl.Render(w)
}

func boundsLabel(b filter.Bounds) string {
	if !b.Valid {
		return "(no start years)"
	}
	marks := make([]string, len(b.Marks))
	for i, m := range b.Marks {
		marks[i] = strconv.Itoa(m)
	}
	return fmt.Sprintf("%s (marks %s)", report.YearsLabel(b.Range()), strings.Join(marks, " "))
}

func choices(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}
