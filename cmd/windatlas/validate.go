// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/windatlas/windatlas/internal/dataset"
	"github.com/windatlas/windatlas/internal/validate"
)

// validateCmd checks a data directory before it is served.
var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check a data directory for unusable project rows",
	Long: `Load the projects, summary and geo tables from a data directory and
check every project phase.

Errors are rows the dashboard cannot use (missing names, negative or
non-numeric capacity, coordinates off the globe). Warnings are rows that
load but probably do not show what was intended: unknown statuses,
projects with blank coordinates or at 0,0, retirement before start, and
geography the lookup table does not know. Only errors fail the command.
Rows are numbered by file line, the header being line 1.

Examples:
  windatlas validate ./data
  windatlas validate -d ./data`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	dir := dataDir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		cfg, err := loadConfig(flagConfig())
		if err != nil {
			return err
		}
		dir = cfg.DataDir
	}

	ds, err := dataset.Load(cmd.Context(), dir)
	if err != nil {
		return exitError(ExitDataError, "windatlas: %v", err)
	}
	result := validate.Validate(ds)

	stderr := cmd.ErrOrStderr()
	printIssues(stderr, "warning", result.Warnings)
	if !result.Valid() {
		printIssues(stderr, "error", result.Errors)
		_, _ = fmt.Fprintf(stderr, "\n%d error(s) found in %d project phases\n", len(result.Errors), result.Projects)
		return exitError(ExitDataError, "")
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "valid: %d project phases", result.Projects)
	if n := len(result.Warnings); n > 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), " (%d warning(s))", n)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	return nil
}

func printIssues(w io.Writer, kind string, issues []validate.ValidationError) {
	for _, e := range issues {
		_, _ = fmt.Fprintf(w, "%s: %s", kind, e.Error())
		if e.Field != "" {
			_, _ = fmt.Fprintf(w, " [%s]", e.Field)
		}
		_, _ = fmt.Fprintln(w)
		if e.Suggestion != "" {
			_, _ = fmt.Fprintf(w, "  fix: %s\n", e.Suggestion)
		}
	}
}
