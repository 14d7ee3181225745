// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/windatlas/windatlas/internal/config"
	atlaslog "github.com/windatlas/windatlas/internal/log"
)

// Global flag values.
var (
	verbose bool
	quiet   bool
	noColor bool
	logJSON bool

	dataDir      string
	topN         int
	defaultYears string
)

// rootCmd is the base command for windatlas.
var rootCmd = &cobra.Command{
	Use:   "windatlas",
	Short: "Explore installed wind-power capacity by region, status and year",
	Long: `Windatlas serves an interactive dashboard over a table of wind-power
project phases. Filter by region, sub-region, country, project status,
installation type and start year to see installed capacity per region, a
map of matching projects and a ranking of the largest ones.

The same filters are available from the command line and to AI agents over
the Model Context Protocol.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		atlaslog.Setup(cmd.ErrOrStderr(), atlaslog.Options{Verbose: verbose, Quiet: quiet, JSON: logJSON})
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")
	pf.BoolVar(&logJSON, "log-json", false, "write logs as JSON")
	pf.StringVarP(&dataDir, "data-dir", "d", "", "directory holding the projects, summary and geo tables (default \".\")")
	pf.IntVar(&topN, "top-n", 0, "number of projects in the ranking (default 20)")
	pf.StringVar(&defaultYears, "default-years", "", `start-year range new selections begin with: "all", "bounds" or MIN-MAX`)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// flagConfig returns the configuration layer set by global flags.
func flagConfig() *config.Config {
	return &config.Config{
		DataDir:      dataDir,
		TopN:         topN,
		DefaultYears: defaultYears,
	}
}
