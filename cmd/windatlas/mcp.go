// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/windatlas/windatlas/internal/mcpserver"
)

// mcpCmd is the parent command for MCP-related subcommands.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server commands",
	Long:  "Commands for running windatlas as an MCP server, exposing the dashboard filters to AI agents.",
}

// mcpServeCmd runs the MCP server over stdio.
var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Start an MCP server on stdin/stdout for the loaded dataset, exposing:
  - filter:       Evaluate the dashboard for a filter selection
  - options:      List the choices each filter control offers
  - capacities:   Installed capacity per region
  - top_projects: The largest projects, largest first

Logs go to stderr so they never mix with the protocol stream.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := loadRuntime(cmd.Context(), flagConfig())
		if err != nil {
			return err
		}
		return mcpserver.Run(cmd.Context(), Version, rt.g, &mcp.StdioTransport{})
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
}
