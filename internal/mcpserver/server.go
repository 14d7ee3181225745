// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

// Package mcpserver exposes the dashboard queries as MCP (Model Context
// Protocol) tools, so an agent can filter and aggregate the wind-power
// dataset the same way the web dashboard does.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/windatlas/windatlas/internal/graph"
)

// New creates an MCP server with the dashboard tools registered against g.
func New(version string, g *graph.Graph) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "windatlas",
		Title:   "Windatlas wind-power dashboard",
		Version: version,
	}, nil)

	registerTools(server, &tools{g: g})
	return server
}

// Run creates an MCP server and runs it on the given transport.
// It blocks until the client disconnects or the context is cancelled.
func Run(ctx context.Context, version string, g *graph.Graph, transport mcp.Transport) error {
	return New(version, g).Run(ctx, transport)
}
