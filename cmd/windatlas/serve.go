// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/windatlas/windatlas/internal/server"
	"github.com/windatlas/windatlas/internal/session"
)

// Serve-specific flag values.
var (
	serveAddr string
	serveIdle string
)

// serveCmd runs the HTTP dashboard.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Long: `Serve the dashboard page and its JSON session API.

The listen address comes from --addr, then WINDATLAS_ADDR, then SERVER_PORT
(as ":PORT"), then the addr config key, and defaults to :8050.

Examples:
  windatlas serve -d ./data
  SERVER_PORT=9000 windatlas serve --session-idle 30m`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :8050)")
	serveCmd.Flags().StringVar(&serveIdle, "session-idle", "", "drop sessions unused for this long, e.g. 30m")
}

func runServe(cmd *cobra.Command, _ []string) error {
	flags := flagConfig()
	flags.Addr = serveAddr
	flags.SessionIdle = serveIdle

	rt, err := loadRuntime(cmd.Context(), flags)
	if err != nil {
		return err
	}
	idle, err := rt.cfg.Idle()
	if err != nil {
		return exitError(ExitInvalidArgs, "windatlas: %v", err)
	}

	srv := server.New(rt.g, session.NewStore(), server.Options{
		Addr:        rt.cfg.Addr,
		SessionIdle: idle,
	})
	return srv.ListenAndServe(cmd.Context())
}
