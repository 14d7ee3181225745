// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package main

import (
	"cmp"
	"context"
	"log/slog"
	"os"

	"github.com/windatlas/windatlas/internal/config"
	"github.com/windatlas/windatlas/internal/dataset"
	"github.com/windatlas/windatlas/internal/filter"
	"github.com/windatlas/windatlas/internal/graph"
)

// dashboardRuntime is everything a command needs once configuration and
// data are loaded.
type dashboardRuntime struct {
	cfg *config.Config
	ds  *dataset.Dataset
	g   *graph.Graph
}

// loadConfig resolves the effective configuration. Layers apply in order
// global file, data directory file, environment, flags.
func loadConfig(flags *config.Config) (*config.Config, error) {
	global, err := config.LoadGlobal()
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "windatlas: loading global config: %v", err)
	}
	env := &config.Config{}
	config.ApplyEnv(env, os.Getenv)

	dir := cmp.Or(flags.DataDir, env.DataDir, global.DataDir, ".")
	local, err := config.Load(dir)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "windatlas: loading config in %s: %v", dir, err)
	}

	cfg := config.Merge(global, local, env, flags)
	cfg.DataDir = dir
	if err := config.Validate(cfg); err != nil {
		return nil, exitError(ExitInvalidArgs, "windatlas: %v", err)
	}
	return cfg, nil
}

// loadRuntime loads the configuration and dataset and builds the dashboard
// graph.
func loadRuntime(ctx context.Context, flags *config.Config) (*dashboardRuntime, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	ds, err := dataset.Load(ctx, cfg.DataDir)
	if err != nil {
		return nil, exitError(ExitDataError, "windatlas: %v", err)
	}
	opts, err := cfg.GraphOptions(filter.YearBounds(ds.Projects))
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "windatlas: %v", err)
	}
	slog.Debug("dashboard ready", "dir", cfg.DataDir, "projects", len(ds.Projects), "top_n", opts.TopN)
	return &dashboardRuntime{cfg: cfg, ds: ds, g: graph.Dashboard(ds, opts)}, nil
}
