// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

// Package config handles .windatlas.yaml and .windatlas.toml configuration
// files.
package config

// Config represents the contents of a .windatlas.yaml or .windatlas.toml file.
type Config struct {
	DataDir string `yaml:"data_dir,omitempty" toml:"data_dir,omitempty"`
	Addr    string `yaml:"addr,omitempty" toml:"addr,omitempty"`
	Format  string `yaml:"format,omitempty" toml:"format,omitempty"`

	TopN          int     `yaml:"top_n,omitempty" toml:"top_n,omitempty"`
	ZoomThreshold float64 `yaml:"zoom_threshold,omitempty" toml:"zoom_threshold,omitempty"`
	FocusZoom     float64 `yaml:"focus_zoom,omitempty" toml:"focus_zoom,omitempty"`

	// DefaultYears is the year range new sessions start with: "all",
	// "bounds" or "MIN-MAX".
	DefaultYears string `yaml:"default_years,omitempty" toml:"default_years,omitempty"`

	// SessionIdle is a duration such as "30m". Idle sessions are dropped.
	SessionIdle string `yaml:"session_idle,omitempty" toml:"session_idle,omitempty"`

	// StatusColors and BarColors override the map and bar chart colour per
	// project status.
	StatusColors map[string]string `yaml:"status_colors,omitempty" toml:"status_colors,omitempty"`
	BarColors    map[string]string `yaml:"bar_colors,omitempty" toml:"bar_colors,omitempty"`
}

// Config file names looked up in a data directory. YAML wins when both exist.
const (
	FileName     = ".windatlas.yaml"
	TOMLFileName = ".windatlas.toml"
)
