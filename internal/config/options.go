package config

import (
	"fmt"
	"time"

	"github.com/windatlas/windatlas/internal/filter"
	"github.com/windatlas/windatlas/internal/graph"
)

// GraphOptions converts the dashboard settings. bounds resolves a
// "bounds" default year range.
func (c *Config) GraphOptions(bounds filter.Bounds) (graph.Options, error) {
	opts := graph.DefaultOptions()
	if c.TopN > 0 {
		opts.TopN = c.TopN
	}
	if c.ZoomThreshold > 0 {
		opts.ZoomThreshold = c.ZoomThreshold
	}
	if c.FocusZoom > 0 {
		opts.FocusZoom = c.FocusZoom
	}
	opts.MapColors = c.StatusColors
	opts.BarColors = c.BarColors

	years, err := graph.ParseYears(c.DefaultYears, bounds)
	if err != nil {
		return graph.Options{}, fmt.Errorf("default_years: %w", err)
	}
	opts.InitialYears = years
	return opts, nil
}

// Idle parses session_idle. An empty value disables expiry.
func (c *Config) Idle() (time.Duration, error) {
	if c.SessionIdle == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.SessionIdle)
	if err != nil {
		return 0, fmt.Errorf("session_idle: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("session_idle: must be non-negative, got %s", c.SessionIdle)
	}
	return d, nil
}
