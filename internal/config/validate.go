package config

import (
	"fmt"
	"maps"
	"net"
	"regexp"
	"slices"
	"strings"

	"github.com/windatlas/windatlas/internal/filter"
	"github.com/windatlas/windatlas/internal/graph"
	"github.com/windatlas/windatlas/internal/output"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks all fields in the config and returns all errors at once.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Format != "" {
		if _, err := output.GetFormatter(cfg.Format); err != nil {
			errs = append(errs, fmt.Sprintf("format: %v", err))
		}
	}

	if cfg.Addr != "" {
		if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
			errs = append(errs, fmt.Sprintf("addr: %v", err))
		}
	}

	if cfg.TopN < 0 {
		errs = append(errs, fmt.Sprintf("top_n: must be non-negative, got %d", cfg.TopN))
	}
	if cfg.ZoomThreshold < 0 {
		errs = append(errs, fmt.Sprintf("zoom_threshold: must be non-negative, got %g", cfg.ZoomThreshold))
	}
	if cfg.FocusZoom < 0 {
		errs = append(errs, fmt.Sprintf("focus_zoom: must be non-negative, got %g", cfg.FocusZoom))
	}

	// Syntax only: "bounds" resolves against the dataset at load time.
	if _, err := graph.ParseYears(cfg.DefaultYears, filter.Bounds{}); err != nil {
		errs = append(errs, fmt.Sprintf("default_years: %v", err))
	}
	if _, err := cfg.Idle(); err != nil {
		errs = append(errs, err.Error())
	}

	errs = append(errs, validateColors("status_colors", cfg.StatusColors)...)
	errs = append(errs, validateColors("bar_colors", cfg.BarColors)...)

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func validateColors(key string, colors map[string]string) []string {
	var errs []string
	for _, status := range slices.Sorted(maps.Keys(colors)) {
		if c := colors[status]; !hexColor.MatchString(c) {
			errs = append(errs, fmt.Sprintf("%s.%s: invalid colour %q (want #rrggbb)", key, status, c))
		}
	}
	return errs
}
