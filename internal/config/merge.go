// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package config

import "maps"

// Merge layers configs in order. A later layer's non-zero fields override
// earlier ones; colour maps merge per status. Nil layers are skipped.
func Merge(layers ...*Config) *Config {
	result := &Config{}
	for _, c := range layers {
		if c == nil {
			continue
		}
		if c.DataDir != "" {
			result.DataDir = c.DataDir
		}
		if c.Addr != "" {
			result.Addr = c.Addr
		}
		if c.Format != "" {
			result.Format = c.Format
		}
		if c.TopN != 0 {
			result.TopN = c.TopN
		}
		if c.ZoomThreshold != 0 {
			result.ZoomThreshold = c.ZoomThreshold
		}
		if c.FocusZoom != 0 {
			result.FocusZoom = c.FocusZoom
		}
		if c.DefaultYears != "" {
			result.DefaultYears = c.DefaultYears
		}
		if c.SessionIdle != "" {
			result.SessionIdle = c.SessionIdle
		}
		result.StatusColors = mergeColors(result.StatusColors, c.StatusColors)
		result.BarColors = mergeColors(result.BarColors, c.BarColors)
	}
	return result
}

func mergeColors(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	maps.Copy(dst, src)
	return dst
}
