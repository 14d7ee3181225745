// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

// Package output defines the Formatter interface for writing dashboard views
// in various formats.
package output

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/windatlas/windatlas/internal/graph"
)

// Formatter writes a computed view to the given writer in a specific format.
type Formatter interface {
	// Name returns the format name (e.g., "json", "markdown").
	Name() string

	// Format writes the view to w.
	Format(v *graph.View, w io.Writer) error
}

var (
	fmtMu       sync.RWMutex
	fmtRegistry = make(map[string]Formatter)
)

// RegisterFormatter adds a formatter to the global registry.
func RegisterFormatter(f Formatter) {
	fmtMu.Lock()
	defer fmtMu.Unlock()
	fmtRegistry[f.Name()] = f
}

// GetFormatter returns the formatter with the given name, or an error if not found.
func GetFormatter(name string) (Formatter, error) {
	fmtMu.RLock()
	defer fmtMu.RUnlock()
	f, ok := fmtRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown format: %q (available: %s)", name, strings.Join(names(), ", "))
	}
	return f, nil
}

// Names returns the registered format names, sorted.
func Names() []string {
	fmtMu.RLock()
	defer fmtMu.RUnlock()
	return names()
}

func names() []string {
	return slices.Sorted(maps.Keys(fmtRegistry))
}

// resetFmtForTesting clears the formatter registry. Only for use in tests.
func resetFmtForTesting() {
	fmtMu.Lock()
	defer fmtMu.Unlock()
	fmtRegistry = make(map[string]Formatter)
}
