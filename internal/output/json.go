// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/windatlas/windatlas/internal/graph"
)

func init() {
	RegisterFormatter(NewJSONFormatter())
}

// JSONEnvelope wraps a view with metadata for the JSON output format.
type JSONEnvelope struct {
	View     *graph.View  `json:"view"`
	Metadata JSONMetadata `json:"metadata"`
}

// JSONMetadata describes the evaluation that produced the view.
type JSONMetadata struct {
	Matched     int            `json:"matched"`
	Outputs     []graph.Output `json:"outputs"`
	GeneratedAt string         `json:"generated_at"`
}

// JSONFormatter writes a view as a JSON object with a metadata envelope.
type JSONFormatter struct {
	// Compact controls whether output is compact (single line) or pretty-printed.
	// When false (default), terminals get indented output and pipes get
	// compact output.
	Compact bool

	// nowFunc is used for testing to override the current time.
	nowFunc func() time.Time
}

var _ Formatter = (*JSONFormatter)(nil)

// NewJSONFormatter returns a new JSONFormatter with default settings.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format writes the view and its metadata to w.
func (f *JSONFormatter) Format(v *graph.View, w io.Writer) error {
	now := time.Now()
	if f.nowFunc != nil {
		now = f.nowFunc()
	}

	outputs := v.Outputs
	if outputs == nil {
		outputs = []graph.Output{}
	}
	envelope := JSONEnvelope{
		View: v,
		Metadata: JSONMetadata{
			Matched:     v.Matched,
			Outputs:     outputs,
			GeneratedAt: now.UTC().Format(time.RFC3339),
		},
	}

	var data []byte
	var err error
	if f.shouldCompact(w) {
		data, err = json.Marshal(envelope)
	} else {
		data, err = json.MarshalIndent(envelope, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// shouldCompact pretty-prints for terminals and in-memory writers and
// compacts for pipes and files, unless Compact forces it.
func (f *JSONFormatter) shouldCompact(w io.Writer) bool {
	if f.Compact {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := file.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice == 0
}
