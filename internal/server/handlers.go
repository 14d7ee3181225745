// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/windatlas/windatlas/internal/chart"
	"github.com/windatlas/windatlas/internal/graph"
	"github.com/windatlas/windatlas/internal/output"
	"github.com/windatlas/windatlas/internal/session"
)

// maxEventBytes bounds an event request body.
const maxEventBytes = 64 << 10

// exportTypes maps a session file name to its formatter and content type.
var exportTypes = map[string]struct {
	format      string
	contentType string
}{
	"view.json": {"json", "application/json"},
	"view.md":   {"markdown", "text/markdown; charset=utf-8"},
	"view.html": {"html", "text/html; charset=utf-8"},
	"view.txt":  {"table", "text/plain; charset=utf-8"},
	"view.xlsx": {"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	st, err := s.g.StateFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	v, err := s.g.Evaluate(r.Context(), st)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	var buf bytes.Buffer
	if err := s.page.Format(v, &buf); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"regions":     s.g.Regions(),
		"year_bounds": s.g.YearBounds(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	st := s.g.NewState()
	id := s.sessions.Create(st)
	v, err := s.g.Evaluate(r.Context(), st)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	v.SessionID = id
	slog.Debug("session created", "id", id, "live", s.sessions.Len())
	w.Header().Set("Location", "/api/sessions/"+id)
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	st, err := s.sessions.Get(id)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	v, err := s.g.Evaluate(r.Context(), st, parseOutputs(r.URL.Query().Get("outputs"))...)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	v.SessionID = id
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.PathValue("id")); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var ev graph.Event
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode event: %w", err))
		return
	}

	var v *graph.View
	err := s.sessions.Update(id, func(st *graph.State) error {
		var err error
		v, err = s.g.Dispatch(r.Context(), st, ev)
		return err
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	v.SessionID = id
	writeJSON(w, http.StatusOK, v)
}

// handleFile serves the session's chart image or an export of its view.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	id, file := r.PathValue("id"), r.PathValue("file")
	st, err := s.sessions.Get(id)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	if name, ext, ok := strings.Cut(file, "."); ok && name == "chart" {
		s.serveChart(w, r, st, ext)
		return
	}
	export, ok := exportTypes[file]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("no such file %q", file))
		return
	}
	f, err := output.GetFormatter(export.format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	v, err := s.g.Evaluate(r.Context(), st)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	v.SessionID = id

	var buf bytes.Buffer
	if err := f.Format(v, &buf); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", export.contentType)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) serveChart(w http.ResponseWriter, r *http.Request, st graph.State, ext string) {
	format, err := chart.ParseFormat(ext)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	v, err := s.g.Evaluate(r.Context(), st, graph.OutBarChart)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderBar(&buf, v.BarChart, format, chart.Options{Title: "Largest projects"}); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, chart.ErrEmpty) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	_, _ = w.Write(buf.Bytes())
}

// parseOutputs reads a comma-separated output list. Empty means all.
func parseOutputs(s string) []graph.Output {
	var out []graph.Output
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, graph.Output(name))
		}
	}
	return out
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, graph.ErrUnknownInput),
		errors.Is(err, graph.ErrUnknownOutput),
		errors.Is(err, graph.ErrBadValue):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
