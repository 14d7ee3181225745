// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

// Package server exposes the dashboard over HTTP: a server-rendered page at
// "/" and a JSON API where each session owns its filter state.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/windatlas/windatlas/internal/graph"
	"github.com/windatlas/windatlas/internal/output"
	"github.com/windatlas/windatlas/internal/session"
)

// Options configures a Server.
type Options struct {
	// Addr is the listen address, e.g. ":8050".
	Addr string
	// SessionIdle drops sessions unused for this long. Zero keeps them.
	SessionIdle time.Duration
}

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8050"

// Server serves one dashboard graph to many sessions.
type Server struct {
	g        *graph.Graph
	sessions *session.Store
	opts     Options
	page     *output.HTMLFormatter
}

// New creates a server for g backed by store.
func New(g *graph.Graph, store *session.Store, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	return &Server{
		g:        g,
		sessions: store,
		opts:     opts,
		page:     &output.HTMLFormatter{Action: "/"},
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/regions", s.handleRegions)
	mux.HandleFunc("POST /api/sessions", s.handleCreate)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleView)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDelete)
	mux.HandleFunc("POST /api/sessions/{id}/events", s.handleEvent)
	mux.HandleFunc("GET /api/sessions/{id}/{file}", s.handleFile)

	return logRequests(mux)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.opts.SessionIdle > 0 {
		go s.expireLoop(ctx)
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("dashboard listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	slog.Info("shutting down", "sessions", s.sessions.Len())
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) expireLoop(ctx context.Context) {
	tick := time.NewTicker(max(s.opts.SessionIdle/4, time.Second))
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			s.sessions.Expire(s.opts.SessionIdle)
		}
	}
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}
