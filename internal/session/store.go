// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

// Package session keeps each dashboard user's filter and viewport state.
// The dataset is shared read-only; only the small per-session state lives
// here.
package session

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/windatlas/windatlas/internal/graph"
)

// ErrNotFound is returned for an unknown or expired session id.
var ErrNotFound = errors.New("session not found")

// entry is one session. mu serialises work on the session's own state, so
// a slow update blocks only that session.
type entry struct {
	mu    sync.Mutex
	state graph.State
	seen  atomic.Int64 // unix nanoseconds
	gone  atomic.Bool  // set once the entry leaves the map
}

func (e *entry) touch(t time.Time) { e.seen.Store(t.UnixNano()) }

// Store is a concurrency-safe map of session id to state. The store lock
// guards only the map; each session has its own lock.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	now      func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*entry), now: time.Now}
}

// Create registers a new session holding st and returns its id.
func (s *Store) Create(st graph.State) string {
	id := uuid.NewString()
	e := &entry{state: st.Clone()}
	e.touch(s.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = e
	return id
}

func (s *Store) lookup(id string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	return e, ok
}

// Get returns a copy of the session's state.
func (s *Store) Get(id string) (graph.State, error) {
	e, ok := s.lookup(id)
	if !ok {
		return graph.State{}, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gone.Load() {
		return graph.State{}, ErrNotFound
	}
	e.touch(s.now())
	return e.state.Clone(), nil
}

// Update runs fn on the session's state under that session's lock. Updates
// to one session are serialised; different sessions proceed in parallel.
// The state is replaced only when fn returns nil.
func (s *Store) Update(id string, fn func(*graph.State) error) error {
	e, ok := s.lookup(id)
	if !ok {
		return ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gone.Load() {
		return ErrNotFound
	}
	e.touch(s.now())
	next := e.state.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	e.state = next
	e.touch(s.now())
	return nil
}

// Delete removes a session. Deleting an unknown id returns ErrNotFound.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	e.gone.Store(true)
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Expire drops sessions idle for longer than idle and returns how many were
// removed. A non-positive idle disables expiry.
func (s *Store) Expire(idle time.Duration) int {
	if idle <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-idle).UnixNano()
	n := 0
	for id, e := range s.sessions {
		if e.seen.Load() < cutoff {
			e.gone.Store(true)
			delete(s.sessions, id)
			n++
		}
	}
	if n > 0 {
		slog.Debug("expired sessions", "count", n, "live", len(s.sessions))
	}
	return n
}
