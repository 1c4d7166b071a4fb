// Package store holds the normalized reading set for the lifetime of the
// process. The dashboard works on one dataset at a time: a load replaces the
// whole session wholesale, there are no partial updates.
package store

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"bpdash/internal/analytics"
	"bpdash/internal/reading"
)

// Store is a thread-safe holder for the current normalized session.
type Store struct {
	mu       sync.RWMutex
	result   reading.Result
	loaded   bool
	loadedAt time.Time
}

// New creates an empty store. Until the first Replace, Loaded reports false
// and every accessor returns empty data.
func New() *Store {
	return &Store{}
}

// Replace swaps in a freshly normalized result, discarding the previous
// session entirely.
func (s *Store) Replace(res reading.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result = res
	s.loaded = true
	s.loadedAt = time.Now()

	log.Info().
		Int("readings", res.Accepted).
		Int("rejected", res.Rejected).
		Int("distinctDays", res.DistinctDays).
		Msg("Session data replaced")
}

// Loaded reports whether a dataset has been installed, and when.
func (s *Store) Loaded() (bool, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded, s.loadedAt
}

// Snapshot returns the full chronological reading set. The returned slice is
// shared; callers must not mutate it.
func (s *Store) Snapshot() []reading.Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result.Readings
}

// Filtered applies a time window to the session's readings.
func (s *Store) Filtered(window analytics.Window) []reading.Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return analytics.Filter(s.result.Readings, window)
}

// Diagnostics returns the per-record problems from the last normalization.
func (s *Store) Diagnostics() []reading.Diagnostic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result.Diagnostics == nil {
		return []reading.Diagnostic{}
	}
	return s.result.Diagnostics
}

// Counts returns the accepted/rejected/warned tallies of the last load.
func (s *Store) Counts() (accepted, rejected, warned int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result.Accepted, s.result.Rejected, s.result.Warned
}
