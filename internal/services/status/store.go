// Package status keeps the last frame snapshot for readers outside the capture loop.
package status

import (
	"sync"
	"sync/atomic"

	"epi-monitor-go/internal/models"
)

type Store struct {
	mu      sync.RWMutex
	snap    models.FrameSnapshot
	has     bool
	targets []string

	running atomic.Bool
}

func NewStore() *Store {
	return &Store{}
}

// Update replaces the snapshot. The caller must not mutate snap afterwards.
func (s *Store) Update(snap models.FrameSnapshot) {
	s.mu.Lock()
	s.snap = snap
	s.has = true
	s.mu.Unlock()
}

// Snapshot returns the last frame snapshot and whether one exists yet.
func (s *Store) Snapshot() (models.FrameSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.has
}

func (s *Store) SetTargets(labels []string) {
	s.mu.Lock()
	s.targets = append([]string(nil), labels...)
	s.mu.Unlock()
}

func (s *Store) Targets() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.targets...)
}

func (s *Store) SetRunning(running bool) { s.running.Store(running) }

func (s *Store) Running() bool { return s.running.Load() }
