// Package session holds the in-memory record of one play session.
// Nothing here is persisted; the ID only tags journal rows.
package session

import (
	"sync"

	"github.com/google/uuid"
)

type Session struct {
	ID uuid.UUID

	mu            sync.RWMutex
	health        int
	ammo          int
	currentPuzzle string
	visited       []string
}

func New(health, ammo int) *Session {
	return &Session{
		ID:     uuid.New(),
		health: health,
		ammo:   ammo,
	}
}

func (s *Session) Health() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.health
}

func (s *Session) Ammo() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ammo
}

// SetHealth records the player's health so the next puzzle starts from it.
func (s *Session) SetHealth(v int) {
	s.mu.Lock()
	s.health = v
	s.mu.Unlock()
}

func (s *Session) SetAmmo(v int) {
	s.mu.Lock()
	s.ammo = v
	s.mu.Unlock()
}

// RecordCurrentPuzzle marks id as the puzzle in play and appends it to the
// visit history.
func (s *Session) RecordCurrentPuzzle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentPuzzle = id
	s.visited = append(s.visited, id)
}

func (s *Session) CurrentPuzzle() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentPuzzle
}

// Visited returns the puzzles recorded so far, oldest first.
func (s *Session) Visited() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.visited...)
}
