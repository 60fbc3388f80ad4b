package quote

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("quote: session not found")

// Sessions holds one orchestrator per active booking widget. Sessions are
// independent; nothing is shared between them beyond the quote service.
type Sessions struct {
	svc      *Service
	debounce time.Duration
	ttl      time.Duration

	mu      sync.Mutex
	entries map[string]*sessionEntry
}

type sessionEntry struct {
	orchestrator *Orchestrator
	lastSeen     time.Time
}

func NewSessions(svc *Service, debounce, ttl time.Duration) *Sessions {
	return &Sessions{svc: svc, debounce: debounce, ttl: ttl, entries: make(map[string]*sessionEntry)}
}

// Create registers a new widget session and returns its ID.
func (s *Sessions) Create() string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = &sessionEntry{
		orchestrator: NewOrchestrator(s.svc, s.debounce, nil),
		lastSeen:     time.Now(),
	}
	return id
}

// Get returns the orchestrator for a session.
func (s *Sessions) Get(id string) (*Orchestrator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	entry.lastSeen = time.Now()
	return entry.orchestrator, nil
}

// Prune drops sessions idle longer than the TTL.
func (s *Sessions) Prune() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int
	for id, entry := range s.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}
