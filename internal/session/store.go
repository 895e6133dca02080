package session

import (
	"context"
	"log"
	"sync"
	"time"

	"edadash/domain/core"
)

// Store keeps sessions in memory. Nothing is persisted: a restart starts
// every user from scratch.
type Store struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*Session
	now      func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		sessions: make(map[core.SessionID]*Session),
		now:      time.Now,
	}
}

// Get returns a private copy of the session
func (s *Store) Get(id core.SessionID) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return sess.Clone(), true
}

// Load returns the session for a cookie value. An empty, malformed or unknown
// value yields a fresh session that is not stored until the caller Puts it.
func (s *Store) Load(cookie string) *Session {
	if id, err := core.ParseSessionID(cookie); err == nil {
		if sess, ok := s.Get(id); ok {
			return sess
		}
	}
	return New(core.NewSessionID())
}

// Put stores the session, replacing any previous version
func (s *Store) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := sess.Clone()
	stored.UpdatedAt = s.now()
	s.sessions[sess.ID] = stored
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than ttl and returns how many it removed
func (s *Store) Sweep(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps idle sessions every interval until ctx is done
func (s *Store) RunJanitor(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(ttl); n > 0 {
				log.Printf("[SessionStore] Expired %d idle sessions (%d live)", n, s.Len())
			}
		}
	}
}
