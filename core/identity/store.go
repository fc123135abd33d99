package identity

import "sync"

// Store holds the single active session. Memory only.
type Store struct {
	mu      sync.RWMutex
	session *Session
}

func NewStore() *Store {
	return &Store{}
}

// Set replaces the active session.
func (s *Store) Set(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &sess
}

func (s *Store) Active() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return Session{}, false
	}
	return *s.session, true
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
}
