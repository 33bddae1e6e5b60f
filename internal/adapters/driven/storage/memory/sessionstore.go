package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/confadmin/internal/core/domain"
	"github.com/custodia-labs/confadmin/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
type SessionStore struct {
	mu      sync.RWMutex
	session domain.Session
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Load returns a copy of the stored session.
func (s *SessionStore) Load(_ context.Context) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess := s.session
	return &sess, nil
}

// Save replaces the stored session.
func (s *SessionStore) Save(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	return nil
}

// Clear removes the stored session.
func (s *SessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = domain.Session{}
	return nil
}
