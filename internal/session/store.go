package session

import (
	"sync"

	"github.com/joinvnexus/shopkoro-sub001/internal/domain"
)

// Store holds at most one active user session. Route guards and the cart
// synchronizer read it; only the login exchange and logout write it.
// Persistence is a subscriber concern, not the store's.
type Store struct {
	m         sync.RWMutex
	user      *domain.UserSession
	listeners []func(*domain.UserSession)
}

func New() *Store {
	return &Store{}
}

// Subscribe registers a listener invoked after every state change with a
// snapshot of the new session (nil when logged out). Register listeners
// during wiring, before the store is shared.
func (s *Store) Subscribe(fn func(*domain.UserSession)) {
	s.m.Lock()
	s.listeners = append(s.listeners, fn)
	s.m.Unlock()
}

// Login replaces the current session unconditionally. Validation happened
// in the remote login exchange; the store just accepts the payload.
func (s *Store) Login(user domain.UserSession) {
	s.m.Lock()
	u := user
	s.user = &u
	listeners := s.listeners
	s.m.Unlock()

	for _, fn := range listeners {
		fn(&u)
	}
}

func (s *Store) Logout() {
	s.m.Lock()
	s.user = nil
	listeners := s.listeners
	s.m.Unlock()

	for _, fn := range listeners {
		fn(nil)
	}
}

// Restore installs a previously persisted session without notifying
// listeners, so rehydration does not re-persist what was just read.
func (s *Store) Restore(user domain.UserSession) {
	s.m.Lock()
	u := user
	s.user = &u
	s.m.Unlock()
}

// Current returns a copy of the active session, or nil when anonymous.
func (s *Store) Current() *domain.UserSession {
	s.m.RLock()
	defer s.m.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) IsLoggedIn() bool {
	s.m.RLock()
	defer s.m.RUnlock()
	return s.user != nil
}

// CurrentUserID returns the active user's id, or "" when anonymous.
func (s *Store) CurrentUserID() string {
	s.m.RLock()
	defer s.m.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// Token returns the bearer token of the active session, or "" when
// anonymous. Satisfies cartapi.TokenSource.
func (s *Store) Token() string {
	s.m.RLock()
	defer s.m.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Token
}

func (s *Store) IsAdmin() bool {
	s.m.RLock()
	defer s.m.RUnlock()
	return s.user != nil && s.user.IsAdmin
}
