package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/tastectl/cli/internal/storage"
)

// ErrInvalidTransition is returned when a mutation would leave the session
// with exactly one of token and profile set. Partial sessions are never a
// stable state; use Login and Logout for the full transitions.
var ErrInvalidTransition = errors.New("invalid session transition: token and profile must be set or cleared together")

// Profile is the authenticated user's public identity.
type Profile struct {
	ID          int64  `json:"id" yaml:"id"`
	DisplayName string `json:"displayName" yaml:"display_name"`
	AvatarURL   string `json:"avatarUrl" yaml:"avatar_url"`
}

// Session pairs the auth token with the user profile.
type Session struct {
	Token   string
	Profile *Profile
}

// IsLoggedIn reports whether both token and profile are present. It is
// derived on every call, never cached.
func (s Session) IsLoggedIn() bool {
	return s.Token != "" && s.Profile != nil
}

// Store is the single source of truth for the authenticated identity. It
// keeps an in-memory session hydrated once from durable storage and writes
// every mutation through to storage before committing it. Snapshot is the
// imperative read facade; Subscribe is the reactive one. Both observe the
// same state.
type Store struct {
	storage storage.Store

	mu       sync.Mutex
	hydrated bool
	cur      Session
	subs     map[int]func(Session)
	nextSub  int
}

// NewStore creates a session store backed by st. No storage access happens
// until the first read or mutation.
func NewStore(st storage.Store) *Store {
	return &Store{
		storage: st,
		subs:    make(map[int]func(Session)),
	}
}

// Snapshot returns the current session, hydrating from durable storage on
// the first call. Storage read errors degrade to an anonymous session.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate()
	return s.cur
}

// hydrate loads token and profile from storage at most once per process.
// Caller holds s.mu.
func (s *Store) hydrate() {
	if s.hydrated {
		return
	}
	s.hydrated = true

	tok, ok, err := s.storage.Get(storage.KeyUserToken)
	if err != nil || !ok {
		return
	}
	raw, ok, err := s.storage.Get(storage.KeyUserInfo)
	if err != nil || !ok {
		return
	}
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return
	}
	// Only a complete pair hydrates; a lone key is stale residue.
	if tok != "" {
		s.cur = Session{Token: tok, Profile: &p}
	}
}

// Login atomically moves the session to AUTHENTICATED, writing both durable
// keys before the in-memory state commits. A failed second write rolls back
// the first so storage never holds a partial session.
func (s *Store) Login(token string, profile *Profile) error {
	if token == "" || profile == nil {
		return ErrInvalidTransition
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("could not serialize profile: %w", err)
	}

	s.mu.Lock()
	s.hydrate()
	if err := s.storage.Set(storage.KeyUserToken, token); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("could not persist token: %w", err)
	}
	if err := s.storage.Set(storage.KeyUserInfo, string(raw)); err != nil {
		derr := s.storage.Delete(storage.KeyUserToken)
		s.mu.Unlock()
		if derr != nil {
			return fmt.Errorf("could not persist profile: %v (token rollback failed: %w)", err, derr)
		}
		return fmt.Errorf("could not persist profile: %w", err)
	}
	s.cur = Session{Token: token, Profile: profile}
	s.mu.Unlock()

	s.notify()
	return nil
}

// Logout clears token and profile from storage and memory. Calling it while
// already logged out is a no-op.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.hydrate()
	if s.cur.Token == "" && s.cur.Profile == nil {
		s.mu.Unlock()
		return nil
	}
	if err := s.storage.Delete(storage.KeyUserToken); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("could not clear token: %w", err)
	}
	if err := s.storage.Delete(storage.KeyUserInfo); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("could not clear profile: %w", err)
	}
	s.cur = Session{}
	s.mu.Unlock()

	s.notify()
	return nil
}

// SetToken replaces the token of an authenticated session (e.g. after a
// refresh). It rejects transitions that would leave a token without a
// profile or vice versa.
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	s.hydrate()
	if token == "" || s.cur.Profile == nil {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	if err := s.storage.Set(storage.KeyUserToken, token); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("could not persist token: %w", err)
	}
	s.cur.Token = token
	s.mu.Unlock()

	s.notify()
	return nil
}

// SetProfile replaces the profile of an authenticated session (e.g. after
// the user edits their display name). Same partial-state rules as SetToken.
func (s *Store) SetProfile(profile *Profile) error {
	if profile == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.hydrate()
		return ErrInvalidTransition
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("could not serialize profile: %w", err)
	}

	s.mu.Lock()
	s.hydrate()
	if s.cur.Token == "" {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	if err := s.storage.Set(storage.KeyUserInfo, string(raw)); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("could not persist profile: %w", err)
	}
	s.cur.Profile = profile
	s.mu.Unlock()

	s.notify()
	return nil
}

// Subscribe registers fn to be called synchronously after every committed
// mutation. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notify calls subscribers outside the lock so they may read Snapshot.
func (s *Store) notify() {
	s.mu.Lock()
	cur := s.cur
	fns := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(cur)
	}
}
