package theme

import (
	"fmt"
	"sync"

	"github.com/tastectl/cli/internal/storage"
)

// Theme is the application color scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Valid reports whether t is a known theme value.
func (t Theme) Valid() bool {
	return t == Light || t == Dark
}

// Store is an observable theme setting written through to durable storage
// under the app_theme key. Unset storage reads as Light.
type Store struct {
	storage storage.Store

	mu       sync.Mutex
	hydrated bool
	cur      Theme
	subs     map[int]func(Theme)
	nextSub  int
}

// NewStore creates a theme store backed by st.
func NewStore(st storage.Store) *Store {
	return &Store{
		storage: st,
		cur:     Light,
		subs:    make(map[int]func(Theme)),
	}
}

// Current returns the active theme, hydrating from storage on first call.
func (s *Store) Current() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hydrated {
		s.hydrated = true
		if v, ok, err := s.storage.Get(storage.KeyAppTheme); err == nil && ok && Theme(v).Valid() {
			s.cur = Theme(v)
		}
	}
	return s.cur
}

// Set validates and persists t before committing it in memory.
func (s *Store) Set(t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("unknown theme %q (expected %s or %s)", t, Light, Dark)
	}

	s.mu.Lock()
	if err := s.storage.Set(storage.KeyAppTheme, string(t)); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("could not persist theme: %w", err)
	}
	s.hydrated = true
	s.cur = t
	fns := make([]func(Theme), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(t)
	}
	return nil
}

// Subscribe registers fn to run synchronously after each committed change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Theme)) func() {
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
