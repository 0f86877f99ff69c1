package session

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Store is the single source of truth for the session. Every component that
// needs to know whether the user is logged in, or needs the current bearer
// credential, reads it from here rather than keeping its own copy.
//
// Mutations update the in-memory state first, so all subsequent outbound
// calls observe the new credential immediately, then write through to the
// durable Repo.
type Store struct {
	repo Repo
	log  zerolog.Logger

	mu      sync.RWMutex
	session Session
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithStoreLogger sets the logger used for hydration warnings.
func WithStoreLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.log = logger
	}
}

// NewStore creates a Store and hydrates it from the repo. A missing or
// unreadable persisted session starts the store empty rather than failing:
// the worst case is that the user has to log in again.
func NewStore(repo Repo, options ...StoreOption) (*Store, error) {
	if repo == nil {
		return nil, errors.New("[NewStore] repo is required")
	}

	store := &Store{
		repo: repo,
		log:  log.Logger,
	}

	for _, opt := range options {
		opt(store)
	}

	persisted, err := repo.Load()
	if err != nil {
		store.log.Warn().Err(err).Msg("discarding unreadable persisted session")
		if clearErr := repo.Clear(); clearErr != nil {
			store.log.Warn().Err(clearErr).Msg("failed to clear persisted session")
		}
	} else if persisted != nil {
		store.session = persisted.clone()
	}

	return store, nil
}

// Session returns a copy of the current session.
func (s *Store) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.clone()
}

// Authenticated reports whether a non-empty access token is held.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Authenticated()
}

// SetSession replaces the whole session, typically after a successful login
// or registration.
func (s *Store) SetSession(accessToken, refreshToken string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}.clone()

	if err := s.repo.Save(&s.session); err != nil {
		return errors.Wrap(err, "[Store.SetSession] repo.Save")
	}
	return nil
}

// UpdateAccessToken replaces only the access token, leaving the refresh
// token and cached user untouched. Used after a successful token refresh.
func (s *Store) UpdateAccessToken(accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.AccessToken = accessToken

	if err := s.repo.Save(&s.session); err != nil {
		return errors.Wrap(err, "[Store.UpdateAccessToken] repo.Save")
	}
	return nil
}

// SetUser replaces the cached profile, leaving both tokens untouched. Used
// after a session check or a profile edit.
func (s *Store) SetUser(user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user != nil {
		u := *user
		s.session.User = &u
	} else {
		s.session.User = nil
	}

	if err := s.repo.Save(&s.session); err != nil {
		return errors.Wrap(err, "[Store.SetUser] repo.Save")
	}
	return nil
}

// Clear removes the session from memory and durable storage. The
// application must treat the user as unauthenticated from the next read.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = Session{}

	if err := s.repo.Clear(); err != nil {
		return errors.Wrap(err, "[Store.Clear] repo.Clear")
	}
	return nil
}
