package repofakes

import (
	"sync"

	"github.com/DOFONSON/beliy-client/session"
	"github.com/pkg/errors"
)

var _ session.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo is an in-memory session.Repo for tests.
type FakeSessionRepo struct {
	lock    sync.RWMutex
	stored  *session.Session
	failing bool
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{}
}

// FailAll makes every subsequent operation return an error.
func (r *FakeSessionRepo) FailAll() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.failing = true
}

// Seed stores a session directly, bypassing error injection.
func (r *FakeSessionRepo) Seed(s *session.Session) {
	r.lock.Lock()
	defer r.lock.Unlock()
	copied := *s
	r.stored = &copied
}

// Stored returns the currently persisted session, or nil.
func (r *FakeSessionRepo) Stored() *session.Session {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.stored == nil {
		return nil
	}
	copied := *r.stored
	return &copied
}

func (r *FakeSessionRepo) Load() (*session.Session, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.failing {
		return nil, errors.New("load failed")
	}
	if r.stored == nil {
		return nil, nil
	}
	copied := *r.stored
	return &copied, nil
}

func (r *FakeSessionRepo) Save(s *session.Session) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.failing {
		return errors.New("save failed")
	}
	copied := *s
	r.stored = &copied
	return nil
}

func (r *FakeSessionRepo) Clear() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.failing {
		return errors.New("clear failed")
	}
	r.stored = nil
	return nil
}
