// Package filerepo persists the session as a small JSON file in the data
// folder, the CLI's equivalent of the browser's durable key-value storage.
package filerepo

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/DOFONSON/beliy-client/session"
	"github.com/pkg/errors"
)

const sessionFileName = "session.json"

var _ session.Repo = (*FileRepo)(nil)

// FileRepo stores the session under <folder>/session.json. Writes are
// whole-value: the file is replaced atomically via a temp file and rename,
// so a reader never observes a partially written session.
type FileRepo struct {
	path string
}

// storedSession mirrors the browser storage layout: three string-valued
// keys, with the user profile kept in serialized form.
type storedSession struct {
	Access  string `json:"access,omitempty"`
	Refresh string `json:"refresh,omitempty"`
	User    string `json:"user,omitempty"`
}

func New(folder string) (*FileRepo, error) {
	if folder == "" {
		return nil, errors.New("[filerepo.New] folder is required")
	}
	if err := os.MkdirAll(folder, 0o700); err != nil {
		return nil, errors.Wrap(err, "[filerepo.New] os.MkdirAll")
	}
	return &FileRepo{path: filepath.Join(folder, sessionFileName)}, nil
}

func (r *FileRepo) Load() (*session.Session, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[FileRepo.Load] os.ReadFile")
	}

	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, errors.Wrap(err, "[FileRepo.Load] json.Unmarshal")
	}

	s := &session.Session{
		AccessToken:  stored.Access,
		RefreshToken: stored.Refresh,
	}
	if stored.User != "" {
		var user session.User
		if err := json.Unmarshal([]byte(stored.User), &user); err != nil {
			return nil, errors.Wrap(err, "[FileRepo.Load] json.Unmarshal user")
		}
		s.User = &user
	}
	return s, nil
}

func (r *FileRepo) Save(s *session.Session) error {
	stored := storedSession{
		Access:  s.AccessToken,
		Refresh: s.RefreshToken,
	}
	if s.User != nil {
		userJSON, err := json.Marshal(s.User)
		if err != nil {
			return errors.Wrap(err, "[FileRepo.Save] json.Marshal user")
		}
		stored.User = string(userJSON)
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return errors.Wrap(err, "[FileRepo.Save] json.Marshal")
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "[FileRepo.Save] os.WriteFile")
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return errors.Wrap(err, "[FileRepo.Save] os.Rename")
	}
	return nil
}

func (r *FileRepo) Clear() error {
	err := os.Remove(r.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileRepo.Clear] os.Remove")
	}
	return nil
}
