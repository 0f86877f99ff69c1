package filerepo_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DOFONSON/beliy-client/session"
	"github.com/DOFONSON/beliy-client/session/filerepo"
	"github.com/stretchr/testify/require"
)

func TestFileRepo_RequiresFolder(t *testing.T) {
	_, err := filerepo.New("")
	require.Error(t, err)
}

func TestFileRepo_LoadMissingFile(t *testing.T) {
	repo, err := filerepo.New(t.TempDir())
	require.NoError(t, err)

	s, err := repo.Load()
	require.NoError(t, err)
	require.Nil(t, s)
}

func TestFileRepo_SaveLoadRoundTrip(t *testing.T) {
	repo, err := filerepo.New(t.TempDir())
	require.NoError(t, err)

	saved := &session.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User: &session.User{
			ID:       7,
			Username: "john.doe",
			Email:    "john.doe@example.com",
		},
	}
	require.NoError(t, repo.Save(saved))

	loaded, err := repo.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, "access-1", loaded.AccessToken)
	require.Equal(t, "refresh-1", loaded.RefreshToken)
	require.NotNil(t, loaded.User)
	require.Equal(t, int64(7), loaded.User.ID)
	require.Equal(t, "john.doe", loaded.User.Username)
}

func TestFileRepo_SaveWithoutUser(t *testing.T) {
	repo, err := filerepo.New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, repo.Save(&session.Session{AccessToken: "access-1"}))

	loaded, err := repo.Load()
	require.NoError(t, err)
	require.Equal(t, "access-1", loaded.AccessToken)
	require.Nil(t, loaded.User)
}

func TestFileRepo_LoadCorruptFile(t *testing.T) {
	folder := t.TempDir()
	repo, err := filerepo.New(folder)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(folder, "session.json"), []byte("{not json"), 0o600))

	_, err = repo.Load()
	require.Error(t, err)
}

func TestFileRepo_Clear(t *testing.T) {
	repo, err := filerepo.New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, repo.Save(&session.Session{AccessToken: "access-1"}))
	require.NoError(t, repo.Clear())

	s, err := repo.Load()
	require.NoError(t, err)
	require.Nil(t, s)

	// Clearing an already-empty repo is fine.
	require.NoError(t, repo.Clear())
}
