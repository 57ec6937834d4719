package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadCredentialsEmpty(t *testing.T) {
	s := openTestStore(t)
	creds, err := s.LoadCredentials()
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestSaveAndLoadCredentials(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveCredentials("tok-1", `{"username":"root"}`, true))

	creds, err := s.LoadCredentials()
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "tok-1", creds.Token)
	assert.Equal(t, `{"username":"root"}`, creds.UserJSON)
	assert.True(t, creds.Remember)
}

func TestSaveReplacesExistingRow(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveCredentials("tok-1", `{}`, false))
	require.NoError(t, s.SaveCredentials("tok-2", `{}`, true))

	creds, err := s.LoadCredentials()
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "tok-2", creds.Token, "only the latest session is kept")

	var count int64
	s.db.Model(&Credentials{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestClearCredentials(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveCredentials("tok-1", `{}`, false))
	require.NoError(t, s.ClearCredentials())

	creds, err := s.LoadCredentials()
	require.NoError(t, err)
	assert.Nil(t, creds)

	// Clearing an already-empty store is fine.
	assert.NoError(t, s.ClearCredentials())
}

func TestOpenCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := Open(dir)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, "fleetdesk.db"))
	assert.NoError(t, err)
}
