package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "state")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, s.Set(ctx, "state", []byte(`{"a":1}`)))
	got, err := s.Get(ctx, "state")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	require.NoError(t, s.Set(ctx, "state", []byte(`{"a":2}`)))
	got, err = s.Get(ctx, "state")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(got), "last write wins")

	require.NoError(t, s.Delete(ctx, "state"))
	_, err = s.Get(ctx, "state")
	assert.True(t, errors.Is(err, ErrNotFound))
	require.NoError(t, s.Delete(ctx, "state"))
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage())
}

func TestSQLiteStorage(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	s, err := NewSQLiteStorage(dataDir)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dataDir, SQLiteFileName))
	assert.NoError(t, err, "database file should be created")
	assert.Equal(t, filepath.Join(dataDir, SQLiteFileName), s.Path())

	exerciseStorage(t, s)
}

func TestSQLiteStorageSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()

	s, err := NewSQLiteStorage(dataDir)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, DefaultKey, []byte("payload")))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStorage(dataDir)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestFileStorage(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStorage(dir)
	require.NoError(t, err)
	exerciseStorage(t, s)

	require.NoError(t, s.Set(context.Background(), "k", []byte("v")))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	assert.Equal(t, "k.json", entries[0].Name())

	_, err = s.PathFor("../escape")
	assert.Error(t, err)
}
