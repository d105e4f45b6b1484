package storage

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("reports/job-1.csv", []byte("Code,Subject\n")))
	data, err := store.Read("reports/job-1.csv")
	require.NoError(t, err)
	assert.Equal(t, "Code,Subject\n", string(data))

	require.NoError(t, store.Delete("reports/job-1.csv"))
	require.NoError(t, store.Delete("reports/job-1.csv"))
	_, err = store.Read("reports/job-1.csv")
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../secret", "/etc/passwd", "reports/../../x", "."} {
		require.ErrorIs(t, store.Save(name, []byte("x")), ErrInvalidPath, name)
		_, err := store.Read(name)
		require.ErrorIs(t, err, ErrInvalidPath, name)
	}
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("reports/old.pdf", []byte("old")))
	require.NoError(t, store.Save("reports/new.pdf", []byte("new")))
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "reports", "old.pdf"), past, past))

	deleted, err := store.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"reports/old.pdf"}, deleted)

	_, err = store.Read("reports/new.pdf")
	require.NoError(t, err)
}
