package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scores.json")

	require.NoError(t, WriteFileAtomic(path, []byte(`["first"]`)))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `["first"]`, string(data))

	// Replacing an existing document works the same way.
	require.NoError(t, WriteFileAtomic(path, []byte(`["second"]`)))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `["second"]`, string(data))

	// No temp files left behind after a successful replace.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileAtomic_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "scores.json")
	require.NoError(t, WriteFileAtomic(path, []byte("[]")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestEnsureDataDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "scores.json")
	require.NoError(t, EnsureDataDir(path))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
