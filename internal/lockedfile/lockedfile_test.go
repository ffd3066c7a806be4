package lockedfile

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")

	require.NoError(t, Write(path, []byte("first"), 0o600))
	data, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), data)
}

func TestWriteReplacesLongerContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")

	require.NoError(t, Write(path, []byte("a much longer first payload"), 0o600))
	require.NoError(t, Write(path, []byte("short"), 0o600))

	data, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("short"), data, "old tail must be truncated away")
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestWritePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	path := filepath.Join(t.TempDir(), "state.toml")
	require.NoError(t, Write(path, []byte("x"), 0o600))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriteEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	require.NoError(t, Write(path, []byte("content"), 0o600))
	require.NoError(t, Write(path, nil, 0o600))

	data, err := Read(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}
