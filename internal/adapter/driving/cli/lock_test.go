package cli

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credstash.lock")

	release, err := AcquireLock(path)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(content))

	_, err = AcquireLock(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLocked)
	assert.Contains(t, err.Error(), path)

	require.NoError(t, release())
	assert.NoFileExists(t, path)

	release, err = AcquireLock(path)
	require.NoError(t, err)
	require.NoError(t, release())
}

func TestAcquireLock_ReleaseTwice(t *testing.T) {
	release, err := AcquireLock(filepath.Join(t.TempDir(), "credstash.lock"))
	require.NoError(t, err)

	require.NoError(t, release())
	assert.NoError(t, release())
}
