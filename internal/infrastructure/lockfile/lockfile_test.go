package lockfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/edsm-checker-go/internal/infrastructure/lockfile"
)

func TestLockFile_SingleInstance(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "edsm-checker.lock")
	first := lockfile.New(path)
	second := lockfile.New(path)

	// Act
	require.NoError(t, first.Acquire())
	err := second.Acquire()

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
	pid, ok := first.HolderPID()
	assert.True(t, ok)
	assert.Equal(t, os.Getpid(), pid)

	require.NoError(t, first.Release())
	assert.NoFileExists(t, path)
	require.NoError(t, second.Acquire())
	require.NoError(t, second.Release())
}

func TestLockFile_ReleaseWithoutAcquire(t *testing.T) {
	l := lockfile.New(filepath.Join(t.TempDir(), "x.lock"))

	assert.NoError(t, l.Release())
}
