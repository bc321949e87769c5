package lockfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
)

// LockFile enforces a single daemon instance with an exclusive flock.
// The holder's PID is written into the file for diagnostics.
type LockFile struct {
	path string
	lock *flock.Flock
}

// New creates a new LockFile manager
func New(path string) *LockFile {
	return &LockFile{path: path, lock: flock.New(path)}
}

// Path returns the lock file location
func (l *LockFile) Path() string {
	return l.path
}

// Acquire takes the lock without waiting.
// Returns an error if another instance is already running.
func (l *LockFile) Acquire() error {
	locked, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock file: %w", err)
	}
	if !locked {
		if pid, ok := l.HolderPID(); ok {
			return fmt.Errorf("daemon is already running (PID %d)", pid)
		}
		return fmt.Errorf("daemon is already running (lock held on %s)", l.path)
	}

	pidData := fmt.Sprintf("%d\n", os.Getpid())
	if err := os.WriteFile(l.path, []byte(pidData), 0644); err != nil {
		_ = l.lock.Unlock()
		return fmt.Errorf("failed to write lock file: %w", err)
	}

	return nil
}

// HolderPID reads the PID recorded by the current holder
func (l *LockFile) HolderPID() (int, bool) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// Release unlocks and removes the lock file
func (l *LockFile) Release() error {
	if !l.lock.Locked() {
		return nil
	}
	// Remove before unlocking so a waiting instance never sees our stale PID
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock file: %w", err)
	}
	return nil
}
