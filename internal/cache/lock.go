package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockRetry is how often a blocked Lock polls for the lock.
const lockRetry = 50 * time.Millisecond

// FileLock provides exclusive file-based locking using flock.
type FileLock struct {
	path string
	fl   *flock.Flock
}

// NewFileLock creates a new file lock for the given path.
// The lock file will be created if it doesn't exist.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path}
}

// Lock acquires an exclusive lock on the file.
// Blocks until the lock is acquired or ctx is done.
func (l *FileLock) Lock(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}
	fl := flock.New(l.path)
	locked, err := fl.TryLockContext(ctx, lockRetry)
	if err != nil {
		return err
	}
	if !locked {
		return fmt.Errorf("could not lock %s", l.path)
	}
	l.fl = fl
	return nil
}

// Unlock releases the lock and closes the file.
func (l *FileLock) Unlock() error {
	if l.fl == nil {
		return nil
	}
	err := l.fl.Unlock()
	l.fl = nil
	return err
}
