package atomicfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrLocked is returned when another process holds the write lock.
var ErrLocked = errors.New("file is locked by another writer")

// Lock is an exclusive advisory lock scoped to one target path. The lock file
// is a hidden sibling of the target.
type Lock struct {
	file *os.File
	path string
}

// LockPath returns the lock file used for target.
func LockPath(target string) string {
	return filepath.Join(filepath.Dir(target), "."+filepath.Base(target)+".lock")
}

// Acquire takes the lock for target without blocking.
func Acquire(target string) (*Lock, error) {
	lockPath := LockPath(target)
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock: %w", err)
	}

	if err := lockFileExclusiveNonBlocking(f); err != nil {
		_ = f.Close()
		if isWouldBlockError(err) {
			return nil, fmt.Errorf("%s: %w", target, ErrLocked)
		}
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return &Lock{file: f, path: lockPath}, nil
}

// Release unlocks and removes the lock file. It is safe to call on nil.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := unlockFile(l.file)
	closeErr := l.file.Close()
	l.file = nil
	_ = os.Remove(l.path)
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
