// Package lock prevents two comparisons from mutating the same working tree.
package lock

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrAlreadyRunning indicates another comparison holds the repository lock.
var ErrAlreadyRunning = errors.New("another branchbench run is already using this repository")

// Locker is an exclusive, process-scoped lock for one repository.
type Locker struct {
	path string
	file *os.File
}

// New creates a Locker for repoPath. The lock file lives in the temp dir so
// it never shows up as an untracked file in the repository.
func New(repoPath string) *Locker {
	sum := fmt.Sprintf("%x", sha256.Sum256([]byte(filepath.Clean(repoPath))))[:16]
	return &Locker{path: filepath.Join(os.TempDir(), "branchbench-"+sum+".lock")}
}

// Path returns the lock file location.
func (l *Locker) Path() string {
	return l.path
}

// Acquire takes the lock without blocking.
func (l *Locker) Acquire() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("failed to open lock file %s: %w", l.path, err)
	}
	if err := tryLock(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Truncate(0); err == nil {
		fmt.Fprintf(f, "%d\n", os.Getpid())
	}
	l.file = f
	return nil
}

// Release drops the lock. It is safe to call more than once.
func (l *Locker) Release() error {
	if l.file == nil {
		return nil
	}
	err := unlock(l.file)
	if cerr := l.file.Close(); err == nil {
		err = cerr
	}
	l.file = nil
	return err
}
