//go:build !unix

package lock

import "os"

// Advisory locking is only implemented on Unix-like systems.
func tryLock(f *os.File) error { return nil }

func unlock(f *os.File) error { return nil }
