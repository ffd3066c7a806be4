// Package lockedfile reads and writes files under an exclusive advisory
// lock.
//
// Lock acquisition blocks with no timeout; a concurrent process holding
// the lock stalls the caller until it is released. The kernel drops the
// lock automatically when the descriptor closes, including on crash, so
// every exit path releases it.
package lockedfile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrLock indicates a failure to acquire or use the advisory lock. Lock
// failures are fatal and never retried.
var ErrLock = errors.New("file lock")

// Read opens path, takes an exclusive lock, and reads the whole file.
//
// A missing file is reported through the plain os error so callers can
// distinguish it with os.IsNotExist.
func Read(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := flock(f); err != nil {
		return nil, fmt.Errorf("%w: lock %s for read: %v", ErrLock, path, err)
	}
	defer funlock(f)

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Write opens or creates path, takes an exclusive lock, and replaces the
// file's content with data. Truncation happens only after the lock is
// held, so concurrent readers never observe a half-written file.
func Write(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, perm)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := flock(f); err != nil {
		return fmt.Errorf("%w: lock %s for write: %v", ErrLock, path, err)
	}
	defer funlock(f)

	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("truncate %s: %w", path, err)
	}
	if _, err := f.WriteAt(data, 0); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
