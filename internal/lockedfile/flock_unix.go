//go:build unix

package lockedfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// flock takes a blocking exclusive lock on f.
func flock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX)
}

// funlock releases the lock. Errors are ignored; closing the descriptor
// releases the lock regardless.
func funlock(f *os.File) {
	_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
