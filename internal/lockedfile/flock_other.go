//go:build !unix

package lockedfile

import "os"

// flock is a no-op on platforms without BSD advisory locks. The expected
// usage pattern is a single operator on a personal machine, so the
// degraded mode is unguarded but functional I/O.
func flock(_ *os.File) error { return nil }

func funlock(_ *os.File) {}
