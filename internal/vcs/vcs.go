// Package vcs defines the narrow version-control capability consumed by
// repository discovery and cloning.
//
// Only git is implemented, through go-git. The Engine interface exists so
// that discovery and refresh logic stay independent of the concrete VCS,
// and so tests can substitute probes.
package vcs

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownKind indicates a VCS name that is not recognized.
var ErrUnknownKind = errors.New("unknown VCS kind")

// Kind identifies a version control system.
type Kind int

const (
	// KindGit is the git version control system.
	KindGit Kind = iota + 1
)

// Kinds returns all supported VCS kinds, ordered alphabetically by name.
func Kinds() []Kind {
	return []Kind{KindGit}
}

// String returns the lowercase VCS name.
func (k Kind) String() string {
	switch k {
	case KindGit:
		return "git"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses a lowercase VCS name.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "git":
		return KindGit, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// MarshalText implements encoding.TextMarshaler so Kind serializes as its
// lowercase name in cache and config documents.
func (k Kind) MarshalText() ([]byte, error) {
	if k != KindGit {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Repo is a handle to an opened repository.
type Repo interface {
	// Workdir returns the repository's working tree root, if it has one.
	// Bare repositories have no working tree.
	Workdir() (string, bool)
}

// Engine opens and clones repositories of a single VCS kind.
type Engine interface {
	// Kind returns the VCS kind this engine handles.
	Kind() Kind

	// Open opens path as a repository. The path must already be the
	// repository directory (a .git directory or a bare repository root);
	// no parent search or .git appending is performed.
	Open(path string) (Repo, error)

	// Clone clones the repository at uri into dest, creating dest if
	// needed. The call blocks until the clone completes or fails.
	Clone(ctx context.Context, uri, dest string, bare bool) error
}
