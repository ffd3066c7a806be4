// Package discovery finds version-control repositories under a directory.
//
// The Seeker walks a collection root depth-first and reports every git
// directory it finds, pruning traversal so that repository internals and
// already-claimed working trees are never rescanned.
package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/repokeep/internal/vcs"
)

// ErrBrokenSymlink indicates a root path that exists as a symlink whose
// target is missing.
var ErrBrokenSymlink = errors.New("broken symlink")

// TraversalError is a filesystem error encountered while advancing the
// walk. It is entry-scoped: callers may keep calling Next afterwards, but
// continuation is not guaranteed.
type TraversalError struct {
	Path string
	Err  error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("traverse %s: %v", e.Path, e.Err)
}

func (e *TraversalError) Unwrap() error { return e.Err }

// Entry is a discovered repository.
type Entry struct {
	// Path is the absolute path of the repository directory (a .git
	// directory, or a bare repository root).
	Path string
	// VCS is the kind of the repository.
	VCS vcs.Kind
}

// Seeker is a single-pass, non-restartable walk over the repositories
// under a root directory.
type Seeker struct {
	engine vcs.Engine
	logger *zap.Logger
	stack  []*frame
}

// frame is one directory being iterated, with its position in the walk.
type frame struct {
	path    string
	entries []os.DirEntry
	next    int
}

// New creates a Seeker for the given root.
//
// A missing root is not an error: New returns (nil, nil) and the caller
// treats the collection as having nothing to discover. A root that exists
// as a broken symlink, or that cannot be read, is an error. logger may be
// nil.
func New(root string, engine vcs.Engine, logger *zap.Logger) (*Seeker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, err := os.Stat(root); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("access root %s: %w", root, err)
		}
		// Stat follows symlinks; distinguish "nothing there" from a
		// symlink pointing at nothing.
		if _, lerr := os.Lstat(root); lerr == nil {
			return nil, fmt.Errorf("root %s: %w", root, ErrBrokenSymlink)
		} else if !os.IsNotExist(lerr) {
			return nil, fmt.Errorf("access root %s: %w", root, lerr)
		}
		return nil, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read root %s: %w", root, err)
	}

	return &Seeker{
		engine: engine,
		logger: logger,
		stack:  []*frame{{path: root, entries: entries}},
	}, nil
}

// Next advances the walk and returns the next repository found.
//
// It returns (nil, nil) once the walk is exhausted. A non-nil error is a
// *TraversalError scoped to a single directory; the walk position is kept,
// so callers deciding to keep going can call Next again.
func (s *Seeker) Next() (*Entry, error) {
	for len(s.stack) > 0 {
		f := s.stack[len(s.stack)-1]
		if f.next >= len(f.entries) {
			s.stack = s.stack[:len(s.stack)-1]
			continue
		}
		dirent := f.entries[f.next]
		f.next++

		// Directories only. Symlinks are not followed.
		if !dirent.IsDir() {
			continue
		}
		name := dirent.Name()
		path := filepath.Join(f.path, name)

		// A ".git" directory, or anything with the bare-repository ".git"
		// suffix, is a candidate repository root.
		if strings.HasSuffix(name, ".git") {
			repo, err := s.engine.Open(path)
			if err == nil {
				// Repository internals are VCS-private; never descend. If
				// the repository's working tree is exactly the parent
				// directory, the rest of the parent belongs to the
				// repository too and rescanning it would only produce
				// duplicates.
				if wd, ok := repo.Workdir(); ok && filepath.Clean(wd) == filepath.Clean(f.path) {
					s.logger.Debug("pruning working tree",
						zap.String("workdir", f.path),
						zap.String("repo", path))
					s.stack = s.stack[:len(s.stack)-1]
				}
				return &Entry{Path: path, VCS: s.engine.Kind()}, nil
			}
			// A coincidentally named directory. Keep walking into it.
			s.logger.Debug("candidate is not a repository",
				zap.String("path", path),
				zap.Error(err))
		}

		if err := s.push(path); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// push descends into dir by putting it on the walk stack.
func (s *Seeker) push(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &TraversalError{Path: dir, Err: err}
	}
	s.stack = append(s.stack, &frame{path: dir, entries: entries})
	return nil
}
