package vcs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"go.uber.org/zap"
)

// GitEngine implements Engine for git repositories using go-git.
type GitEngine struct {
	logger *zap.Logger
}

// NewGitEngine creates a git engine. logger may be nil.
func NewGitEngine(logger *zap.Logger) *GitEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GitEngine{logger: logger}
}

// Kind implements Engine.
func (e *GitEngine) Kind() Kind {
	return KindGit
}

// Open implements Engine. The path is expected to be a git directory (a
// .git directory or a bare repository root), so dot-git detection and
// parent search are disabled.
func (e *GitEngine) Open(path string) (Repo, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: false})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &gitRepo{gitDir: path, repo: repo}, nil
}

// Clone implements Engine.
func (e *GitEngine) Clone(ctx context.Context, uri, dest string, bare bool) error {
	info, err := os.Stat(dest)
	switch {
	case err == nil:
		// Git accepts a symlink to a directory as a destination.
		if !info.IsDir() {
			return fmt.Errorf("clone destination %s is not a directory", dest)
		}
	case os.IsNotExist(err):
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return fmt.Errorf("create clone destination: %w", err)
		}
	default:
		return fmt.Errorf("stat clone destination: %w", err)
	}

	e.logger.Debug("cloning repository",
		zap.String("uri", uri),
		zap.String("dest", dest),
		zap.Bool("bare", bare))

	if _, err := git.PlainCloneContext(ctx, dest, bare, &git.CloneOptions{URL: uri}); err != nil {
		return fmt.Errorf("clone %s: %w", uri, err)
	}

	e.logger.Debug("clone finished", zap.String("dest", dest))
	return nil
}

// gitRepo is a Repo backed by go-git.
type gitRepo struct {
	gitDir string
	repo   *git.Repository
}

// Workdir implements Repo.
//
// The repository was opened from its git directory, so go-git does not
// track the working tree itself. The working tree is derived the way git
// does: core.worktree wins, otherwise a non-bare repository whose git
// directory is named ".git" has its parent as the working tree.
func (r *gitRepo) Workdir() (string, bool) {
	cfg, err := r.repo.Config()
	if err != nil || cfg.Core.IsBare {
		return "", false
	}
	if wt := cfg.Core.Worktree; wt != "" {
		if !filepath.IsAbs(wt) {
			wt = filepath.Join(r.gitDir, wt)
		}
		return filepath.Clean(wt), true
	}
	if filepath.Base(r.gitDir) == git.GitDirName {
		return filepath.Dir(r.gitDir), true
	}
	return "", false
}
