// Package refresh rebuilds the repository cache by re-discovering
// collections on disk.
//
// Each targeted collection is processed to an explicit Outcome; whether a
// failure aborts the run or is recorded and skipped is decided once, in
// the orchestration loop, by the keep-going option. Successfully processed
// collections replace their cached entry set wholesale; collections not
// targeted keep their old entries.
package refresh

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/repokeep/internal/cache"
	"github.com/fyrsmithlabs/repokeep/internal/collection"
	"github.com/fyrsmithlabs/repokeep/internal/discovery"
	"github.com/fyrsmithlabs/repokeep/internal/vcs"
	"github.com/fyrsmithlabs/repokeep/internal/workspace"
)

// ErrCollectionNotFound indicates a refresh target unknown to the
// registry.
var ErrCollectionNotFound = errors.New("collection not found")

// AggregateError reports the collections that failed to refresh. It is
// returned even when the cache was persisted, so callers must treat it as
// an overall failure despite the partial-success durability.
type AggregateError struct {
	Names []collection.Name
}

func (e *AggregateError) Error() string {
	names := make([]string, len(e.Names))
	for i, n := range e.Names {
		names[i] = n.String()
	}
	return fmt.Sprintf("refresh failed for collection(s): %s", strings.Join(names, ", "))
}

// Status is the terminal state of one collection's refresh.
type Status int

const (
	// StatusRefreshed means a new entry set was built from discovery.
	StatusRefreshed Status = iota
	// StatusEmptied means the collection root does not exist; its cache
	// entry becomes empty without counting as a failure.
	StatusEmptied
	// StatusFailed means the collection could not be refreshed.
	StatusFailed
)

// Outcome is the result of processing one collection.
type Outcome struct {
	Name   collection.Name
	Status Status
	// Repos is the entry set to install for the collection. It may be
	// non-nil even for StatusFailed: an inaccessible root empties the
	// collection's cache rather than leaving stale entries behind.
	Repos *cache.CollectionRepos
	Err   error
}

// Options control a refresh run.
type Options struct {
	// KeepGoing records failures and continues instead of aborting on the
	// first one. Errors are still reported at the end.
	KeepGoing bool
	// Verbose echoes discovered repositories to Stdout. It has no effect
	// on results.
	Verbose bool
}

// Orchestrator drives discovery across collections and persists the
// resulting cache.
type Orchestrator struct {
	ws     *workspace.Workspace
	engine vcs.Engine
	logger *zap.Logger

	// Stdout receives verbose progress lines. Defaults to os.Stdout.
	Stdout io.Writer
}

// New creates an orchestrator. logger may be nil.
func New(ws *workspace.Workspace, engine vcs.Engine, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{ws: ws, engine: engine, logger: logger, Stdout: os.Stdout}
}

// Run refreshes the named collections, or every registered collection when
// names is empty.
//
// Without KeepGoing the first failure aborts the run and nothing is
// persisted. With KeepGoing every failure is recorded and processing
// continues; the cache is persisted once at the end regardless, and the
// returned *AggregateError names every failed collection.
func (o *Orchestrator) Run(names []collection.Name, opts Options) error {
	registry := o.ws.Registry()

	c, err := o.ws.Cache()
	if err != nil {
		return err
	}

	targets := make([]Outcome, 0, registry.Len())
	if len(names) == 0 {
		names = registry.Names()
	}

	var failed []collection.Name
	for _, name := range names {
		outcome := o.refreshOne(name, opts)

		if outcome.Status == StatusFailed {
			// The single abort-vs-continue decision point.
			if !opts.KeepGoing {
				return fmt.Errorf("refresh collection %q: %w", name, outcome.Err)
			}
			o.logger.Error("refresh failed",
				zap.String("collection", name.String()),
				zap.Error(outcome.Err))
			failed = append(failed, name)
		}
		targets = append(targets, outcome)
	}

	for _, outcome := range targets {
		if outcome.Repos != nil {
			c.Replace(outcome.Name.String(), outcome.Repos)
		}
	}

	if err := o.ws.SaveCache(c); err != nil {
		return err
	}

	if len(failed) > 0 {
		return &AggregateError{Names: failed}
	}
	return nil
}

// refreshOne processes a single collection to its terminal outcome. It
// never aborts on its own; the caller owns that policy.
func (o *Orchestrator) refreshOne(name collection.Name, opts Options) Outcome {
	col, ok := o.ws.Registry().Get(name.String())
	if !ok {
		return Outcome{
			Name:   name,
			Status: StatusFailed,
			Err:    fmt.Errorf("%w: %q", ErrCollectionNotFound, name),
		}
	}

	root := o.ws.AbsCollectionPath(col)
	o.logger.Debug("refreshing collection",
		zap.String("collection", name.String()),
		zap.String("root", root))

	seeker, err := discovery.New(root, o.engine, o.logger.Named("discovery"))
	if err != nil {
		// The root exists but cannot be used (broken symlink, unreadable).
		// The collection's entries are stale at best; empty them rather
		// than leave them behind.
		return Outcome{
			Name:   name,
			Status: StatusFailed,
			Repos:  cache.NewCollectionRepos(),
			Err:    err,
		}
	}
	if seeker == nil {
		o.logger.Debug("collection root does not exist",
			zap.String("collection", name.String()),
			zap.String("root", root))
		return Outcome{Name: name, Status: StatusEmptied, Repos: cache.NewCollectionRepos()}
	}

	repos := cache.NewCollectionRepos()
	for {
		entry, err := seeker.Next()
		if err != nil {
			if !opts.KeepGoing {
				return Outcome{Name: name, Status: StatusFailed, Err: err}
			}
			o.logger.Error("error during directory traversal", zap.Error(err))
			continue
		}
		if entry == nil {
			break
		}

		o.logger.Info("found repository",
			zap.String("vcs", entry.VCS.String()),
			zap.String("path", entry.Path))
		if opts.Verbose {
			fmt.Fprintf(o.Stdout, "Found %s repository %s\n", entry.VCS, entry.Path)
		}

		rel, err := filepath.Rel(root, entry.Path)
		if err != nil || strings.HasPrefix(rel, "..") {
			// Every discovered path is a descendant of root by
			// construction; reaching here is a defect, not a runtime
			// condition.
			return Outcome{
				Name:   name,
				Status: StatusFailed,
				Err:    fmt.Errorf("internal error: discovered path %q is not under root %q", entry.Path, root),
			}
		}
		repos.Insert(cache.Entry{Path: filepath.ToSlash(rel), VCS: entry.VCS})
	}

	return Outcome{Name: name, Status: StatusRefreshed, Repos: repos}
}
