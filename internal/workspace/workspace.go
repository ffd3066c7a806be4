// Package workspace bundles the on-disk state repokeep operates on: the
// collection registry config and the repository cache, each persisted
// under its own advisory file lock.
//
// Directory locations are injected at construction so discovery and cache
// logic stay testable without touching the process environment. The config
// file and the cache file are guarded independently; there is no
// cross-file transaction, and a crash between the two saves can leave them
// mutually inconsistent. That is an accepted risk of the design.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/repokeep/internal/cache"
	"github.com/fyrsmithlabs/repokeep/internal/collection"
	"github.com/fyrsmithlabs/repokeep/internal/lockedfile"
)

const (
	configFileName = "collections.toml"
	cacheFileName  = "cache.toml"
)

// Paths are the directories a workspace lives in.
type Paths struct {
	// Home resolves relative collection roots.
	Home string
	// ConfigDir holds the collection registry config.
	ConfigDir string
	// CacheDir holds the repository cache.
	CacheDir string
}

// DefaultPaths derives workspace paths from the user's environment.
func DefaultPaths() (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("resolve home directory: %w", err)
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("resolve config directory: %w", err)
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return Paths{}, fmt.Errorf("resolve cache directory: %w", err)
	}
	return Paths{
		Home:      home,
		ConfigDir: filepath.Join(configDir, "repokeep"),
		CacheDir:  filepath.Join(cacheDir, "repokeep"),
	}, nil
}

// Workspace is the loaded registry plus lazily loaded cache.
type Workspace struct {
	paths  Paths
	logger *zap.Logger

	defaultName collection.Name
	registry    *collection.Set

	// cache stays nil until first use; loading is explicit, not hidden in
	// global initialization.
	cache *cache.Cache
}

// Open loads the registry config under paths and returns a workspace.
//
// A missing config file means an empty registry, not an error. A config
// file that fails to decode (including duplicate collection names) is an
// error: the registry never self-heals. logger may be nil.
func Open(paths Paths, logger *zap.Logger) (*Workspace, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Workspace{paths: paths, logger: logger}

	data, err := lockedfile.Read(w.ConfigPath())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config %s: %w", w.ConfigPath(), err)
		}
		logger.Debug("config file missing, starting with empty registry",
			zap.String("path", w.ConfigPath()))
		w.registry, _ = collection.NewSet()
		return w, nil
	}

	cfg, err := collection.DecodeConfig(data)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", w.ConfigPath(), err)
	}
	registry, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", w.ConfigPath(), err)
	}
	w.defaultName = cfg.DefaultCollection
	w.registry = registry
	return w, nil
}

// Paths returns the workspace directories.
func (w *Workspace) Paths() Paths { return w.paths }

// ConfigPath returns the collection registry file path.
func (w *Workspace) ConfigPath() string {
	return filepath.Join(w.paths.ConfigDir, configFileName)
}

// CachePath returns the repository cache file path.
func (w *Workspace) CachePath() string {
	return filepath.Join(w.paths.CacheDir, cacheFileName)
}

// Registry returns the collection registry.
func (w *Workspace) Registry() *collection.Set { return w.registry }

// AbsCollectionPath resolves c's root against the workspace home.
func (w *Workspace) AbsCollectionPath(c collection.Collection) string {
	return c.AbsPath(w.paths.Home)
}

// DefaultCollection returns the configured default collection. The second
// return is false when no default is set or the default names a collection
// that no longer exists.
func (w *Workspace) DefaultCollection() (collection.Collection, bool) {
	if w.defaultName == "" {
		return collection.Collection{}, false
	}
	return w.registry.Get(w.defaultName.String())
}

// DefaultCollectionName returns the raw configured default, which may name
// a collection that no longer exists.
func (w *Workspace) DefaultCollectionName() collection.Name { return w.defaultName }

// SetDefaultCollection records name as the default. An empty name clears
// it. The change is in-memory until SaveConfig.
func (w *Workspace) SetDefaultCollection(name collection.Name) {
	w.defaultName = name
}

// SaveConfig persists the registry config in one locked write.
func (w *Workspace) SaveConfig() error {
	data, err := collection.EncodeConfig(collection.BuildConfig(w.defaultName, w.registry))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(w.paths.ConfigDir, 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := lockedfile.Write(w.ConfigPath(), data, 0o600); err != nil {
		return fmt.Errorf("save config %s: %w", w.ConfigPath(), err)
	}
	return nil
}

// Cache returns the repository cache, loading it from disk on first use.
//
// A missing cache file is an empty cache. A cache file that fails to
// decode is also an empty cache, with a logged warning: the cache is
// derived data and availability wins over strict validation.
func (w *Workspace) Cache() (*cache.Cache, error) {
	if w.cache != nil {
		return w.cache, nil
	}

	data, err := lockedfile.Read(w.CachePath())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load cache %s: %w", w.CachePath(), err)
		}
		w.cache = cache.New()
		return w.cache, nil
	}

	c, err := cache.Decode(data)
	if err != nil {
		w.logger.Warn("cache file is malformed, resetting to empty",
			zap.String("path", w.CachePath()),
			zap.Error(err))
		c = cache.New()
	}
	w.cache = c
	return w.cache, nil
}

// SaveCache persists c by rewriting the whole cache file in one locked
// write, and keeps it as the workspace's in-memory cache.
func (w *Workspace) SaveCache(c *cache.Cache) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(w.paths.CacheDir, 0o700); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	if err := lockedfile.Write(w.CachePath(), data, 0o600); err != nil {
		return fmt.Errorf("save cache %s: %w", w.CachePath(), err)
	}
	w.cache = c
	return nil
}
