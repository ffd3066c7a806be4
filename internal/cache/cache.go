// Package cache holds the persisted index of discovered repositories.
//
// The cache is a snapshot: every entry records where a repository root was
// at the time of the last refresh, relative to its collection's root.
// Staleness is expected and is resolved only by an explicit refresh.
package cache

import (
	"sort"

	"github.com/fyrsmithlabs/repokeep/internal/vcs"
)

// Entry is one cached repository.
type Entry struct {
	// Path is the repository directory relative to the owning collection's
	// root, in slash form.
	Path string `toml:"path"`
	// VCS is the kind of the repository.
	VCS vcs.Kind `toml:"vcs"`
}

// CollectionRepos is the set of cached repositories for one collection,
// unique and sorted by path.
//
// Entry identity is the path alone: inserting an entry whose path matches
// an existing one overwrites the stored VCS for that slot.
type CollectionRepos struct {
	entries []Entry
}

// NewCollectionRepos creates a set holding the given entries.
func NewCollectionRepos(entries ...Entry) *CollectionRepos {
	c := &CollectionRepos{}
	for _, e := range entries {
		c.Insert(e)
	}
	return c
}

// Insert adds e to the set, keeping it sorted. An entry with the same path
// is replaced.
func (c *CollectionRepos) Insert(e Entry) {
	i := sort.Search(len(c.entries), func(i int) bool {
		return c.entries[i].Path >= e.Path
	})
	if i < len(c.entries) && c.entries[i].Path == e.Path {
		c.entries[i] = e
		return
	}
	c.entries = append(c.entries, Entry{})
	copy(c.entries[i+1:], c.entries[i:])
	c.entries[i] = e
}

// Entries returns the entries in path order. The returned slice is a copy.
func (c *CollectionRepos) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries.
func (c *CollectionRepos) Len() int {
	return len(c.entries)
}

// Cache maps collection names to their cached repositories.
type Cache struct {
	collections map[string]*CollectionRepos
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{collections: make(map[string]*CollectionRepos)}
}

// Collection returns the cached repositories for the named collection.
func (c *Cache) Collection(name string) (*CollectionRepos, bool) {
	repos, ok := c.collections[name]
	return repos, ok
}

// Replace installs repos as the full entry set for the named collection
// and returns the previous set, if any. There is no merging: a refreshed
// collection entirely replaces its old entries.
func (c *Cache) Replace(name string, repos *CollectionRepos) *CollectionRepos {
	old := c.collections[name]
	c.collections[name] = repos
	return old
}

// Remove drops the named collection from the cache and returns its old
// entry set, if any.
func (c *Cache) Remove(name string) *CollectionRepos {
	old, ok := c.collections[name]
	if ok {
		delete(c.collections, name)
	}
	return old
}

// Names returns the cached collection names in sorted order.
func (c *Cache) Names() []string {
	names := make([]string, 0, len(c.collections))
	for name := range c.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
