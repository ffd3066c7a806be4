package cache

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// fileCollection is the on-disk shape of one collection's entry set.
type fileCollection struct {
	Repos []Entry `toml:"repos"`
}

// Encode serializes the cache as a TOML document keyed by collection name.
//
// Entries are already sorted by path and map keys encode in sorted order,
// so the output is deterministic: refreshing an unchanged filesystem twice
// yields byte-identical documents. Empty collections are omitted to keep
// the file minimal.
func (c *Cache) Encode() ([]byte, error) {
	doc := make(map[string]fileCollection, len(c.collections))
	for name, repos := range c.collections {
		if repos.Len() == 0 {
			continue
		}
		doc[name] = fileCollection{Repos: repos.Entries()}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("encode cache: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a cache document.
//
// Decode is strict; the recover-by-resetting policy for malformed cache
// files lives with the caller, which owns the decision to warn and start
// from an empty cache.
func Decode(data []byte) (*Cache, error) {
	var doc map[string]fileCollection
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode cache: %w", err)
	}

	c := New()
	for name, fc := range doc {
		repos := NewCollectionRepos(fc.Repos...)
		if repos.Len() == 0 {
			continue
		}
		c.collections[name] = repos
	}
	return c, nil
}
