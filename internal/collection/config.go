package collection

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the collection registry document.
//
// On disk it is a TOML file with an optional default-collection key and an
// array of [[collection]] tables. The default may name a collection that
// no longer exists; consumers treat that the same as no default.
type Config struct {
	// DefaultCollection is the collection used when none is specified.
	// Empty means no default.
	DefaultCollection Name `toml:"default-collection,omitempty"`
	// Collections is the registered collection list.
	Collections []Collection `toml:"collection,omitempty"`
}

// Registry builds the registry Set from the document. Duplicate names are
// a load-time error.
func (c Config) Registry() (*Set, error) {
	return NewSet(c.Collections...)
}

// BuildConfig assembles a registry document from a default name and a Set,
// with collections in name order so saved files are deterministic.
func BuildConfig(defaultName Name, set *Set) Config {
	return Config{
		DefaultCollection: defaultName,
		Collections:       set.All(),
	}
}

// EncodeConfig serializes the registry document.
func EncodeConfig(c Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode collections config: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeConfig parses a registry document. Invalid collection names and
// duplicate names are errors; the registry config never self-heals.
func DecodeConfig(data []byte) (Config, error) {
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("decode collections config: %w", err)
	}
	if _, err := c.Registry(); err != nil {
		return Config{}, err
	}
	return c, nil
}
