package collection

import "path/filepath"

// Collection is a named directory group of repositories.
type Collection struct {
	// Name uniquely identifies the collection.
	Name Name `toml:"name"`
	// Path is the collection's root directory. A relative path is
	// resolved against the user's home directory at use time.
	Path string `toml:"path"`
}

// AbsPath returns the collection's root as an absolute path, resolving a
// relative Path against home.
func (c Collection) AbsPath(home string) string {
	if filepath.IsAbs(c.Path) {
		return filepath.Clean(c.Path)
	}
	return filepath.Join(home, c.Path)
}
