package collection

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateName indicates two registered collections sharing a name.
var ErrDuplicateName = errors.New("duplicate collection name")

// Set is the registry of collections, keyed by name.
//
// Keys are plain strings so lookups work with any query string, even one
// that is not a valid name.
type Set struct {
	byName map[string]Collection
}

// NewSet builds a Set from cols. Duplicate names are an error.
func NewSet(cols ...Collection) (*Set, error) {
	s := &Set{byName: make(map[string]Collection, len(cols))}
	for _, c := range cols {
		if _, ok := s.byName[c.Name.String()]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, c.Name)
		}
		s.byName[c.Name.String()] = c
	}
	return s, nil
}

// Get returns the collection with the given name, if registered.
func (s *Set) Get(name string) (Collection, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// Insert adds or replaces c and reports whether a collection with the same
// name already existed.
func (s *Set) Insert(c Collection) bool {
	_, existed := s.byName[c.Name.String()]
	s.byName[c.Name.String()] = c
	return existed
}

// Remove unregisters the named collection and reports whether it existed.
// Files on disk are never touched.
func (s *Set) Remove(name string) bool {
	_, ok := s.byName[name]
	if ok {
		delete(s.byName, name)
	}
	return ok
}

// Len returns the number of registered collections.
func (s *Set) Len() int { return len(s.byName) }

// All returns the collections sorted by name.
func (s *Set) All() []Collection {
	out := make([]Collection, 0, len(s.byName))
	for _, c := range s.byName {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the registered names in sorted order.
func (s *Set) Names() []Name {
	out := make([]Name, 0, len(s.byName))
	for _, c := range s.byName {
		out = append(out, c.Name)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
