// Package collection models named groups of repositories.
//
// A collection is conceptually a set of repositories and concretely a
// directory: every repository that lives under the collection's root path
// belongs to it. Collections are registered in the config file and only
// mutated through explicit operations.
package collection

import (
	"errors"
	"fmt"
)

// ErrInvalidName indicates a string that cannot be used as a collection
// name.
var ErrInvalidName = errors.New("invalid collection name")

// Name is a validated collection name.
//
// A name is non-empty, consists of ASCII alphanumerics, '_' and '-', and
// does not start with '-' (so names never parse as command-line flags).
type Name string

// ParseName validates s as a collection name.
func ParseName(s string) (Name, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if s[0] == '-' {
		return "", fmt.Errorf("%w: %q starts with '-'", ErrInvalidName, s)
	}
	for _, c := range s {
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-' {
			continue
		}
		return "", fmt.Errorf("%w: %q contains %q", ErrInvalidName, s, c)
	}
	return Name(s), nil
}

// String returns the name as a plain string.
func (n Name) String() string { return string(n) }

// MarshalText implements encoding.TextMarshaler.
func (n Name) MarshalText() ([]byte, error) {
	return []byte(n), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, validating names as
// they decode from config documents.
func (n *Name) UnmarshalText(text []byte) error {
	parsed, err := ParseName(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
