package vcs

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrLocalPath indicates a URI that git treats as a local filesystem path,
// for which no host-based clone destination can be derived.
var ErrLocalPath = errors.New("URI is a local path")

// DestinationPath maps a remote repository URI to the relative directory
// the clone should land in, mirroring how git classifies clone URLs.
//
// Two shapes are supported:
//
//   - scp-like syntax "[user@]host:path" yields "host/path". A leading
//     "git@" user is dropped, and a leading "/" on the path part is
//     treated as relative ("host:/a/b" yields "host/a/b").
//   - URL syntax "scheme://[user@]host[:port]/path" yields
//     "host[:port]/path" with only a leading "git@" user stripped.
//
// Unless bare, a single trailing ".git" suffix is removed first
// ("repo.git.git" becomes "repo.git", not "repo"). URIs without a colon,
// or with a slash before the first colon, are local paths and yield
// ErrLocalPath. The result is always a relative slash-separated path, so
// it can be joined under a collection root without escaping it.
func DestinationPath(uri string, bare bool) (string, error) {
	trimmed := uri
	if !bare {
		trimmed = strings.TrimSuffix(trimmed, ".git")
	}

	colon := strings.Index(trimmed, ":")
	if colon < 0 {
		return "", fmt.Errorf("%w: %q", ErrLocalPath, uri)
	}
	if strings.Contains(trimmed[:colon], "/") {
		// Git only recognizes the scp-like syntax when there are no
		// slashes before the first colon; otherwise the URI is a local
		// path.
		return "", fmt.Errorf("%w: %q", ErrLocalPath, uri)
	}

	rest := trimmed[colon+1:]
	if !strings.HasPrefix(rest, "//") {
		// scp-like syntax. The "git" user carries no distinguishing
		// information, so it does not become a path component.
		userHost := strings.TrimPrefix(trimmed[:colon], "git@")
		repoPath := strings.TrimLeft(rest, "/")
		return path.Join(userHost, repoPath), nil
	}

	// URL syntax. Keep the port (if any) embedded in the first component;
	// only the generic "git@" user-info prefix is stripped.
	hostAndPath := strings.TrimPrefix(rest[2:], "git@")
	dest := path.Clean(hostAndPath)
	if dest == "." || dest == "/" || strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "..") {
		return "", fmt.Errorf("%w: %q", ErrLocalPath, uri)
	}
	return dest, nil
}

// DetectKind guesses the VCS kind from a repository URI without any I/O.
//
// Recognized git markers: a ".git" suffix, a "git://" scheme, or a URL
// hostname (user-info and port stripped) starting with "git". The second
// return is false when no kind could be determined; callers should then
// require an explicit choice.
func DetectKind(uri string) (Kind, bool) {
	if strings.HasSuffix(uri, ".git") {
		return KindGit, true
	}
	if strings.HasPrefix(uri, "git://") {
		return KindGit, true
	}

	schemeEnd := strings.Index(uri, "://")
	if schemeEnd < 0 {
		return 0, false
	}
	authority := uri[schemeEnd+3:]
	if slash := strings.Index(authority, "/"); slash >= 0 {
		authority = authority[:slash]
	} else {
		return 0, false
	}

	// authority: [ user [ ':' pass ] '@' ] hostname [ ':' port ]
	hostname := authority
	if at := strings.LastIndex(hostname, "@"); at >= 0 {
		hostname = hostname[at+1:]
	}
	if colon := strings.LastIndex(hostname, ":"); colon >= 0 {
		hostname = hostname[:colon]
	}

	if strings.HasPrefix(hostname, "git") {
		return KindGit, true
	}
	return 0, false
}
