package vcs

import (
	"errors"
	"testing"
)

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("git")
	if err != nil {
		t.Fatalf("ParseKind(git) error = %v", err)
	}
	if kind != KindGit {
		t.Errorf("ParseKind(git) = %v, want KindGit", kind)
	}

	for _, s := range []string{"", "Git", "GIT", "svn"} {
		if _, err := ParseKind(s); !errors.Is(err, ErrUnknownKind) {
			t.Errorf("ParseKind(%q) error = %v, want ErrUnknownKind", s, err)
		}
	}
}

func TestKindTextRoundTrip(t *testing.T) {
	for _, kind := range Kinds() {
		text, err := kind.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error = %v", kind, err)
		}
		var back Kind
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", text, err)
		}
		if back != kind {
			t.Errorf("round trip of %v = %v", kind, back)
		}
	}
}
