package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/repokeep/internal/vcs"
)

func TestCollectionReposSortedUnique(t *testing.T) {
	repos := NewCollectionRepos(
		Entry{Path: "b/repo.git", VCS: vcs.KindGit},
		Entry{Path: "a/repo/.git", VCS: vcs.KindGit},
		Entry{Path: "c/repo/.git", VCS: vcs.KindGit},
	)

	var paths []string
	for _, e := range repos.Entries() {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{"a/repo/.git", "b/repo.git", "c/repo/.git"}, paths)
}

// Entry identity is the path alone: the same path inserted twice occupies
// one slot, and the stored VCS is whatever was inserted last. This pins
// the dedup rule on which cache merging relies.
func TestCollectionReposDedupByPathOnly(t *testing.T) {
	repos := NewCollectionRepos()
	repos.Insert(Entry{Path: "a", VCS: vcs.KindGit})
	repos.Insert(Entry{Path: "a", VCS: vcs.KindGit})

	require.Equal(t, 1, repos.Len())
	assert.Equal(t, Entry{Path: "a", VCS: vcs.KindGit}, repos.Entries()[0])
}

func TestCacheReplaceAndRemove(t *testing.T) {
	c := New()

	old := c.Replace("work", NewCollectionRepos(Entry{Path: "a/.git", VCS: vcs.KindGit}))
	assert.Nil(t, old)

	replacement := NewCollectionRepos(Entry{Path: "b/.git", VCS: vcs.KindGit})
	old = c.Replace("work", replacement)
	require.NotNil(t, old)
	assert.Equal(t, "a/.git", old.Entries()[0].Path)

	got, ok := c.Collection("work")
	require.True(t, ok)
	assert.Equal(t, "b/.git", got.Entries()[0].Path)

	removed := c.Remove("work")
	require.NotNil(t, removed)
	_, ok = c.Collection("work")
	assert.False(t, ok)
	assert.Nil(t, c.Remove("work"))
}

func TestEncodeDeterministic(t *testing.T) {
	build := func() *Cache {
		c := New()
		c.Replace("zz", NewCollectionRepos(
			Entry{Path: "x/.git", VCS: vcs.KindGit},
			Entry{Path: "a/.git", VCS: vcs.KindGit},
		))
		c.Replace("aa", NewCollectionRepos(Entry{Path: "m.git", VCS: vcs.KindGit}))
		return c
	}

	first, err := build().Encode()
	require.NoError(t, err)
	second, err := build().Encode()
	require.NoError(t, err)
	assert.Equal(t, first, second, "encoding must be byte-identical across runs")
}

func TestEncodeOmitsEmptyCollections(t *testing.T) {
	c := New()
	c.Replace("empty", NewCollectionRepos())
	c.Replace("full", NewCollectionRepos(Entry{Path: "r/.git", VCS: vcs.KindGit}))

	data, err := c.Encode()
	require.NoError(t, err)

	back, err := Decode(data)
	require.NoError(t, err)
	_, ok := back.Collection("empty")
	assert.False(t, ok, "empty collections are omitted from serialization")
	_, ok = back.Collection("full")
	assert.True(t, ok)
}

func TestDecodeRoundTrip(t *testing.T) {
	c := New()
	c.Replace("work", NewCollectionRepos(
		Entry{Path: "example.com/team/app/.git", VCS: vcs.KindGit},
		Entry{Path: "example.com/team/lib.git", VCS: vcs.KindGit},
	))

	data, err := c.Encode()
	require.NoError(t, err)

	back, err := Decode(data)
	require.NoError(t, err)
	got, ok := back.Collection("work")
	require.True(t, ok)
	assert.Equal(t, c.collections["work"].Entries(), got.Entries())
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte("this is not { toml"))
	assert.Error(t, err)
}

func TestDecodeEmpty(t *testing.T) {
	c, err := Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, c.Names())
}
