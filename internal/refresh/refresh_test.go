package refresh

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	git "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fyrsmithlabs/repokeep/internal/collection"
	"github.com/fyrsmithlabs/repokeep/internal/vcs"
	"github.com/fyrsmithlabs/repokeep/internal/workspace"
)

// fixture is a workspace rooted in a temp directory with its own engine.
type fixture struct {
	ws    *workspace.Workspace
	paths workspace.Paths
}

func newFixture(t *testing.T, cols ...collection.Collection) *fixture {
	t.Helper()
	base := t.TempDir()
	paths := workspace.Paths{
		Home:      filepath.Join(base, "home"),
		ConfigDir: filepath.Join(base, "config"),
		CacheDir:  filepath.Join(base, "cache"),
	}
	require.NoError(t, os.MkdirAll(paths.Home, 0o755))

	ws, err := workspace.Open(paths, zaptest.NewLogger(t))
	require.NoError(t, err)
	for _, c := range cols {
		ws.Registry().Insert(c)
	}
	return &fixture{ws: ws, paths: paths}
}

func (f *fixture) orchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	o := New(f.ws, vcs.NewGitEngine(nil), zaptest.NewLogger(t))
	o.Stdout = &bytes.Buffer{}
	return o
}

// initRepo creates a non-bare repository under the fixture home.
func initRepo(t *testing.T, dir string) {
	t.Helper()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)
}

func TestRunBuildsRelativeEntries(t *testing.T) {
	f := newFixture(t, collection.Collection{Name: "work", Path: "work"})
	root := filepath.Join(f.paths.Home, "work")
	initRepo(t, filepath.Join(root, "team", "app"))

	require.NoError(t, f.orchestrator(t).Run(nil, Options{}))

	c, err := f.ws.Cache()
	require.NoError(t, err)
	repos, ok := c.Collection("work")
	require.True(t, ok)
	require.Equal(t, 1, repos.Len())

	entry := repos.Entries()[0]
	assert.Equal(t, "team/app/.git", entry.Path)
	assert.Equal(t, vcs.KindGit, entry.VCS)

	// Joining the relative entry back under the root reproduces the
	// discovered absolute path.
	joined := filepath.Join(root, filepath.FromSlash(entry.Path))
	_, statErr := os.Stat(joined)
	assert.NoError(t, statErr)
}

func TestRunIdempotent(t *testing.T) {
	f := newFixture(t, collection.Collection{Name: "work", Path: "work"})
	initRepo(t, filepath.Join(f.paths.Home, "work", "app"))
	initRepo(t, filepath.Join(f.paths.Home, "work", "lib"))

	require.NoError(t, f.orchestrator(t).Run(nil, Options{}))
	first, err := os.ReadFile(f.ws.CachePath())
	require.NoError(t, err)

	require.NoError(t, f.orchestrator(t).Run(nil, Options{}))
	second, err := os.ReadFile(f.ws.CachePath())
	require.NoError(t, err)

	assert.Equal(t, first, second, "refreshing an unchanged filesystem must be byte-identical")
}

func TestRunRootAbsentEmptiesCollection(t *testing.T) {
	f := newFixture(t, collection.Collection{Name: "gone", Path: "never-created"})

	require.NoError(t, f.orchestrator(t).Run(nil, Options{}))

	c, err := f.ws.Cache()
	require.NoError(t, err)
	repos, ok := c.Collection("gone")
	require.True(t, ok, "an absent root still gets an (empty) cache entry")
	assert.Equal(t, 0, repos.Len())
}

func TestRunUnknownCollectionAborts(t *testing.T) {
	f := newFixture(t, collection.Collection{Name: "work", Path: "work"})
	initRepo(t, filepath.Join(f.paths.Home, "work", "app"))

	err := f.orchestrator(t).Run([]collection.Name{"ghost", "work"}, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCollectionNotFound)

	// Abort means no persistence at all, not even for collections that
	// would have succeeded.
	_, statErr := os.Stat(f.ws.CachePath())
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunKeepGoingPartialFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	f := newFixture(t,
		collection.Collection{Name: "alpha", Path: "alpha"},
		collection.Collection{Name: "broken", Path: "broken"},
		collection.Collection{Name: "omega", Path: "omega"},
	)
	initRepo(t, filepath.Join(f.paths.Home, "alpha", "app"))
	initRepo(t, filepath.Join(f.paths.Home, "omega", "lib"))
	require.NoError(t, os.Symlink(filepath.Join(f.paths.Home, "nowhere"), filepath.Join(f.paths.Home, "broken")))

	err := f.orchestrator(t).Run(nil, Options{KeepGoing: true})
	require.Error(t, err)

	var agg *AggregateError
	require.True(t, errors.As(err, &agg))
	assert.Equal(t, []collection.Name{"broken"}, agg.Names, "only the broken collection is reported")

	// Persistence still happened, best effort: the healthy collections
	// carry their entries, the broken one was emptied.
	c, cerr := f.ws.Cache()
	require.NoError(t, cerr)
	for name, wantLen := range map[string]int{"alpha": 1, "broken": 0, "omega": 1} {
		repos, ok := c.Collection(name)
		require.True(t, ok, "collection %s should have a cache entry", name)
		assert.Equal(t, wantLen, repos.Len(), "collection %s", name)
	}

	_, statErr := os.Stat(f.ws.CachePath())
	assert.NoError(t, statErr, "cache must be persisted despite the failure")
}

func TestRunBrokenRootAbortsWithoutKeepGoing(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	f := newFixture(t,
		collection.Collection{Name: "broken", Path: "broken"},
		collection.Collection{Name: "work", Path: "work"},
	)
	initRepo(t, filepath.Join(f.paths.Home, "work", "app"))
	require.NoError(t, os.Symlink(filepath.Join(f.paths.Home, "nowhere"), filepath.Join(f.paths.Home, "broken")))

	err := f.orchestrator(t).Run(nil, Options{})
	require.Error(t, err)

	_, statErr := os.Stat(f.ws.CachePath())
	assert.True(t, os.IsNotExist(statErr), "abort must not persist anything")
}

func TestRunReplacesStaleEntries(t *testing.T) {
	f := newFixture(t, collection.Collection{Name: "work", Path: "work"})
	appDir := filepath.Join(f.paths.Home, "work", "app")
	initRepo(t, appDir)

	require.NoError(t, f.orchestrator(t).Run(nil, Options{}))

	// The repository disappears; a refresh replaces rather than merges.
	require.NoError(t, os.RemoveAll(appDir))
	initRepo(t, filepath.Join(f.paths.Home, "work", "newapp"))

	require.NoError(t, f.orchestrator(t).Run(nil, Options{}))

	c, err := f.ws.Cache()
	require.NoError(t, err)
	repos, ok := c.Collection("work")
	require.True(t, ok)
	require.Equal(t, 1, repos.Len())
	assert.Equal(t, "newapp/.git", repos.Entries()[0].Path)
}

func TestRunUntargetedCollectionsKeepEntries(t *testing.T) {
	f := newFixture(t,
		collection.Collection{Name: "one", Path: "one"},
		collection.Collection{Name: "two", Path: "two"},
	)
	initRepo(t, filepath.Join(f.paths.Home, "one", "a"))
	initRepo(t, filepath.Join(f.paths.Home, "two", "b"))

	require.NoError(t, f.orchestrator(t).Run(nil, Options{}))

	// Only "one" is targeted; "two" loses its repository on disk but must
	// keep its cached entry.
	require.NoError(t, os.RemoveAll(filepath.Join(f.paths.Home, "two", "b")))
	require.NoError(t, f.orchestrator(t).Run([]collection.Name{"one"}, Options{}))

	c, err := f.ws.Cache()
	require.NoError(t, err)
	repos, ok := c.Collection("two")
	require.True(t, ok)
	assert.Equal(t, 1, repos.Len(), "untargeted collection keeps its snapshot")
}

func TestRunVerboseReportsDiscoveries(t *testing.T) {
	f := newFixture(t, collection.Collection{Name: "work", Path: "work"})
	initRepo(t, filepath.Join(f.paths.Home, "work", "app"))

	o := f.orchestrator(t)
	var out bytes.Buffer
	o.Stdout = &out
	require.NoError(t, o.Run(nil, Options{Verbose: true}))

	assert.Contains(t, out.String(), "Found git repository")
}
