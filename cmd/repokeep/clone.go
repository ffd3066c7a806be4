package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/repokeep/internal/cache"
	"github.com/fyrsmithlabs/repokeep/internal/collection"
	"github.com/fyrsmithlabs/repokeep/internal/vcs"
)

var (
	flagCloneCollection string
	flagCloneVCS        string
	flagCloneBare       bool
)

var cloneCmd = &cobra.Command{
	Use:   "clone <uri>",
	Short: "Clone a repository into a collection and register it",
	Long: `Clone a repository into a collection directory.

The destination inside the collection is derived from the URI host and
path, so clones from the same host line up under one subtree:

  repokeep clone https://example.com/team/repo.git
  # clones into <collection root>/example.com/team/repo

If --collection is not given, the configured default collection is used.`,
	Args: cobra.ExactArgs(1),
	RunE: runClone,
}

func init() {
	cloneCmd.Flags().StringVarP(&flagCloneCollection, "collection", "c", "", "collection to clone into (default: the default collection)")
	cloneCmd.Flags().StringVar(&flagCloneVCS, "vcs", "", "VCS to use (git); detected from the URI when omitted")
	cloneCmd.Flags().BoolVar(&flagCloneBare, "bare", false, "clone a bare repository")
}

func runClone(cmd *cobra.Command, args []string) error {
	uri := args[0]

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	col, err := targetCollection(a)
	if err != nil {
		return err
	}

	kind, err := cloneKind(uri)
	if err != nil {
		return err
	}
	a.logger.Debug("resolved VCS kind", zap.String("vcs", kind.String()))

	relDest, err := vcs.DestinationPath(uri, flagCloneBare)
	if err != nil {
		return fmt.Errorf("determine clone destination: %w", err)
	}

	root := a.ws.AbsCollectionPath(col)
	absDest := filepath.Join(root, filepath.FromSlash(relDest))
	a.logger.Debug("cloning",
		zap.String("uri", uri),
		zap.String("dest", absDest),
		zap.Bool("bare", flagCloneBare))

	if err := a.engine.Clone(cmd.Context(), uri, absDest, flagCloneBare); err != nil {
		return fmt.Errorf("clone %s into %s: %w", uri, absDest, err)
	}

	// Register the clone in the cache, but only when the collection has a
	// cached entry set already; a collection that was never refreshed
	// stays un-cached until an explicit refresh.
	c, err := a.ws.Cache()
	if err != nil {
		return err
	}
	if repos, ok := c.Collection(col.Name.String()); ok {
		repos.Insert(cache.Entry{Path: relDest, VCS: kind})
		if err := a.ws.SaveCache(c); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Cloned %s into %s\n", uri, absDest)
	return nil
}

// targetCollection picks the collection from --collection or the
// configured default.
func targetCollection(a *app) (collection.Collection, error) {
	if flagCloneCollection != "" {
		col, ok := a.ws.Registry().Get(flagCloneCollection)
		if !ok {
			return collection.Collection{}, fmt.Errorf("collection %q not found", flagCloneCollection)
		}
		return col, nil
	}
	if col, ok := a.ws.DefaultCollection(); ok {
		return col, nil
	}
	return collection.Collection{}, fmt.Errorf("no target collection specified and no default collection configured")
}

// cloneKind resolves the VCS kind from --vcs or the URI shape.
func cloneKind(uri string) (vcs.Kind, error) {
	if flagCloneVCS != "" {
		kind, err := vcs.ParseKind(flagCloneVCS)
		if err != nil {
			return 0, fmt.Errorf("--vcs: %w", err)
		}
		return kind, nil
	}
	kind, ok := vcs.DetectKind(uri)
	if !ok {
		return 0, fmt.Errorf("cannot detect VCS for %q; specify --vcs", uri)
	}
	return kind, nil
}
