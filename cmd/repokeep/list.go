package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/repokeep/internal/collection"
)

var (
	flagListCollections []string
	flagListWorkdir     bool
	flagListNull        bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached repository paths without rescanning disks",
	Long: `Print the cached repository paths for all or selected collections.

The output reflects the cache as of the last refresh; run
"repokeep refresh" first if the filesystem changed.

Examples:
  # All cached repositories
  repokeep list

  # Working-tree paths of one collection, NUL separated for xargs -0
  repokeep list -c work --workdir --null`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringSliceVarP(&flagListCollections, "collections", "c", nil, "collections to list (default: all)")
	listCmd.Flags().BoolVar(&flagListWorkdir, "workdir", false, "print working-tree directories instead of git directories")
	listCmd.Flags().BoolVarP(&flagListNull, "null", "0", false, "separate entries with NUL instead of newline")
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	var targets []collection.Collection
	if len(flagListCollections) == 0 {
		targets = a.ws.Registry().All()
	} else {
		for _, name := range flagListCollections {
			col, ok := a.ws.Registry().Get(name)
			if !ok {
				return fmt.Errorf("collection %q not found", name)
			}
			targets = append(targets, col)
		}
	}

	c, err := a.ws.Cache()
	if err != nil {
		return err
	}

	sep := "\n"
	if flagListNull {
		sep = "\x00"
	}

	out := cmd.OutOrStdout()
	for _, col := range targets {
		repos, ok := c.Collection(col.Name.String())
		if !ok {
			// Known collection without a cache entry: nothing to print.
			continue
		}
		root := a.ws.AbsCollectionPath(col)
		for _, entry := range repos.Entries() {
			p := filepath.Join(root, filepath.FromSlash(entry.Path))
			if flagListWorkdir && filepath.Base(p) == ".git" {
				p = filepath.Dir(p)
			}
			fmt.Fprint(out, p, sep)
		}
	}
	return nil
}
