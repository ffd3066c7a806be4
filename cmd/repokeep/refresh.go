package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/repokeep/internal/collection"
	"github.com/fyrsmithlabs/repokeep/internal/refresh"
)

var (
	flagRefreshKeepGoing   bool
	flagRefreshVerbose     bool
	flagRefreshCollections []string
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rescan collection directories and rebuild the repository cache",
	Long: `Rescan collection roots for git repositories and rebuild the cache.

A refreshed collection's cached entries are replaced wholesale; collections
not targeted keep their previous entries.

Examples:
  # Refresh every registered collection
  repokeep refresh

  # Refresh two collections, continuing past errors
  repokeep refresh --collections work,oss --keep-going`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().BoolVar(&flagRefreshKeepGoing, "keep-going", false, "record failures and continue; exit non-zero at the end")
	refreshCmd.Flags().BoolVarP(&flagRefreshVerbose, "verbose", "v", false, "print discovered repositories")
	refreshCmd.Flags().StringSliceVarP(&flagRefreshCollections, "collections", "c", nil, "collections to refresh (default: all)")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	names := make([]collection.Name, 0, len(flagRefreshCollections))
	for _, raw := range flagRefreshCollections {
		name, err := collection.ParseName(raw)
		if err != nil {
			return fmt.Errorf("--collections: %w", err)
		}
		names = append(names, name)
	}

	orch := refresh.New(a.ws, a.engine, a.logger.Named("refresh"))
	orch.Stdout = cmd.OutOrStdout()
	return orch.Run(names, refresh.Options{
		KeepGoing: flagRefreshKeepGoing,
		Verbose:   flagRefreshVerbose,
	})
}
