// Package main implements the repokeep CLI.
//
// repokeep maintains an index of git repositories grouped into
// user-defined collections, so that listing and navigating repositories
// never requires rescanning disks.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/repokeep/internal/config"
	"github.com/fyrsmithlabs/repokeep/internal/logging"
	"github.com/fyrsmithlabs/repokeep/internal/vcs"
	"github.com/fyrsmithlabs/repokeep/internal/workspace"
)

var (
	flagSettings  string
	flagLogLevel  string
	flagLogFormat string

	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "repokeep",
	Short: "Index git repositories across collection directories",
	Long: `repokeep maintains an index of git repositories scattered across
user-defined directory groups ("collections"). The index is a cache:
refresh it explicitly with "repokeep refresh", then list or clone without
rescanning disks.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSettings, "settings", "", "settings file (default: <user config dir>/repokeep/settings.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "override log format (console, json)")
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(cloneCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(collectionCmd)
}

// app bundles the wiring shared by every subcommand.
type app struct {
	logger *zap.Logger
	ws     *workspace.Workspace
	engine *vcs.GitEngine
}

// newApp loads settings, builds the logger, and opens the workspace.
func newApp() (*app, error) {
	settingsPath := flagSettings
	if settingsPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		settingsPath = p
	}
	cfg, err := config.Load(settingsPath)
	if err != nil {
		return nil, err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.Log.Format = flagLogFormat
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	paths, err := workspace.DefaultPaths()
	if err != nil {
		return nil, err
	}
	if cfg.Paths.ConfigDir != "" {
		paths.ConfigDir = cfg.Paths.ConfigDir
	}
	if cfg.Paths.CacheDir != "" {
		paths.CacheDir = cfg.Paths.CacheDir
	}

	ws, err := workspace.Open(paths, logger.Named("workspace"))
	if err != nil {
		return nil, err
	}

	return &app{
		logger: logger,
		ws:     ws,
		engine: vcs.NewGitEngine(logger.Named("git")),
	}, nil
}

// close flushes buffered log output.
func (a *app) close() {
	_ = a.logger.Sync()
}
