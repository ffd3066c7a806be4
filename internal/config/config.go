// Package config loads app-level settings for the repokeep CLI.
//
// Settings layer, highest precedence first: REPOKEEP_* environment
// variables, the YAML settings file, then hardcoded defaults. These are
// runtime knobs only (logging, directory overrides); the collection
// registry itself is a separate TOML document owned by the workspace.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the environment variables read by Load.
const envPrefix = "REPOKEEP_"

// Config is the app settings document.
type Config struct {
	Log   LogConfig   `koanf:"log"`
	Paths PathsConfig `koanf:"paths"`
}

// LogConfig selects logger behavior.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `koanf:"level"`
	// Format is "console" or "json".
	Format string `koanf:"format"`
}

// PathsConfig overrides the workspace directory locations. Empty values
// fall back to the platform defaults.
type PathsConfig struct {
	ConfigDir string `koanf:"config_dir"`
	CacheDir  string `koanf:"cache_dir"`
}

// DefaultPath returns the default settings file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(dir, "repokeep", "settings.yaml"), nil
}

// Load reads settings from the YAML file at path (skipped when the file
// does not exist), overlays REPOKEEP_* environment variables, and applies
// defaults.
//
// Environment variables map section_field to section.field:
//
//	REPOKEEP_LOG_LEVEL  -> log.level
//	REPOKEEP_LOG_FORMAT -> log.format
//	REPOKEEP_PATHS_CACHE_DIR -> paths.cache_dir
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load settings file %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Settings file is optional.
		default:
			return nil, fmt.Errorf("read settings file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		// REPOKEEP_LOG_LEVEL -> log.level: split on the first underscore
		// only, keeping underscores inside the field name.
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in unset values.
func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}

// Validate rejects settings the logger would refuse later anyway, so the
// failure happens at load time with a file-oriented message.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log.format %q", c.Log.Format)
	}
	return nil
}
