// Copyright 2026 The Unifier Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/unifier-chat/unifier-install/cmd/unifier-install/cli"
	"github.com/unifier-chat/unifier-install/lib/config"
)

// checkoutParams are the flags that locate a bot checkout.
type checkoutParams struct {
	Dir        string
	ConfigPath string
	EnvFile    string
	Verbose    bool
}

func (p *checkoutParams) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&p.Dir, "dir", "", "bot checkout directory (default: paths.root from the installer config, or .)")
	flagSet.StringVar(&p.ConfigPath, "config", "", "installer config file (default: $"+config.EnvVar+")")
	flagSet.StringVar(&p.EnvFile, "env-file", "", "KEY=value file loaded into the environment without overriding it (default: paths.env_file, .env)")
	flagSet.BoolVarP(&p.Verbose, "verbose", "v", false, "log debug detail to stderr")
}

// load reads the installer config, applies the flags, and loads the
// env file.
func (p *checkoutParams) load(logger *slog.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if p.ConfigPath != "" {
		cfg, err = config.LoadFile(p.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, cli.NotFound("installer config: %w", err)
	}
	if err != nil {
		return nil, cli.Validation("installer config: %w", err)
	}

	if p.Dir != "" {
		cfg.Paths.Root = p.Dir
	}
	root, err := filepath.Abs(cfg.Paths.Root)
	if err != nil {
		return nil, cli.Internal("resolving %s: %w", cfg.Paths.Root, err)
	}
	cfg.Paths.Root = root
	if p.EnvFile != "" {
		cfg.Paths.EnvFile = p.EnvFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("installer config: %w", err)
	}

	if err := loadEnvFile(cfg.Path(cfg.Paths.EnvFile), p.EnvFile != "", logger); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFile loads KEY=value pairs into the process environment.
// Variables already set win. A missing file is only an error when it
// was named explicitly.
func loadEnvFile(path string, explicit bool, logger *slog.Logger) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return cli.NotFound("env file %s does not exist", path)
		}
		logger.Debug("no env file", "path", path)
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return cli.Validation("loading env file %s: %w", path, err)
	}
	logger.Debug("env file loaded", "path", path)
	return nil
}
