// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package main

import (
	"log/slog"
	"os"

	"github.com/embr-dev/embr/internal/config"
	"github.com/embr-dev/embr/internal/repo"
	"github.com/embr-dev/embr/internal/store"
	embrerr "github.com/embr-dev/embr/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries per-invocation state shared by the subcommands: the
// resolved settings and the cached repository lookup.
type app struct {
	finder   repo.Finder
	settings config.Settings
}

// NewRootCmd creates the root embr command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "embr",
		Short:         "embr — version control for embedding vectors",
		Long:          "embr tracks embedding vectors in a content-addressed store, keeping per-model version history for every source file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().String("dir", "", "repository root (overrides discovery and EB_DIR)")

	root.AddCommand(
		newInitCmd(a),
		newStoreCmd(a),
		newDiffCmd(a),
		newLogCmd(a),
		newShowCmd(a),
		newModelsCmd(a),
		newVerifyCmd(a),
		newVersionCmd(),
	)

	return root
}

// setup resolves environment settings and installs the process logger so
// the standard precedence (flag > env > defaults) is handled uniformly.
func (a *app) setup(cmd *cobra.Command) error {
	v := viper.New()
	config.SetDefaults(v)
	config.SetupEnv(v)
	a.settings = config.FromViper(v)

	if dir, _ := cmd.Root().PersistentFlags().GetString("dir"); dir != "" {
		a.settings.Dir = dir
	}

	config.SetupLogging(cmd.ErrOrStderr(), a.settings.DebugLevel)
	return nil
}

// layout discovers the repository, honoring the --dir / EB_DIR override.
func (a *app) layout() (repo.Layout, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return repo.Layout{}, embrerr.Wrapf(err, embrerr.CodeCLISetupFailure, "resolving working directory")
	}

	layout, err := a.finder.Find(cwd, a.settings.Dir)
	if err != nil {
		return repo.Layout{}, err
	}

	config.WarnLoosePermissions(layout.EmbrDir())
	return layout, nil
}

// openStore opens the store for the discovered repository.
func (a *app) openStore() (*store.Store, error) {
	layout, err := a.layout()
	if err != nil {
		return nil, err
	}
	return store.Open(layout)
}

// defaultModel reads default_model from the repo config. Errors degrade
// to no default rather than failing the command.
func (a *app) defaultModel(layout repo.Layout) string {
	cfg, err := config.LoadRepoConfig(layout.ConfigPath())
	if err != nil {
		slog.Debug("ignoring unreadable repo config", "path", layout.ConfigPath(), "error", err)
		return ""
	}
	return cfg.DefaultModel
}
