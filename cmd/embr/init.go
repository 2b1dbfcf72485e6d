// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package main

import (
	"fmt"

	"github.com/embr-dev/embr/internal/repo"
	"github.com/spf13/cobra"
)

func newInitCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Initialize an embr repository",
		Long:  "Create the .embr subtree (object store, metadata, index, log) under the given directory, or the current directory by default. Re-running is a no-op.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			layout, err := repo.Init(dir)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Initialized embr repository in %s\n", layout.EmbrDir())
			return nil
		},
	}
}
