// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/embr-dev/embr/internal/registry"
	embrerr "github.com/embr-dev/embr/pkg/errors"
	"github.com/spf13/cobra"
)

func newModelsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage the model registry",
		Long:  "List or register embedding model descriptors in the repository's model registry.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runModelsList(a, cmd)
		},
	}

	cmd.AddCommand(
		newModelsListCmd(a),
		newModelsRegisterCmd(a),
	)

	return cmd
}

func newModelsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runModelsList(a, cmd)
		},
	}
}

func runModelsList(a *app, cmd *cobra.Command) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}

	models, err := s.Registry().List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(models) == 0 {
		_, _ = fmt.Fprintln(out, "No models registered")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tDIMENSIONS\tNORMALIZE\tVERSION\tDESCRIPTION")
	for _, m := range models {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%t\t%s\t%s\n",
			m.Name, m.Dimensions, m.Normalize, m.Version, m.Description)
	}
	return tw.Flush()
}

func newModelsRegisterCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <name> <dimensions>",
		Short: "Register a model descriptor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModelsRegister(a, cmd, args[0], args[1])
		},
	}

	cmd.Flags().Bool("normalize", false, "vectors from this model are unit-normalized")
	cmd.Flags().String("version", "", "model version label")
	cmd.Flags().String("description", "", "free-form description")

	return cmd
}

func runModelsRegister(a *app, cmd *cobra.Command, name, dimsArg string) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}

	dims, err := strconv.Atoi(dimsArg)
	if err != nil {
		return embrerr.Errorf(embrerr.CodeCLIInputInvalid, "dimensions must be an integer, got %q", dimsArg)
	}

	normalize, _ := cmd.Flags().GetBool("normalize")
	version, _ := cmd.Flags().GetString("version")
	description, _ := cmd.Flags().GetString("description")

	desc := registry.Descriptor{
		Name:        name,
		Dimensions:  dims,
		Normalize:   normalize,
		Version:     version,
		Description: description,
	}
	if err := s.Registry().Register(desc); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Registered model %s (%d dimensions)\n", name, dims)
	return nil
}
