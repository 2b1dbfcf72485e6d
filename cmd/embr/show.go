// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package main

import (
	"fmt"

	"github.com/embr-dev/embr/internal/store"
	embrerr "github.com/embr-dev/embr/pkg/errors"
	"github.com/spf13/cobra"
)

func newShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <hash-prefix|path>",
		Short: "Show a stored embedding's details",
		Long:  "Resolve a hash prefix or tracked source path and print the object's full hash, dimensions, and metadata.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(a, cmd, args[0])
		},
	}

	cmd.Flags().StringP("model", "m", "", "model to resolve a tracked path against")

	return cmd
}

func runShow(a *app, cmd *cobra.Command, input string) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}

	model, _ := cmd.Flags().GetString("model")

	hash, err := resolveShowInput(a, s, input, model)
	if err != nil {
		return err
	}

	vec, err := s.ReadObject(hash)
	if err != nil {
		return err
	}
	meta, extra, err := s.ReadMeta(hash)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Hash: %s\n", hash)
	_, _ = fmt.Fprintf(out, "Dimensions: %d\n", vec.Dimensions)
	_, _ = fmt.Fprintf(out, "Source: %s\n", meta.SourceFile)
	_, _ = fmt.Fprintf(out, "Model: %s\n", meta.Provider)
	_, _ = fmt.Fprintf(out, "Type: %s\n", meta.FileType)
	_, _ = fmt.Fprintf(out, "Stored: %d\n", meta.Timestamp)
	for k, v := range extra {
		_, _ = fmt.Fprintf(out, "%s: %s\n", k, v)
	}
	return nil
}

// resolveShowInput mirrors the loader's resolution order: hex prefix
// first, then tracked source path. An unmatched prefix falls through to
// the path lookup; an ambiguous one does not.
func resolveShowInput(a *app, s *store.Store, input, model string) (string, error) {
	hash, err := s.ResolveHash(input)
	if err == nil {
		return hash, nil
	}
	if embrerr.IsAmbiguous(err) {
		return "", err
	}

	if model == "" {
		model = a.defaultModel(s.Layout())
	}
	if model == "" {
		models, merr := s.ModelsForPath(input)
		if merr != nil {
			return "", merr
		}
		switch len(models) {
		case 0:
			return "", embrerr.New(embrerr.CodeStoreEntryNotFound,
				"no stored embedding for path", embrerr.FieldPath(input))
		case 1:
			model = models[0]
		default:
			return "", embrerr.New(embrerr.CodeStoreModelRequired,
				"multiple models recorded for path; choose one with --model",
				embrerr.FieldPath(input),
				embrerr.FieldModels(models),
			)
		}
	}

	return s.CurrentHash(input, model)
}
