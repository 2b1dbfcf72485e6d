// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package main

import (
	"fmt"
	"os"

	"github.com/embr-dev/embr/internal/store"
	"github.com/embr-dev/embr/internal/vector"
	embrerr "github.com/embr-dev/embr/pkg/errors"
	"github.com/spf13/cobra"
)

func newStoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store <embedding_file> <source_file>",
		Short: "Store an embedding for a source file",
		Long:  "Ingest a .npy or .bin embedding file, content-address it, and record it as the latest version for (source file, model).",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(a, cmd, args[0], args[1])
		},
	}

	cmd.Flags().StringP("model", "m", "", "embedding model name")
	cmd.Flags().IntP("dims", "d", 0, "expected vector dimensions")

	return cmd
}

func runStore(a *app, cmd *cobra.Command, embeddingFile, sourceFile string) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}

	payload, err := os.ReadFile(embeddingFile)
	if err != nil {
		return embrerr.Wrapf(err, embrerr.CodeStoreObjectNotFound,
			"reading embedding file %s", embeddingFile)
	}

	isNPY := vector.IsNPY(payload)
	var vec *vector.Vector
	if isNPY {
		vec, err = vector.DecodeNPY(payload)
	} else {
		vec, err = vector.DecodeRaw(payload)
	}
	if err != nil {
		return err
	}
	if err := vec.Validate(); err != nil {
		return err
	}

	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = a.defaultModel(s.Layout())
	}
	if model == "" {
		model = "default"
	}

	dims, _ := cmd.Flags().GetInt("dims")
	if err := checkDims(s, vec, model, dims, isNPY); err != nil {
		return err
	}

	hash, err := s.StoreVector(payload, sourceFile, model)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if a.settings.TestMode {
		_, _ = fmt.Fprintln(out, hash)
		return nil
	}

	_, _ = fmt.Fprintf(out, "Stored %s [%s] -> %s\n", sourceFile, model, hash)
	_, _ = fmt.Fprintf(out, "Dimensions: %d\n", vec.Dimensions)
	return nil
}

// checkDims validates the decoded vector against --dims and, when the
// model is registered, against its descriptor. Raw .bin input carries no
// dimension header, so it must be pinned by one of the two.
func checkDims(s *store.Store, vec *vector.Vector, model string, dims int, isNPY bool) error {
	if dims > 0 && vec.Dimensions != dims {
		return embrerr.Errorf(embrerr.CodeVectorDimensionMismatch,
			"embedding has %d dimensions, --dims requested %d", vec.Dimensions, dims)
	}

	desc, err := s.Registry().Lookup(model)
	switch {
	case err == nil:
		if vec.Dimensions != desc.Dimensions {
			return embrerr.Errorf(embrerr.CodeVectorDimensionMismatch,
				"embedding has %d dimensions, model %s declares %d", vec.Dimensions, model, desc.Dimensions)
		}
	case embrerr.IsNotFound(err):
		if !isNPY && dims == 0 {
			return embrerr.New(embrerr.CodeCLIInputInvalid,
				"--dims is required for raw .bin input when the model is not registered",
				embrerr.FieldModel(model),
			)
		}
	default:
		return err
	}

	return nil
}
