// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/embr-dev/embr/internal/compare"
	embrerr "github.com/embr-dev/embr/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	similarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	middlingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	differentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func newDiffCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <input1> <input2>",
		Short: "Compare two embeddings",
		Long:  "Compare two embeddings by hash prefix, embedding file, or tracked source path, printing cosine similarity, Euclidean distance, and Euclidean similarity.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(a, cmd, args[0], args[1])
		},
	}

	cmd.Flags().StringP("model", "m", "", "model for both inputs")
	cmd.Flags().String("models", "", "comma-separated model pair, one per input")
	cmd.Flags().IntP("k", "k", 10, "neighborhood size for the preservation score")
	cmd.Flags().Bool("no-neighborhood", false, "skip the neighborhood preservation score")

	return cmd
}

func runDiff(a *app, cmd *cobra.Command, input1, input2 string) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}

	model1, model2, err := diffModels(a, cmd)
	if err != nil {
		return err
	}

	va, err := s.Load(input1, model1)
	if err != nil {
		return err
	}
	vb, err := s.Load(input2, model2)
	if err != nil {
		return err
	}

	opts := compare.Options{}
	if skip, _ := cmd.Flags().GetBool("no-neighborhood"); !skip {
		k, _ := cmd.Flags().GetInt("k")
		if k <= 0 {
			return embrerr.Errorf(embrerr.CodeCLIInputInvalid, "--k must be positive, got %d", k)
		}
		opts.NeighborhoodKs = []int{k}
	}

	res, err := compare.Compare(va, vb, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if a.settings.TestMode {
		_, _ = fmt.Fprintf(out, "%.6f,%.6f,%.6f\n",
			res.CosineSimilarity, res.EuclideanDistance, res.EuclideanSimilarity)
		return nil
	}

	_, _ = fmt.Fprintf(out, "Cosine similarity: %.6f\n", res.CosineSimilarity)
	_, _ = fmt.Fprintf(out, "Euclidean distance: %.6f\n", res.EuclideanDistance)
	_, _ = fmt.Fprintf(out, "Euclidean similarity: %.6f\n", res.EuclideanSimilarity)
	if len(res.NeighborhoodScores) > 0 {
		_, _ = fmt.Fprintf(out, "Neighborhood preservation: %.6f\n", res.SemanticPreservation)
	}
	if res.Method == compare.MethodProjection {
		_, _ = fmt.Fprintln(out, "Note: dimensions differ; compared on a truncated projection")
	}
	_, _ = fmt.Fprintln(out, interpretationLine(res.CosineSimilarity))
	return nil
}

// diffModels resolves the per-input models from --models, --model, or the
// repo default, in that order.
func diffModels(a *app, cmd *cobra.Command) (string, string, error) {
	if pair, _ := cmd.Flags().GetString("models"); pair != "" {
		parts := strings.Split(pair, ",")
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			return "", "", embrerr.New(embrerr.CodeCLIInputInvalid,
				"--models expects exactly two comma-separated names",
				embrerr.Field("models", pair),
			)
		}
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
	}

	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		layout, err := a.layout()
		if err != nil {
			return "", "", err
		}
		model = a.defaultModel(layout)
	}
	return model, model, nil
}

func interpretationLine(cos float64) string {
	text := compare.Interpret(cos)
	switch {
	case cos > 0.85:
		return similarStyle.Render(text)
	case cos > 0.50:
		return middlingStyle.Render(text)
	default:
		return differentStyle.Render(text)
	}
}
