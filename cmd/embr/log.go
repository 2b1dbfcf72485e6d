// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/embr-dev/embr/internal/store"
	"github.com/spf13/cobra"
)

var (
	modelHeaderStyle = lipgloss.NewStyle().Bold(true)
	currentStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func newLogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log <path>",
		Short: "Show the version history for a source file",
		Long:  "List stored embedding versions for a tracked source file, grouped by model, newest first. The entry matching the latest index is marked as current.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(a, cmd, args[0])
		},
	}

	cmd.Flags().StringP("model", "m", "", "show only this model's history")
	cmd.Flags().IntP("limit", "n", 0, "maximum entries per model (0 = all)")
	cmd.Flags().BoolP("verbose", "v", false, "include each version's metadata")

	return cmd
}

func runLog(a *app, cmd *cobra.Command, path string) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}

	model, _ := cmd.Flags().GetString("model")
	limit, _ := cmd.Flags().GetInt("limit")
	verbose, _ := cmd.Flags().GetBool("verbose")

	chains, err := s.Log(path, store.LogOptions{Model: model, Limit: limit, Verbose: verbose})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "History for %s\n", path)

	for _, chain := range chains {
		_, _ = fmt.Fprintf(out, "\n%s\n", modelHeaderStyle.Render("Model "+chain.Model))
		for _, entry := range chain.Entries {
			renderLogEntry(out, entry, verbose)
		}
	}
	return nil
}

func renderLogEntry(out io.Writer, entry store.LogEntry, verbose bool) {
	when := time.Unix(entry.Event.Timestamp, 0).UTC().Format("2006-01-02 15:04:05")

	marker := " "
	suffix := ""
	if entry.Current {
		marker = currentStyle.Render("*")
		suffix = "  " + currentStyle.Render("(current)")
	}

	_, _ = fmt.Fprintf(out, "  %s %s  %s%s\n", marker, shortHash(entry.Event.Hash), when, suffix)

	if verbose && entry.Meta != nil {
		_, _ = fmt.Fprintf(out, "      source_file=%s\n", entry.Meta.SourceFile)
		_, _ = fmt.Fprintf(out, "      file_type=%s\n", entry.Meta.FileType)
		_, _ = fmt.Fprintf(out, "      provider=%s\n", entry.Meta.Provider)
		_, _ = fmt.Fprintf(out, "      timestamp=%d\n", entry.Meta.Timestamp)
	}
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
