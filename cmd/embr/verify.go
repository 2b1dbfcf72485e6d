// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package main

import (
	"fmt"

	embrerr "github.com/embr-dev/embr/pkg/errors"
	"github.com/spf13/cobra"
)

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check repository integrity",
		Long:  "Re-hash every stored object and cross-check the latest index against the object store and history log.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVerify(a, cmd)
		},
	}
}

func runVerify(a *app, cmd *cobra.Command) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}

	report, err := s.Verify()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if report.OK() {
		_, _ = fmt.Fprintf(out, "Verified %d objects, no problems found\n", report.Objects)
		return nil
	}

	for _, problem := range report.Problems {
		_, _ = fmt.Fprintln(out, problem)
	}
	return embrerr.Errorf(embrerr.CodeStoreObjectInvalid,
		"verification found %d problems across %d objects", len(report.Problems), report.Objects)
}
