// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/embr-dev/embr/internal/config"
	"github.com/embr-dev/embr/internal/repo"
	"github.com/embr-dev/embr/internal/vector"
	"github.com/stretchr/testify/require"
)

// initRepo creates an initialized repository in a temp dir and points
// EB_DIR at it, with the other recognized variables cleared.
func initRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	_, err := repo.Init(dir)
	require.NoError(t, err)

	t.Setenv(config.EnvDir, dir)
	t.Setenv(config.EnvDebug, "")
	t.Setenv(config.EnvDebugAlias, "")
	t.Setenv(config.EnvDebugLevel, "")
	t.Setenv(config.EnvTestMode, "")
	return dir
}

// runCLI executes a fresh root command and returns combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

// writeBin writes a raw little-endian float32 file and returns its path.
func writeBin(t *testing.T, dir, name string, values []float32) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, vector.EncodeRaw(values), 0o644))
	return path
}

// writeNpy writes a .npy file and returns its path.
func writeNpy(t *testing.T, dir, name string, values []float32) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, vector.EncodeNPY(values), 0o644))
	return path
}
