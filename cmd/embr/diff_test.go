// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/embr-dev/embr/internal/config"
	"github.com/embr-dev/embr/internal/vector"
	embrerr "github.com/embr-dev/embr/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffCommand_SameVectorAcrossModels(t *testing.T) {
	initRepo(t)

	bin := writeBin(t, t.TempDir(), "embed.bin", []float32{1, 2, 3})
	_, err := runCLI(t, "store", bin, "doc.txt", "--model", "m1", "--dims", "3")
	require.NoError(t, err)
	_, err = runCLI(t, "store", bin, "doc.txt", "--model", "m2", "--dims", "3")
	require.NoError(t, err)

	t.Setenv(config.EnvTestMode, "1")
	out, err := runCLI(t, "diff", "doc.txt", "doc.txt", "--models", "m1,m2")
	require.NoError(t, err)
	assert.Equal(t, "1.000000,0.000000,1.000000\n", out)
}

func TestDiffCommand_HumanOutput(t *testing.T) {
	initRepo(t)

	dir := t.TempDir()
	a := writeBin(t, dir, "a.bin", []float32{1, 0})
	b := writeBin(t, dir, "b.bin", []float32{0, 1})

	out, err := runCLI(t, "diff", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "Cosine similarity: 0.000000")
	assert.Contains(t, out, "Euclidean distance: 1.414214")
	assert.Contains(t, out, "Euclidean similarity: 0.414214")
	assert.Contains(t, out, "Neighborhood preservation:")
	assert.Contains(t, out, "significantly different")
}

func TestDiffCommand_CrossDimensionProjection(t *testing.T) {
	initRepo(t)

	dir := t.TempDir()
	a := writeBin(t, dir, "a.bin", []float32{1, 0, 0})
	b := writeBin(t, dir, "b.bin", []float32{1, 0, 0, 0})

	out, err := runCLI(t, "diff", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "Cosine similarity: 1.000000")
	assert.Contains(t, out, "Euclidean distance: 0.000000")
	assert.Contains(t, out, "truncated projection")
}

func TestDiffCommand_NaNRejected(t *testing.T) {
	initRepo(t)

	path := filepath.Join(t.TempDir(), "bad.bin")
	payload := vector.EncodeRaw([]float32{1, float32(math.NaN())})
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	_, err := runCLI(t, "diff", path, path)
	require.Error(t, err)
	assert.True(t, embrerr.IsInvalidValues(err))
}

func TestDiffCommand_ModelsFlagValidation(t *testing.T) {
	initRepo(t)

	dir := t.TempDir()
	a := writeBin(t, dir, "a.bin", []float32{1})

	_, err := runCLI(t, "diff", a, a, "--models", "just-one")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly two")

	_, err = runCLI(t, "diff", a, a, "--models", "m1,")
	require.Error(t, err)
}

func TestDiffCommand_NoNeighborhood(t *testing.T) {
	initRepo(t)

	dir := t.TempDir()
	a := writeBin(t, dir, "a.bin", []float32{1, 2})

	out, err := runCLI(t, "diff", a, a, "--no-neighborhood")
	require.NoError(t, err)
	assert.NotContains(t, out, "Neighborhood preservation:")
	assert.Contains(t, out, "very similar")
}

func TestDiffCommand_TrackedPathNeedsModelChoice(t *testing.T) {
	initRepo(t)

	bin := writeBin(t, t.TempDir(), "embed.bin", []float32{1, 2})
	_, err := runCLI(t, "store", bin, "doc.txt", "--model", "m1", "--dims", "2")
	require.NoError(t, err)
	_, err = runCLI(t, "store", bin, "doc.txt", "--model", "m2", "--dims", "2")
	require.NoError(t, err)

	_, err = runCLI(t, "diff", "doc.txt", "doc.txt")
	require.Error(t, err)
	assert.True(t, embrerr.IsModelRequired(err))

	_, err = runCLI(t, "diff", "doc.txt", "doc.txt", "--model", "m1")
	require.NoError(t, err)
}
