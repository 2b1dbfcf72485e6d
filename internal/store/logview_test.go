// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package store_test

import (
	"os"
	"testing"

	"github.com/embr-dev/embr/internal/store"
	embrerr "github.com/embr-dev/embr/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogGroupsByModelNewestFirst(t *testing.T) {
	s := testStore(t)

	h1 := storeRaw(t, s, []float32{1}, "doc.txt", "m1")
	h2 := storeRaw(t, s, []float32{2}, "doc.txt", "m2")
	h3 := storeRaw(t, s, []float32{3}, "doc.txt", "m1")

	chains, err := s.Log("doc.txt", store.LogOptions{})
	require.NoError(t, err)
	require.Len(t, chains, 2)

	// Groups are sorted by model name.
	assert.Equal(t, "m1", chains[0].Model)
	assert.Equal(t, "m2", chains[1].Model)

	m1 := chains[0].Entries
	require.Len(t, m1, 2)
	assert.Equal(t, h3, m1[0].Event.Hash)
	assert.Equal(t, h1, m1[1].Event.Hash)
	assert.True(t, m1[0].Current)
	assert.False(t, m1[1].Current)

	m2 := chains[1].Entries
	require.Len(t, m2, 1)
	assert.Equal(t, h2, m2[0].Event.Hash)
	assert.True(t, m2[0].Current)
}

func TestLogModelFilter(t *testing.T) {
	s := testStore(t)

	storeRaw(t, s, []float32{1}, "doc.txt", "m1")
	storeRaw(t, s, []float32{2}, "doc.txt", "m2")

	chains, err := s.Log("doc.txt", store.LogOptions{Model: "m2"})
	require.NoError(t, err)
	require.Len(t, chains, 1)
	assert.Equal(t, "m2", chains[0].Model)
}

func TestLogLimitPerGroup(t *testing.T) {
	s := testStore(t)

	for i := 0; i < 5; i++ {
		storeRaw(t, s, []float32{float32(i)}, "doc.txt", "m1")
	}

	chains, err := s.Log("doc.txt", store.LogOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, chains, 1)
	assert.Len(t, chains[0].Entries, 2)
	assert.True(t, chains[0].Entries[0].Current)
}

func TestLogVerboseAttachesMeta(t *testing.T) {
	s := testStore(t)

	storeRaw(t, s, []float32{1, 2}, "doc.txt", "m1")

	chains, err := s.Log("doc.txt", store.LogOptions{Verbose: true})
	require.NoError(t, err)
	require.Len(t, chains, 1)
	require.Len(t, chains[0].Entries, 1)

	meta := chains[0].Entries[0].Meta
	require.NotNil(t, meta)
	assert.Equal(t, "doc.txt", meta.SourceFile)
	assert.Equal(t, "m1", meta.Provider)
}

func TestLogUnknownPath(t *testing.T) {
	s := testStore(t)

	_, err := s.Log("nope.txt", store.LogOptions{})
	require.Error(t, err)
	assert.True(t, embrerr.IsNotFound(err))
}

func TestLogMarksMostRecentCurrentWithoutIndexEntry(t *testing.T) {
	s := testStore(t)

	storeRaw(t, s, []float32{1}, "doc.txt", "m1")
	storeRaw(t, s, []float32{2}, "doc.txt", "m1")

	// Wipe the index; the most recent history entry stands in as current.
	require.NoError(t, os.WriteFile(s.Layout().IndexPath(), nil, 0o644))

	chains, err := s.Log("doc.txt", store.LogOptions{})
	require.NoError(t, err)
	require.Len(t, chains, 1)
	require.Len(t, chains[0].Entries, 2)
	assert.True(t, chains[0].Entries[0].Current)
	assert.False(t, chains[0].Entries[1].Current)
}

func TestLogSameTimestampOrdersLaterLineFirst(t *testing.T) {
	s := testStore(t)

	// Two events in the same second: the later log line is the more
	// recent store and must render first.
	older := paddedHash("aa01")
	newer := paddedHash("bb02")
	log := "1700000100 " + older + " doc.txt m1\n" +
		"1700000100 " + newer + " doc.txt m1\n"
	require.NoError(t, os.WriteFile(s.Layout().LogPath(), []byte(log), 0o644))

	chains, err := s.Log("doc.txt", store.LogOptions{})
	require.NoError(t, err)
	require.Len(t, chains, 1)
	require.Len(t, chains[0].Entries, 2)

	assert.Equal(t, newer, chains[0].Entries[0].Event.Hash)
	assert.Equal(t, older, chains[0].Entries[1].Event.Hash)

	// With no index entry for the path, the tie winner stands in as
	// current.
	assert.True(t, chains[0].Entries[0].Current)
	assert.False(t, chains[0].Entries[1].Current)
}

func TestLogRenderingIsIdempotent(t *testing.T) {
	s := testStore(t)

	storeRaw(t, s, []float32{1}, "doc.txt", "m1")
	storeRaw(t, s, []float32{2}, "doc.txt", "m2")
	storeRaw(t, s, []float32{3}, "doc.txt", "m1")

	first, err := s.Log("doc.txt", store.LogOptions{Verbose: true})
	require.NoError(t, err)
	second, err := s.Log("doc.txt", store.LogOptions{Verbose: true})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
