// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package store_test

import (
	"os"
	"testing"
	"time"

	"github.com/embr-dev/embr/internal/repo"
	"github.com/embr-dev/embr/internal/store"
	"github.com/embr-dev/embr/internal/vector"
	"github.com/stretchr/testify/require"
)

// payload123 is [1.0, 2.0, 3.0] as a little-endian float32 stream, the
// fixture pinned by the store scenarios.
var payload123 = []byte{
	0x00, 0x00, 0x80, 0x3f,
	0x00, 0x00, 0x00, 0x40,
	0x00, 0x00, 0x40, 0x40,
}

// testStore creates an initialized repository in a temp dir and returns
// a handle with a deterministic, strictly increasing clock.
func testStore(t *testing.T) *store.Store {
	t.Helper()

	layout, err := repo.Init(t.TempDir())
	require.NoError(t, err)

	s, err := store.Open(layout)
	require.NoError(t, err)

	base := time.Unix(1700000000, 0)
	tick := 0
	s.SetNowForTest(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	})
	return s
}

// fakeObject drops a raw object file directly into objects/ so tests
// can control hash spellings (prefix collisions cannot be provoked
// through real SHA-256 content).
func fakeObject(t *testing.T, s *store.Store, hash string, payload []byte) {
	t.Helper()
	require.Len(t, hash, 64)
	require.NoError(t, os.WriteFile(s.Layout().ObjectPath(hash), payload, 0o644))
}

// paddedHash builds a syntactically valid 64-hex hash from a short stem.
func paddedHash(stem string) string {
	for len(stem) < 64 {
		stem += "0"
	}
	return stem
}

func storeRaw(t *testing.T, s *store.Store, values []float32, path, model string) string {
	t.Helper()
	hash, err := s.StoreVector(vector.EncodeRaw(values), path, model)
	require.NoError(t, err)
	return hash
}
