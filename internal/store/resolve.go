// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package store

import (
	"os"
	"strings"

	embrerr "github.com/embr-dev/embr/pkg/errors"
)

// ResolveHash expands a 4-64 hex character prefix to the unique full
// hash of a stored object. A full-length prefix is returned as-is after
// validation.
func (s *Store) ResolveHash(prefix string) (string, error) {
	if len(prefix) < MinPrefixLen || len(prefix) > FullHashLen || !isHexToken(prefix) {
		return "", embrerr.New(embrerr.CodeStoreHashInvalid,
			"hash prefix must be 4-64 hex characters",
			embrerr.FieldPrefix(prefix),
		)
	}

	prefix = strings.ToLower(prefix)
	if len(prefix) == FullHashLen {
		return prefix, nil
	}

	entries, err := os.ReadDir(s.layout.ObjectsDir())
	if err != nil {
		return "", embrerr.Wrapf(err, embrerr.CodeStoreWriteFailure, "listing objects")
	}

	var matches []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		hash, ok := strings.CutSuffix(name, ".raw")
		if !ok || len(hash) != FullHashLen {
			continue
		}
		if strings.HasPrefix(hash, prefix) {
			matches = append(matches, hash)
		}
	}

	switch len(matches) {
	case 0:
		return "", embrerr.New(embrerr.CodeStoreObjectNotFound,
			"no object matches prefix",
			embrerr.FieldPrefix(prefix),
		)
	case 1:
		return matches[0], nil
	default:
		return "", embrerr.New(embrerr.CodeStoreHashAmbiguous,
			"prefix matches multiple objects",
			embrerr.FieldPrefix(prefix),
			embrerr.Field("matches", len(matches)),
			embrerr.Field("candidates", matches),
		)
	}
}
