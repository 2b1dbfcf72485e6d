// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package store

import (
	"fmt"
	"os"
	"strings"

	embrerr "github.com/embr-dev/embr/pkg/errors"
)

// VerifyReport summarizes an integrity walk over the repository.
type VerifyReport struct {
	Objects  int
	Problems []string
}

// OK reports whether the walk found no violations.
func (r VerifyReport) OK() bool {
	return len(r.Problems) == 0
}

func (r *VerifyReport) problemf(format string, args ...any) {
	r.Problems = append(r.Problems, fmt.Sprintf(format, args...))
}

// Verify re-hashes every stored object and checks the referential
// integrity of the latest index and history log:
//
//   - each <hash>.raw hashes to its filename stem
//   - each object has a .meta sidecar (missing .ref is reported too)
//   - every index line references an existing object
//   - every index pair has at least one matching history event
func (s *Store) Verify() (VerifyReport, error) {
	var report VerifyReport

	entries, err := os.ReadDir(s.layout.ObjectsDir())
	if err != nil {
		return report, embrerr.Wrapf(err, embrerr.CodeStoreWriteFailure, "listing objects")
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		hash, ok := strings.CutSuffix(entry.Name(), ".raw")
		if !ok {
			continue
		}
		report.Objects++

		if !isFullHash(hash) {
			report.problemf("object %s: name is not a 64-hex hash", entry.Name())
			continue
		}

		data, err := s.ReadObjectBytes(hash)
		if err != nil {
			report.problemf("object %s: unreadable: %v", hash, err)
			continue
		}
		if got := HashBytes(data); got != hash {
			report.problemf("object %s: content hashes to %s", hash, got)
		}

		if _, err := os.Stat(s.layout.MetaPath(hash)); err != nil {
			report.problemf("object %s: missing .meta sidecar", hash)
		}
		if _, err := os.Stat(s.layout.RefPath(hash)); err != nil {
			report.problemf("object %s: missing .ref file", hash)
		}
	}

	index, err := s.Index()
	if err != nil {
		return report, err
	}
	events, err := s.History()
	if err != nil {
		return report, err
	}

	for _, entry := range index {
		if _, err := os.Stat(s.layout.ObjectPath(entry.Hash)); err != nil {
			report.problemf("index: %s %s references a missing object", entry.Hash, entry.SourcePath)
		}

		found := false
		for _, ev := range events {
			if ev.Hash == entry.Hash && ev.SourcePath == entry.SourcePath {
				found = true
				break
			}
		}
		if !found {
			report.problemf("index: %s %s has no history event", entry.Hash, entry.SourcePath)
		}
	}

	return report, nil
}
