// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package store

import (
	"os"
	"strings"

	"github.com/google/uuid"

	embrerr "github.com/embr-dev/embr/pkg/errors"
)

// IndexEntry is one line of the latest index: the current object hash
// for a tracked source path.
type IndexEntry struct {
	Hash       string
	SourcePath string
}

// Index returns every entry of the latest index in file order.
func (s *Store) Index() ([]IndexEntry, error) {
	data, err := os.ReadFile(s.layout.IndexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, embrerr.Wrapf(err, embrerr.CodeStoreIndexFailure, "reading latest index")
	}

	var entries []IndexEntry
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 || !isFullHash(fields[0]) {
			continue
		}
		entries = append(entries, IndexEntry{Hash: fields[0], SourcePath: fields[1]})
	}
	return entries, nil
}

// updateIndex replaces the current entry for (sourcePath, model) with
// hash. Because index lines carry no model column, each existing line
// for the path is attributed to a model via the history log; only the
// line belonging to the same model is dropped.
//
// The rewrite is all-or-nothing: a sibling temp file is renamed onto
// the index.
func (s *Store) updateIndex(hash, sourcePath, model string) error {
	entries, err := s.Index()
	if err != nil {
		return err
	}

	var sb strings.Builder
	for _, entry := range entries {
		if entry.SourcePath == sourcePath {
			if entry.Hash == hash {
				continue // replaced by the appended line below
			}
			models, err := s.modelsOf(entry.Hash, entry.SourcePath)
			if err != nil {
				return err
			}
			if _, sameModel := models[model]; sameModel || len(models) == 0 {
				continue
			}
		}
		sb.WriteString(entry.Hash + " " + entry.SourcePath + "\n")
	}
	sb.WriteString(hash + " " + sourcePath + "\n")

	tmp := s.layout.IndexPath() + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, []byte(sb.String()), 0o644); err != nil {
		return embrerr.Wrapf(err, embrerr.CodeStoreIndexFailure, "staging index rewrite")
	}
	if err := os.Rename(tmp, s.layout.IndexPath()); err != nil {
		_ = os.Remove(tmp)
		return embrerr.Wrapf(err, embrerr.CodeStoreIndexFailure, "publishing index rewrite")
	}
	return nil
}

// CurrentHash returns the latest-index hash for (sourcePath, model).
func (s *Store) CurrentHash(sourcePath, model string) (string, error) {
	entries, err := s.Index()
	if err != nil {
		return "", err
	}

	for _, entry := range entries {
		if entry.SourcePath != sourcePath {
			continue
		}
		models, err := s.modelsOf(entry.Hash, entry.SourcePath)
		if err != nil {
			return "", err
		}
		if _, ok := models[model]; ok {
			return entry.Hash, nil
		}
	}

	return "", embrerr.New(embrerr.CodeStoreEntryNotFound,
		"no current embedding for path and model",
		embrerr.FieldPath(sourcePath),
		embrerr.FieldModel(model),
	)
}
