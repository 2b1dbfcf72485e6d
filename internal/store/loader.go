// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package store

import (
	"os"
	"strings"

	"github.com/embr-dev/embr/internal/vector"
	embrerr "github.com/embr-dev/embr/pkg/errors"
)

// Load materializes a vector from a user input: a hash prefix, a .npy
// or .bin file path, or a tracked source path. The model argument is
// only consulted for tracked source paths; pass "" to auto-select when
// a single model has stored embeddings for the path.
//
// Resolution order, first matching rule wins:
//  1. hex token of 4-64 chars → hash resolution (falls through to the
//     source-path rule when no object matches)
//  2. *.npy → decode the file as NumPy
//  3. *.bin → decode the file as a raw float32 stream
//  4. anything else → tracked source path via history + latest index
//
// Loaded vectors are always validated; NaN or ±Inf coordinates fail the
// load regardless of origin.
func (s *Store) Load(input, model string) (*vector.Vector, error) {
	if input == "" {
		return nil, embrerr.New(embrerr.CodeStoreHashInvalid, "input must not be empty")
	}

	if looksLikePrefix(input) {
		v, err := s.loadByPrefix(input)
		switch {
		case err == nil:
			return validated(v)
		case embrerr.IsNotFound(err):
			// A hex-looking name may still be a tracked source path.
		default:
			return nil, err
		}
	}

	switch {
	case strings.HasSuffix(input, ".npy"):
		return s.loadFile(input, vector.DecodeNPY)
	case strings.HasSuffix(input, ".bin"):
		return s.loadFile(input, vector.DecodeRaw)
	default:
		return s.loadTracked(input, model)
	}
}

func (s *Store) loadByPrefix(prefix string) (*vector.Vector, error) {
	hash, err := s.ResolveHash(prefix)
	if err != nil {
		return nil, err
	}
	return s.ReadObject(hash)
}

func (s *Store) loadFile(path string, decode func([]byte) (*vector.Vector, error)) (*vector.Vector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, embrerr.New(embrerr.CodeStoreObjectNotFound,
				"embedding file does not exist", embrerr.FieldPath(path))
		}
		return nil, embrerr.Wrapf(err, embrerr.CodeStoreWriteFailure, "reading %s", path)
	}

	v, err := decode(data)
	if err != nil {
		return nil, embrerr.With(err, embrerr.FieldPath(path))
	}
	return validated(v)
}

// loadTracked resolves a source path to its current stored object.
func (s *Store) loadTracked(sourcePath, model string) (*vector.Vector, error) {
	if model == "" {
		models, err := s.ModelsForPath(sourcePath)
		if err != nil {
			return nil, err
		}
		switch len(models) {
		case 0:
			return nil, embrerr.New(embrerr.CodeStoreEntryNotFound,
				"path has no stored embeddings",
				embrerr.FieldPath(sourcePath),
			)
		case 1:
			model = models[0]
		default:
			return nil, embrerr.New(embrerr.CodeStoreModelRequired,
				"multiple models have embeddings for this path; choose one",
				embrerr.FieldPath(sourcePath),
				embrerr.FieldModels(models),
			)
		}
	}

	hash, err := s.CurrentHash(sourcePath, model)
	if err != nil {
		return nil, err
	}

	v, err := s.ReadObject(hash)
	if err != nil {
		return nil, err
	}
	return validated(v)
}

func validated(v *vector.Vector) (*vector.Vector, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}
