// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package store

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/embr-dev/embr/internal/delta"
	embrerr "github.com/embr-dev/embr/pkg/errors"
)

// WriteDelta encodes the object targetHash relative to baseHash and
// stores the result under metadata/versions/<target>.delta. A compact
// optimization primitive; diff and log never depend on it.
func (s *Store) WriteDelta(baseHash, targetHash string) (string, error) {
	base, err := s.ReadObjectBytes(baseHash)
	if err != nil {
		return "", err
	}
	target, err := s.ReadObjectBytes(targetHash)
	if err != nil {
		return "", err
	}

	encoded := delta.Encode(base, target)

	path := s.deltaPath(targetHash)
	tmp := filepath.Join(s.layout.VersionsDir(), "tmp-"+uuid.NewString())
	if err := os.WriteFile(tmp, encoded, 0o644); err != nil {
		return "", embrerr.Wrapf(err, embrerr.CodeDeltaEncodeFailure, "staging delta for %s", targetHash)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", embrerr.Wrapf(err, embrerr.CodeDeltaEncodeFailure, "publishing delta for %s", targetHash)
	}
	return path, nil
}

// ReadDelta reconstructs the payload of targetHash from baseHash and
// the stored delta, verifying the result against its content address.
func (s *Store) ReadDelta(baseHash, targetHash string) ([]byte, error) {
	base, err := s.ReadObjectBytes(baseHash)
	if err != nil {
		return nil, err
	}

	encoded, err := os.ReadFile(s.deltaPath(targetHash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, embrerr.New(embrerr.CodeStoreObjectNotFound,
				"no stored delta for object", embrerr.FieldHash(targetHash))
		}
		return nil, embrerr.Wrapf(err, embrerr.CodeStoreWriteFailure, "reading delta for %s", targetHash)
	}

	out, err := delta.Apply(base, encoded)
	if err != nil {
		return nil, err
	}

	if HashBytes(out) != targetHash {
		return nil, embrerr.New(embrerr.CodeDeltaInvalid,
			"reconstructed payload does not match its content address",
			embrerr.FieldHash(targetHash),
		)
	}
	return out, nil
}

func (s *Store) deltaPath(targetHash string) string {
	return filepath.Join(s.layout.VersionsDir(), targetHash+".delta")
}
