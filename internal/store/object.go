// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/embr-dev/embr/internal/vector"
	embrerr "github.com/embr-dev/embr/pkg/errors"
)

// Meta is the sidecar metadata written next to each raw payload.
type Meta struct {
	SourceFile string
	Timestamp  int64
	FileType   string
	Provider   string
}

// StoreVector ingests payload for (sourcePath, model): it writes the
// raw object and its sidecars, appends a history event, and updates the
// latest index. Returns the object hash.
//
// Content addressing makes the payload write idempotent: an existing
// object file is never rewritten. The history and index are still
// updated so the (sourcePath, model) binding tracks this store event.
func (s *Store) StoreVector(payload []byte, sourcePath, model string) (string, error) {
	if len(payload) == 0 {
		return "", embrerr.New(embrerr.CodeStoreHashInvalid, "payload must not be empty")
	}
	if sourcePath == "" || strings.ContainsAny(sourcePath, " \t\n") {
		return "", embrerr.New(embrerr.CodeStoreHashInvalid,
			"source path must be non-empty and contain no whitespace",
			embrerr.FieldPath(sourcePath),
		)
	}
	if model == "" {
		return "", embrerr.New(embrerr.CodeStoreHashInvalid, "model name must not be empty")
	}

	hash := HashBytes(payload)

	if err := s.writeObject(hash, payload, sourcePath, model); err != nil {
		return "", err
	}

	if err := s.appendHistory(Event{
		Timestamp:  s.now().Unix(),
		Hash:       hash,
		SourcePath: sourcePath,
		Model:      model,
	}); err != nil {
		return "", err
	}

	if err := s.updateIndex(hash, sourcePath, model); err != nil {
		return "", err
	}

	return hash, nil
}

// writeObject publishes the raw payload and its sidecars. Publication
// is atomic: the payload lands in objects/temp/ first and is renamed
// into place.
func (s *Store) writeObject(hash string, payload []byte, sourcePath, model string) error {
	rawPath := s.layout.ObjectPath(hash)
	if _, err := os.Stat(rawPath); err == nil {
		// Already stored; the sidecars from the first store win.
		return nil
	}

	if err := os.MkdirAll(s.layout.TempDir(), 0o755); err != nil {
		return embrerr.Wrapf(err, embrerr.CodeStoreWriteFailure, "creating staging directory")
	}
	if err := os.MkdirAll(filepath.Dir(rawPath), 0o755); err != nil {
		return embrerr.Wrapf(err, embrerr.CodeStoreWriteFailure, "creating objects directory")
	}

	tmpPath := filepath.Join(s.layout.TempDir(), "tmp-"+uuid.NewString())
	if err := writeAndSync(tmpPath, payload); err != nil {
		_ = os.Remove(tmpPath)
		return embrerr.Wrap(err, embrerr.CodeStoreWriteFailure, "staging object payload",
			embrerr.FieldHash(hash))
	}
	if err := os.Rename(tmpPath, rawPath); err != nil {
		_ = os.Remove(tmpPath)
		return embrerr.Wrap(err, embrerr.CodeStoreWriteFailure, "publishing object payload",
			embrerr.FieldHash(hash))
	}

	meta := Meta{
		SourceFile: sourcePath,
		Timestamp:  s.now().Unix(),
		FileType:   payloadType(payload),
		Provider:   model,
	}
	if err := s.writeMeta(hash, meta); err != nil {
		return err
	}

	return s.writeRef(hash, sourcePath)
}

func payloadType(payload []byte) string {
	if vector.IsNPY(payload) {
		return "npy"
	}
	return "bin"
}

func (s *Store) writeMeta(hash string, meta Meta) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "source_file=%s\n", meta.SourceFile)
	fmt.Fprintf(&sb, "timestamp=%d\n", meta.Timestamp)
	fmt.Fprintf(&sb, "file_type=%s\n", meta.FileType)
	fmt.Fprintf(&sb, "provider=%s\n", meta.Provider)

	if err := os.WriteFile(s.layout.MetaPath(hash), []byte(sb.String()), 0o644); err != nil {
		return embrerr.Wrap(err, embrerr.CodeStoreWriteFailure, "writing meta sidecar",
			embrerr.FieldHash(hash))
	}
	return nil
}

// writeRef records the object's source path under metadata/files/.
// The .meta sidecar is authoritative; refs exist for verify and for
// compatibility with older repository layouts.
func (s *Store) writeRef(hash, sourcePath string) error {
	if err := os.WriteFile(s.layout.RefPath(hash), []byte(sourcePath+"\n"), 0o644); err != nil {
		return embrerr.Wrap(err, embrerr.CodeStoreWriteFailure, "writing ref file",
			embrerr.FieldHash(hash))
	}
	return nil
}

// ReadMeta parses the key=value sidecar for hash. Unrecognized keys are
// preserved in Extra order-independently via the returned map.
func (s *Store) ReadMeta(hash string) (Meta, map[string]string, error) {
	data, err := os.ReadFile(s.layout.MetaPath(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return Meta{}, nil, embrerr.New(embrerr.CodeStoreObjectNotFound,
				"object has no meta sidecar", embrerr.FieldHash(hash))
		}
		return Meta{}, nil, embrerr.Wrapf(err, embrerr.CodeStoreWriteFailure, "reading meta sidecar")
	}

	meta := Meta{}
	extra := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch key {
		case "source_file":
			meta.SourceFile = value
		case "timestamp":
			meta.Timestamp, _ = strconv.ParseInt(value, 10, 64)
		case "file_type":
			meta.FileType = value
		case "provider":
			meta.Provider = value
		default:
			extra[key] = value
		}
	}
	return meta, extra, nil
}

// ReadObject materializes the vector stored under the full hash.
// Payloads carrying the NumPy magic are decoded as .npy; everything
// else is treated as a raw float32 stream.
func (s *Store) ReadObject(hash string) (*vector.Vector, error) {
	data, err := s.ReadObjectBytes(hash)
	if err != nil {
		return nil, err
	}
	return decodePayload(data, hash)
}

// ReadObjectBytes returns the exact payload bytes stored under hash.
func (s *Store) ReadObjectBytes(hash string) ([]byte, error) {
	data, err := os.ReadFile(s.layout.ObjectPath(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, embrerr.New(embrerr.CodeStoreObjectNotFound,
				"object is not stored", embrerr.FieldHash(hash))
		}
		return nil, embrerr.Wrapf(err, embrerr.CodeStoreWriteFailure, "reading object %s", hash)
	}
	return data, nil
}

func decodePayload(data []byte, hash string) (*vector.Vector, error) {
	var (
		v   *vector.Vector
		err error
	)
	if vector.IsNPY(data) {
		v, err = vector.DecodeNPY(data)
	} else {
		v, err = vector.DecodeRaw(data)
	}
	if err != nil {
		return nil, embrerr.With(err, embrerr.FieldHash(hash))
	}
	return v, nil
}

func writeAndSync(path string, payload []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
