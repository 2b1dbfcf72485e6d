// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

// Package registry reads the model descriptor table the store consults
// for expected dimensionality and normalization.
//
// The on-disk form is a line-oriented tab-separated file (historically
// named registry.json): name, dimensions, normalize, version,
// description. The table is loaded once per handle and cached behind a
// mutex.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	embrerr "github.com/embr-dev/embr/pkg/errors"
)

// Descriptor describes one registered embedding model.
type Descriptor struct {
	Name        string
	Dimensions  int
	Normalize   bool
	Version     string
	Description string
}

// Registry is a cached read-mostly view of the descriptor table.
// Safe for concurrent use.
type Registry struct {
	path string

	mu     sync.Mutex
	models map[string]Descriptor
	loaded bool
}

// Open returns a registry backed by the table at path. The file is not
// read until first use; a missing file is an empty table.
func Open(path string) *Registry {
	return &Registry{path: path}
}

// Lookup returns the descriptor for name.
func (r *Registry) Lookup(name string) (Descriptor, error) {
	models, err := r.load()
	if err != nil {
		return Descriptor{}, err
	}

	desc, ok := models[name]
	if !ok {
		return Descriptor{}, embrerr.New(embrerr.CodeRegistryModelNotFound,
			"model is not registered",
			embrerr.FieldModel(name),
		)
	}
	return desc, nil
}

// List returns all descriptors sorted by name.
func (r *Registry) List() ([]Descriptor, error) {
	models, err := r.load()
	if err != nil {
		return nil, err
	}

	out := make([]Descriptor, 0, len(models))
	for _, d := range models {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Register adds or replaces a descriptor and rewrites the table
// atomically (sibling temp file, then rename).
func (r *Registry) Register(desc Descriptor) error {
	if desc.Name == "" || strings.ContainsAny(desc.Name, "\t\n") {
		return embrerr.New(embrerr.CodeRegistryParseInvalid,
			"model name must be non-empty and contain no tabs or newlines",
			embrerr.FieldModel(desc.Name),
		)
	}
	if desc.Dimensions <= 0 {
		return embrerr.Errorf(embrerr.CodeRegistryParseInvalid,
			"model %s: dimensions must be positive, got %d", desc.Name, desc.Dimensions)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.loadLocked()
	if err != nil {
		return err
	}

	// Work on a copy: the cached map may be held by concurrent readers,
	// and it must not see the new descriptor unless the rewrite lands.
	next := make(map[string]Descriptor, len(current)+1)
	for name, d := range current {
		next[name] = d
	}
	next[desc.Name] = desc

	names := make([]string, 0, len(next))
	for name := range next {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		d := next[name]
		fmt.Fprintf(&sb, "%s\t%d\t%t\t%s\t%s\n",
			d.Name, d.Dimensions, d.Normalize, d.Version, d.Description)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return embrerr.Wrapf(err, embrerr.CodeRegistryWriteFailure, "creating %s", filepath.Dir(r.path))
	}

	tmp := r.path + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, []byte(sb.String()), 0o644); err != nil {
		return embrerr.Wrapf(err, embrerr.CodeRegistryWriteFailure, "staging registry rewrite")
	}
	if err := os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		return embrerr.Wrapf(err, embrerr.CodeRegistryWriteFailure, "publishing registry rewrite")
	}

	r.models = next
	return nil
}

func (r *Registry) load() (map[string]Descriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked()
}

func (r *Registry) loadLocked() (map[string]Descriptor, error) {
	if r.loaded {
		return r.models, nil
	}

	models := make(map[string]Descriptor)

	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, embrerr.Wrapf(err, embrerr.CodeConfigLoadReadFailure, "reading %s", r.path)
		}
		r.models, r.loaded = models, true
		return models, nil
	}

	for lineno, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		desc, err := parseLine(line)
		if err != nil {
			return nil, embrerr.Wrapf(err, embrerr.CodeRegistryParseInvalid,
				"%s line %d", r.path, lineno+1)
		}
		models[desc.Name] = desc
	}

	r.models, r.loaded = models, true
	return models, nil
}

func parseLine(line string) (Descriptor, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 3 {
		return Descriptor{}, embrerr.Errorf(embrerr.CodeRegistryParseInvalid,
			"want at least 3 tab-separated fields, got %d", len(fields))
	}

	dims, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil || dims <= 0 {
		return Descriptor{}, embrerr.Errorf(embrerr.CodeRegistryParseInvalid,
			"dimensions %q is not a positive integer", fields[1])
	}

	normalize, err := parseBool(fields[2])
	if err != nil {
		return Descriptor{}, err
	}

	desc := Descriptor{Name: fields[0], Dimensions: dims, Normalize: normalize}
	if len(fields) > 3 {
		desc.Version = fields[3]
	}
	if len(fields) > 4 {
		desc.Description = strings.Join(fields[4:], "\t")
	}
	return desc, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no", "":
		return false, nil
	default:
		return false, embrerr.Errorf(embrerr.CodeRegistryParseInvalid, "normalize flag %q is not a boolean", s)
	}
}
