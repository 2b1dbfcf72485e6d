// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

// Package store implements the content-addressed object store, the
// latest index, the history log, and the artifact loader that together
// form the embr storage engine.
package store

import (
	"time"

	"github.com/embr-dev/embr/internal/registry"
	"github.com/embr-dev/embr/internal/repo"
)

// Store is a handle to one repository. All operations are synchronous;
// the handle assumes at most one concurrent writer per repository but
// is safe for concurrent read-only use.
type Store struct {
	layout   repo.Layout
	registry *registry.Registry

	now func() time.Time
}

// Open validates the repository tree at layout and returns a handle.
func Open(layout repo.Layout) (*Store, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	return &Store{
		layout:   layout,
		registry: registry.Open(layout.RegistryPath()),
		now:      time.Now,
	}, nil
}

// Layout returns the repository paths this store operates on.
func (s *Store) Layout() repo.Layout {
	return s.layout
}

// Registry returns the model descriptor table for this repository.
func (s *Store) Registry() *registry.Registry {
	return s.registry
}
