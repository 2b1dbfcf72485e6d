// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

// Package repo locates and bootstraps the .embr repository subtree.
//
// A repository is the nearest ancestor directory containing .embr/.
// Discovery walks upward from a starting path; the result is cached on
// the Finder for the life of the process.
package repo

import (
	"os"
	"path/filepath"
	"sync"

	embrerr "github.com/embr-dev/embr/pkg/errors"
)

// EmbrDirName is the repository marker directory.
const EmbrDirName = ".embr"

// Layout exposes the paths of a discovered repository.
type Layout struct {
	// Root is the directory containing the .embr subtree.
	Root string
}

func (l Layout) EmbrDir() string { return filepath.Join(l.Root, EmbrDirName) }

func (l Layout) ObjectsDir() string { return filepath.Join(l.EmbrDir(), "objects") }

func (l Layout) TempDir() string { return filepath.Join(l.ObjectsDir(), "temp") }

func (l Layout) MetadataDir() string { return filepath.Join(l.EmbrDir(), "metadata") }

func (l Layout) FileRefsDir() string { return filepath.Join(l.MetadataDir(), "files") }

func (l Layout) ModelsDir() string { return filepath.Join(l.MetadataDir(), "models") }

func (l Layout) VersionsDir() string { return filepath.Join(l.MetadataDir(), "versions") }

func (l Layout) IndexPath() string { return filepath.Join(l.EmbrDir(), "index") }

func (l Layout) ConfigPath() string { return filepath.Join(l.EmbrDir(), "config.json") }

func (l Layout) RegistryPath() string { return filepath.Join(l.ModelsDir(), "registry.json") }

func (l Layout) ObjectPath(hash string) string {
	return filepath.Join(l.ObjectsDir(), hash+".raw")
}
func (l Layout) MetaPath(hash string) string {
	return filepath.Join(l.ObjectsDir(), hash+".meta")
}
func (l Layout) RefPath(hash string) string {
	return filepath.Join(l.FileRefsDir(), hash+".ref")
}

// LogPath returns the history log path. The canonical name is "log";
// "history" is accepted for repositories written by older tooling.
func (l Layout) LogPath() string {
	canonical := filepath.Join(l.EmbrDir(), "log")
	if _, err := os.Stat(canonical); err == nil {
		return canonical
	}
	legacy := filepath.Join(l.EmbrDir(), "history")
	if _, err := os.Stat(legacy); err == nil {
		return legacy
	}
	return canonical
}

// requiredDirs are the directories a usable repository must contain.
func (l Layout) requiredDirs() []string {
	return []string{
		l.EmbrDir(),
		l.ObjectsDir(),
		l.TempDir(),
		l.FileRefsDir(),
		l.ModelsDir(),
		l.VersionsDir(),
	}
}

// Validate checks the subtree is complete. An incomplete tree is
// indistinguishable from an uninitialized one for callers.
func (l Layout) Validate() error {
	for _, dir := range l.requiredDirs() {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return embrerr.New(embrerr.CodeRepoNotInitialized,
				"repository tree is missing or incomplete",
				embrerr.Field("missing", dir),
			)
		}
	}
	return nil
}

// Discover walks from start upward to the filesystem root and returns
// the layout of the first ancestor containing a .embr directory.
func Discover(start string) (Layout, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return Layout{}, embrerr.Wrapf(err, embrerr.CodeRepoDiscoverNotFound, "resolving %s", start)
	}

	for {
		marker := filepath.Join(dir, EmbrDirName)
		if info, err := os.Stat(marker); err == nil && info.IsDir() {
			return Layout{Root: dir}, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Layout{}, embrerr.New(embrerr.CodeRepoDiscoverNotFound,
				"no .embr repository found in this directory or any ancestor",
				embrerr.FieldPath(start),
			)
		}
		dir = parent
	}
}

// Finder caches the discovery result for the process lifetime.
// Safe for concurrent use.
type Finder struct {
	mu     sync.Mutex
	layout Layout
	err    error
	done   bool
}

// Find returns the cached layout, running discovery on first use.
// Override, when non-empty, bypasses the walk and uses the given root
// directly (the EB_DIR behavior).
func (f *Finder) Find(start, override string) (Layout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.done {
		return f.layout, f.err
	}

	if override != "" {
		layout := Layout{Root: override}
		if err := layout.Validate(); err != nil {
			f.layout, f.err, f.done = Layout{}, err, true
			return f.layout, f.err
		}
		f.layout, f.err, f.done = layout, nil, true
		return f.layout, nil
	}

	f.layout, f.err = Discover(start)
	f.done = true
	return f.layout, f.err
}

// Init creates the .embr subtree under dir, including empty index and
// log files and a default config. Re-running on an initialized
// repository is a no-op.
func Init(dir string) (Layout, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return Layout{}, embrerr.Wrapf(err, embrerr.CodeRepoBootstrapFailure, "resolving %s", dir)
	}

	layout := Layout{Root: root}
	for _, d := range layout.requiredDirs() {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return Layout{}, embrerr.Wrapf(err, embrerr.CodeRepoBootstrapFailure, "creating %s", d)
		}
	}

	for _, f := range []string{layout.IndexPath(), filepath.Join(layout.EmbrDir(), "log")} {
		if err := touch(f); err != nil {
			return Layout{}, err
		}
	}

	if _, err := os.Stat(layout.ConfigPath()); os.IsNotExist(err) {
		if err := os.WriteFile(layout.ConfigPath(), []byte("{}\n"), 0o644); err != nil {
			return Layout{}, embrerr.Wrapf(err, embrerr.CodeRepoBootstrapFailure, "writing %s", layout.ConfigPath())
		}
	}

	return layout, nil
}

func touch(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return embrerr.Wrapf(err, embrerr.CodeRepoBootstrapFailure, "creating %s", path)
	}
	return nil
}
