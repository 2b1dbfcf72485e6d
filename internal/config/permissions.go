// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

//go:build !windows

package config

import (
	"io/fs"
	"log/slog"
	"os"
)

// WarnLoosePermissions checks whether the repository directory is group- or
// world-writable and logs a warning if so. Best-effort: the store assumes a
// single writer, and a writable .embr lets other users corrupt the index.
func WarnLoosePermissions(path string) {
	if path == "" {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		slog.Debug("could not stat repo directory for permission check", "path", path, "error", err)
		return
	}

	const groupWrite fs.FileMode = 0o020
	const otherWrite fs.FileMode = 0o002

	if info.Mode().Perm()&(groupWrite|otherWrite) != 0 {
		slog.Warn(
			"repository directory is writable by other users",
			"path", path,
			"mode", info.Mode(),
			"recommended", "0755",
		)
	}
}
