// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

//go:build windows

package config

import "log/slog"

// WarnLoosePermissions is a no-op on Windows.
// Windows uses ACLs rather than Unix mode bits, so this check is not applicable.
func WarnLoosePermissions(path string) {
	if path != "" {
		slog.Debug("repo permission check not implemented on Windows", "path", path)
	}
}
