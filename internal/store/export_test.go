// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package store

import "time"

// SetNowForTest overrides the store clock so tests control timestamps.
func (s *Store) SetNowForTest(now func() time.Time) {
	s.now = now
}

// IsHexTokenForTest exposes the hex classifier.
func IsHexTokenForTest(s string) bool { return isHexToken(s) }

// LooksLikePrefixForTest exposes the prefix classifier.
func LooksLikePrefixForTest(s string) bool { return looksLikePrefix(s) }
