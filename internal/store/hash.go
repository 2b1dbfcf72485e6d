// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package store

import (
	"crypto/sha256"
	"encoding/hex"
)

// Full hashes are 64 lowercase hex characters; prefixes shorter than
// MinPrefixLen are rejected as too ambiguous to be useful.
const (
	FullHashLen  = 64
	MinPrefixLen = 4
)

// HashBytes returns the lowercase hex SHA-256 of payload. Objects are
// always addressed by the exact bytes written to disk.
func HashBytes(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// isHexToken reports whether s is entirely ASCII hex digits. Tokens
// containing '/', '.', or any other non-hex byte never qualify for
// hash resolution.
func isHexToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isXDigit(s[i]) {
			return false
		}
	}
	return true
}

func isXDigit(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f':
		return true
	case c >= 'A' && c <= 'F':
		return true
	}
	return false
}

// looksLikePrefix reports whether token could be a 4-64 char hash prefix.
func looksLikePrefix(token string) bool {
	return len(token) >= MinPrefixLen && len(token) <= FullHashLen && isHexToken(token)
}
