// SPDX-License-Identifier: AGPL-3.0-or-later
// Package ids generates the 24-character collision-resistant string
// identifiers used throughout the catalog schema.
package ids

import (
	"strings"

	"github.com/google/uuid"
)

// idLength is the fixed width of every generated identifier.
const idLength = 24

// New returns a fresh 24-character id derived from a random UUIDv4. The
// hyphens are stripped (32 hex characters remain) and the string is
// truncated to idLength. Those 24 characters hold 96 bits, six of which
// are the UUID's fixed version and variant bits, leaving 90 random bits
// -- comfortably collision-resistant for a single-process catalog.
func New() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return raw[:idLength]
}

// Valid reports whether s has the shape of an id produced by New: fixed
// length, lowercase hex.
func Valid(s string) bool {
	if len(s) != idLength {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}
