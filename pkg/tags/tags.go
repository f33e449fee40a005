// SPDX-License-Identifier: AGPL-3.0-or-later
// Package tags implements email tag encoding: a sequence of strings
// serialised by joining with the reserved separator "$". "$" is
// forbidden inside a tag.
package tags

import (
	"fmt"
	"strings"
)

const separator = "$"

// Validate returns an error if any tag in list contains the reserved
// separator.
func Validate(list []string) error {
	for _, t := range list {
		if strings.Contains(t, separator) {
			return fmt.Errorf("tag %q contains forbidden character %q", t, separator)
		}
	}
	return nil
}

// Encode joins list with the reserved separator. Callers must Validate
// first; Encode does not re-check.
func Encode(list []string) string {
	return strings.Join(list, separator)
}

// Decode splits an encoded tag string back into its components. An empty
// string decodes to an empty (nil) list, not a single empty tag.
func Decode(encoded string) []string {
	if encoded == "" {
		return nil
	}
	return strings.Split(encoded, separator)
}
