// SPDX-License-Identifier: AGPL-3.0-or-later
package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRoundTrip verifies Decode(Encode(list)) == list for any list
// free of the reserved separator.
func TestRoundTrip(t *testing.T) {
	list := []string{"newsletter", "q3-promo", "vip"}
	assert.Equal(t, list, Decode(Encode(list)))
}

func TestRoundTrip_EmptyList(t *testing.T) {
	assert.Nil(t, Decode(Encode(nil)))
}

// TestValidate_RejectsReservedSeparator verifies a tag containing "$"
// is rejected before it ever reaches Encode.
func TestValidate_RejectsReservedSeparator(t *testing.T) {
	err := Validate([]string{"fine", "not$fine"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not$fine")
}

func TestValidate_AcceptsOrdinaryTags(t *testing.T) {
	assert.NoError(t, Validate([]string{"a", "b-c", "d_e"}))
}

func TestEncode_JoinsWithSeparator(t *testing.T) {
	assert.Equal(t, "a$b$c", Encode([]string{"a", "b", "c"}))
}

func TestDecode_SplitsOnSeparator(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Decode("a$b$c"))
}
