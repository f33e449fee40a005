// SPDX-License-Identifier: AGPL-3.0-or-later
package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_HasExpectedLength(t *testing.T) {
	id := New()
	assert.Len(t, id, idLength)
	assert.True(t, Valid(id))
}

func TestNew_IsUnique(t *testing.T) {
	assert.NotEqual(t, New(), New())
}

func TestValid_RejectsWrongLength(t *testing.T) {
	assert.False(t, Valid("abc"))
	assert.False(t, Valid(""))
}

func TestValid_RejectsNonHexCharacters(t *testing.T) {
	assert.False(t, Valid("zzzzzzzzzzzzzzzzzzzzzzzz"))
}
