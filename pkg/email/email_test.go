package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalPart(t *testing.T) {
	assert.Equal(t, "user", LocalPart("user@example.com"))
	assert.Equal(t, "user+tag", LocalPart("user+tag@example.com"))
	assert.Equal(t, "", LocalPart("no-domain"))
	assert.Equal(t, "", LocalPart("@example.com"))
}

func TestHasPlusAlias(t *testing.T) {
	assert.True(t, HasPlusAlias("user+signup@example.com"))
	assert.False(t, HasPlusAlias("user@example.com"))
	assert.False(t, HasPlusAlias("user@ex+ample.com"))
	assert.False(t, HasPlusAlias(""))
}
