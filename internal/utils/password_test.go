package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("S3cret!pass", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "S3cret!pass", hash)

	assert.True(t, VerifyPassword(hash, "S3cret!pass"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("not-a-hash", "S3cret!pass"))
}

func TestValidEmail(t *testing.T) {
	for _, good := range []string{"jane@college.edu", "a.b+tag@sub.domain.org"} {
		assert.True(t, ValidEmail(good), good)
	}
	for _, bad := range []string{"", "plain", "missing@tld", "@college.edu", "spaces in@x.com"} {
		assert.False(t, ValidEmail(bad), bad)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Empty(t, ValidatePassword("longenough1!"))

	problems := ValidatePassword("short")
	// Too short, no digit, no symbol.
	assert.Len(t, problems, 3)

	assert.Len(t, ValidatePassword("nodigits!!"), 1)
	assert.Len(t, ValidatePassword("nosymbol12"), 1)
}
