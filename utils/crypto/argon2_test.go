package cryptopackage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFromPassword_Format(t *testing.T) {
	hash, err := GenerateFromPassword("gill-net-2024")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=2,p=4$"))
	assert.Len(t, strings.Split(hash, "$"), 6)
}

func TestGenerateFromPassword_Salted(t *testing.T) {
	h1, err := GenerateFromPassword("same-password")
	require.NoError(t, err)
	h2, err := GenerateFromPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestComparePasswordAndHash(t *testing.T) {
	hash, err := GenerateFromPassword("correct horse")
	require.NoError(t, err)

	ok, err := ComparePasswordAndHash("correct horse", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ComparePasswordAndHash("wrong horse", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestComparePasswordAndHash_InvalidHash(t *testing.T) {
	invalid := []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=65536,t=2,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=2,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$bad$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=2,p=4$!!!$aGFzaA",
	}

	for _, h := range invalid {
		ok, err := ComparePasswordAndHash("password", h)
		assert.Error(t, err, h)
		assert.False(t, ok)
	}
}
