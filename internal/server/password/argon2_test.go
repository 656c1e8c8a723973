package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastArgon2() *Argon2Hasher {
	return NewArgon2Hasher(WithArgon2Params(1, 8*1024, 1))
}

func TestArgon2Hasher_RoundTrip(t *testing.T) {
	h := fastArgon2()

	hash, salt, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.Len(t, hash, 32)
	assert.Len(t, salt, 16)

	assert.True(t, h.Verify("correct horse", hash, salt))
	assert.False(t, h.Verify("battery staple", hash, salt))
	assert.False(t, h.Verify("correct horse", nil, salt))
	assert.False(t, h.Verify("correct horse", hash, nil))
}

func TestArgon2Hasher_SaltsAreUnique(t *testing.T) {
	h := fastArgon2()

	hash1, salt1, err := h.Hash("same")
	require.NoError(t, err)
	hash2, salt2, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)
}
