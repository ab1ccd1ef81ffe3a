package hasher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	h := NewBcrypt(0)

	hash, err := h.Hash("pw123456")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "pw123456", hash)

	assert.NoError(t, h.Compare(hash, "pw123456"))
	assert.Error(t, h.Compare(hash, "wrong-password"))
}

func TestBcryptHasher_HashesDiffer(t *testing.T) {
	h := NewBcrypt(0)

	first, err := h.Hash("pw123456")
	require.NoError(t, err)

	second, err := h.Hash("pw123456")
	require.NoError(t, err)

	// bcrypt salts every hash
	assert.NotEqual(t, first, second)
}
