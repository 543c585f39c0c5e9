package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher(4)

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, hasher.Verify("correct horse battery staple", hash))
	assert.False(t, hasher.Verify("wrong password", hash))
}

func TestPasswordHasher_HashesAreSalted(t *testing.T) {
	hasher := NewPasswordHasher(4)

	first, err := hasher.Hash("same password")
	require.NoError(t, err)
	second, err := hasher.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("same password", first))
	assert.True(t, hasher.Verify("same password", second))
}

func TestPasswordHasher_MalformedHashIsMismatch(t *testing.T) {
	hasher := NewPasswordHasher(4)

	assert.False(t, hasher.Verify("anything", "not a bcrypt hash"))
	assert.False(t, hasher.Verify("anything", ""))
}

func TestPasswordHasher_InvalidCostFallsBack(t *testing.T) {
	hasher := NewPasswordHasher(99)

	hash, err := hasher.Hash("password")
	require.NoError(t, err)
	assert.True(t, hasher.Verify("password", hash))
}
