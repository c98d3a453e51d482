package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordVerifiesOriginal(t *testing.T) {
	hash, err := HashPassword("testPass123.", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "testPass123.", hash)
	assert.True(t, CheckPasswordHash("testPass123.", hash))
	assert.False(t, CheckPasswordHash("wrongP.", hash))
}

func TestHashPasswordZeroCostUsesDefault(t *testing.T) {
	hash, err := HashPassword("dummypass", 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestGenerateTokenIsOpaqueAndUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token, err := GenerateToken()
		require.NoError(t, err)
		assert.Len(t, token, tokenBytes*2) // hex-encoded
		assert.False(t, seen[token], "token collision")
		seen[token] = true
	}
}
