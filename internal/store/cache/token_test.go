package cache

import (
	"crypto/sha256"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	token, err := generateToken("01ARZ3NDEKTSV4RRFFQ69G5FAV", time.Hour, ScopeActivation)
	require.NoError(t, err)

	assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", token.UserID)
	assert.Equal(t, ScopeActivation, token.Scope)
	assert.Len(t, token.Plaintext, 26)

	hash := sha256.Sum256([]byte(token.Plaintext))
	assert.Equal(t, hash[:], token.Hash)

	assert.WithinDuration(t, time.Now().Add(time.Hour), token.Expiry, time.Minute)
}

func TestGenerateTokenUnique(t *testing.T) {
	first, err := generateToken("user", time.Hour, ScopePasswordReset)
	require.NoError(t, err)

	second, err := generateToken("user", time.Hour, ScopePasswordReset)
	require.NoError(t, err)

	assert.NotEqual(t, first.Plaintext, second.Plaintext)
}

func TestTokenKey(t *testing.T) {
	assert.Equal(t, "activation:abc", createTokenKey(ScopeActivation, "abc"))
}
