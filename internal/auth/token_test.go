package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)

	raw, err := tokens.Issue("admin-1")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	id, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", id)
}

func TestIssueProducesDistinctTokens(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)

	first, err := tokens.Issue("admin-1")
	require.NoError(t, err)
	second, err := tokens.Issue("admin-1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	raw, err := NewTokens("secret-a", time.Hour).Issue("admin-1")
	require.NoError(t, err)

	_, err = NewTokens("secret-b", time.Hour).Verify(raw)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tokens := NewTokens("test-secret", -time.Minute)

	raw, err := tokens.Issue("admin-1")
	require.NoError(t, err)

	_, err = tokens.Verify(raw)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)

	_, err := tokens.Verify("not.a.token")
	assert.Error(t, err)
}
