package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tok, err := Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, err := Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestParseExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tok, err := issue("user-123", -time.Minute)
	require.NoError(t, err)

	_, err = Parse(tok)
	assert.Error(t, err)
}

func TestParseTamperedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tok, err := Issue("user-123")
	require.NoError(t, err)

	_, err = Parse(tok + "x")
	assert.Error(t, err)
}

func TestParseSignedWithDifferentSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-one")
	tok, err := Issue("user-123")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret-two")
	_, err = Parse(tok)
	assert.Error(t, err)
}

func TestParseGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := Parse("not-a-token")
	assert.Error(t, err)
}

func TestIssueWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Issue("user-123")
	assert.Error(t, err)
}
