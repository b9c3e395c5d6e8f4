package signup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	maker := NewMaker("signup-secret", time.Minute)

	artifact, err := maker.Issue("a@x.com", 42, "b1")
	require.NoError(t, err)
	require.NotEmpty(t, artifact)

	claims, err := maker.Verify(artifact)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, 42, claims.TokenID)
	assert.Equal(t, "b1", claims.Prefix)
}

func TestVerify_Expired(t *testing.T) {
	maker := NewMaker("signup-secret", time.Minute)
	maker.ttl = -time.Minute

	artifact, err := maker.Issue("a@x.com", 42, "b1")
	require.NoError(t, err)

	_, err = maker.Verify(artifact)
	require.Error(t, err)
}

func TestVerify_WrongSecret(t *testing.T) {
	maker := NewMaker("signup-secret", time.Minute)
	other := NewMaker("different-secret", time.Minute)

	artifact, err := maker.Issue("a@x.com", 42, "b2")
	require.NoError(t, err)

	_, err = other.Verify(artifact)
	require.Error(t, err)
}

func TestNewMaker_DefaultTTL(t *testing.T) {
	maker := NewMaker("signup-secret", 0)
	assert.Equal(t, DefaultTTL, maker.ttl)
}
