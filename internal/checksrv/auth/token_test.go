package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kokoro-care/kokoro/internal/checksrv/config"
)

func TestTokenRoundTrip(t *testing.T) {
	config.TestInit()
	userID := uuid.New()

	access, err := CreateAccessToken(userID, "employee")
	require.NoError(t, err)
	refresh, err := CreateRefreshToken(userID, "employee")
	require.NoError(t, err)

	claims, err := ParseToken(access, TokenUseAccess)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID())
	assert.Equal(t, "employee", claims.Role)

	claims, err = ParseToken(refresh, TokenUseRefresh)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID())
}

func TestTokenUseMismatchRejected(t *testing.T) {
	config.TestInit()
	userID := uuid.New()

	access, err := CreateAccessToken(userID, "admin")
	require.NoError(t, err)

	// An access token must not pass as a refresh token.
	_, err = ParseToken(access, TokenUseRefresh)
	require.Error(t, err)

	refresh, err := CreateRefreshToken(userID, "admin")
	require.NoError(t, err)
	_, err = ParseToken(refresh, TokenUseAccess)
	require.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	config.TestInit()
	_, err := ParseToken("not-a-jwt", TokenUseAccess)
	require.Error(t, err)
}
