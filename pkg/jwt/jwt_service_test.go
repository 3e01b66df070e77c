package jwt

import (
	"testing"
	"time"

	"github.com/apolloncare/cs618-project/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserTokenRoundTrip(t *testing.T) {
	svc := NewJWTService()

	token := svc.GenerateTokenUser("user-123", "alice")
	require.NotEmpty(t, token)

	userID, username, err := svc.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
	assert.Equal(t, "alice", username)
}

func TestGetUserIDByTokenRejectsGarbage(t *testing.T) {
	svc := NewJWTService()

	_, _, err := svc.GetUserIDByToken("not.a.token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestOneTimeToken(t *testing.T) {
	svc := NewJWTService()

	token, err := svc.GenerateTokenOneTime(map[string]any{"email": "alice@example.com"}, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateTokenOneTime(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims["email"])
}

func TestOneTimeTokenExpires(t *testing.T) {
	svc := NewJWTService()

	token, err := svc.GenerateTokenOneTime(map[string]any{"email": "alice@example.com"}, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateTokenOneTime(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}
