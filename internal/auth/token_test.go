package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := NewTokenService("")
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	svc, err := NewTokenService("segredo-de-teste")
	require.NoError(t, err)

	userID := uuid.New()
	tokenString, err := svc.NewToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	token, err := svc.ValidateToken(tokenString)
	require.NoError(t, err)

	got, err := svc.GetUserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc, err := NewTokenService("segredo-de-teste")
	require.NoError(t, err)

	other, err := NewTokenService("outro-segredo")
	require.NoError(t, err)

	tokenString, err := svc.NewToken(uuid.New())
	require.NoError(t, err)

	_, err = other.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc, err := NewTokenService("segredo-de-teste")
	require.NoError(t, err)

	_, err = svc.ValidateToken("nem.um.jwt")
	assert.Error(t, err)
}
