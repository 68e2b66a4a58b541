package token

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	tok, err := GenerateJWT("user-a", string(RoleMember), "chat_service")
	require.NoError(t, err)

	claims, err := ParseJWT(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-a", claims.UserID)
	assert.Equal(t, "member", claims.Role)
	assert.Equal(t, "chat_service", claims.Issuer)
}

func TestParseJWT_Expired(t *testing.T) {
	tok, err := GenerateJWTWithTTL("user-a", string(RoleMember), "chat_service", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(tok)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParseJWT_Garbage(t *testing.T) {
	_, err := ParseJWT("not-a-token")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", tok)

	_, ok = BearerToken("Basic zzz")
	assert.False(t, ok)
	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)
}

func TestUnverifiedUserID(t *testing.T) {
	tok, err := GenerateJWT("user-9", string(RoleMember), "chat_client")
	require.NoError(t, err)

	id, err := UnverifiedUserID(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-9", id)

	_, err = UnverifiedUserID("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
