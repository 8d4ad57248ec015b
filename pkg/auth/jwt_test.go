package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(7, "iya@lawlawdelights.ph", RoleSeller, true)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "iya@lawlawdelights.ph", claims.Email)
	assert.Equal(t, RoleSeller, claims.Role)
	assert.True(t, claims.EmailVerified)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	access, err := GenerateToken(7, "iya@lawlawdelights.ph", RoleUser, true)
	require.NoError(t, err)
	refresh, err := GenerateRefreshToken(7, "iya@lawlawdelights.ph", RoleUser, true)
	require.NoError(t, err)

	_, err = ValidateAccessToken(access)
	assert.NoError(t, err)
	_, err = ValidateRefreshToken(refresh)
	assert.NoError(t, err)

	_, err = ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
	_, err = ValidateRefreshToken(access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestValidateToken_garbage(t *testing.T) {
	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateToken_tamperedSignature(t *testing.T) {
	token, err := GenerateToken(1, "a@b.c", RoleUser, false)
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("kakanin123")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "kakanin123"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
