package token

import (
	"testing"
	"time"

	"blazely/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	pair, err := IssuePair(42, true, false)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	claims, err := VerifyAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.AccountID)
	assert.True(t, claims.IsStaff)
	assert.False(t, claims.IsSuperuser)
	assert.NotEmpty(t, claims.ID, "jti must be set for blacklisting")
}

func TestVerifyRejectsRefreshAsAccess(t *testing.T) {
	pair, err := IssuePair(1, false, false)
	require.NoError(t, err)

	_, err = VerifyAccess(pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := VerifyAccess("definitely.not.ajwt")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	claims := Claims{
		AccountID: 7,
		TokenType: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "some-jti",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-key"))
	require.NoError(t, err)

	_, err = VerifyAccess(forged)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerifyRejectsExpired(t *testing.T) {
	old := config.AccessTokenTTL
	config.AccessTokenTTL = -time.Minute
	defer func() { config.AccessTokenTTL = old }()

	pair, err := IssuePair(1, false, false)
	require.NoError(t, err)

	_, err = VerifyAccess(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}
