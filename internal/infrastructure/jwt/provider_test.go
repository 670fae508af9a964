package jwtinfra

import (
	"testing"
	"time"

	"github.com/go-auth-trust/internal/config"
	"github.com/go-auth-trust/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, expiry time.Duration) *Provider {
	t.Helper()
	p, err := NewProvider(&config.Config{JWTSecret: "test-secret", JWTExpiry: expiry})
	require.NoError(t, err)
	return p
}

func TestNewProvider_RequiresSecret(t *testing.T) {
	_, err := NewProvider(&config.Config{JWTExpiry: time.Hour})
	assert.Error(t, err)
}

func TestSignVerify_RoundTrip(t *testing.T) {
	p := newTestProvider(t, 24*time.Hour)

	token, err := p.Sign("t@test.com", domain.RolePhoneVerified, "acc1")
	require.NoError(t, err)

	claims, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "t@test.com", claims.Email)
	assert.Equal(t, "PHONE_VERIFIED", claims.Role)
	assert.Equal(t, "acc1", claims.AccountID)
}

func TestVerify_Expired(t *testing.T) {
	p := newTestProvider(t, -time.Hour) // already expired at issuance

	token, err := p.Sign("t@test.com", domain.RoleUnverified, "acc1")
	require.NoError(t, err)

	_, err = p.Verify(token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerify_Malformed(t *testing.T) {
	p := newTestProvider(t, time.Hour)
	_, err := p.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestVerify_BadSignature(t *testing.T) {
	p := newTestProvider(t, time.Hour)
	other := newTestProviderWithSecret(t, "another-secret")

	token, err := other.Sign("t@test.com", domain.RoleUnverified, "acc1")
	require.NoError(t, err)

	_, err = p.Verify(token)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerify_RejectsUnknownRole(t *testing.T) {
	p := newTestProvider(t, time.Hour)

	claims := Claims{
		Email:     "t@test.com",
		Role:      "SUPERADMIN",
		AccountID: "acc1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = p.Verify(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func newTestProviderWithSecret(t *testing.T, secret string) *Provider {
	t.Helper()
	p, err := NewProvider(&config.Config{JWTSecret: secret, JWTExpiry: time.Hour})
	require.NoError(t, err)
	return p
}
