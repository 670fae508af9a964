package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-auth-trust/internal/config"
	"github.com/go-auth-trust/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the JWT payload fields. The role claim must always equal the
// persisted role as of the last successful transition; tokens are reissued on
// every role change so the claim never runs ahead of the store.
type Claims struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	AccountID string `json:"account_id"`
	jwt.RegisteredClaims
}

// Verification failure kinds. Each maps to a 401 with its own message; an
// absent token is a distinct condition handled before Verify is ever called.
var (
	ErrExpired      = errors.New("token expired")
	ErrMalformed    = errors.New("token malformed")
	ErrBadSignature = errors.New("token signature invalid")
)

// Provider signs and verifies HS256 JWTs with a process-wide secret.
// Rotating the secret invalidates all outstanding tokens; there is no
// revocation list.
type Provider struct {
	secret []byte
	expiry time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return &Provider{secret: []byte(cfg.JWTSecret), expiry: cfg.JWTExpiry}, nil
}

func (p *Provider) Sign(email string, role domain.Role, accountID string) (string, error) {
	claims := Claims{
		Email:     email,
		Role:      role.String(),
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(p.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, ErrMalformed
		}
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrMalformed
	}
	if _, err := domain.ParseRole(claims.Role); err != nil {
		return nil, fmt.Errorf("token carries %w", err)
	}
	return claims, nil
}

// Expiry exposes the configured token lifetime so the cookie Max-Age can
// match it exactly.
func (p *Provider) Expiry() time.Duration { return p.expiry }
