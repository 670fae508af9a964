package middleware

import (
	"context"
	"net/http"

	jwtinfra "github.com/go-auth-trust/internal/infrastructure/jwt"
)

type contextKey string

const ClaimsKey contextKey = "claims"

// SessionCookie is the HTTP-only cookie carrying the session token.
const SessionCookie = "authToken"

// Auth returns middleware that validates the session cookie's JWT and injects
// claims into context. An absent cookie is the distinct "no credential
// presented" condition; a present but unverifiable token reports its failure kind.
func Auth(provider *jwtinfra.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			claims, err := provider.Verify(cookie.Value)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized: "+err.Error())
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts JWT claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*jwtinfra.Claims)
	return c, ok
}
