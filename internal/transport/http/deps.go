package http

import (
	"github.com/go-auth-trust/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-auth-trust/internal/infrastructure/jwt"
	"github.com/go-auth-trust/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	AccountRepo    *dynamo.AccountRepo
	CredentialRepo *dynamo.CredentialRepo
	ChallengeRepo  *dynamo.ChallengeRepo
	SMSSender      sns.SMSSender
	JWTProvider    *jwtinfra.Provider
}
