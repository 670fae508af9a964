package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-auth-trust/internal/domain"
	"github.com/go-auth-trust/internal/pkg/id"
	"github.com/go-auth-trust/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

const (
	// Uniform for "no such email" and "wrong password" — anti-enumeration.
	// Answered as 400, not 401, so the response never reveals which layer failed.
	msgInvalidCredentials = "Invalid username or password"
	msgInvalidEmail       = "Invalid email"
	msgDuplicateEmail     = "Email already registered"
	msgInvalidPhone       = "Invalid phone number"
	msgWeakPassword       = "Password must be at least 8 characters long and contain a digit, a lowercase letter and an uppercase letter"
)

// AccountStore is the minimal account access registration requires.
type AccountStore interface {
	Put(ctx context.Context, a *domain.Account) error
}

// CredentialStore is the minimal credential access the session flows require.
type CredentialStore interface {
	Put(ctx context.Context, c *domain.Credential) error
	GetByEmail(ctx context.Context, email string) (*domain.Credential, error)
}

// TokenSigner mints the first session token at login.
type TokenSigner interface {
	Sign(email string, role domain.Role, accountID string) (string, error)
}

// Service establishes the invariants the trust state machine depends on:
// every account starts UNVERIFIED and every session carries exactly one token
// with the persisted role embedded.
type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.Profile, error)
	Login(ctx context.Context, req domain.LoginRequest) (token string, profile *domain.Profile, err error)
}

type service struct {
	accounts    AccountStore
	credentials CredentialStore
	signer      TokenSigner
}

func NewService(accounts AccountStore, credentials CredentialStore, signer TokenSigner) Service {
	return &service{accounts: accounts, credentials: credentials, signer: signer}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Profile, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, domain.E(domain.ErrBadRequest, err.Error())
	}
	if !validate.Email(req.Email) {
		return nil, domain.E(domain.ErrBadRequest, msgInvalidEmail)
	}
	if !validate.Password(req.Password) {
		return nil, domain.E(domain.ErrBadRequest, msgWeakPassword)
	}
	var phone *string
	if req.Phone != nil && *req.Phone != "" {
		normalized, ok := validate.Phone(*req.Phone)
		if !ok {
			return nil, domain.E(domain.ErrBadRequest, msgInvalidPhone)
		}
		phone = &normalized
	}

	email := strings.ToLower(req.Email)
	if _, err := s.credentials.GetByEmail(ctx, email); err == nil {
		return nil, domain.E(domain.ErrBadRequest, msgDuplicateEmail)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check email: %v: %w", err, domain.ErrDependency)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %v: %w", err, domain.ErrDependency)
	}

	// Account row first: the credential row needs the generated account id.
	now := time.Now().UTC()
	acc := &domain.Account{
		AccountID: id.New(),
		Name:      req.Name,
		Surname:   req.Surname,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.accounts.Put(ctx, acc); err != nil {
		return nil, fmt.Errorf("insert account: %v: %w", err, domain.ErrDependency)
	}
	cred := &domain.Credential{
		AccountID:    acc.AccountID,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUnverified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.credentials.Put(ctx, cred); err != nil {
		return nil, fmt.Errorf("insert credential: %v: %w", err, domain.ErrDependency)
	}

	return &domain.Profile{AccountID: acc.AccountID, Email: email, Role: cred.Role}, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (string, *domain.Profile, error) {
	if err := validate.Struct(&req); err != nil {
		return "", nil, domain.E(domain.ErrBadRequest, err.Error())
	}
	if !validate.Email(req.Email) {
		return "", nil, domain.E(domain.ErrBadRequest, msgInvalidEmail)
	}

	cred, err := s.credentials.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.E(domain.ErrBadRequest, msgInvalidCredentials)
		}
		return "", nil, fmt.Errorf("load credential: %v: %w", err, domain.ErrDependency)
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)) != nil {
		return "", nil, domain.E(domain.ErrBadRequest, msgInvalidCredentials)
	}

	token, err := s.signer.Sign(cred.Email, cred.Role, cred.AccountID)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %v: %w", err, domain.ErrDependency)
	}
	return token, &domain.Profile{AccountID: cred.AccountID, Email: cred.Email, Role: cred.Role}, nil
}
