package trust

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-auth-trust/internal/application/challenge"
	"github.com/go-auth-trust/internal/domain"
	"github.com/go-auth-trust/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// User-facing messages. The 4xx/403 strings are part of the API contract
// (including the historical "suscribe" spelling) and are asserted by tests.
const (
	msgAlreadyVerified  = "User already verified."
	msgNotEligible      = "User must be verified to suscribe."
	msgMissingPhone     = "Phone number is missing"
	msgInvalidPhone     = "Invalid phone number"
	msgInvalidCode      = "Invalid verification code"
	msgCodeMismatch     = "Verification code mismatch"
	msgMissingPasswords = "Old and new password are required"
	msgWrongOldPassword = "Wrong old password"
	msgSamePassword     = "New password must be different from the old one"
	msgWeakPassword     = "Password must be at least 8 characters long and contain a digit, a lowercase letter and an uppercase letter"
)

// Subject is the token-derived identity an operation acts on. Role is the
// token's claimed role — transitions gate on the claim, then confirm the
// persisted value before reissuing.
type Subject struct {
	Email     string
	AccountID string
	Role      domain.Role
}

// AccountStore is the minimal account access the state machine requires.
type AccountStore interface {
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	UpdatePhone(ctx context.Context, accountID, phone string) error
}

// CredentialStore is the minimal credential access the state machine requires.
type CredentialStore interface {
	Get(ctx context.Context, accountID string) (*domain.Credential, error)
	UpdateRole(ctx context.Context, accountID string, role domain.Role) error
	GetRole(ctx context.Context, accountID string) (domain.Role, error)
	UpdatePassword(ctx context.Context, accountID, passwordHash string) error
}

// TokenSigner mints replacement session tokens after a committed transition.
type TokenSigner interface {
	Sign(email string, role domain.Role, accountID string) (string, error)
}

// Service is the trust-level state machine: it validates role-transition
// preconditions, orchestrates the challenge protocol and commits role changes
// atomically with token reissuance.
type Service interface {
	StartPhoneVerification(ctx context.Context, sub Subject) error
	CheckPhoneVerification(ctx context.Context, sub Subject, code string) (newToken string, err error)
	Subscribe(ctx context.Context, sub Subject) (newToken string, err error)
	ChangePassword(ctx context.Context, sub Subject, req domain.ChangePasswordRequest) error
	UpdatePhone(ctx context.Context, sub Subject, phone string) error
}

type service struct {
	accounts    AccountStore
	credentials CredentialStore
	provider    challenge.Provider
	signer      TokenSigner
}

func NewService(accounts AccountStore, credentials CredentialStore, provider challenge.Provider, signer TokenSigner) Service {
	return &service{
		accounts:    accounts,
		credentials: credentials,
		provider:    provider,
		signer:      signer,
	}
}

// StartPhoneVerification begins the UNVERIFIED → PHONE_VERIFIED protocol.
// It does not change the role or reissue the token; advancement only happens
// on a successful code check.
func (s *service) StartPhoneVerification(ctx context.Context, sub Subject) error {
	if sub.Role != domain.RoleUnverified {
		return domain.E(domain.ErrForbidden, msgAlreadyVerified)
	}
	phone, err := s.resolvePhone(ctx, sub.AccountID)
	if err != nil {
		return err
	}
	if err := s.provider.Start(ctx, phone); err != nil {
		return err
	}
	return nil
}

// CheckPhoneVerification completes the protocol: it re-validates everything
// independently of StartPhoneVerification (calls may arrive statelessly),
// asks the provider to check the code, persists PHONE_VERIFIED with a
// read-back guard, and mints the replacement token.
func (s *service) CheckPhoneVerification(ctx context.Context, sub Subject, code string) (string, error) {
	if sub.Role != domain.RoleUnverified {
		return "", domain.E(domain.ErrForbidden, msgAlreadyVerified)
	}
	// Shape check before any provider call — never spend an external request
	// on a malformed code.
	if !validate.Code(code) {
		return "", domain.E(domain.ErrBadRequest, msgInvalidCode)
	}
	phone, err := s.resolvePhone(ctx, sub.AccountID)
	if err != nil {
		return "", err
	}
	approved, err := s.provider.Check(ctx, phone, code)
	if err != nil {
		return "", err
	}
	if !approved {
		return "", domain.E(domain.ErrBadRequest, msgCodeMismatch)
	}
	return s.advance(ctx, sub, domain.RolePhoneVerified)
}

// Subscribe advances PHONE_VERIFIED → SUBSCRIBED. No external challenge.
func (s *service) Subscribe(ctx context.Context, sub Subject) (string, error) {
	if sub.Role != domain.RolePhoneVerified {
		return "", domain.E(domain.ErrForbidden, msgNotEligible)
	}
	return s.advance(ctx, sub, domain.RoleSubscribed)
}

func (s *service) ChangePassword(ctx context.Context, sub Subject, req domain.ChangePasswordRequest) error {
	if req.OldPassword == "" || req.NewPassword == "" {
		return domain.E(domain.ErrBadRequest, msgMissingPasswords)
	}
	cred, err := s.credentials.Get(ctx, sub.AccountID)
	if err != nil {
		return fmt.Errorf("load credential: %v: %w", err, domain.ErrDependency)
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.OldPassword)) != nil {
		return domain.E(domain.ErrBadRequest, msgWrongOldPassword)
	}
	if req.NewPassword == req.OldPassword {
		return domain.E(domain.ErrBadRequest, msgSamePassword)
	}
	if !validate.Password(req.NewPassword) {
		return domain.E(domain.ErrBadRequest, msgWeakPassword)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %v: %w", err, domain.ErrDependency)
	}
	if err := s.credentials.UpdatePassword(ctx, sub.AccountID, string(hash)); err != nil {
		return fmt.Errorf("persist password: %v: %w", err, domain.ErrDependency)
	}
	// Role unchanged, no token reissuance needed.
	return nil
}

// UpdatePhone sets the account's phone number after the same shape validation
// the verification protocol applies.
func (s *service) UpdatePhone(ctx context.Context, sub Subject, phone string) error {
	normalized, ok := validate.Phone(phone)
	if !ok {
		return domain.E(domain.ErrBadRequest, msgInvalidPhone)
	}
	if err := s.accounts.UpdatePhone(ctx, sub.AccountID, normalized); err != nil {
		return fmt.Errorf("persist phone: %v: %w", err, domain.ErrDependency)
	}
	return nil
}

// resolvePhone loads the account's phone number and validates its shape.
// The format check is strict and runs before any network call
// to the provider.
func (s *service) resolvePhone(ctx context.Context, accountID string) (string, error) {
	acc, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("load account: %v: %w", err, domain.ErrDependency)
	}
	if acc.Phone == nil || *acc.Phone == "" {
		return "", domain.E(domain.ErrBadRequest, msgMissingPhone)
	}
	normalized, ok := validate.Phone(*acc.Phone)
	if !ok {
		return "", domain.E(domain.ErrBadRequest, msgInvalidPhone)
	}
	return normalized, nil
}

// advance persists the new role, confirms it with a read-back, and mints the
// replacement token. The store offers no transaction visible to this core, so
// the read-back is the consistency guard: a token asserting the new role is
// only issued once the store demonstrably recorded it.
func (s *service) advance(ctx context.Context, sub Subject, newRole domain.Role) (string, error) {
	if err := s.credentials.UpdateRole(ctx, sub.AccountID, newRole); err != nil {
		return "", fmt.Errorf("persist role: %v: %w", err, domain.ErrDependency)
	}
	got, err := s.credentials.GetRole(ctx, sub.AccountID)
	if err != nil {
		return "", fmt.Errorf("read back role: %v: %w", err, domain.ErrDependency)
	}
	if got != newRole {
		slog.Error("role write did not take", "account_id", sub.AccountID, "wrote", newRole, "read", got)
		return "", fmt.Errorf("role not persisted: wrote %s, read %s: %w", newRole, got, domain.ErrIntegrity)
	}
	token, err := s.signer.Sign(sub.Email, newRole, sub.AccountID)
	if err != nil {
		return "", fmt.Errorf("sign token: %v: %w", err, domain.ErrDependency)
	}
	return token, nil
}
