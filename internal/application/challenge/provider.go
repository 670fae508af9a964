package challenge

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/go-auth-trust/internal/domain"
	"github.com/go-auth-trust/internal/infrastructure/sns"
)

// Provider is the one-time-code oracle the trust state machine talks to.
// Start begins an SMS challenge against a normalized phone number; Check
// reports whether the submitted code is approved. Challenge state never leaks
// past this boundary.
type Provider interface {
	Start(ctx context.Context, phone string) error
	Check(ctx context.Context, phone, code string) (approved bool, err error)
}

// ChallengeStore is the minimal persistence interface the provider requires.
type ChallengeStore interface {
	Put(ctx context.Context, c *domain.Challenge) error
	Get(ctx context.Context, phone string) (*domain.Challenge, error)
	Delete(ctx context.Context, phone string) error
}

type provider struct {
	store   ChallengeStore
	sender  sns.SMSSender
	ttl     time.Duration
	timeout time.Duration
}

// NewProvider builds the SNS-backed provider. Every external call runs under
// timeout so a hung delivery can never hang the request indefinitely.
func NewProvider(store ChallengeStore, sender sns.SMSSender, ttl, timeout time.Duration) Provider {
	return &provider{store: store, sender: sender, ttl: ttl, timeout: timeout}
}

func (p *provider) Start(ctx context.Context, phone string) error {
	code, err := newCode()
	if err != nil {
		return fmt.Errorf("generate challenge code: %w", domain.ErrDependency)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	c := &domain.Challenge{
		Phone:     phone,
		Code:      code,
		ExpiresAt: time.Now().Add(p.ttl).Unix(),
	}
	if err := p.store.Put(ctx, c); err != nil {
		return fmt.Errorf("store challenge: %v: %w", err, domain.ErrDependency)
	}
	msg := fmt.Sprintf("Tu código de verificación es %s. Caduca en %d minutos.", code, int(p.ttl.Minutes()))
	if err := p.sender.SendSMS(ctx, phone, msg); err != nil {
		return fmt.Errorf("send challenge SMS: %v: %w", err, domain.ErrDependency)
	}
	return nil
}

func (p *provider) Check(ctx context.Context, phone, code string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	c, err := p.store.Get(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// No pending challenge is a mismatch, not a fault.
			return false, nil
		}
		return false, fmt.Errorf("load challenge: %v: %w", err, domain.ErrDependency)
	}
	if c.ExpiresAt < time.Now().Unix() || c.Code != code {
		return false, nil
	}
	// One-shot: an approved code cannot be replayed.
	if err := p.store.Delete(ctx, phone); err != nil {
		return false, fmt.Errorf("consume challenge: %v: %w", err, domain.ErrDependency)
	}
	return true, nil
}

// newCode returns a uniformly random 7-digit code, zero-padded.
func newCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%07d", n.Int64()), nil
}
