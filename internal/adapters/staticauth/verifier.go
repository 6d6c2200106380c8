package staticauth

// Package staticauth provides a config-driven CredentialVerifier for local
// development and tests. Accounts live in memory and tokens are opaque
// UUIDs tracked by the verifier itself.

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/target/fraudwatch-ui-api/internal/domain/auth"
	apperrors "github.com/target/fraudwatch-ui-api/internal/errors"
	"github.com/target/fraudwatch-ui-api/internal/ports"
)

// Account is one dev login.
type Account struct {
	Email    string
	Password string
	Name     string
	// Roles are the backend-style role strings handed to the role mapper.
	Roles []string
}

// Config controls the static verifier.
type Config struct {
	Accounts []Account
	// TokenTTL defaults to 8h when zero.
	TokenTTL time.Duration
}

type issuedToken struct {
	email     string
	expiresAt time.Time
}

// Verifier implements ports.CredentialVerifier against an in-memory
// account list. Safe for concurrent use.
type Verifier struct {
	mu       sync.Mutex
	accounts map[string]Account // keyed by lowercase email
	tokens   map[string]issuedToken
	ttl      time.Duration
	now      func() time.Time
}

var _ ports.CredentialVerifier = (*Verifier)(nil)

// NewVerifier constructs a static verifier from Config.
func NewVerifier(cfg Config) (*Verifier, error) {
	if len(cfg.Accounts) == 0 {
		return nil, errors.New("static auth: at least one account is required")
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = 8 * time.Hour
	}

	accounts := make(map[string]Account, len(cfg.Accounts))
	for _, acc := range cfg.Accounts {
		if acc.Email == "" || acc.Password == "" {
			return nil, errors.New("static auth: account email and password are required")
		}
		accounts[strings.ToLower(acc.Email)] = acc
	}

	return &Verifier{
		accounts: accounts,
		tokens:   make(map[string]issuedToken),
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// Login checks the account list. Lookup misses and password mismatches
// return the same error shape.
func (v *Verifier) Login(_ context.Context, in ports.LoginInput) (ports.LoginResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	acc, ok := v.accounts[strings.ToLower(strings.TrimSpace(in.Email))]
	if !ok || acc.Password != in.Password {
		return ports.LoginResult{}, apperrors.InvalidCredentials()
	}

	token := uuid.NewString()
	v.tokens[token] = issuedToken{email: strings.ToLower(acc.Email), expiresAt: v.now().Add(v.ttl)}

	return ports.LoginResult{Identity: identityFor(acc), Token: token}, nil
}

// VerifyToken confirms a token previously issued by Login or RefreshToken.
func (v *Verifier) VerifyToken(_ context.Context, token string) (domainauth.Identity, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	issued, ok := v.tokens[token]
	if !ok {
		return domainauth.Identity{}, apperrors.InvalidToken(errors.New("unknown token"))
	}
	if v.now().After(issued.expiresAt) {
		delete(v.tokens, token)
		return domainauth.Identity{}, apperrors.InvalidToken(errors.New("token expired"))
	}

	acc, ok := v.accounts[issued.email]
	if !ok {
		delete(v.tokens, token)
		return domainauth.Identity{}, apperrors.InvalidToken(errors.New("account removed"))
	}

	return identityFor(acc), nil
}

// RefreshToken rotates a valid token; the old token stops working.
func (v *Verifier) RefreshToken(ctx context.Context, token string) (string, error) {
	identity, err := v.VerifyToken(ctx, token)
	if err != nil {
		return "", err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.tokens, token)
	fresh := uuid.NewString()
	v.tokens[fresh] = issuedToken{email: strings.ToLower(identity.Email), expiresAt: v.now().Add(v.ttl)}
	return fresh, nil
}

// Logout revokes a token. Unknown tokens are a no-op.
func (v *Verifier) Logout(_ context.Context, token string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.tokens, token)
	return nil
}

// SetNowFunc overrides the clock, for expiry tests.
func (v *Verifier) SetNowFunc(now func() time.Time) { v.now = now }

func identityFor(acc Account) domainauth.Identity {
	return domainauth.Identity{
		UserID: strings.ToLower(acc.Email),
		Email:  acc.Email,
		Name:   acc.Name,
		Roles:  append([]string(nil), acc.Roles...),
	}
}
