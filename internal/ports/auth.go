package ports

// Package ports defines interfaces (hexagonal ports) for auth-related
// behavior. Implementations live in internal/adapters; orchestration in
// internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/target/fraudwatch-ui-api/internal/domain/auth"
)

// ErrRecordNotFound is returned by SessionRecordStore implementations
// when no record exists for a session ID. An absent record is a normal
// first-visit condition, not a fault.
var ErrRecordNotFound = errors.New("session record not found")

// LoginInput carries credentials for a login attempt. Role is an optional
// hint some identity backends accept; verifiers are free to ignore it.
type LoginInput struct {
	Email    string
	Password string
	Role     string
}

// LoginResult is the successful outcome of a credential check.
type LoginResult struct {
	Identity domainauth.Identity
	Token    string
}

// CredentialVerifier is the contract with the identity backend. The
// session layer depends only on this shape; swapping a mock backend for
// a real one must require zero session-layer changes.
//
// Failure taxonomy: implementations return errors matching
// apperrors.IsInvalidCredentials / IsInvalidToken /
// IsVerifierUnreachable; the session layer treats an unreachable
// verifier exactly like an invalid token (fail closed).
type CredentialVerifier interface {
	// Login checks credentials and returns the identity plus an opaque token.
	Login(ctx context.Context, in LoginInput) (LoginResult, error)

	// VerifyToken confirms a previously issued token and returns its identity.
	VerifyToken(ctx context.Context, token string) (domainauth.Identity, error)

	// RefreshToken exchanges a token for a fresh one.
	RefreshToken(ctx context.Context, token string) (string, error)

	// Logout revokes a token server-side. Best effort; callers never block
	// local logout on it.
	Logout(ctx context.Context, token string) error
}

// SessionRecordStore persists the durable session mirror under a fixed
// key per session ID.
type SessionRecordStore interface {
	Save(ctx context.Context, sessionID string, rec domainauth.Record) error
	Get(ctx context.Context, sessionID string) (domainauth.Record, error)
	Delete(ctx context.Context, sessionID string) error
}

// RoleMapper maps backend role/group strings to exactly one canonical
// application role. Mappers must fail closed: unknown input maps to
// RoleGuest, never to a privileged role.
type RoleMapper interface {
	Map(roles []string) domainauth.Role
}
