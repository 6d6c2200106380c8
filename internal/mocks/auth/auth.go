package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/target/fraudwatch-ui-api/internal/domain/auth"
	"github.com/target/fraudwatch-ui-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CredentialVerifier = (*MockCredentialVerifier)(nil)
	_ ports.SessionRecordStore = (*MemoryRecordStore)(nil)
)

// MockCredentialVerifier simulates an identity backend for tests.
// Behavior is overridden per test through the Func fields; calls are
// counted so tests can assert coalescing and exact call counts.
type MockCredentialVerifier struct {
	LoginFunc   func(ctx context.Context, in ports.LoginInput) (ports.LoginResult, error)
	VerifyFunc  func(ctx context.Context, token string) (domainauth.Identity, error)
	RefreshFunc func(ctx context.Context, token string) (string, error)
	LogoutFunc  func(ctx context.Context, token string) error

	// DefaultIdentity and DefaultToken back the zero-config happy path.
	DefaultIdentity domainauth.Identity
	DefaultToken    string

	mu           sync.Mutex
	loginCalls   int
	verifyCalls  int
	refreshCalls int
	logoutCalls  int
}

// NewMockCredentialVerifier creates a verifier double with a plausible
// default identity.
func NewMockCredentialVerifier() *MockCredentialVerifier {
	return &MockCredentialVerifier{
		DefaultIdentity: domainauth.Identity{
			UserID: "mock-user-1",
			Email:  "mock.user@example.com",
			Name:   "Mock User",
			Roles:  []string{"analyst"},
		},
		DefaultToken: "mock-token-1",
	}
}

func (m *MockCredentialVerifier) Login(ctx context.Context, in ports.LoginInput) (ports.LoginResult, error) {
	m.mu.Lock()
	m.loginCalls++
	m.mu.Unlock()

	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, in)
	}
	return ports.LoginResult{Identity: m.DefaultIdentity, Token: m.DefaultToken}, nil
}

func (m *MockCredentialVerifier) VerifyToken(ctx context.Context, token string) (domainauth.Identity, error) {
	m.mu.Lock()
	m.verifyCalls++
	m.mu.Unlock()

	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, token)
	}
	return m.DefaultIdentity, nil
}

func (m *MockCredentialVerifier) RefreshToken(ctx context.Context, token string) (string, error) {
	m.mu.Lock()
	m.refreshCalls++
	m.mu.Unlock()

	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, token)
	}
	return m.DefaultToken, nil
}

func (m *MockCredentialVerifier) Logout(ctx context.Context, token string) error {
	m.mu.Lock()
	m.logoutCalls++
	m.mu.Unlock()

	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return nil
}

// LoginCalls returns how many times Login was invoked.
func (m *MockCredentialVerifier) LoginCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loginCalls
}

// VerifyCalls returns how many times VerifyToken was invoked.
func (m *MockCredentialVerifier) VerifyCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.verifyCalls
}

// RefreshCalls returns how many times RefreshToken was invoked.
func (m *MockCredentialVerifier) RefreshCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshCalls
}

// LogoutCalls returns how many times Logout was invoked.
func (m *MockCredentialVerifier) LogoutCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logoutCalls
}

// MemoryRecordStore is an in-memory session record store for unit tests.
// Safe for concurrent use so coalescing tests can hammer it.
type MemoryRecordStore struct {
	mu      sync.Mutex
	records map[string]domainauth.Record

	// FailSave, when set, is returned from Save to simulate store outages.
	FailSave error
}

// NewMemoryRecordStore creates a new in-memory record store.
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: make(map[string]domainauth.Record)}
}

func (m *MemoryRecordStore) Save(_ context.Context, sessionID string, rec domainauth.Record) error {
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}
	if m.FailSave != nil {
		return m.FailSave
	}
	m.mu.Lock()
	m.records[sessionID] = rec
	m.mu.Unlock()
	return nil
}

func (m *MemoryRecordStore) Get(_ context.Context, sessionID string) (domainauth.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[sessionID]
	if !ok {
		return domainauth.Record{}, ports.ErrRecordNotFound
	}
	return rec, nil
}

func (m *MemoryRecordStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.records, sessionID)
	m.mu.Unlock()
	return nil
}

// Len reports how many records are stored.
func (m *MemoryRecordStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
