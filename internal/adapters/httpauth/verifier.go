package httpauth

// Package httpauth implements the CredentialVerifier contract against a
// plain REST identity backend.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/target/fraudwatch-ui-api/internal/domain/auth"
	apperrors "github.com/target/fraudwatch-ui-api/internal/errors"
	"github.com/target/fraudwatch-ui-api/internal/ports"
)

// Config controls the HTTP verifier.
type Config struct {
	// BaseURL of the identity backend, e.g. "https://id.internal.example.com".
	BaseURL string
	// HTTPClient is optional; defaults to a 15s-timeout client.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Verifier implements ports.CredentialVerifier over REST.
type Verifier struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ ports.CredentialVerifier = (*Verifier)(nil)

// NewVerifier constructs an HTTP credential verifier.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("http auth: base URL is required")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  client,
		logger:  logger,
	}, nil
}

// Login posts credentials to the backend and normalizes the response.
func (v *Verifier) Login(ctx context.Context, in ports.LoginInput) (ports.LoginResult, error) {
	body := map[string]string{"email": in.Email, "password": in.Password}
	if in.Role != "" {
		body["role"] = in.Role
	}

	doc, err := v.post(ctx, "/auth/login", "", body)
	if err != nil {
		if isRejection(err) {
			return ports.LoginResult{}, apperrors.InvalidCredentials()
		}
		return ports.LoginResult{}, err
	}

	mapped, err := mapLoginResponse(doc)
	if err != nil {
		return ports.LoginResult{}, apperrors.VerifierUnreachable(err)
	}
	v.logShape("login", mapped.Match, mapped.Shape)

	return ports.LoginResult{Identity: mapped.Identity, Token: mapped.Token}, nil
}

// VerifyToken asks the backend to confirm a token.
func (v *Verifier) VerifyToken(ctx context.Context, token string) (domainauth.Identity, error) {
	doc, err := v.post(ctx, "/auth/verify", token, nil)
	if err != nil {
		if isRejection(err) {
			return domainauth.Identity{}, apperrors.InvalidToken(err)
		}
		return domainauth.Identity{}, err
	}

	mapped, err := mapIdentityResponse(doc)
	if err != nil {
		return domainauth.Identity{}, apperrors.InvalidToken(err)
	}
	v.logShape("verify", mapped.Match, mapped.Shape)
	return mapped.Identity, nil
}

// RefreshToken exchanges a token for a fresh one.
func (v *Verifier) RefreshToken(ctx context.Context, token string) (string, error) {
	doc, err := v.post(ctx, "/auth/refresh", token, nil)
	if err != nil {
		if isRejection(err) {
			return "", apperrors.InvalidToken(err)
		}
		return "", err
	}

	mapped, err := mapIdentityResponse(doc)
	if err != nil || mapped.Token == "" {
		return "", apperrors.InvalidToken(errors.New("refresh response carried no token"))
	}
	v.logShape("refresh", mapped.Match, mapped.Shape)
	return mapped.Token, nil
}

// Logout revokes a token server-side. Failures are returned but callers
// treat revocation as best effort.
func (v *Verifier) Logout(ctx context.Context, token string) error {
	_, err := v.post(ctx, "/auth/logout", token, nil)
	if err != nil && !isRejection(err) {
		return err
	}
	return nil
}

// rejectionError marks a 4xx backend response.
type rejectionError struct{ status int }

func (e *rejectionError) Error() string { return fmt.Sprintf("identity backend rejected: %d", e.status) }

func isRejection(err error) bool {
	var rej *rejectionError
	return errors.As(err, &rej)
}

// post sends a JSON request and decodes a JSON document. Transport
// failures map to VerifierUnreachable; 4xx maps to rejectionError for the
// caller to classify; other statuses map to VerifierUnreachable as well
// since a broken backend must fail closed.
func (v *Verifier) post(ctx context.Context, path, token string, body any) (any, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, apperrors.VerifierUnreachable(err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			v.logger.Warn("close identity response body", "error", cerr)
		}
	}()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, &rejectionError{status: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.VerifierUnreachable(fmt.Errorf("identity backend status %d", resp.StatusCode))
	}

	var doc any
	if decodeErr := json.NewDecoder(resp.Body).Decode(&doc); decodeErr != nil {
		return nil, apperrors.VerifierUnreachable(fmt.Errorf("decode identity response: %w", decodeErr))
	}
	return doc, nil
}

func (v *Verifier) logShape(op string, match ShapeMatch, shape string) {
	if match == ShapeDefaulted {
		v.logger.Warn("identity response shape defaulted", "op", op, "shape", shape)
		return
	}
	v.logger.Debug("identity response shape", "op", op, "shape", shape)
}
