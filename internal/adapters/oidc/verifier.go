package oidc

// Package oidc implements the CredentialVerifier contract against an
// OIDC/OAuth2 identity provider. Login uses the resource-owner password
// grant; the raw ID token doubles as the opaque session token and is
// re-verified locally on every VerifyToken call.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/target/fraudwatch-ui-api/internal/domain/auth"
	apperrors "github.com/target/fraudwatch-ui-api/internal/errors"
	"github.com/target/fraudwatch-ui-api/internal/ports"
	"golang.org/x/oauth2"
)

// VerifierConfig holds configuration for the OIDC verifier.
type VerifierConfig struct {
	ClientID     string
	ClientSecret string
	Scope        string
	DiscoveryURL string
	HTTPClient   *http.Client // Optional, defaults to a 30s-timeout client
}

// Verifier implements ports.CredentialVerifier using OIDC/OAuth2.
type Verifier struct {
	config     *oauth2.Config
	httpClient *http.Client

	oidcProvider *gooidc.Provider
	idVerifier   *gooidc.IDTokenVerifier
	// expiredOK re-checks signature but not expiry; used on the refresh path
	// where the ID token may have just lapsed.
	expiredOK *gooidc.IDTokenVerifier

	// refresh tokens are held in memory per subject. Lost on restart, which
	// fails closed into a fresh login.
	mu       sync.Mutex
	refresh  map[string]string
}

var _ ports.CredentialVerifier = (*Verifier)(nil)

// NewVerifier creates an OIDC-backed credential verifier. One discovery
// fetch happens here.
func NewVerifier(cfg VerifierConfig) (*Verifier, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(cfg.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	issuer = strings.TrimSuffix(issuer, ".well-known/openid-configuration")

	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	scope := cfg.Scope
	if scope == "" {
		scope = "openid profile email roles"
	}

	return &Verifier{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       strings.Fields(scope),
			Endpoint:     op.Endpoint(),
		},
		httpClient:   httpClient,
		oidcProvider: op,
		idVerifier:   op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		expiredOK:    op.Verifier(&gooidc.Config{ClientID: cfg.ClientID, SkipExpiryCheck: true}),
		refresh:      make(map[string]string),
	}, nil
}

// Login performs the resource-owner password grant and verifies the
// resulting ID token.
func (v *Verifier) Login(ctx context.Context, in ports.LoginInput) (ports.LoginResult, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, v.httpClient)

	tok, err := v.config.PasswordCredentialsToken(ctx, in.Email, in.Password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			// The IdP answered and said no; one uniform rejection.
			return ports.LoginResult{}, apperrors.InvalidCredentials()
		}
		return ports.LoginResult{}, apperrors.VerifierUnreachable(err)
	}

	rawID, ok := tok.Extra("id_token").(string)
	if !ok || rawID == "" {
		return ports.LoginResult{}, apperrors.VerifierUnreachable(errors.New("token response missing id_token"))
	}

	identity, err := v.identityFromRawToken(ctx, rawID, v.idVerifier)
	if err != nil {
		return ports.LoginResult{}, err
	}

	if tok.RefreshToken != "" {
		v.mu.Lock()
		v.refresh[identity.UserID] = tok.RefreshToken
		v.mu.Unlock()
	}

	return ports.LoginResult{Identity: identity, Token: rawID}, nil
}

// VerifyToken re-verifies a raw ID token locally (signature, audience,
// expiry) and maps its claims.
func (v *Verifier) VerifyToken(ctx context.Context, token string) (domainauth.Identity, error) {
	return v.identityFromRawToken(ctx, token, v.idVerifier)
}

// RefreshToken exchanges the stored refresh token for a fresh ID token.
// Any gap (expired signature, no stored refresh token, IdP rejection)
// resolves to an invalid-token failure.
func (v *Verifier) RefreshToken(ctx context.Context, token string) (string, error) {
	identity, err := v.identityFromRawToken(ctx, token, v.expiredOK)
	if err != nil {
		return "", err
	}

	v.mu.Lock()
	refreshToken := v.refresh[identity.UserID]
	v.mu.Unlock()
	if refreshToken == "" {
		return "", apperrors.InvalidToken(errors.New("no refresh token on record"))
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, v.httpClient)
	src := v.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	fresh, err := src.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return "", apperrors.InvalidToken(err)
		}
		return "", apperrors.VerifierUnreachable(err)
	}

	rawID, ok := fresh.Extra("id_token").(string)
	if !ok || rawID == "" {
		return "", apperrors.InvalidToken(errors.New("refresh response missing id_token"))
	}
	if fresh.RefreshToken != "" {
		v.mu.Lock()
		v.refresh[identity.UserID] = fresh.RefreshToken
		v.mu.Unlock()
	}
	return rawID, nil
}

// Logout drops the stored refresh token. ID tokens themselves cannot be
// revoked; they simply age out.
func (v *Verifier) Logout(ctx context.Context, token string) error {
	identity, err := v.identityFromRawToken(ctx, token, v.expiredOK)
	if err != nil {
		// Nothing to revoke for a token we cannot attribute.
		return nil
	}
	v.mu.Lock()
	delete(v.refresh, identity.UserID)
	v.mu.Unlock()
	return nil
}

// idTokenClaims is the superset of claim shapes we accept from IdPs.
type idTokenClaims struct {
	Sub               string   `json:"sub"`
	Email             string   `json:"email"`
	Name              string   `json:"name"`
	PreferredUsername string   `json:"preferred_username"`
	Roles             []string `json:"roles"`
	Groups            []string `json:"groups"`
}

func (v *Verifier) identityFromRawToken(
	ctx context.Context,
	raw string,
	verifier *gooidc.IDTokenVerifier,
) (domainauth.Identity, error) {
	idTok, err := verifier.Verify(ctx, raw)
	if err != nil {
		return domainauth.Identity{}, apperrors.InvalidToken(err)
	}

	var claims idTokenClaims
	if claimsErr := idTok.Claims(&claims); claimsErr != nil {
		return domainauth.Identity{}, apperrors.InvalidToken(fmt.Errorf("parse id_token claims: %w", claimsErr))
	}

	roles := make([]string, 0, len(claims.Roles)+len(claims.Groups))
	roles = append(roles, claims.Roles...)
	roles = append(roles, claims.Groups...)

	return domainauth.Identity{
		UserID: firstNonEmpty(claims.PreferredUsername, claims.Sub),
		Email:  claims.Email,
		Name:   claims.Name,
		Roles:  roles,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
