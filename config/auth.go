package config

import (
	"fmt"
	"strings"
)

// VerifierMode selects which credential verifier backs the session manager.
type VerifierMode string

const (
	// VerifierModeStatic uses config-driven accounts (development and tests).
	VerifierModeStatic VerifierMode = "static"
	// VerifierModeOIDC uses an OpenID Connect provider.
	VerifierModeOIDC VerifierMode = "oidc"
	// VerifierModeHTTP uses a JSON-over-HTTP identity service.
	VerifierModeHTTP VerifierMode = "http"
)

// UnmarshalText implements encoding.TextUnmarshaler for VerifierMode.
func (v *VerifierMode) UnmarshalText(text []byte) error {
	mode := VerifierMode(strings.ToLower(string(text)))
	switch mode {
	case VerifierModeStatic, VerifierModeOIDC, VerifierModeHTTP:
		*v = mode
		return nil
	default:
		return fmt.Errorf("invalid VerifierMode: %q (valid options: static, oidc, http)", string(text))
	}
}

// OIDCConfig contains OpenID Connect verifier configuration.
type OIDCConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"fraudwatch"`
	ClientSecret string `env:"CLIENT_SECRET"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
}

// HTTPAuthConfig contains JSON-over-HTTP verifier configuration.
type HTTPAuthConfig struct {
	// BaseURL is the identity service root, e.g. "https://id.internal".
	BaseURL string `env:"BASE_URL"`
}

// StaticAuthConfig controls the config-driven verifier used in development.
// Accounts are semicolon-separated "email:password:role" triples, e.g.
// "ana@example.com:secret:analyst;boss@example.com:secret:admin".
type StaticAuthConfig struct {
	Accounts []string `env:"ACCOUNTS" envSeparator:";" envDefault:"dev@example.com:fraudwatch:admin"`
}

// RoleMappingConfig maps identity-backend group strings to canonical roles.
// An empty group is simply never matched.
type RoleMappingConfig struct {
	SuperAdminGroup string `env:"SUPERADMIN_GROUP"`
	AdminGroup      string `env:"ADMIN_GROUP"`
	ManagerGroup    string `env:"MANAGER_GROUP"`
	AnalystGroup    string `env:"ANALYST_GROUP"`

	// AcceptCanonical additionally accepts canonical role names
	// ("analyst", "manager", ...) from the backend as-is.
	AcceptCanonical bool `env:"ACCEPT_CANONICAL" envDefault:"true"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which credential verifier to use.
	Mode VerifierMode `env:"AUTH_MODE" envDefault:"static"`

	// OIDC configuration (used when Mode=oidc).
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// HTTPAuth configuration (used when Mode=http).
	HTTPAuth HTTPAuthConfig `envPrefix:"AUTH_HTTP_"`

	// Static configuration (used when Mode=static).
	Static StaticAuthConfig `envPrefix:"STATIC_AUTH_"`

	// Roles maps backend groups onto the canonical role model.
	Roles RoleMappingConfig `envPrefix:"ROLE_"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	a.Roles.SuperAdminGroup = strings.TrimSpace(a.Roles.SuperAdminGroup)
	a.Roles.AdminGroup = strings.TrimSpace(a.Roles.AdminGroup)
	a.Roles.ManagerGroup = strings.TrimSpace(a.Roles.ManagerGroup)
	a.Roles.AnalystGroup = strings.TrimSpace(a.Roles.AnalystGroup)
}

// ParsedStaticAccount is one parsed static login.
type ParsedStaticAccount struct {
	Email    string
	Password string
	Role     string
}

// ParseStaticAccounts splits the configured account triples. Malformed
// entries produce an error rather than a silently missing login.
func (s StaticAuthConfig) ParseStaticAccounts() ([]ParsedStaticAccount, error) {
	out := make([]ParsedStaticAccount, 0, len(s.Accounts))
	for _, raw := range s.Accounts {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := strings.Split(raw, ":")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return nil, fmt.Errorf("invalid static account %q (want email:password:role)", raw)
		}
		out = append(out, ParsedStaticAccount{
			Email:    parts[0],
			Password: parts[1],
			Role:     strings.ToLower(parts[2]),
		})
	}
	return out, nil
}
