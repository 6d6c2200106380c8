package bootstrap

import (
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/target/fraudwatch-ui-api/config"
	"github.com/target/fraudwatch-ui-api/internal/adapters/authroles"
	"github.com/target/fraudwatch-ui-api/internal/adapters/httpauth"
	"github.com/target/fraudwatch-ui-api/internal/adapters/oidc"
	redisstore "github.com/target/fraudwatch-ui-api/internal/adapters/redis"
	"github.com/target/fraudwatch-ui-api/internal/adapters/staticauth"
	"github.com/target/fraudwatch-ui-api/internal/observability/statsd"
	"github.com/target/fraudwatch-ui-api/internal/ports"
	"github.com/target/fraudwatch-ui-api/internal/service"
)

// SessionManagerConfig contains dependencies for building the session manager.
type SessionManagerConfig struct {
	Config  *config.AppConfig
	Redis   goredis.UniversalClient
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// BuildSessionManager selects the credential verifier from configuration
// and assembles the session manager on top of the Redis record store.
func BuildSessionManager(cfg SessionManagerConfig) (*service.SessionManager, error) {
	verifier, err := buildVerifier(cfg.Config, cfg.Logger)
	if err != nil {
		return nil, err
	}

	records := redisstore.
		NewRecordStoreWithPrefix(cfg.Redis, cfg.Config.Session.KeyPrefix).
		WithTTL(cfg.Config.Session.RecordTTL)

	return service.NewSessionManager(service.SessionManagerOptions{
		Verifier: verifier,
		Records:  records,
		Roles:    buildRoleMapper(cfg.Config.Auth.Roles),
		Logger:   cfg.Logger,
		Metrics:  cfg.Metrics,
	}), nil
}

//nolint:ireturn // the verifier implementation is chosen at runtime from config.
func buildVerifier(cfg *config.AppConfig, logger *slog.Logger) (ports.CredentialVerifier, error) {
	switch cfg.Auth.Mode {
	case config.VerifierModeStatic:
		return buildStaticVerifier(cfg.Auth.Static)
	case config.VerifierModeOIDC:
		verifier, err := oidc.NewVerifier(oidc.VerifierConfig{
			ClientID:     cfg.Auth.OIDC.ClientID,
			ClientSecret: cfg.Auth.OIDC.ClientSecret,
			Scope:        cfg.Auth.OIDC.Scope,
			DiscoveryURL: cfg.Auth.OIDC.DiscoveryURL,
		})
		if err != nil {
			return nil, fmt.Errorf("build oidc verifier: %w", err)
		}
		return verifier, nil
	case config.VerifierModeHTTP:
		verifier, err := httpauth.NewVerifier(httpauth.Config{
			BaseURL: cfg.Auth.HTTPAuth.BaseURL,
			Logger:  logger,
		})
		if err != nil {
			return nil, fmt.Errorf("build http verifier: %w", err)
		}
		return verifier, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Auth.Mode)
	}
}

func buildStaticVerifier(cfg config.StaticAuthConfig) (*staticauth.Verifier, error) {
	parsed, err := cfg.ParseStaticAccounts()
	if err != nil {
		return nil, fmt.Errorf("parse static accounts: %w", err)
	}

	accounts := make([]staticauth.Account, 0, len(parsed))
	for _, acc := range parsed {
		accounts = append(accounts, staticauth.Account{
			Email:    acc.Email,
			Password: acc.Password,
			Name:     acc.Email,
			Roles:    []string{acc.Role},
		})
	}

	verifier, err := staticauth.NewVerifier(staticauth.Config{Accounts: accounts})
	if err != nil {
		return nil, fmt.Errorf("build static verifier: %w", err)
	}
	return verifier, nil
}

func buildRoleMapper(cfg config.RoleMappingConfig) authroles.StaticRoleMapper {
	return authroles.StaticRoleMapper{
		SuperAdminGroup: cfg.SuperAdminGroup,
		AdminGroup:      cfg.AdminGroup,
		ManagerGroup:    cfg.ManagerGroup,
		AnalystGroup:    cfg.AnalystGroup,
		AcceptCanonical: cfg.AcceptCanonical,
	}
}
