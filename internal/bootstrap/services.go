package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/target/fraudwatch-ui-api/config"
	"github.com/target/fraudwatch-ui-api/internal/data"
	"github.com/target/fraudwatch-ui-api/internal/observability/statsd"
	"github.com/target/fraudwatch-ui-api/internal/service"
)

// ServiceContainer holds every constructed application service.
type ServiceContainer struct {
	Sessions     *service.SessionManager
	Transactions *service.TransactionService
	Models       *service.ScoringModelService
	Reports      *service.ReportService

	// Metrics is retained so main can Close it on shutdown.
	Metrics *statsd.Client
}

// ServicesConfig contains dependencies for building services.
type ServicesConfig struct {
	Config *config.AppConfig
	DB     *sql.DB
	Redis  goredis.UniversalClient
	Logger *slog.Logger
}

// BuildServices constructs the full service container from storage handles.
func BuildServices(cfg ServicesConfig) (*ServiceContainer, error) {
	metrics, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Config.Observability.Metrics.IsEnabled(),
		Address: cfg.Config.Observability.Metrics.StatsdAddress,
		Prefix:  cfg.Config.Observability.Metrics.Prefix,
		Logger:  cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build statsd client: %w", err)
	}

	sessions, err := BuildSessionManager(SessionManagerConfig{
		Config:  cfg.Config,
		Redis:   cfg.Redis,
		Logger:  cfg.Logger,
		Metrics: metrics,
	})
	if err != nil {
		return nil, err
	}

	return &ServiceContainer{
		Sessions: sessions,
		Transactions: service.NewTransactionService(service.TransactionServiceOptions{
			Transactions: data.NewTransactionRepo(cfg.DB),
			Metrics:      metrics,
		}),
		Models: service.NewScoringModelService(service.ScoringModelServiceOptions{
			Models: data.NewScoringModelRepo(cfg.DB),
			Logger: cfg.Logger,
		}),
		Reports: service.NewReportService(service.ReportServiceOptions{
			Reports: data.NewReportRepo(cfg.DB),
		}),
		Metrics: metrics,
	}, nil
}
