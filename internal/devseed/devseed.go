// Package devseed populates a development database with a scoring model
// and a handful of review-queue transactions so the dashboard has data
// to show on first boot. It is only invoked when dev mode is enabled.
package devseed

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/target/fraudwatch-ui-api/internal/errors"

	"github.com/target/fraudwatch-ui-api/internal/domain/model"
	"github.com/target/fraudwatch-ui-api/internal/service"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	Transactions *service.TransactionService
	Models       *service.ScoringModelService
}

// Run executes the development seeding workflow. Seeding is idempotent:
// records that already exist are skipped, not duplicated.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if err := seedScoringModel(ctx, svcs.Models, logger); err != nil {
		return err
	}

	failures := seedTransactions(ctx, svcs.Transactions, logger)
	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func seedScoringModel(ctx context.Context, svc *service.ScoringModelService, logger *slog.Logger) error {
	if active, err := svc.GetActive(ctx); err == nil {
		if logger != nil {
			logger.InfoContext(ctx, "active scoring model already present", "name", active.Name, "version", active.Version)
		}
		return nil
	} else if apperrors.GetCode(err) != apperrors.ErrCodeNotFound {
		return fmt.Errorf("check active scoring model: %w", err)
	}

	desc := "Baseline rules model seeded for local development"
	created, err := svc.Create(ctx, &model.CreateScoringModelRequest{
		Name:        "dev-baseline",
		Threshold:   0.75,
		Description: &desc,
	})
	if err != nil {
		if apperrors.GetCode(err) == apperrors.ErrCodeConflict {
			if logger != nil {
				logger.InfoContext(ctx, "scoring model already exists", "name", "dev-baseline")
			}
			return nil
		}
		return fmt.Errorf("create scoring model: %w", err)
	}

	if _, err = svc.Activate(ctx, created.ID); err != nil {
		return fmt.Errorf("activate scoring model: %w", err)
	}
	if logger != nil {
		logger.InfoContext(ctx, "seeded scoring model", "name", created.Name, "version", created.Version)
	}
	return nil
}

func seedTransactions(ctx context.Context, svc *service.TransactionService, logger *slog.Logger) int {
	failures := 0
	for _, req := range defaultTransactions() {
		created, err := ingestTransaction(ctx, svc, req)
		if err != nil {
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed transaction", "reference", req.Reference, "error", err)
			}
			failures++
			continue
		}
		if logger != nil {
			msg := "transaction already exists"
			if created {
				msg = "seeded transaction"
			}
			logger.InfoContext(ctx, msg, "reference", req.Reference)
		}
	}
	return failures
}

func ingestTransaction(
	ctx context.Context,
	svc *service.TransactionService,
	req *model.CreateTransactionRequest,
) (bool, error) {
	if _, err := svc.Ingest(ctx, req); err != nil {
		if apperrors.GetCode(err) == apperrors.ErrCodeConflict {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func defaultTransactions() []*model.CreateTransactionRequest {
	return []*model.CreateTransactionRequest{
		{
			Reference:     "dev-txn-0001",
			AmountCents:   12999,
			Currency:      "USD",
			CustomerEmail: "alice@example.com",
			RiskScore:     0.92,
		},
		{
			Reference:     "dev-txn-0002",
			AmountCents:   4550,
			Currency:      "USD",
			CustomerEmail: "bob@example.com",
			RiskScore:     0.81,
		},
		{
			Reference:     "dev-txn-0003",
			AmountCents:   250000,
			Currency:      "EUR",
			CustomerEmail: "carol@example.com",
			RiskScore:     0.77,
		},
		{
			Reference:     "dev-txn-0004",
			AmountCents:   899,
			Currency:      "USD",
			CustomerEmail: "dave@example.com",
			RiskScore:     0.31,
		},
		{
			Reference:     "dev-txn-0005",
			AmountCents:   64900,
			Currency:      "GBP",
			CustomerEmail: "erin@example.com",
			RiskScore:     0.88,
		},
	}
}
