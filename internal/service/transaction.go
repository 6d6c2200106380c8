package service

import (
	"context"

	"github.com/target/fraudwatch-ui-api/internal/domain/model"
	"github.com/target/fraudwatch-ui-api/internal/observability/statsd"
)

// TransactionRepository is the data-layer contract TransactionService needs.
type TransactionRepository interface {
	Create(ctx context.Context, req *model.CreateTransactionRequest) (*model.Transaction, error)
	GetByID(ctx context.Context, id string) (*model.Transaction, error)
	List(ctx context.Context, opts model.TransactionsListOptions) ([]*model.Transaction, error)
	Review(ctx context.Context, id string, status model.TransactionStatus, req model.ReviewTransactionRequest) (*model.Transaction, error)
}

// TransactionServiceOptions groups dependencies for TransactionService.
type TransactionServiceOptions struct {
	Transactions TransactionRepository
	Metrics      statsd.Sink
}

// TransactionService orchestrates the fraud review queue.
type TransactionService struct {
	transactions TransactionRepository
	metrics      statsd.Sink
}

// NewTransactionService constructs a new TransactionService.
func NewTransactionService(opts TransactionServiceOptions) *TransactionService {
	return &TransactionService{transactions: opts.Transactions, metrics: opts.Metrics}
}

// Ingest records an incoming transaction for review.
func (s *TransactionService) Ingest(ctx context.Context, req *model.CreateTransactionRequest) (*model.Transaction, error) {
	return s.transactions.Create(ctx, req)
}

// GetByID retrieves a transaction by ID.
func (s *TransactionService) GetByID(ctx context.Context, id string) (*model.Transaction, error) {
	return s.transactions.GetByID(ctx, id)
}

// List returns a page of transactions using the given filters.
func (s *TransactionService) List(ctx context.Context, opts model.TransactionsListOptions) ([]*model.Transaction, error) {
	return s.transactions.List(ctx, opts)
}

// Approve records an approve verdict on a pending transaction.
func (s *TransactionService) Approve(ctx context.Context, id string, req model.ReviewTransactionRequest) (*model.Transaction, error) {
	return s.review(ctx, id, model.TransactionStatusApproved, req)
}

// Decline records a decline verdict on a pending transaction.
func (s *TransactionService) Decline(ctx context.Context, id string, req model.ReviewTransactionRequest) (*model.Transaction, error) {
	return s.review(ctx, id, model.TransactionStatusDeclined, req)
}

func (s *TransactionService) review(
	ctx context.Context,
	id string,
	status model.TransactionStatus,
	req model.ReviewTransactionRequest,
) (*model.Transaction, error) {
	txn, err := s.transactions.Review(ctx, id, status, req)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.Count("review.verdict", 1, map[string]string{"verdict": string(status)})
	}
	return txn, nil
}
