package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/fraudwatch-ui-api/internal/domain/model"
	apperrors "github.com/target/fraudwatch-ui-api/internal/errors"
)

// fakeTransactionRepo backs TransactionService tests without a database.
type fakeTransactionRepo struct {
	byID map[string]*model.Transaction
}

func newFakeTransactionRepo(txns ...*model.Transaction) *fakeTransactionRepo {
	repo := &fakeTransactionRepo{byID: make(map[string]*model.Transaction)}
	for _, txn := range txns {
		repo.byID[txn.ID] = txn
	}
	return repo
}

func (f *fakeTransactionRepo) Create(_ context.Context, req *model.CreateTransactionRequest) (*model.Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	txn := &model.Transaction{
		ID:            "txn-" + req.Reference,
		Reference:     req.Reference,
		AmountCents:   req.AmountCents,
		Currency:      req.Currency,
		CustomerEmail: req.CustomerEmail,
		RiskScore:     req.RiskScore,
		Status:        model.TransactionStatusPending,
		CreatedAt:     time.Now(),
	}
	f.byID[txn.ID] = txn
	return txn, nil
}

func (f *fakeTransactionRepo) GetByID(_ context.Context, id string) (*model.Transaction, error) {
	txn, ok := f.byID[id]
	if !ok {
		return nil, apperrors.NotFound("transaction not found")
	}
	return txn, nil
}

func (f *fakeTransactionRepo) List(_ context.Context, opts model.TransactionsListOptions) ([]*model.Transaction, error) {
	var out []*model.Transaction
	for _, txn := range f.byID {
		if opts.Status != nil && txn.Status != *opts.Status {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}

func (f *fakeTransactionRepo) Review(
	_ context.Context,
	id string,
	status model.TransactionStatus,
	req model.ReviewTransactionRequest,
) (*model.Transaction, error) {
	txn, ok := f.byID[id]
	if !ok {
		return nil, apperrors.NotFound("transaction not found")
	}
	if txn.Status != model.TransactionStatusPending {
		return nil, apperrors.Conflict("Transaction has already been reviewed.")
	}
	now := time.Now()
	txn.Status = status
	txn.ReviewedBy = &req.ReviewerID
	txn.ReviewedAt = &now
	txn.ReviewNote = req.Note
	return txn, nil
}

func pendingTxn(id string) *model.Transaction {
	return &model.Transaction{ID: id, Reference: id, Status: model.TransactionStatusPending}
}

func TestTransactionService_ApproveSetsVerdict(t *testing.T) {
	repo := newFakeTransactionRepo(pendingTxn("t1"))
	svc := NewTransactionService(TransactionServiceOptions{Transactions: repo})

	txn, err := svc.Approve(context.Background(), "t1", model.ReviewTransactionRequest{ReviewerID: "analyst-1"})
	require.NoError(t, err)
	assert.Equal(t, model.TransactionStatusApproved, txn.Status)
	require.NotNil(t, txn.ReviewedBy)
	assert.Equal(t, "analyst-1", *txn.ReviewedBy)
}

func TestTransactionService_DeclineTwiceConflicts(t *testing.T) {
	repo := newFakeTransactionRepo(pendingTxn("t1"))
	svc := NewTransactionService(TransactionServiceOptions{Transactions: repo})
	ctx := context.Background()

	_, err := svc.Decline(ctx, "t1", model.ReviewTransactionRequest{ReviewerID: "analyst-1"})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, "t1", model.ReviewTransactionRequest{ReviewerID: "analyst-2"})
	assert.True(t, apperrors.IsConflict(err))
}

func TestTransactionService_ListByStatus(t *testing.T) {
	settled := pendingTxn("t2")
	settled.Status = model.TransactionStatusApproved
	repo := newFakeTransactionRepo(pendingTxn("t1"), settled)
	svc := NewTransactionService(TransactionServiceOptions{Transactions: repo})

	pending := model.TransactionStatusPending
	got, err := svc.List(context.Background(), model.TransactionsListOptions{Status: &pending})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].ID)
}
