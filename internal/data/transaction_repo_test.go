package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/fraudwatch-ui-api/internal/domain/model"
	apperrors "github.com/target/fraudwatch-ui-api/internal/errors"
	"github.com/target/fraudwatch-ui-api/internal/testutil"
)

func seedTransaction(t *testing.T, repo *TransactionRepo, reference string, risk float64) *model.Transaction {
	t.Helper()
	txn, err := repo.Create(context.Background(), &model.CreateTransactionRequest{
		Reference:     reference,
		AmountCents:   12_500,
		Currency:      "USD",
		CustomerEmail: "buyer@example.com",
		RiskScore:     risk,
	})
	require.NoError(t, err)
	return txn
}

func TestTransactionRepo_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewTransactionRepo(db)
	ctx := context.Background()

	created := seedTransaction(t, repo, "txn-1001", 0.42)
	assert.Equal(t, model.TransactionStatusPending, created.Status)
	assert.Equal(t, "USD", created.Currency)
	assert.Nil(t, created.ReviewedBy)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "txn-1001", got.Reference)
	assert.InDelta(t, 0.42, got.RiskScore, 1e-9)
}

func TestTransactionRepo_CreateDuplicateReference(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewTransactionRepo(db)

	seedTransaction(t, repo, "txn-dup", 0.1)
	_, err := repo.Create(context.Background(), &model.CreateTransactionRequest{
		Reference:     "txn-dup",
		AmountCents:   500,
		Currency:      "USD",
		CustomerEmail: "other@example.com",
		RiskScore:     0.2,
	})
	assert.True(t, apperrors.IsConflict(err))
}

func TestTransactionRepo_CreateValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewTransactionRepo(db)

	_, err := repo.Create(context.Background(), &model.CreateTransactionRequest{
		Reference:     "txn-bad",
		AmountCents:   -1,
		Currency:      "USD",
		CustomerEmail: "buyer@example.com",
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestTransactionRepo_GetByIDNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewTransactionRepo(db)

	_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestTransactionRepo_ListFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewTransactionRepo(db)
	ctx := context.Background()

	low := seedTransaction(t, repo, "txn-low", 0.15)
	high := seedTransaction(t, repo, "txn-high", 0.93)
	_, err := repo.Review(ctx, low.ID, model.TransactionStatusApproved,
		model.ReviewTransactionRequest{ReviewerID: "analyst-1"})
	require.NoError(t, err)

	pending := model.TransactionStatusPending
	got, err := repo.List(ctx, model.TransactionsListOptions{Status: &pending})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, high.ID, got[0].ID)

	minRisk := 0.5
	got, err = repo.List(ctx, model.TransactionsListOptions{MinRiskScore: &minRisk})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "txn-high", got[0].Reference)

	q := "txn-"
	got, err = repo.List(ctx, model.TransactionsListOptions{Q: &q, Sort: "risk_score", Dir: "asc"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "txn-low", got[0].Reference)
}

func TestTransactionRepo_ReviewVerdict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := NewTransactionRepoWithTimeProvider(db, NewFixedTimeProvider(fixed))
	ctx := context.Background()

	txn := seedTransaction(t, repo, "txn-review", 0.66)

	reviewed, err := repo.Review(ctx, txn.ID, model.TransactionStatusDeclined, model.ReviewTransactionRequest{
		ReviewerID: "analyst-7",
		Note:       testutil.StringPtr("stolen card pattern"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.TransactionStatusDeclined, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, "analyst-7", *reviewed.ReviewedBy)
	require.NotNil(t, reviewed.ReviewedAt)
	assert.True(t, reviewed.ReviewedAt.Equal(fixed))
}

func TestTransactionRepo_ReviewTwiceConflicts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewTransactionRepo(db)
	ctx := context.Background()

	txn := seedTransaction(t, repo, "txn-settled", 0.5)
	_, err := repo.Review(ctx, txn.ID, model.TransactionStatusApproved,
		model.ReviewTransactionRequest{ReviewerID: "analyst-1"})
	require.NoError(t, err)

	_, err = repo.Review(ctx, txn.ID, model.TransactionStatusDeclined,
		model.ReviewTransactionRequest{ReviewerID: "analyst-2"})
	assert.True(t, apperrors.IsConflict(err))

	// The first verdict stands.
	got, err := repo.GetByID(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TransactionStatusApproved, got.Status)
}

func TestTransactionRepo_ReviewUnknownID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewTransactionRepo(db)

	_, err := repo.Review(context.Background(), "00000000-0000-0000-0000-000000000000",
		model.TransactionStatusApproved, model.ReviewTransactionRequest{ReviewerID: "analyst-1"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestTransactionRepo_ReviewRejectsPendingVerdict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewTransactionRepo(db)

	txn := seedTransaction(t, repo, "txn-verdict", 0.3)
	_, err := repo.Review(context.Background(), txn.ID, model.TransactionStatusPending,
		model.ReviewTransactionRequest{ReviewerID: "analyst-1"})
	assert.True(t, apperrors.IsValidation(err))
}
