package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/fraudwatch-ui-api/internal/domain/model"
	"github.com/target/fraudwatch-ui-api/internal/testutil"
)

func TestReportRepo_Summary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	txns := NewTransactionRepo(db)
	reports := NewReportRepo(db)
	ctx := context.Background()

	low := seedTransaction(t, txns, "rpt-low", 0.2)
	seedTransaction(t, txns, "rpt-mid", 0.5)
	seedTransaction(t, txns, "rpt-high", 0.9)
	_, err := txns.Review(ctx, low.ID, model.TransactionStatusApproved,
		model.ReviewTransactionRequest{ReviewerID: "analyst-1"})
	require.NoError(t, err)

	since := time.Now().Add(-time.Hour)
	summary, err := reports.Summary(ctx, since)
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.TotalTransactions)
	assert.Equal(t, int64(2), summary.PendingCount)
	assert.Equal(t, int64(1), summary.ApprovedCount)
	assert.Equal(t, int64(0), summary.DeclinedCount)
	assert.Equal(t, int64(1), summary.HighRiskCount)
	assert.InDelta(t, (0.2+0.5+0.9)/3, summary.AvgRiskScore, 1e-9)
}

func TestReportRepo_SummaryEmptyWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	reports := NewReportRepo(db)

	summary, err := reports.Summary(context.Background(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.TotalTransactions)
	assert.Equal(t, float64(0), summary.AvgRiskScore)
}

func TestReportRepo_ReviewerActivity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	txns := NewTransactionRepo(db)
	reports := NewReportRepo(db)
	ctx := context.Background()

	a := seedTransaction(t, txns, "act-1", 0.3)
	b := seedTransaction(t, txns, "act-2", 0.4)
	c := seedTransaction(t, txns, "act-3", 0.5)

	_, err := txns.Review(ctx, a.ID, model.TransactionStatusApproved,
		model.ReviewTransactionRequest{ReviewerID: "busy"})
	require.NoError(t, err)
	_, err = txns.Review(ctx, b.ID, model.TransactionStatusDeclined,
		model.ReviewTransactionRequest{ReviewerID: "busy"})
	require.NoError(t, err)
	_, err = txns.Review(ctx, c.ID, model.TransactionStatusApproved,
		model.ReviewTransactionRequest{ReviewerID: "quiet"})
	require.NoError(t, err)

	rows, err := reports.ReviewerActivity(ctx, time.Now().Add(-time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "busy", rows[0].ReviewerID)
	assert.Equal(t, int64(1), rows[0].ApprovedCount)
	assert.Equal(t, int64(1), rows[0].DeclinedCount)
}
