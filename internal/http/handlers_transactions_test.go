package httpx

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/fraudwatch-ui-api/internal/domain/model"
)

func pendingTxn(id string) *model.Transaction {
	return &model.Transaction{ID: id, Reference: id, Status: model.TransactionStatusPending}
}

func TestTransactions_ApproveUsesSessionUserAsReviewer(t *testing.T) {
	f := newRouterFixture(t, pendingTxn("t1"))
	cookie := f.login(t)

	rec := f.do(http.MethodPost, "/api/transactions/t1/approve", `{"note":"looks clean"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.TransactionStatusApproved, got.Status)
	require.NotNil(t, got.ReviewedBy)
	// Reviewer comes from the session, never from the request body.
	assert.Equal(t, "mock-user-1", *got.ReviewedBy)
	require.NotNil(t, got.ReviewNote)
	assert.Equal(t, "looks clean", *got.ReviewNote)
}

func TestTransactions_ApproveWithoutBody(t *testing.T) {
	f := newRouterFixture(t, pendingTxn("t1"))
	cookie := f.login(t)

	rec := f.do(http.MethodPost, "/api/transactions/t1/approve", "", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTransactions_SecondVerdictConflicts(t *testing.T) {
	f := newRouterFixture(t, pendingTxn("t1"))
	cookie := f.login(t)

	rec := f.do(http.MethodPost, "/api/transactions/t1/decline", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPost, "/api/transactions/t1/approve", "", cookie)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "conflict")
}

func TestTransactions_UnknownIDIs404(t *testing.T) {
	f := newRouterFixture(t)
	cookie := f.login(t)

	rec := f.do(http.MethodGet, "/api/transactions/missing", "", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransactions_ListFiltersByStatus(t *testing.T) {
	settled := pendingTxn("t2")
	settled.Status = model.TransactionStatusApproved
	f := newRouterFixture(t, pendingTxn("t1"), settled)
	cookie := f.login(t)

	rec := f.do(http.MethodGet, "/api/transactions?status=pending", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Transactions []*model.Transaction `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Transactions, 1)
	assert.Equal(t, "t1", payload.Transactions[0].ID)
}

func TestTransactions_ListRejectsUnknownStatus(t *testing.T) {
	f := newRouterFixture(t)
	cookie := f.login(t)

	rec := f.do(http.MethodGet, "/api/transactions?status=bogus", "", cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_status")
}

func TestNavigation_AnalystSeesNoModelOrAdminSections(t *testing.T) {
	f := newRouterFixture(t)
	cookie := f.login(t)

	rec := f.do(http.MethodGet, "/api/navigation", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `"id":"review"`)
	assert.Contains(t, body, `"id":"transactions"`)
	assert.NotContains(t, body, `"id":"models"`)
	assert.NotContains(t, body, `"id":"admin"`)
	// Report export needs a permission the analyst lacks; the grouping
	// node survives because the summary leaf is still visible.
	assert.Contains(t, body, `"id":"report-summary"`)
	assert.NotContains(t, body, `"id":"report-export"`)
}

func TestNavigation_RequiresAuth(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/api/navigation", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
