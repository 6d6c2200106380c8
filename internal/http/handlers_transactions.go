package httpx

import (
	"errors"
	"net/http"

	"github.com/target/fraudwatch-ui-api/internal/domain/model"
	"github.com/target/fraudwatch-ui-api/internal/service"
)

const defaultTransactionPageSize = 50

// TransactionHandlers provides HTTP handlers for the fraud review queue.
type TransactionHandlers struct {
	Svc *service.TransactionService
}

// Ingest records an incoming transaction for review.
// POST /api/transactions.
func (h *TransactionHandlers) Ingest(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTransactionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	txn, err := h.Svc.Ingest(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, txn)
}

// List returns a page of transactions.
// GET /api/transactions?limit=&offset=&q=&status=&min_risk=&sort=&dir=.
func (h *TransactionHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := model.TransactionsListOptions{
		Limit:        clampLimit(parseIntQuery(r, "limit", defaultTransactionPageSize), defaultTransactionPageSize),
		Offset:       max(parseIntQuery(r, "offset", 0), 0),
		Q:            parseStringQuery(r, "q"),
		MinRiskScore: parseFloatQuery(r, "min_risk"),
	}
	opts.Sort, opts.Dir = ParseSortParam(r.URL.Query(), "sort", "dir")

	if raw := parseStringQuery(r, "status"); raw != nil {
		status, ok := model.ParseTransactionStatus(*raw)
		if !ok {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_status",
				Err:     errors.New("status must be pending, approved, or declined"),
			})
			return
		}
		opts.Status = &status
	}

	txns, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"transactions": txns})
}

// Get returns one transaction by ID.
// GET /api/transactions/{id}.
func (h *TransactionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("transaction id is required"),
		})
		return
	}

	txn, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, txn)
}

// Approve records an approve verdict on a pending transaction.
// POST /api/transactions/{id}/approve.
func (h *TransactionHandlers) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, model.TransactionStatusApproved)
}

// Decline records a decline verdict on a pending transaction.
// POST /api/transactions/{id}/decline.
func (h *TransactionHandlers) Decline(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, model.TransactionStatusDeclined)
}

// reviewRequest is the verdict body. ReviewerID is filled from the
// session, never from the client.
type reviewRequest struct {
	Note *string `json:"note,omitempty"`
}

func (h *TransactionHandlers) review(w http.ResponseWriter, r *http.Request, status model.TransactionStatus) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("transaction id is required"),
		})
		return
	}

	user := CurrentUser(r.Context())
	if user == nil {
		// The route guard already requires auth; this is a wiring check.
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var body reviewRequest
	if r.ContentLength != 0 {
		if !DecodeJSON(w, r, &body) {
			return
		}
	}

	req := model.ReviewTransactionRequest{ReviewerID: user.ID, Note: body.Note}

	var (
		txn *model.Transaction
		err error
	)
	if status == model.TransactionStatusApproved {
		txn, err = h.Svc.Approve(r.Context(), id, req)
	} else {
		txn, err = h.Svc.Decline(r.Context(), id, req)
	}
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, txn)
}
