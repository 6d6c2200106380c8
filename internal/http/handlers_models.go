package httpx

import (
	"errors"
	"net/http"

	"github.com/target/fraudwatch-ui-api/internal/domain/model"
	apperrors "github.com/target/fraudwatch-ui-api/internal/errors"
	"github.com/target/fraudwatch-ui-api/internal/service"
)

const defaultModelPageSize = 50

// ScoringModelHandlers provides HTTP handlers for the scoring model lifecycle.
type ScoringModelHandlers struct {
	Svc *service.ScoringModelService
}

// Create registers a new draft model.
// POST /api/models.
func (h *ScoringModelHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateScoringModelRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	m, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, m)
}

// List returns a page of scoring models.
// GET /api/models?limit=&offset=&q=&status=&sort=&dir=.
func (h *ScoringModelHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := model.ScoringModelsListOptions{
		Limit:  clampLimit(parseIntQuery(r, "limit", defaultModelPageSize), defaultModelPageSize),
		Offset: max(parseIntQuery(r, "offset", 0), 0),
		Q:      parseStringQuery(r, "q"),
	}
	opts.Sort, opts.Dir = ParseSortParam(r.URL.Query(), "sort", "dir")

	if raw := parseStringQuery(r, "status"); raw != nil {
		status, ok := model.ParseScoringModelStatus(*raw)
		if !ok {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_status",
				Err:     errors.New("status must be draft, active, or archived"),
			})
			return
		}
		opts.Status = &status
	}

	models, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"models": models})
}

// Get returns one scoring model by ID.
// GET /api/models/{id}.
func (h *ScoringModelHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := modelIDFromPath(w, r)
	if !ok {
		return
	}

	m, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, m)
}

// GetActive returns the currently active model.
// GET /api/models/active.
func (h *ScoringModelHandlers) GetActive(w http.ResponseWriter, r *http.Request) {
	m, err := h.Svc.GetActive(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, m)
}

// Activate promotes a model, archiving the previously active one.
// POST /api/models/{id}/activate.
func (h *ScoringModelHandlers) Activate(w http.ResponseWriter, r *http.Request) {
	id, ok := modelIDFromPath(w, r)
	if !ok {
		return
	}

	m, err := h.Svc.Activate(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, m)
}

// Archive retires a model.
// POST /api/models/{id}/archive.
func (h *ScoringModelHandlers) Archive(w http.ResponseWriter, r *http.Request) {
	id, ok := modelIDFromPath(w, r)
	if !ok {
		return
	}

	m, err := h.Svc.Archive(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, m)
}

// Delete removes a draft model.
// DELETE /api/models/{id}.
func (h *ScoringModelHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := modelIDFromPath(w, r)
	if !ok {
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if !deleted {
		WriteAppError(w, apperrors.NotFound("scoring model not found or not a draft"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func modelIDFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("model id is required"),
		})
		return "", false
	}
	return id, true
}
