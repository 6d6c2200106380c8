package httpx

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/target/fraudwatch-ui-api/internal/service"
)

const defaultReviewerLimit = 10

// ReportHandlers provides HTTP handlers for review-workload reports.
type ReportHandlers struct {
	Svc *service.ReportService
}

// Summary aggregates the review workload over a trailing window.
// GET /api/reports/summary?window=24h.
func (h *ReportHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	window, ok := parseWindowQuery(w, r)
	if !ok {
		return
	}

	summary, err := h.Svc.Summary(r.Context(), window)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// ReviewerActivity lists per-reviewer verdict counts over a trailing window.
// GET /api/reports/reviewers?window=24h&limit=10.
func (h *ReportHandlers) ReviewerActivity(w http.ResponseWriter, r *http.Request) {
	window, ok := parseWindowQuery(w, r)
	if !ok {
		return
	}
	limit := clampLimit(parseIntQuery(r, "limit", defaultReviewerLimit), defaultReviewerLimit)

	reviewers, err := h.Svc.ReviewerActivity(r.Context(), window, limit)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"reviewers": reviewers})
}

// parseWindowQuery reads the optional window parameter as a Go duration.
// A zero return with ok=true means "use the service default".
func parseWindowQuery(w http.ResponseWriter, r *http.Request) (time.Duration, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("window"))
	if raw == "" {
		return 0, true
	}

	window, err := time.ParseDuration(raw)
	if err != nil || window <= 0 {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_window",
			Err:     errors.New("window must be a positive duration such as 24h"),
		})
		return 0, false
	}
	return window, true
}
