// Package httpx provides the JSON API surface of the fraud review
// dashboard: session authentication, the review queue, scoring model
// lifecycle, reports, and the permission-filtered navigation tree.
package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/target/fraudwatch-ui-api/internal/domain/auth"
	"github.com/target/fraudwatch-ui-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Sessions     SessionAuthService
	Transactions *service.TransactionService
	Models       *service.ScoringModelService
	Reports      *service.ReportService
	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router.
//
// Every /api route passes through WithSession so the route guard always
// decides against a settled session; auth endpoints manage the cookie
// themselves and stay outside the guard.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	registerAuthRoutes(mux, &AuthHandlers{
		Sessions:     services.Sessions,
		CookieDomain: services.CookieDomain,
		Logger:       logger,
	})
	registerNavigationRoutes(mux, services.Sessions)
	if services.Transactions != nil {
		registerTransactionRoutes(mux, &TransactionHandlers{Svc: services.Transactions}, services.Sessions)
	}
	if services.Models != nil {
		registerModelRoutes(mux, &ScoringModelHandlers{Svc: services.Models}, services.Sessions)
	}
	if services.Reports != nil {
		registerReportRoutes(mux, &ReportHandlers{Svc: services.Reports}, services.Sessions)
	}

	return chain(mux, Recover(logger), Logging(logger))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.Handle("POST /auth/login", http.HandlerFunc(h.Login))
	mux.Handle("POST /auth/logout", http.HandlerFunc(h.Logout))
	mux.Handle("POST /auth/refresh", http.HandlerFunc(h.Refresh))
	mux.Handle("GET /auth/session", http.HandlerFunc(h.Session))
}

func registerNavigationRoutes(mux *http.ServeMux, sessions SessionAuthService) {
	h := &NavigationHandlers{}
	mux.Handle("GET /api/navigation", chain(
		http.HandlerFunc(h.Menu),
		WithSession(sessions),
		RequireAuth(),
	))
}

func registerTransactionRoutes(mux *http.ServeMux, h *TransactionHandlers, sessions SessionAuthService) {
	protect := func(handler http.HandlerFunc, perms ...domainauth.Permission) http.Handler {
		return chain(handler, WithSession(sessions), RequirePermissions(perms...))
	}

	mux.Handle("GET /api/transactions", protect(h.List, domainauth.PermTransactionView))
	mux.Handle("GET /api/transactions/{id}", protect(h.Get, domainauth.PermTransactionView))
	mux.Handle("POST /api/transactions", protect(h.Ingest, domainauth.PermTransactionReview))
	mux.Handle("POST /api/transactions/{id}/approve", protect(h.Approve, domainauth.PermTransactionReview))
	mux.Handle("POST /api/transactions/{id}/decline", protect(h.Decline, domainauth.PermTransactionReview))
}

func registerModelRoutes(mux *http.ServeMux, h *ScoringModelHandlers, sessions SessionAuthService) {
	protect := func(handler http.HandlerFunc, perms ...domainauth.Permission) http.Handler {
		return chain(handler, WithSession(sessions), RequirePermissions(perms...))
	}

	mux.Handle("GET /api/models", protect(h.List, domainauth.PermModelView))
	mux.Handle("GET /api/models/active", protect(h.GetActive, domainauth.PermModelView))
	mux.Handle("GET /api/models/{id}", protect(h.Get, domainauth.PermModelView))
	mux.Handle("POST /api/models", protect(h.Create, domainauth.PermModelCreate))
	mux.Handle("POST /api/models/{id}/activate", protect(h.Activate, domainauth.PermModelActivate))
	mux.Handle("POST /api/models/{id}/archive", protect(h.Archive, domainauth.PermModelActivate))
	mux.Handle("DELETE /api/models/{id}", protect(h.Delete, domainauth.PermModelDelete))
}

func registerReportRoutes(mux *http.ServeMux, h *ReportHandlers, sessions SessionAuthService) {
	protect := func(handler http.HandlerFunc, perms ...domainauth.Permission) http.Handler {
		return chain(handler, WithSession(sessions), RequirePermissions(perms...))
	}

	mux.Handle("GET /api/reports/summary", protect(h.Summary, domainauth.PermReportView))
	mux.Handle("GET /api/reports/reviewers", protect(h.ReviewerActivity, domainauth.PermReportView))
}
