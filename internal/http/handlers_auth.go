package httpx

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/target/fraudwatch-ui-api/internal/domain/auth"
	"github.com/target/fraudwatch-ui-api/internal/ports"
)

// AuthHandlers provides HTTP handlers for session authentication.
type AuthHandlers struct {
	Sessions     SessionAuthService
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// loginRequest is the POST /auth/login body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionPayload is the JSON shape every auth endpoint returns. The token
// never leaves the server; clients only learn identity and capabilities.
type sessionPayload struct {
	Authenticated bool                    `json:"authenticated"`
	Loading       bool                    `json:"loading"`
	User          *domainauth.User        `json:"user,omitempty"`
	Permissions   []domainauth.Permission `json:"permissions"`
}

func payloadFor(session domainauth.Session) sessionPayload {
	return sessionPayload{
		Authenticated: session.Authenticated,
		Loading:       session.Loading,
		User:          session.User,
		Permissions:   session.Permissions().Sorted(),
	}
}

// Login handles the credential login endpoint.
// POST /auth/login with {"email": ..., "password": ...}.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxLoginBodyBytes)

	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	// Reuse the caller's session ID when present so a failed attempt
	// leaves their existing session untouched.
	sessionID := ""
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		sessionID = cookie.Value
	}
	if sessionID == "" {
		sessionID = h.Sessions.NewSessionID()
	}

	session, err := h.Sessions.Login(r.Context(), sessionID, ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}

	h.setSessionCookie(w, r, sessionID)
	WriteJSON(w, http.StatusOK, payloadFor(session))
}

// Session returns the current authentication state.
// GET /auth/session.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		WriteJSON(w, http.StatusOK, payloadFor(domainauth.Session{}))
		return
	}

	session, err := h.Sessions.CheckAuth(r.Context(), cookie.Value)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	if !session.Authenticated {
		// Nothing worth keeping server-side; let the cookie go too.
		h.clearCookie(w, r, SessionCookieName)
	}
	WriteJSON(w, http.StatusOK, payloadFor(session))
}

// Refresh rotates the session token.
// POST /auth/refresh.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{
			"error":   "authentication_required",
			"message": "Authentication required.",
		})
		return
	}

	session, err := h.Sessions.Refresh(r.Context(), cookie.Value)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	if !session.Authenticated {
		// A rejected refresh settles the session as signed out.
		h.clearCookie(w, r, SessionCookieName)
		WriteJSON(w, http.StatusUnauthorized, payloadFor(session))
		return
	}
	WriteJSON(w, http.StatusOK, payloadFor(session))
}

// Logout clears the session server-side and on the client.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		session := h.Sessions.Logout(r.Context(), cookie.Value)
		h.logger().InfoContext(r.Context(), "session signed out", "session_id", session.ID)
	}

	h.clearCookie(w, r, SessionCookieName)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// setSessionCookie writes the session cookie. The cookie carries only the
// opaque session ID, never the token.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   SessionCookieMaxAge,
	})
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors the attributes used when setting cookies to maximize
// compatibility across browsers during deletion.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
