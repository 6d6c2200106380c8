package httpx

import (
	"context"

	domainauth "github.com/target/fraudwatch-ui-api/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type sessionKey struct{}

// SetSessionInContext returns a child context that carries the given session.
func SetSessionInContext(ctx context.Context, session domainauth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session from context and a boolean
// indicating presence. Absence means no session middleware ran; treat it
// as unauthenticated.
func GetSessionFromContext(ctx context.Context) (domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(domainauth.Session); ok {
		return session, true
	}
	return domainauth.Session{}, false
}

// CurrentUser returns the authenticated user from context, or nil.
func CurrentUser(ctx context.Context) *domainauth.User {
	session, ok := GetSessionFromContext(ctx)
	if !ok || !session.Authenticated {
		return nil
	}
	return session.User
}
