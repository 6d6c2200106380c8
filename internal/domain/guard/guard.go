package guard

// Package guard contains the pure route-guard decision logic. It never
// performs navigation, writes responses, or touches I/O; an outer shell
// (HTTP middleware, UI router) executes the decision it returns. That
// split keeps the guard unit-testable without a running router.

import (
	domainauth "github.com/target/fraudwatch-ui-api/internal/domain/auth"
)

// State is the terminal outcome of a guard decision.
type State int

const (
	// StatePending means the session is still hydrating/verifying.
	// Render only a fallback; no allow/deny/redirect decision exists yet.
	StatePending State = iota
	// StateAllowed renders the protected subtree.
	StateAllowed
	// StateDeniedInline renders a static access-denied view in place.
	// No navigation happens; this is a normal render state, not a fault.
	StateDeniedInline
	// StateRedirectToLogin sends an unauthenticated visitor to login.
	StateRedirectToLogin
	// StateRedirectToDefault sends an authenticated visitor away from a
	// public-only view to the default landing route.
	StateRedirectToDefault
)

// String returns a stable name for logging.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAllowed:
		return "allowed"
	case StateDeniedInline:
		return "denied"
	case StateRedirectToLogin:
		return "redirect_login"
	case StateRedirectToDefault:
		return "redirect_default"
	default:
		return "unknown"
	}
}

// DefaultLoginRoute is where protected guards redirect anonymous visitors.
const DefaultLoginRoute = "/login"

// DefaultLandingRoute is where public guards redirect authenticated users.
const DefaultLandingRoute = "/dashboard"

// Config describes what a protected subtree requires.
// RequiredRoles use OR semantics: any one listed role suffices.
// RequiredPermissions use AND semantics: every listed permission is needed.
type Config struct {
	RequiredRoles       []domainauth.Role
	RequiredPermissions []domainauth.Permission
	// RedirectTo overrides DefaultLoginRoute for unauthenticated visitors.
	RedirectTo string
}

// Decision is the outcome of evaluating a session against a guard.
type Decision struct {
	State State
	// RedirectTo is set only for the two redirect states.
	RedirectTo string
}

// DecideProtected evaluates a protected subtree.
//
// Loading outranks any cached authorization flag: a stale "authenticated"
// value from a previous session must never let protected content render
// while a fresh check is pending.
func DecideProtected(sess domainauth.Session, cfg Config) Decision {
	if sess.Loading {
		return Decision{State: StatePending}
	}

	if !sess.Authenticated || sess.User == nil {
		target := cfg.RedirectTo
		if target == "" {
			target = DefaultLoginRoute
		}
		return Decision{State: StateRedirectToLogin, RedirectTo: target}
	}

	if len(cfg.RequiredRoles) > 0 && !sess.HasAnyRole(cfg.RequiredRoles...) {
		return Decision{State: StateDeniedInline}
	}
	if len(cfg.RequiredPermissions) > 0 && !sess.HasAllPermissions(cfg.RequiredPermissions...) {
		return Decision{State: StateDeniedInline}
	}

	return Decision{State: StateAllowed}
}

// DecidePublic evaluates a public-only subtree (login-type screens).
// Authenticated users are sent to the default landing route without the
// public content ever rendering.
func DecidePublic(sess domainauth.Session, defaultRoute string) Decision {
	if sess.Loading {
		return Decision{State: StatePending}
	}

	if sess.Authenticated && sess.User != nil {
		target := defaultRoute
		if target == "" {
			target = DefaultLandingRoute
		}
		return Decision{State: StateRedirectToDefault, RedirectTo: target}
	}

	return Decision{State: StateAllowed}
}
