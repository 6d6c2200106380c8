package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	domainauth "github.com/target/fraudwatch-ui-api/internal/domain/auth"
)

func settledSession(role domainauth.Role) domainauth.Session {
	return domainauth.Session{
		ID:            "sess-1",
		User:          &domainauth.User{ID: "u-1", Email: "u@example.com", Role: role},
		Token:         "tok-1",
		Authenticated: true,
	}
}

func TestDecideProtected_LoadingOutranksCachedAuth(t *testing.T) {
	// A hydrating session with a stale authenticated flag must stay pending:
	// no content flash, no premature redirect.
	stale := settledSession(domainauth.RoleAdmin)
	stale.Loading = true

	d := DecideProtected(stale, Config{RequiredPermissions: []domainauth.Permission{domainauth.PermModelView}})
	assert.Equal(t, StatePending, d.State)
	assert.Empty(t, d.RedirectTo)

	// Same for public guards.
	assert.Equal(t, StatePending, DecidePublic(stale, "").State)
}

func TestDecideProtected_AnonymousRedirectsToLogin(t *testing.T) {
	anon := domainauth.Session{ID: "sess-2"}

	d := DecideProtected(anon, Config{})
	assert.Equal(t, StateRedirectToLogin, d.State)
	assert.Equal(t, DefaultLoginRoute, d.RedirectTo)

	d = DecideProtected(anon, Config{RedirectTo: "/signin"})
	assert.Equal(t, "/signin", d.RedirectTo)
}

func TestDecideProtected_MissingPermissionIsDeniedInline(t *testing.T) {
	// Scenario: analyst holds dashboard/transaction view but visits a route
	// requiring model:create. Expect an inline denial, not a redirect.
	sess := settledSession(domainauth.RoleAnalyst)

	d := DecideProtected(sess, Config{RequiredPermissions: []domainauth.Permission{domainauth.PermModelCreate}})
	assert.Equal(t, StateDeniedInline, d.State)
	assert.Empty(t, d.RedirectTo, "denial renders in place, no navigation")
}

func TestDecideProtected_RoleORSemantics(t *testing.T) {
	sess := settledSession(domainauth.RoleManager)

	// Any one listed role suffices.
	d := DecideProtected(sess, Config{RequiredRoles: []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleManager}})
	assert.Equal(t, StateAllowed, d.State)

	d = DecideProtected(sess, Config{RequiredRoles: []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleSuperAdmin}})
	assert.Equal(t, StateDeniedInline, d.State)
}

func TestDecideProtected_PermissionANDSemantics(t *testing.T) {
	sess := settledSession(domainauth.RoleManager)

	d := DecideProtected(sess, Config{RequiredPermissions: []domainauth.Permission{
		domainauth.PermModelView, domainauth.PermModelActivate,
	}})
	assert.Equal(t, StateAllowed, d.State)

	// All listed permissions are required; one missing denies.
	d = DecideProtected(sess, Config{RequiredPermissions: []domainauth.Permission{
		domainauth.PermModelView, domainauth.PermModelDelete,
	}})
	assert.Equal(t, StateDeniedInline, d.State)
}

func TestDecideProtected_NoRequirementsNeedsOnlyAuth(t *testing.T) {
	d := DecideProtected(settledSession(domainauth.RoleGuest), Config{})
	assert.Equal(t, StateAllowed, d.State)
}

func TestDecideProtected_AuthenticatedFlagWithoutUserFailsClosed(t *testing.T) {
	// A corrupt record could claim authenticated with no user attached.
	// Ambiguity resolves to the least-privileged outcome.
	broken := domainauth.Session{ID: "sess-3", Token: "tok", Authenticated: true}
	d := DecideProtected(broken, Config{})
	assert.Equal(t, StateRedirectToLogin, d.State)
}

func TestDecidePublic(t *testing.T) {
	t.Run("authenticated redirects to landing", func(t *testing.T) {
		d := DecidePublic(settledSession(domainauth.RoleAnalyst), "")
		assert.Equal(t, StateRedirectToDefault, d.State)
		assert.Equal(t, DefaultLandingRoute, d.RedirectTo)
	})

	t.Run("custom landing route", func(t *testing.T) {
		d := DecidePublic(settledSession(domainauth.RoleAnalyst), "/home")
		assert.Equal(t, "/home", d.RedirectTo)
	})

	t.Run("anonymous renders children", func(t *testing.T) {
		d := DecidePublic(domainauth.Session{}, "")
		assert.Equal(t, StateAllowed, d.State)
	})
}
