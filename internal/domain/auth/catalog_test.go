package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_TotalOverAllRoles(t *testing.T) {
	for _, role := range AllRoles() {
		set := Resolve(role)
		if role == RoleGuest {
			assert.Empty(t, set, "guest must resolve to the empty set")
			continue
		}
		assert.NotNil(t, set, "role %q has no catalog entry", role)
	}
}

func TestCatalog_SuperAdminIsUnionOfCatalog(t *testing.T) {
	superset := Resolve(RoleSuperAdmin)

	// Every permission any role holds must be in the superset.
	for _, role := range AllRoles() {
		if role == RoleSuperAdmin {
			continue
		}
		for p := range Resolve(role) {
			assert.True(t, superset.Has(p), "superadmin missing %q held by %q", p, role)
		}
	}

	// And the superset must hold nothing beyond the catalog union.
	union := make(PermissionSet)
	for _, role := range AllRoles() {
		if role == RoleSuperAdmin {
			continue
		}
		for p := range Resolve(role) {
			union[p] = struct{}{}
		}
	}
	assert.Equal(t, len(union), len(superset))
}

func TestCatalog_AdminLacksNothingManagerHas(t *testing.T) {
	admin := Resolve(RoleAdmin)
	for p := range Resolve(RoleManager) {
		assert.True(t, admin.Has(p), "admin missing manager permission %q", p)
	}
}

func TestResolve_UnknownRoleIsEmpty(t *testing.T) {
	set := Resolve(Role("auditor-3000"))
	assert.Empty(t, set)
	assert.False(t, set.Has(PermDashboardView))
}

func TestResolve_Deterministic(t *testing.T) {
	first := Resolve(RoleManager).Sorted()
	second := Resolve(RoleManager).Sorted()
	require.Equal(t, first, second)
}

func TestPermissionSet_HasOnNil(t *testing.T) {
	var set PermissionSet
	assert.False(t, set.Has(PermModelView))
}
