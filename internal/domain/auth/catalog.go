package auth

import (
	"sort"
	"sync"
)

// Permission is an atomic capability token gating one action or view.
// Identifiers are stable colon-namespaced strings so they can be
// persisted, logged, and compared by equality across releases.
type Permission string

const (
	PermDashboardView Permission = "dashboard:view"

	PermTransactionView   Permission = "transaction:view"
	PermTransactionReview Permission = "transaction:review"

	PermModelView     Permission = "model:view"
	PermModelCreate   Permission = "model:create"
	PermModelActivate Permission = "model:activate"
	PermModelDelete   Permission = "model:delete"

	PermReportView   Permission = "report:view"
	PermReportExport Permission = "report:export"

	PermSimulatorRun Permission = "simulator:run"

	PermUserManage Permission = "user:manage"
	PermAuditView  Permission = "audit:view"
)

// PermissionSet is a read-only capability set. A nil set holds nothing.
type PermissionSet map[Permission]struct{}

// Has reports whether the set contains p. Safe on a nil set.
func (ps PermissionSet) Has(p Permission) bool {
	_, ok := ps[p]
	return ok
}

// Sorted returns the permissions in stable string order, for JSON
// responses and deterministic tests.
func (ps PermissionSet) Sorted() []Permission {
	out := make([]Permission, 0, len(ps))
	for p := range ps {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func newSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// catalog is the static role→permission mapping for every role except
// superadmin, whose set is derived below. Guest is deliberately empty.
var catalog = map[Role]PermissionSet{
	RoleGuest: newSet(),
	RoleAnalyst: newSet(
		PermDashboardView,
		PermTransactionView,
		PermTransactionReview,
		PermReportView,
	),
	RoleManager: newSet(
		PermDashboardView,
		PermTransactionView,
		PermTransactionReview,
		PermModelView,
		PermModelActivate,
		PermReportView,
		PermReportExport,
		PermSimulatorRun,
	),
	RoleAdmin: newSet(
		PermDashboardView,
		PermTransactionView,
		PermTransactionReview,
		PermModelView,
		PermModelCreate,
		PermModelActivate,
		PermModelDelete,
		PermReportView,
		PermReportExport,
		PermSimulatorRun,
		PermUserManage,
		PermAuditView,
	),
}

// allPermissions computes the union of every catalog entry by enumeration.
// superadmin is never hand-listed; it cannot drift from the catalog.
// Computed lazily so it does not depend on package init order.
var allPermissions = sync.OnceValue(func() PermissionSet {
	union := make(PermissionSet)
	for _, set := range catalog {
		for p := range set {
			union[p] = struct{}{}
		}
	}
	return union
})

// AllPermissions returns the union of every permission in the catalog.
func AllPermissions() PermissionSet { return allPermissions() }

// Resolve derives the capability set for a role. Pure and deterministic:
// no I/O, same output for the same role on every call. Roles not in the
// catalog resolve to the empty set.
func Resolve(role Role) PermissionSet {
	if role == RoleSuperAdmin {
		return allPermissions()
	}
	return catalog[role]
}
