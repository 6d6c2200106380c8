package auth

// Package auth contains domain-level types for authentication, sessions,
// and role-based authorization. It is pure and free of framework/adapter
// concerns.

import "strings"

// Role represents an application authorization role.
// Kept in string form for easy persistence, logging, and cookies.
// Valid values are defined as constants below.
type Role string

const (
	// RoleGuest is the fail-closed default: no permissions at all.
	RoleGuest Role = "guest"
	// RoleAnalyst reviews transactions and views dashboards.
	RoleAnalyst Role = "analyst"
	// RoleManager additionally manages scoring models and exports reports.
	RoleManager Role = "manager"
	// RoleAdmin additionally manages users and the model lifecycle.
	RoleAdmin Role = "admin"
	// RoleSuperAdmin holds the union of every declared permission.
	RoleSuperAdmin Role = "superadmin"
)

// AllRoles lists every declared role. The permission catalog must stay
// total over this slice; see catalog_test.go.
func AllRoles() []Role {
	return []Role{RoleGuest, RoleAnalyst, RoleManager, RoleAdmin, RoleSuperAdmin}
}

// Valid reports whether the role is one of the declared constants.
func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleAnalyst, RoleManager, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// ParseRole normalizes a role string and reports whether it is declared.
// Unknown values do not parse; callers are expected to fall back to
// RoleGuest so an unrecognized backend role never gains capabilities.
func ParseRole(value string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(value)))
	if r.Valid() {
		return r, true
	}
	return "", false
}

// User is the authenticated principal attached to a session.
// Permissions are never stored on the user; they are always re-derived
// from Role through Resolve.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// Identity is the principal shape returned by a credential verifier.
// Adapters map provider-specific claims into this before role mapping.
type Identity struct {
	UserID string
	Email  string
	Name   string
	// Roles carries the backend's raw role/group strings. A RoleMapper
	// turns these into exactly one canonical Role.
	Roles []string
}

// Session is the authentication state of one running client.
//
// Invariant: once settled (Loading == false), Authenticated is true iff
// both User and Token are present.
type Session struct {
	ID            string `json:"id"`
	User          *User  `json:"user,omitempty"`
	Token         string `json:"token,omitempty"`
	Authenticated bool   `json:"authenticated"`
	// Loading is true from bootstrap until the first CheckAuth settles,
	// and while a verification is in flight. It is never persisted.
	Loading bool `json:"-"`
}

// Settled reports whether the session has finished hydrating/verifying.
func (s Session) Settled() bool { return !s.Loading }

// Permissions returns the capability set derived from the session's role.
// An absent user yields the empty set: absence of identity never grants
// a capability.
func (s Session) Permissions() PermissionSet {
	if s.User == nil {
		return nil
	}
	return Resolve(s.User.Role)
}

// HasRole reports whether the session user holds exactly the given role.
func (s Session) HasRole(r Role) bool {
	return s.User != nil && s.User.Role == r
}

// HasAnyRole reports whether the session user holds any of the given roles.
func (s Session) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if s.HasRole(r) {
			return true
		}
	}
	return false
}

// HasPermission reports whether the resolved permission set contains p.
func (s Session) HasPermission(p Permission) bool {
	return s.Permissions().Has(p)
}

// HasAllPermissions reports whether every given permission is held.
func (s Session) HasAllPermissions(ps ...Permission) bool {
	set := s.Permissions()
	for _, p := range ps {
		if !set.Has(p) {
			return false
		}
	}
	return true
}

// HasAnyPermission reports whether at least one given permission is held.
func (s Session) HasAnyPermission(ps ...Permission) bool {
	set := s.Permissions()
	for _, p := range ps {
		if set.Has(p) {
			return true
		}
	}
	return false
}

// Record is the durable mirror of a session: what survives a process
// restart. Loading deliberately has no field here, so every bootstrap
// starts loading and forces a fresh CheckAuth. Unknown JSON fields are
// ignored on decode for forward/backward compatibility.
type Record struct {
	User          *User  `json:"user,omitempty"`
	Token         string `json:"token,omitempty"`
	Authenticated bool   `json:"authenticated"`
}
