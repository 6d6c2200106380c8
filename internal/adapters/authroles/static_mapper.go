package authroles

import (
	domainauth "github.com/target/fraudwatch-ui-api/internal/domain/auth"
)

// StaticRoleMapper maps backend role/group strings to one canonical role
// by simple membership rules. Group checks run from most to least
// privileged so a user in several groups lands on the strongest match;
// anything unrecognized falls through to guest.
type StaticRoleMapper struct {
	SuperAdminGroup string
	AdminGroup      string
	ManagerGroup    string
	AnalystGroup    string

	// AcceptCanonical additionally accepts the canonical role names
	// ("analyst", "manager", ...) as-is. Useful for identity backends that
	// already speak our role vocabulary.
	AcceptCanonical bool
}

// Map returns the strongest role granted by the given backend strings.
func (m StaticRoleMapper) Map(roles []string) domainauth.Role {
	ordered := []struct {
		group string
		role  domainauth.Role
	}{
		{m.SuperAdminGroup, domainauth.RoleSuperAdmin},
		{m.AdminGroup, domainauth.RoleAdmin},
		{m.ManagerGroup, domainauth.RoleManager},
		{m.AnalystGroup, domainauth.RoleAnalyst},
	}

	for _, entry := range ordered {
		if entry.group == "" {
			continue
		}
		for _, r := range roles {
			if r == entry.group {
				return entry.role
			}
		}
	}

	if m.AcceptCanonical {
		best := domainauth.RoleGuest
		for _, r := range roles {
			parsed, ok := domainauth.ParseRole(r)
			if !ok {
				continue
			}
			if rank(parsed) > rank(best) {
				best = parsed
			}
		}
		return best
	}

	return domainauth.RoleGuest
}

func rank(r domainauth.Role) int {
	switch r {
	case domainauth.RoleAnalyst:
		return 1
	case domainauth.RoleManager:
		return 2
	case domainauth.RoleAdmin:
		return 3
	case domainauth.RoleSuperAdmin:
		return 4
	default:
		return 0
	}
}
