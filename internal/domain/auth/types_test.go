package auth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analystSession() Session {
	return Session{
		ID:            "sess-1",
		User:          &User{ID: "u-1", Email: "ana@example.com", Name: "Ana Lyst", Role: RoleAnalyst},
		Token:         "tok-1",
		Authenticated: true,
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"analyst", RoleAnalyst, true},
		{" Manager ", RoleManager, true},
		{"SUPERADMIN", RoleSuperAdmin, true},
		{"root", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := ParseRole(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestSession_HasRole(t *testing.T) {
	sess := analystSession()
	assert.True(t, sess.HasRole(RoleAnalyst))
	assert.False(t, sess.HasRole(RoleAdmin))
	assert.True(t, sess.HasAnyRole(RoleAdmin, RoleAnalyst))
	assert.False(t, sess.HasAnyRole(RoleAdmin, RoleManager))
}

func TestSession_FailClosedWithoutUser(t *testing.T) {
	// No identity must mean no capability of any kind.
	anon := Session{ID: "sess-2", Authenticated: false}

	for _, role := range AllRoles() {
		assert.False(t, anon.HasRole(role))
	}
	assert.False(t, anon.HasPermission(PermDashboardView))
	assert.False(t, anon.HasAnyPermission(PermDashboardView, PermModelView))
	assert.False(t, anon.HasAllPermissions())
	assert.Empty(t, anon.Permissions())

	// HasAllPermissions with no user but an empty requirement list is a
	// vacuous truth trap; the empty list over a nil set still denies nothing
	// extra, but permission checks on content must go through HasPermission.
	assert.True(t, Session{User: &User{Role: RoleGuest}}.HasAllPermissions())
}

func TestSession_PermissionsDerivedFromRole(t *testing.T) {
	sess := analystSession()
	require.Equal(t, Resolve(RoleAnalyst).Sorted(), sess.Permissions().Sorted())

	assert.True(t, sess.HasPermission(PermTransactionReview))
	assert.False(t, sess.HasPermission(PermModelCreate))
	assert.True(t, sess.HasAllPermissions(PermTransactionView, PermReportView))
	assert.False(t, sess.HasAllPermissions(PermTransactionView, PermModelCreate))
	assert.True(t, sess.HasAnyPermission(PermModelCreate, PermReportView))
}

func TestRecord_DecodeIgnoresUnknownFields(t *testing.T) {
	// Older/newer writers may add fields; decoding must treat them as absent.
	raw := `{
		"user": {"id":"u-9","email":"m@example.com","name":"M","role":"manager"},
		"token": "tok-9",
		"authenticated": true,
		"is_loading": true,
		"theme": "dark"
	}`

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	require.NotNil(t, rec.User)
	assert.Equal(t, RoleManager, rec.User.Role)
	assert.Equal(t, "tok-9", rec.Token)
	assert.True(t, rec.Authenticated)
}

func TestRecord_DecodeMissingFieldsAreAbsent(t *testing.T) {
	var rec Record
	require.NoError(t, json.Unmarshal([]byte(`{}`), &rec))
	assert.Nil(t, rec.User)
	assert.Empty(t, rec.Token)
	assert.False(t, rec.Authenticated)
}
