// Copyright (c) 2026 Thuto. All rights reserved.
// Author: dev@thuto.school

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lesedi/thuto/internal/platform/sec"
)

/*
TestRole_Valid verifies the closed role set.
*/
func TestRole_Valid(t *testing.T) {
	for _, role := range sec.Roles() {
		assert.True(t, role.Valid(), string(role))
	}

	assert.False(t, sec.Role("").Valid())
	assert.False(t, sec.Role("student").Valid()) // legacy alias must NOT pass
	assert.False(t, sec.Role("superadmin").Valid())
}

/*
TestStatus_Authorized verifies activation gating, including the learner exemption.
*/
func TestStatus_Authorized(t *testing.T) {
	tests := []struct {
		name   string
		status sec.Status
		role   sec.Role
		want   bool
	}{
		{"active_educator", sec.StatusActive, sec.RoleEducator, true},
		{"pending_parent", sec.StatusPending, sec.RoleParent, false},
		{"pending_learner_exempt", sec.StatusPending, sec.RoleLearner, true},
		{"inactive_admin", sec.StatusInactive, sec.RoleAdmin, false},
		{"suspended_principal", sec.StatusSuspended, sec.RolePrincipal, false},
		{"active_learner", sec.StatusActive, sec.RoleLearner, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Authorized(tt.role))
		})
	}
}

/*
TestRole_IsStaff checks the staff classification used by reporting screens.
*/
func TestRole_IsStaff(t *testing.T) {
	assert.True(t, sec.RoleEducator.IsStaff())
	assert.True(t, sec.RoleAdmin.IsStaff())
	assert.True(t, sec.RolePrincipal.IsStaff())
	assert.False(t, sec.RoleLearner.IsStaff())
	assert.False(t, sec.RoleParent.IsStaff())
}

/*
TestHashToken ensures token hashing is deterministic and non-reversible in form.
*/
func TestHashToken(t *testing.T) {
	token, err := sec.GenerateSecureToken(32)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	first := sec.HashToken(token)
	second := sec.HashToken(token)

	assert.Equal(t, first, second)
	assert.NotEqual(t, token, first)
	assert.Len(t, first, 64) // hex-encoded SHA-256
}
