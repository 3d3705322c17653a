package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanDecide(t *testing.T) {
	tests := []struct {
		name         string
		role         Role
		isSuperuser  bool
		isDesignated bool
		want         bool
	}{
		{"superuser always decides", RoleJuniorStaff, true, false, true},
		{"hr decides any request", RoleHR, false, false, true},
		{"admin decides any request", RoleAdmin, false, false, true},
		{"designated manager decides", RoleManager, false, true, true},
		{"non-designated manager cannot", RoleManager, false, false, false},
		{"junior staff cannot", RoleJuniorStaff, false, false, false},
		{"senior staff cannot even when designated", RoleSeniorStaff, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanDecide(tt.role, tt.isSuperuser, tt.isDesignated))
		})
	}
}

func TestIsHR(t *testing.T) {
	assert.True(t, IsHR(RoleHR, false))
	assert.True(t, IsHR(RoleAdmin, false))
	assert.True(t, IsHR(RoleJuniorStaff, true))
	assert.False(t, IsHR(RoleManager, false))
	assert.False(t, IsHR(RoleSeniorStaff, false))
}

func TestIsApprover(t *testing.T) {
	assert.True(t, IsApprover(RoleManager, false))
	assert.True(t, IsApprover(RoleHR, false))
	assert.True(t, IsApprover(RoleAdmin, false))
	assert.True(t, IsApprover(RoleSeniorStaff, true))
	assert.False(t, IsApprover(RoleJuniorStaff, false))
	assert.False(t, IsApprover(RoleSeniorStaff, false))
}

func TestIsValidRole(t *testing.T) {
	for _, r := range Roles {
		assert.True(t, IsValidRole(string(r)))
	}
	assert.False(t, IsValidRole("intern"))
	assert.False(t, IsValidRole(""))
}
