package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleHas(t *testing.T) {
	userRole := &Role{Name: RoleNameUser, Permissions: int(PermFollow | PermComment | PermWritePosts)}
	modRole := &Role{Name: RoleNameModerator, Permissions: int(PermFollow | PermComment | PermWritePosts | PermModerateComments)}
	adminRole := &Role{Name: RoleNameAdministrator, Permissions: int(PermAdminister)}

	tests := []struct {
		name string
		role *Role
		perm Permission
		want bool
	}{
		{"user can follow", userRole, PermFollow, true},
		{"user can comment", userRole, PermComment, true},
		{"user can write", userRole, PermWritePosts, true},
		{"user cannot moderate", userRole, PermModerateComments, false},
		{"user is not admin", userRole, PermAdminister, false},
		{"user has combined mask", userRole, PermFollow | PermComment, true},
		{"user lacks combined mask with moderate", userRole, PermComment | PermModerateComments, false},
		{"moderator can moderate", modRole, PermModerateComments, true},
		{"moderator is not admin", modRole, PermAdminister, false},
		{"admin has everything", adminRole, PermFollow | PermComment | PermWritePosts | PermModerateComments, true},
		{"admin is admin", adminRole, PermAdminister, true},
		{"nil role has nothing", nil, PermFollow, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Has(tt.perm))
		})
	}
}

func TestHasMatchesMaskRule(t *testing.T) {
	// Has must be exactly (permissions & mask) == mask.
	for mask := Permission(0); mask <= 0xff; mask++ {
		role := &Role{Permissions: int(PermFollow | PermComment | PermWritePosts)}
		want := (Permission(role.Permissions) & mask) == mask
		assert.Equalf(t, want, role.Has(mask), "mask %#x", mask)
	}
}

func TestUserCanDelegatesToRole(t *testing.T) {
	u := &User{Role: &Role{Permissions: int(PermFollow | PermComment)}}
	assert.True(t, u.Can(PermComment))
	assert.False(t, u.Can(PermWritePosts))
	assert.False(t, u.IsAdministrator())
	assert.False(t, u.IsAnonymous())

	admin := &User{Role: &Role{Permissions: int(PermAdminister)}}
	assert.True(t, admin.IsAdministrator())

	var noRole User
	assert.False(t, noRole.Can(PermFollow))
}

func TestAnonymousCanNothing(t *testing.T) {
	anon := Anonymous{}
	assert.True(t, anon.IsAnonymous())
	assert.False(t, anon.IsAdministrator())

	// Every mask fails, including zero: "no permissions requested" is not
	// a pass for anonymous visitors.
	for mask := Permission(0); mask <= 0xff; mask++ {
		assert.Falsef(t, anon.Can(mask), "mask %#x", mask)
	}
}
