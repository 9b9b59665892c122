package models

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func roleFromTable(t *testing.T, name RoleName) *Role {
	t.Helper()

	table := DefaultRolePermissions()
	permissions, ok := table[name]
	require.True(t, ok, "role %s missing from default table", name)

	return &Role{
		Name:        name,
		Permissions: datatypes.JSONSlice[Permission](permissions),
	}
}

func TestRole_HasPermission(t *testing.T) {
	owner := roleFromTable(t, RoleOwner)
	admin := roleFromTable(t, RoleAdmin)
	member := roleFromTable(t, RoleMember)

	require.True(t, owner.HasPermission(PermissionDeleteWorkspace))
	require.True(t, owner.HasPermission(PermissionChangeMemberRole))

	require.False(t, admin.HasPermission(PermissionDeleteWorkspace))
	require.False(t, admin.HasPermission(PermissionChangeMemberRole))
	require.True(t, admin.HasPermission(PermissionDeleteProject))

	require.False(t, member.HasPermission(PermissionDeleteWorkspace))
	require.False(t, member.HasPermission(PermissionRemoveMember))
	require.True(t, member.HasPermission(PermissionCreateTask))
	require.True(t, member.HasPermission(PermissionViewOnly))
}

func TestRole_HasPermissionUnknownToken(t *testing.T) {
	owner := roleFromTable(t, RoleOwner)
	require.False(t, owner.HasPermission(Permission("NO_SUCH_PERMISSION")))
}

func TestDefaultRolePermissions(t *testing.T) {
	table := DefaultRolePermissions()

	require.Len(t, table, 3)

	// OWNER holds the full permission set.
	require.Len(t, table[RoleOwner], 14)

	// Every granted token belongs to the known enumeration.
	known := map[Permission]bool{
		PermissionCreateWorkspace:         true,
		PermissionDeleteWorkspace:         true,
		PermissionEditWorkspace:           true,
		PermissionManageWorkspaceSettings: true,
		PermissionAddMember:               true,
		PermissionChangeMemberRole:        true,
		PermissionRemoveMember:            true,
		PermissionCreateProject:           true,
		PermissionEditProject:             true,
		PermissionDeleteProject:           true,
		PermissionCreateTask:              true,
		PermissionEditTask:                true,
		PermissionDeleteTask:              true,
		PermissionViewOnly:                true,
	}
	for name, permissions := range table {
		for _, p := range permissions {
			require.True(t, known[p], "role %s grants unknown permission %s", name, p)
		}
	}
}
