package models

import "gorm.io/datatypes"

type RoleName string

const (
	RoleOwner  RoleName = "OWNER"
	RoleAdmin  RoleName = "ADMIN"
	RoleMember RoleName = "MEMBER"
)

type Permission string

const (
	PermissionCreateWorkspace         Permission = "CREATE_WORKSPACE"
	PermissionDeleteWorkspace         Permission = "DELETE_WORKSPACE"
	PermissionEditWorkspace           Permission = "EDIT_WORKSPACE"
	PermissionManageWorkspaceSettings Permission = "MANAGE_WORKSPACE_SETTINGS"
	PermissionAddMember               Permission = "ADD_MEMBER"
	PermissionChangeMemberRole        Permission = "CHANGE_MEMBER_ROLE"
	PermissionRemoveMember            Permission = "REMOVE_MEMBER"
	PermissionCreateProject           Permission = "CREATE_PROJECT"
	PermissionEditProject             Permission = "EDIT_PROJECT"
	PermissionDeleteProject           Permission = "DELETE_PROJECT"
	PermissionCreateTask              Permission = "CREATE_TASK"
	PermissionEditTask                Permission = "EDIT_TASK"
	PermissionDeleteTask              Permission = "DELETE_TASK"
	PermissionViewOnly                Permission = "VIEW_ONLY"
)

// Role is a named, seeded permission set. The permission list is written once
// when the role is seeded and is read-only at runtime.
type Role struct {
	ID          uint64                          `gorm:"primarykey" json:"id"`
	Name        RoleName                        `gorm:"type:varchar(20);uniqueIndex;not null" json:"name"`
	Permissions datatypes.JSONSlice[Permission] `json:"permissions"`

	// Relations
	Members []Member `gorm:"foreignKey:RoleID" json:"-"`
}

// HasPermission reports whether the role grants the permission. Pure set
// membership, no I/O.
func (r *Role) HasPermission(p Permission) bool {
	for _, granted := range r.Permissions {
		if granted == p {
			return true
		}
	}
	return false
}

// DefaultRolePermissions is the canonical role-to-permissions table. It is
// passed explicitly to the seeding routine; changing it after the roles table
// has been seeded requires a manual re-seed.
func DefaultRolePermissions() map[RoleName][]Permission {
	return map[RoleName][]Permission{
		RoleOwner: {
			PermissionCreateWorkspace,
			PermissionDeleteWorkspace,
			PermissionEditWorkspace,
			PermissionManageWorkspaceSettings,
			PermissionAddMember,
			PermissionChangeMemberRole,
			PermissionRemoveMember,
			PermissionCreateProject,
			PermissionEditProject,
			PermissionDeleteProject,
			PermissionCreateTask,
			PermissionEditTask,
			PermissionDeleteTask,
			PermissionViewOnly,
		},
		RoleAdmin: {
			PermissionCreateWorkspace,
			PermissionEditWorkspace,
			PermissionAddMember,
			PermissionRemoveMember,
			PermissionCreateProject,
			PermissionEditProject,
			PermissionDeleteProject,
			PermissionCreateTask,
			PermissionEditTask,
			PermissionDeleteTask,
			PermissionViewOnly,
		},
		RoleMember: {
			PermissionCreateTask,
			PermissionViewOnly,
		},
	}
}
