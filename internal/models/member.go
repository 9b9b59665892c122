package models

import "time"

// Member joins a user to a workspace with a role. There is deliberately no
// composite unique index on (user_id, workspace_id); the join flow checks
// membership before inserting instead.
type Member struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	UserID      uint64    `gorm:"not null;index" json:"user_id"`
	WorkspaceID uint64    `gorm:"not null;index" json:"workspace_id"`
	RoleID      uint64    `gorm:"not null" json:"role_id"`
	JoinedAt    time.Time `json:"joined_at"`

	// Relations
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Workspace Workspace `gorm:"foreignKey:WorkspaceID" json:"workspace,omitempty"`
	Role      Role      `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}
