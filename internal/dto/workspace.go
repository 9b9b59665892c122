package dto

import (
	"time"

	"github.com/teamloft/project-management-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID                 uint64     `json:"id"`
	Email              string     `json:"email"`
	Name               string     `json:"name"`
	ProfilePicture     string     `json:"profile_picture,omitempty"`
	IsActive           bool       `json:"is_active"`
	LastLogin          *time.Time `json:"last_login,omitempty"`
	CurrentWorkspaceID *uint64    `json:"current_workspace_id,omitempty"`
}

// WorkspaceDTO represents a workspace in API responses
type WorkspaceDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	OwnerID     uint64 `json:"owner_id"`
	InviteCode  string `json:"invite_code,omitempty"`
}

// WorkspaceWithRoleDTO represents a workspace with the user's role
type WorkspaceWithRoleDTO struct {
	WorkspaceDTO
	Role models.RoleName `json:"role"`
}

// MemberDTO represents a member in a workspace
type MemberDTO struct {
	User     UserDTO         `json:"user"`
	Role     models.RoleName `json:"role"`
	JoinedAt time.Time       `json:"joined_at"`
}

// WorkspaceDetailDTO represents detailed workspace information
type WorkspaceDetailDTO struct {
	WorkspaceDTO
	Members  []MemberDTO     `json:"members"`
	YourRole models.RoleName `json:"your_role"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:                 user.ID,
		Email:              user.Email,
		Name:               user.Name,
		ProfilePicture:     user.ProfilePicture,
		IsActive:           user.IsActive,
		LastLogin:          user.LastLogin,
		CurrentWorkspaceID: user.CurrentWorkspaceID,
	}
}

// ToWorkspaceDTO converts a Workspace model to WorkspaceDTO
func ToWorkspaceDTO(workspace models.Workspace, includeInviteCode bool) WorkspaceDTO {
	dto := WorkspaceDTO{
		ID:          workspace.ID,
		Name:        workspace.Name,
		Description: workspace.Description,
		OwnerID:     workspace.OwnerID,
	}
	if includeInviteCode {
		dto.InviteCode = workspace.InviteCode
	}
	return dto
}

// ToWorkspaceWithRoleDTO converts a membership to DTO with role
func ToWorkspaceWithRoleDTO(member models.Member) WorkspaceWithRoleDTO {
	return WorkspaceWithRoleDTO{
		WorkspaceDTO: ToWorkspaceDTO(member.Workspace, false),
		Role:         member.Role.Name,
	}
}

// ToMemberDTO converts a member to DTO
func ToMemberDTO(member models.Member) MemberDTO {
	return MemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role.Name,
		JoinedAt: member.JoinedAt,
	}
}

// ToWorkspaceDetailDTO converts a workspace with members to detailed DTO
func ToWorkspaceDetailDTO(workspace models.Workspace, members []models.Member, yourRole models.RoleName) WorkspaceDetailDTO {
	memberDTOs := make([]MemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = ToMemberDTO(member)
	}

	return WorkspaceDetailDTO{
		WorkspaceDTO: ToWorkspaceDTO(workspace, true),
		Members:      memberDTOs,
		YourRole:     yourRole,
	}
}
