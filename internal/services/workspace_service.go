package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/teamloft/project-management-api/internal/models"
	"github.com/teamloft/project-management-api/internal/repository"
	"github.com/teamloft/project-management-api/internal/utils"
)

var (
	ErrWorkspaceNotFound          = errors.New("workspace not found")
	ErrInvalidWorkspaceName       = errors.New("workspace name cannot be empty")
	ErrInviteCodeGenerationFailed = errors.New("failed to generate invite code")
	ErrInvalidInviteCode          = errors.New("invalid invite code")
	ErrAlreadyWorkspaceMember     = errors.New("user is already a member of this workspace")
	ErrCannotRemoveYourself       = errors.New("cannot remove yourself from the workspace")
	ErrCannotModifyOwner          = errors.New("the workspace owner cannot be removed or demoted")
	ErrWorkspaceMemberNotFound    = errors.New("workspace member not found")
	ErrUnknownRole                = errors.New("unknown role name")
)

// WorkspaceService provides business logic for workspace and member operations.
type WorkspaceService struct {
	workspaceRepo repository.WorkspaceRepository
	roleRepo      repository.RoleRepository
	taskRepo      repository.TaskRepository
}

// NewWorkspaceService creates a new WorkspaceService.
func NewWorkspaceService(workspaceRepo repository.WorkspaceRepository, roleRepo repository.RoleRepository, taskRepo repository.TaskRepository) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		roleRepo:      roleRepo,
		taskRepo:      taskRepo,
	}
}

// CreateWorkspaceInput represents parameters to create a new workspace.
type CreateWorkspaceInput struct {
	Name        string
	Description string
	OwnerID     uint64
}

// CreateWorkspace creates a new workspace and adds the creator as OWNER.
func (s *WorkspaceService) CreateWorkspace(input CreateWorkspaceInput) (*models.Workspace, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidWorkspaceName
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	ownerRole, err := s.roleRepo.FindByName(models.RoleOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve OWNER role: %w", err)
	}

	workspace := &models.Workspace{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
		InviteCode:  inviteCode,
	}
	member := &models.Member{
		UserID:   input.OwnerID,
		RoleID:   ownerRole.ID,
		JoinedAt: time.Now(),
	}

	if err := s.workspaceRepo.CreateWithOwner(workspace, member); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	return workspace, nil
}

// ListWorkspacesForUser returns the memberships of a user with workspaces and
// roles preloaded.
func (s *WorkspaceService) ListWorkspacesForUser(userID uint64) ([]models.Member, error) {
	memberships, err := s.workspaceRepo.ListMembershipsByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return memberships, nil
}

// GetWorkspaceWithMembers returns a workspace and all of its members.
func (s *WorkspaceService) GetWorkspaceWithMembers(workspaceID uint64) (*models.Workspace, []models.Member, error) {
	workspace, err := s.workspaceRepo.FindByID(workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrWorkspaceNotFound
		}
		return nil, nil, fmt.Errorf("failed to find workspace: %w", err)
	}

	members, err := s.workspaceRepo.ListMembers(workspaceID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list workspace members: %w", err)
	}

	return workspace, members, nil
}

// UpdateWorkspaceInput represents the mutable workspace fields.
type UpdateWorkspaceInput struct {
	Name        *string
	Description *string
}

// UpdateWorkspace updates a workspace's name and description.
func (s *WorkspaceService) UpdateWorkspace(workspaceID uint64, input UpdateWorkspaceInput) (*models.Workspace, error) {
	workspace, err := s.workspaceRepo.FindByID(workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidWorkspaceName
		}
		workspace.Name = *input.Name
	}
	if input.Description != nil {
		workspace.Description = *input.Description
	}

	if err := s.workspaceRepo.Update(workspace); err != nil {
		return nil, fmt.Errorf("failed to update workspace: %w", err)
	}

	return workspace, nil
}

// DeleteWorkspace removes a workspace and everything in it.
func (s *WorkspaceService) DeleteWorkspace(workspaceID uint64) error {
	if _, err := s.workspaceRepo.FindByID(workspaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkspaceNotFound
		}
		return fmt.Errorf("failed to find workspace: %w", err)
	}

	if err := s.workspaceRepo.Delete(workspaceID); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	return nil
}

// JoinWorkspaceByInvite adds a user to a workspace as MEMBER via invite code.
// Membership is checked at the application level first; the schema does not
// enforce (user, workspace) uniqueness.
func (s *WorkspaceService) JoinWorkspaceByInvite(userID uint64, inviteCode string) (*models.Workspace, error) {
	workspace, err := s.workspaceRepo.FindByInviteCode(inviteCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to find workspace by invite code: %w", err)
	}

	if _, err := s.workspaceRepo.FindMember(workspace.ID, userID); err == nil {
		return nil, ErrAlreadyWorkspaceMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	memberRole, err := s.roleRepo.FindByName(models.RoleMember)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve MEMBER role: %w", err)
	}

	member := &models.Member{
		UserID:      userID,
		WorkspaceID: workspace.ID,
		RoleID:      memberRole.ID,
		JoinedAt:    time.Now(),
	}

	if err := s.workspaceRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member to workspace: %w", err)
	}

	return workspace, nil
}

// RegenerateInviteCode generates a new invite code for the workspace.
func (s *WorkspaceService) RegenerateInviteCode(workspaceID uint64) (*models.Workspace, error) {
	workspace, err := s.workspaceRepo.FindByID(workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}

	code, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	workspace.InviteCode = code
	if err := s.workspaceRepo.Update(workspace); err != nil {
		return nil, fmt.Errorf("failed to update invite code: %w", err)
	}

	return workspace, nil
}

// ChangeMemberRole assigns a different seeded role to a member.
func (s *WorkspaceService) ChangeMemberRole(workspaceID, targetUserID uint64, roleName models.RoleName) error {
	workspace, err := s.workspaceRepo.FindByID(workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkspaceNotFound
		}
		return fmt.Errorf("failed to find workspace: %w", err)
	}

	if workspace.OwnerID == targetUserID {
		return ErrCannotModifyOwner
	}

	if _, err := s.workspaceRepo.FindMember(workspaceID, targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkspaceMemberNotFound
		}
		return fmt.Errorf("failed to find workspace member: %w", err)
	}

	role, err := s.roleRepo.FindByName(roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownRole
		}
		return fmt.Errorf("failed to resolve role: %w", err)
	}

	if err := s.workspaceRepo.UpdateMemberRole(workspaceID, targetUserID, role.ID); err != nil {
		return fmt.Errorf("failed to change member role: %w", err)
	}

	return nil
}

// RemoveMember removes a member from the workspace.
func (s *WorkspaceService) RemoveMember(workspaceID, actorID, targetID uint64) error {
	if targetID == actorID {
		return ErrCannotRemoveYourself
	}

	workspace, err := s.workspaceRepo.FindByID(workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkspaceNotFound
		}
		return fmt.Errorf("failed to find workspace: %w", err)
	}

	if workspace.OwnerID == targetID {
		return ErrCannotModifyOwner
	}

	if _, err := s.workspaceRepo.FindMember(workspaceID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkspaceMemberNotFound
		}
		return fmt.Errorf("failed to find workspace member: %w", err)
	}

	if err := s.workspaceRepo.RemoveMember(workspaceID, targetID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// WorkspaceAnalytics aggregates task counts across the whole workspace.
func (s *WorkspaceService) WorkspaceAnalytics(workspaceID uint64) (*repository.TaskAnalytics, error) {
	analytics, err := s.taskRepo.Analytics(workspaceID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate workspace analytics: %w", err)
	}
	return analytics, nil
}
