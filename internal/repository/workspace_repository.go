package repository

import (
	"gorm.io/gorm"

	"github.com/teamloft/project-management-api/internal/models"
)

// GormWorkspaceRepository is a GORM implementation of WorkspaceRepository
type GormWorkspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &GormWorkspaceRepository{db: db}
}

// CreateWithOwner creates a workspace and its owner membership in one
// transaction. The member's workspace ID is filled in from the created row.
func (r *GormWorkspaceRepository) CreateWithOwner(workspace *models.Workspace, ownerMember *models.Member) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(workspace).Error; err != nil {
			return err
		}

		ownerMember.WorkspaceID = workspace.ID
		return tx.Create(ownerMember).Error
	})
}

// FindByID finds a workspace by ID
func (r *GormWorkspaceRepository) FindByID(id uint64) (*models.Workspace, error) {
	var workspace models.Workspace
	if err := r.db.First(&workspace, id).Error; err != nil {
		return nil, err
	}
	return &workspace, nil
}

// FindByInviteCode finds a workspace by invite code
func (r *GormWorkspaceRepository) FindByInviteCode(code string) (*models.Workspace, error) {
	var workspace models.Workspace
	if err := r.db.Where("invite_code = ?", code).First(&workspace).Error; err != nil {
		return nil, err
	}
	return &workspace, nil
}

// Update updates a workspace
func (r *GormWorkspaceRepository) Update(workspace *models.Workspace) error {
	return r.db.Save(workspace).Error
}

// Delete deletes a workspace and all related data in a transaction
func (r *GormWorkspaceRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workspace_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("workspace_id = ?", id).Delete(&models.Project{}).Error; err != nil {
			return err
		}

		if err := tx.Where("workspace_id = ?", id).Delete(&models.Member{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Workspace{}, id).Error
	})
}

// AddMember adds a member to a workspace
func (r *GormWorkspaceRepository) AddMember(member *models.Member) error {
	return r.db.Create(member).Error
}

// RemoveMember removes a member from a workspace
func (r *GormWorkspaceRepository) RemoveMember(workspaceID, userID uint64) error {
	return r.db.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Delete(&models.Member{}).Error
}

// FindMember finds a specific workspace member with their role
func (r *GormWorkspaceRepository) FindMember(workspaceID, userID uint64) (*models.Member, error) {
	var member models.Member
	if err := r.db.Preload("Role").
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// UpdateMemberRole changes a member's role
func (r *GormWorkspaceRepository) UpdateMemberRole(workspaceID, userID, roleID uint64) error {
	return r.db.Model(&models.Member{}).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Update("role_id", roleID).Error
}

// ListMembershipsByUserID lists all workspaces a user is a member of
func (r *GormWorkspaceRepository) ListMembershipsByUserID(userID uint64) ([]models.Member, error) {
	var memberships []models.Member
	if err := r.db.Preload("Workspace").Preload("Role").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListMembers lists all members of a workspace
func (r *GormWorkspaceRepository) ListMembers(workspaceID uint64) ([]models.Member, error) {
	var members []models.Member
	if err := r.db.Preload("User").Preload("Role").
		Where("workspace_id = ?", workspaceID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
