package repository

import (
	"gorm.io/gorm"

	"github.com/teamloft/project-management-api/internal/database"
	"github.com/teamloft/project-management-api/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByIDInWorkspace finds a project scoped to a workspace. A project that
// exists but belongs to another workspace is reported as not found.
func (r *GormProjectRepository) FindByIDInWorkspace(id, workspaceID uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("id = ? AND workspace_id = ?", id, workspaceID).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List retrieves a workspace's projects with pagination
func (r *GormProjectRepository) List(workspaceID uint64, page, pageSize int) ([]models.Project, int64, error) {
	var projects []models.Project

	query := r.db.Model(&models.Project{}).Where("workspace_id = ?", workspaceID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC").
		Scopes(database.Paginate(page, pageSize))

	if err := listQuery.Preload("Creator").Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete soft deletes a project and its tasks in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}
