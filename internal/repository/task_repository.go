package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/teamloft/project-management-api/internal/database"
	"github.com/teamloft/project-management-api/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByIDInWorkspace finds a task scoped to a workspace
func (r *GormTaskRepository) FindByIDInWorkspace(id, workspaceID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Preload("Project").Preload("Assignee").Preload("Creator").
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("tasks.workspace_id = ?", filter.WorkspaceID)

	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.AssignedTo != nil {
		query = query.Where("tasks.assigned_to = ?", *filter.AssignedTo)
	}
	if filter.Keyword != "" {
		query = query.Where("tasks.title LIKE ?", "%"+filter.Keyword+"%")
	}
	if filter.DueDateFrom != nil {
		query = query.Where("tasks.due_date >= ?", *filter.DueDateFrom)
	}
	if filter.DueDateTo != nil {
		query = query.Where("tasks.due_date < ?", *filter.DueDateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC").
		Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.Preload("Assignee").Preload("Creator").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// Analytics aggregates task counts for a workspace, optionally scoped to one project
func (r *GormTaskRepository) Analytics(workspaceID uint64, projectID *uint64) (*TaskAnalytics, error) {
	base := func() *gorm.DB {
		q := r.db.Model(&models.Task{}).Where("workspace_id = ?", workspaceID)
		if projectID != nil {
			q = q.Where("project_id = ?", *projectID)
		}
		return q
	}

	analytics := &TaskAnalytics{}

	if err := base().Count(&analytics.TotalTasks).Error; err != nil {
		return nil, err
	}

	if err := base().
		Where("due_date IS NOT NULL AND due_date < ? AND status <> ?", time.Now(), models.TaskStatusDone).
		Count(&analytics.OverdueTasks).Error; err != nil {
		return nil, err
	}

	if err := base().Where("status = ?", models.TaskStatusDone).
		Count(&analytics.CompletedTasks).Error; err != nil {
		return nil, err
	}

	return analytics, nil
}
