package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/teamloft/project-management-api/internal/models"
	"github.com/teamloft/project-management-api/internal/repository"
)

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrProjectNameEmpty = errors.New("project name cannot be empty")
)

const defaultProjectEmoji = "📊"

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

// CreateProjectInput represents input for creating a project.
type CreateProjectInput struct {
	WorkspaceID uint64
	Name        string
	Description string
	Emoji       string
	CreatedBy   uint64
}

// CreateProject creates a new project in a workspace.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrProjectNameEmpty
	}

	emoji := input.Emoji
	if emoji == "" {
		emoji = defaultProjectEmoji
	}

	project := &models.Project{
		WorkspaceID: input.WorkspaceID,
		Name:        input.Name,
		Description: input.Description,
		Emoji:       emoji,
		CreatedBy:   input.CreatedBy,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjects returns a workspace's projects with pagination.
func (s *ProjectService) ListProjects(workspaceID uint64, page, pageSize int) ([]models.Project, int64, error) {
	projects, total, err := s.projectRepo.List(workspaceID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// GetProject returns a project that belongs to the workspace.
func (s *ProjectService) GetProject(projectID, workspaceID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByIDInWorkspace(projectID, workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// UpdateProjectInput represents the mutable project fields.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Emoji       *string
}

// UpdateProject updates an existing project.
func (s *ProjectService) UpdateProject(projectID, workspaceID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.GetProject(projectID, workspaceID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrProjectNameEmpty
		}
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Emoji != nil {
		project.Emoji = *input.Emoji
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project and its tasks.
func (s *ProjectService) DeleteProject(projectID, workspaceID uint64) error {
	if _, err := s.GetProject(projectID, workspaceID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// ProjectAnalytics aggregates task counts for one project.
func (s *ProjectService) ProjectAnalytics(projectID, workspaceID uint64) (*repository.TaskAnalytics, error) {
	if _, err := s.GetProject(projectID, workspaceID); err != nil {
		return nil, err
	}

	analytics, err := s.taskRepo.Analytics(workspaceID, &projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate project analytics: %w", err)
	}
	return analytics, nil
}
