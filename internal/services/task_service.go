package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/teamloft/project-management-api/internal/models"
	"github.com/teamloft/project-management-api/internal/repository"
	"github.com/teamloft/project-management-api/internal/utils"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrTaskTitleRequired   = errors.New("title is required")
	ErrInvalidTaskAssignee = errors.New("assignee is not a member of the workspace")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo      repository.TaskRepository
	projectRepo   repository.ProjectRepository
	workspaceRepo repository.WorkspaceRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, workspaceRepo repository.WorkspaceRepository) *TaskService {
	return &TaskService{
		taskRepo:      taskRepo,
		projectRepo:   projectRepo,
		workspaceRepo: workspaceRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	WorkspaceID uint64
	ProjectID   uint64
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	AssignedTo  *uint64
	DueDate     *time.Time
	CreatedBy   uint64
}

// CreateTask creates a task after validating that the project belongs to the
// workspace and the assignee (if any) is a workspace member.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTaskTitleRequired
	}

	if _, err := s.projectRepo.FindByIDInWorkspace(input.ProjectID, input.WorkspaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.AssignedTo != nil {
		if err := s.ensureWorkspaceMember(input.WorkspaceID, *input.AssignedTo); err != nil {
			return nil, err
		}
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}

	task := &models.Task{
		TaskCode:    utils.GenerateTaskCode(),
		WorkspaceID: input.WorkspaceID,
		ProjectID:   input.ProjectID,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		AssignedTo:  input.AssignedTo,
		DueDate:     input.DueDate,
		CreatedBy:   input.CreatedBy,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByIDInWorkspace(task.ID, input.WorkspaceID)
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	WorkspaceID uint64
	ProjectID   *uint64
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	AssignedTo  *uint64
	Keyword     string
	DueToday    bool
	Page        int
	PageSize    int
}

// ListTasks returns tasks in a workspace matching the provided filters
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		WorkspaceID: input.WorkspaceID,
		ProjectID:   input.ProjectID,
		Status:      input.Status,
		Priority:    input.Priority,
		AssignedTo:  input.AssignedTo,
		Keyword:     input.Keyword,
		Page:        input.Page,
		PageSize:    input.PageSize,
	}

	if input.DueToday {
		now := time.Now()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		endOfDay := startOfDay.Add(24 * time.Hour)
		filter.DueDateFrom = &startOfDay
		filter.DueDateTo = &endOfDay
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(taskID, workspaceID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDInWorkspace(taskID, workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	AssignedTo   *uint64
	Unassign     bool
	DueDate      *time.Time
	ClearDueDate bool
}

// UpdateTask updates an existing task
func (s *TaskService) UpdateTask(taskID, workspaceID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(taskID, workspaceID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTaskTitleRequired
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.Unassign {
		task.AssignedTo = nil
	} else if input.AssignedTo != nil {
		if err := s.ensureWorkspaceMember(workspaceID, *input.AssignedTo); err != nil {
			return nil, err
		}
		task.AssignedTo = input.AssignedTo
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByIDInWorkspace(task.ID, workspaceID)
}

// DeleteTask deletes a task
func (s *TaskService) DeleteTask(taskID, workspaceID uint64) error {
	if _, err := s.GetTask(taskID, workspaceID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

func (s *TaskService) ensureWorkspaceMember(workspaceID, userID uint64) error {
	if _, err := s.workspaceRepo.FindMember(workspaceID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidTaskAssignee
		}
		return fmt.Errorf("failed to verify workspace membership: %w", err)
	}
	return nil
}
