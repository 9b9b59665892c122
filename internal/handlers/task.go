package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teamloft/project-management-api/internal/dto"
	apierrors "github.com/teamloft/project-management-api/internal/errors"
	"github.com/teamloft/project-management-api/internal/middleware"
	"github.com/teamloft/project-management-api/internal/models"
	"github.com/teamloft/project-management-api/internal/services"
	"github.com/teamloft/project-management-api/internal/utils"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a task in one of the workspace's projects.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		ProjectID   uint64     `json:"project_id" binding:"required"`
		Title       string     `json:"title" binding:"required,max=255"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		Priority    string     `json:"priority"`
		AssignedTo  *uint64    `json:"assigned_to"`
		DueDate     *time.Time `json:"due_date"`
	}

	workspace, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.NotFound(c, "Workspace not found")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		WorkspaceID: workspace.ID,
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Priority:    models.TaskPriority(req.Priority),
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		CreatedBy:   userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListTasks lists the workspace's tasks with filters and pagination.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	workspace, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.NotFound(c, "Workspace not found")
		return
	}

	params := utils.GetPaginationParams(c)

	input := services.ListTasksInput{
		WorkspaceID: workspace.ID,
		Keyword:     c.Query("keyword"),
		DueToday:    c.Query("due_today") == "true",
		Page:        params.Page,
		PageSize:    params.Limit,
	}

	if raw := c.Query("project_id"); raw != "" {
		projectID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			return
		}
		input.ProjectID = &projectID
	}
	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		input.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := models.TaskPriority(raw)
		input.Priority = &priority
	}
	if raw := c.Query("assigned_to"); raw != "" {
		assignedTo, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid user ID")
			return
		}
		input.AssignedTo = &assignedTo
	}

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// GetTask returns one task of the workspace.
func (h *TaskHandler) GetTask(c *gin.Context) {
	workspace, taskID, ok := taskScope(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID, workspace.ID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask updates a task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		Title        *string    `json:"title"`
		Description  *string    `json:"description"`
		Status       *string    `json:"status"`
		Priority     *string    `json:"priority"`
		AssignedTo   *uint64    `json:"assigned_to"`
		Unassign     bool       `json:"unassign"`
		DueDate      *time.Time `json:"due_date"`
		ClearDueDate bool       `json:"clear_due_date"`
	}

	workspace, taskID, ok := taskScope(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		AssignedTo:   req.AssignedTo,
		Unassign:     req.Unassign,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := models.TaskPriority(*req.Priority)
		input.Priority = &priority
	}

	task, err := h.taskService.UpdateTask(taskID, workspace.ID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	workspace, taskID, ok := taskScope(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(taskID, workspace.ID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

func taskScope(c *gin.Context) (workspace models.Workspace, taskID uint64, ok bool) {
	workspace, found := middleware.GetWorkspace(c)
	if !found {
		apierrors.NotFound(c, "Workspace not found")
		return models.Workspace{}, 0, false
	}

	taskID, err := strconv.ParseUint(c.Param("task_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return models.Workspace{}, 0, false
	}

	return workspace, taskID, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskTitleRequired),
		errors.Is(err, services.ErrInvalidTaskAssignee):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
