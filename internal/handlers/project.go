package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/teamloft/project-management-api/internal/dto"
	apierrors "github.com/teamloft/project-management-api/internal/errors"
	"github.com/teamloft/project-management-api/internal/middleware"
	"github.com/teamloft/project-management-api/internal/models"
	"github.com/teamloft/project-management-api/internal/services"
	"github.com/teamloft/project-management-api/internal/utils"
)

// ProjectHandler coordinates project HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject creates a project in the workspace.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required,max=255"`
		Description string `json:"description"`
		Emoji       string `json:"emoji"`
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

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		WorkspaceID: workspace.ID,
		Name:        req.Name,
		Description: req.Description,
		Emoji:       req.Emoji,
		CreatedBy:   userID,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects lists the workspace's projects with pagination.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	workspace, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.NotFound(c, "Workspace not found")
		return
	}

	params := utils.GetPaginationParams(c)

	projects, total, err := h.projectService.ListProjects(workspace.ID, params.Page, params.Limit)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListResponse(projects, params.Page, params.Limit, total))
}

// GetProject returns one project of the workspace.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	workspace, projectID, ok := projectScope(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(projectID, workspace.ID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProject updates a project.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	type UpdateProjectRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Emoji       *string `json:"emoji"`
	}

	workspace, projectID, ok := projectScope(c)
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(projectID, workspace.ID, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Emoji:       req.Emoji,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject removes a project and its tasks.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	workspace, projectID, ok := projectScope(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(projectID, workspace.ID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// GetAnalytics returns aggregated task counts for the project.
func (h *ProjectHandler) GetAnalytics(c *gin.Context) {
	workspace, projectID, ok := projectScope(c)
	if !ok {
		return
	}

	analytics, err := h.projectService.ProjectAnalytics(projectID, workspace.ID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"analytics": analytics})
}

func projectScope(c *gin.Context) (workspace models.Workspace, projectID uint64, ok bool) {
	workspace, found := middleware.GetWorkspace(c)
	if !found {
		apierrors.NotFound(c, "Workspace not found")
		return models.Workspace{}, 0, false
	}

	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return models.Workspace{}, 0, false
	}

	return workspace, projectID, true
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNameEmpty):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
