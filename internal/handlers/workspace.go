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
)

// WorkspaceHandler coordinates workspace and member HTTP handlers.
type WorkspaceHandler struct {
	workspaceService *services.WorkspaceService
	authService      *services.AuthService
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(workspaceService *services.WorkspaceService, authService *services.AuthService) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		authService:      authService,
	}
}

// CreateWorkspace creates a new workspace owned by the caller.
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	type CreateWorkspaceRequest struct {
		Name        string `json:"name" binding:"required,max=255"`
		Description string `json:"description"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	workspace, err := h.workspaceService.CreateWorkspace(services.CreateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
	})
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToWorkspaceDTO(*workspace, true))
}

// ListWorkspaces lists the caller's workspaces with their role in each.
func (h *WorkspaceHandler) ListWorkspaces(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.workspaceService.ListWorkspacesForUser(userID)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	workspaces := make([]dto.WorkspaceWithRoleDTO, len(memberships))
	for i, membership := range memberships {
		workspaces[i] = dto.ToWorkspaceWithRoleDTO(membership)
	}

	c.JSON(http.StatusOK, gin.H{"workspaces": workspaces})
}

// GetWorkspace returns a workspace with its members.
func (h *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	workspace, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.NotFound(c, "Workspace not found")
		return
	}
	member, _ := middleware.GetMember(c)

	_, members, err := h.workspaceService.GetWorkspaceWithMembers(workspace.ID)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceDetailDTO(workspace, members, member.Role.Name))
}

// UpdateWorkspace updates a workspace's name and description.
func (h *WorkspaceHandler) UpdateWorkspace(c *gin.Context) {
	type UpdateWorkspaceRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	workspace, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.NotFound(c, "Workspace not found")
		return
	}

	var req UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.workspaceService.UpdateWorkspace(workspace.ID, services.UpdateWorkspaceInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceDTO(*updated, true))
}

// DeleteWorkspace removes a workspace and everything in it.
func (h *WorkspaceHandler) DeleteWorkspace(c *gin.Context) {
	workspace, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.NotFound(c, "Workspace not found")
		return
	}

	if err := h.workspaceService.DeleteWorkspace(workspace.ID); err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Workspace deleted"})
}

// JoinWorkspace adds the caller to a workspace via invite code.
func (h *WorkspaceHandler) JoinWorkspace(c *gin.Context) {
	type JoinWorkspaceRequest struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req JoinWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	workspace, err := h.workspaceService.JoinWorkspaceByInvite(userID, req.InviteCode)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceDTO(*workspace, false))
}

// RegenerateInviteCode rotates the workspace invite code.
func (h *WorkspaceHandler) RegenerateInviteCode(c *gin.Context) {
	workspace, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.NotFound(c, "Workspace not found")
		return
	}

	updated, err := h.workspaceService.RegenerateInviteCode(workspace.ID)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceDTO(*updated, true))
}

// ChangeMemberRole assigns a different role to a member.
func (h *WorkspaceHandler) ChangeMemberRole(c *gin.Context) {
	type ChangeMemberRoleRequest struct {
		Role models.RoleName `json:"role" binding:"required"`
	}

	workspace, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.NotFound(c, "Workspace not found")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	var req ChangeMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.workspaceService.ChangeMemberRole(workspace.ID, targetID, req.Role); err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member role updated"})
}

// RemoveMember removes a member from the workspace.
func (h *WorkspaceHandler) RemoveMember(c *gin.Context) {
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

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.workspaceService.RemoveMember(workspace.ID, userID, targetID); err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// SwitchWorkspace makes the workspace the caller's current one.
func (h *WorkspaceHandler) SwitchWorkspace(c *gin.Context) {
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

	if err := h.authService.SwitchWorkspace(userID, workspace.ID); err != nil {
		apierrors.InternalError(c, "Failed to switch workspace")
		return
	}

	c.JSON(http.StatusOK, gin.H{"current_workspace_id": workspace.ID})
}

// GetAnalytics returns aggregated task counts for the workspace.
func (h *WorkspaceHandler) GetAnalytics(c *gin.Context) {
	workspace, ok := middleware.GetWorkspace(c)
	if !ok {
		apierrors.NotFound(c, "Workspace not found")
		return
	}

	analytics, err := h.workspaceService.WorkspaceAnalytics(workspace.ID)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"analytics": analytics})
}

func respondWorkspaceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidWorkspaceName):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrWorkspaceNotFound),
		errors.Is(err, services.ErrWorkspaceMemberNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidInviteCode):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAlreadyWorkspaceMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrCannotRemoveYourself),
		errors.Is(err, services.ErrCannotModifyOwner),
		errors.Is(err, services.ErrUnknownRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInviteCodeGenerationFailed):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
