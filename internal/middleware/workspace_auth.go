package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/teamloft/project-management-api/internal/constants"
	"github.com/teamloft/project-management-api/internal/database"
	apierrors "github.com/teamloft/project-management-api/internal/errors"
	"github.com/teamloft/project-management-api/internal/models"
)

// RequireWorkspaceAccess checks if the user is a member of the workspace
func RequireWorkspaceAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		workspaceIDStr := c.Param("id")
		workspaceID, err := strconv.ParseUint(workspaceIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid workspace ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var workspace models.Workspace
		if err := database.GetDB().First(&workspace, workspaceID).Error; err != nil {
			apierrors.NotFound(c, "Workspace not found")
			c.Abort()
			return
		}

		// Non-members get 404 instead of 403 to avoid leaking workspace existence
		var member models.Member
		err = database.GetDB().Preload("Role").
			Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
			First(&member).Error
		if err != nil {
			apierrors.NotFound(c, "Workspace not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyWorkspace, workspace)
		c.Set(constants.ContextKeyMember, member)
		c.Next()
	}
}

// RequirePermission checks that the member's role grants the permission.
// Must run after RequireWorkspaceAccess.
func RequirePermission(permission models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		member, ok := GetMember(c)
		if !ok {
			apierrors.Forbidden(c, "Workspace access required")
			c.Abort()
			return
		}

		if !member.Role.HasPermission(permission) {
			apierrors.Forbidden(c, "Your role does not allow this action")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetWorkspace retrieves the workspace stashed by RequireWorkspaceAccess
func GetWorkspace(c *gin.Context) (models.Workspace, bool) {
	value, exists := c.Get(constants.ContextKeyWorkspace)
	if !exists {
		return models.Workspace{}, false
	}
	workspace, ok := value.(models.Workspace)
	return workspace, ok
}

// GetMember retrieves the membership stashed by RequireWorkspaceAccess
func GetMember(c *gin.Context) (models.Member, bool) {
	value, exists := c.Get(constants.ContextKeyMember)
	if !exists {
		return models.Member{}, false
	}
	member, ok := value.(models.Member)
	return member, ok
}
