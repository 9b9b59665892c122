package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/teamloft/project-management-api/internal/constants"
	"github.com/teamloft/project-management-api/internal/database"
	"github.com/teamloft/project-management-api/internal/dto"
	"github.com/teamloft/project-management-api/internal/middleware"
	"github.com/teamloft/project-management-api/internal/models"
	"github.com/teamloft/project-management-api/internal/repository"
	"github.com/teamloft/project-management-api/internal/services"
)

type workspaceTestEnv struct {
	db               *gorm.DB
	handler          *WorkspaceHandler
	authService      *services.AuthService
	workspaceService *services.WorkspaceService
}

func setupWorkspaceTestEnv(t *testing.T) workspaceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Role{},
		&models.Workspace{},
		&models.Member{},
		&models.Project{},
		&models.Task{},
	)
	require.NoError(t, err)

	require.NoError(t, database.SeedRoles(db, models.DefaultRolePermissions()))

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo, accountRepo)
	workspaceService := services.NewWorkspaceService(workspaceRepo, roleRepo, taskRepo)
	handler := NewWorkspaceHandler(workspaceService, authService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return workspaceTestEnv{
		db:               db,
		handler:          handler,
		authService:      authService,
		workspaceService: workspaceService,
	}
}

// onboardTestUser creates a user through the onboarding workflow and returns
// them with their default workspace.
func onboardTestUser(t *testing.T, env workspaceTestEnv, email string) (*models.User, uint64) {
	t.Helper()

	user, err := env.authService.LoginOrCreate(services.LoginOrCreateInput{
		Provider:   models.ProviderGoogle,
		ProviderID: "sub-" + email,
		Name:       email,
		Email:      email,
	})
	require.NoError(t, err)
	require.NotNil(t, user.CurrentWorkspaceID)

	return user, *user.CurrentWorkspaceID
}

func workspaceTestRouter(env workspaceTestEnv, userID uint64) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	})

	ws := r.Group("/api/workspaces/:id")
	ws.Use(middleware.RequireWorkspaceAccess())
	ws.GET("", env.handler.GetWorkspace)
	ws.DELETE("", middleware.RequirePermission(models.PermissionDeleteWorkspace), env.handler.DeleteWorkspace)
	ws.POST("/invite/regenerate", middleware.RequirePermission(models.PermissionManageWorkspaceSettings), env.handler.RegenerateInviteCode)

	return r
}

func TestWorkspaceHandler_CreateWorkspace(t *testing.T) {
	env := setupWorkspaceTestEnv(t)
	user, _ := onboardTestUser(t, env, "creator@example.com")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, err := json.Marshal(map[string]string{"name": "Design Team", "description": "All things design"})
	require.NoError(t, err)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/workspaces", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(constants.ContextKeyUserID, user.ID)

	env.handler.CreateWorkspace(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.WorkspaceDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "Design Team", response.Name)
	require.NotEmpty(t, response.InviteCode)

	var member models.Member
	require.NoError(t, env.db.Preload("Role").
		Where("workspace_id = ? AND user_id = ?", response.ID, user.ID).
		First(&member).Error)
	require.Equal(t, models.RoleOwner, member.Role.Name)
}

func TestWorkspaceMiddleware_NonMemberGets404(t *testing.T) {
	env := setupWorkspaceTestEnv(t)
	_, workspaceID := onboardTestUser(t, env, "owner@example.com")
	outsider, _ := onboardTestUser(t, env, "outsider@example.com")

	r := workspaceTestRouter(env, outsider.ID)

	req := httptest.NewRequest(http.MethodGet, workspaceURL(workspaceID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkspaceMiddleware_MemberCannotDeleteWorkspace(t *testing.T) {
	env := setupWorkspaceTestEnv(t)
	owner, workspaceID := onboardTestUser(t, env, "owner@example.com")
	joiner, _ := onboardTestUser(t, env, "joiner@example.com")

	var workspace models.Workspace
	require.NoError(t, env.db.First(&workspace, workspaceID).Error)
	_, err := env.workspaceService.JoinWorkspaceByInvite(joiner.ID, workspace.InviteCode)
	require.NoError(t, err)

	r := workspaceTestRouter(env, joiner.ID)
	req := httptest.NewRequest(http.MethodDelete, workspaceURL(workspaceID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)

	// The owner is allowed to delete, and everything cascades.
	r = workspaceTestRouter(env, owner.ID)
	req = httptest.NewRequest(http.MethodDelete, workspaceURL(workspaceID), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var memberCount int64
	require.NoError(t, env.db.Model(&models.Member{}).
		Where("workspace_id = ?", workspaceID).Count(&memberCount).Error)
	require.Zero(t, memberCount)
}

func TestWorkspaceService_JoinByInviteTwice(t *testing.T) {
	env := setupWorkspaceTestEnv(t)
	_, workspaceID := onboardTestUser(t, env, "owner@example.com")
	joiner, _ := onboardTestUser(t, env, "joiner@example.com")

	var workspace models.Workspace
	require.NoError(t, env.db.First(&workspace, workspaceID).Error)

	joined, err := env.workspaceService.JoinWorkspaceByInvite(joiner.ID, workspace.InviteCode)
	require.NoError(t, err)
	require.Equal(t, workspaceID, joined.ID)

	var member models.Member
	require.NoError(t, env.db.Preload("Role").
		Where("workspace_id = ? AND user_id = ?", workspaceID, joiner.ID).
		First(&member).Error)
	require.Equal(t, models.RoleMember, member.Role.Name)

	_, err = env.workspaceService.JoinWorkspaceByInvite(joiner.ID, workspace.InviteCode)
	require.ErrorIs(t, err, services.ErrAlreadyWorkspaceMember)
}

func TestWorkspaceService_ChangeMemberRole(t *testing.T) {
	env := setupWorkspaceTestEnv(t)
	owner, workspaceID := onboardTestUser(t, env, "owner@example.com")
	joiner, _ := onboardTestUser(t, env, "joiner@example.com")

	var workspace models.Workspace
	require.NoError(t, env.db.First(&workspace, workspaceID).Error)
	_, err := env.workspaceService.JoinWorkspaceByInvite(joiner.ID, workspace.InviteCode)
	require.NoError(t, err)

	require.NoError(t, env.workspaceService.ChangeMemberRole(workspaceID, joiner.ID, models.RoleAdmin))

	var member models.Member
	require.NoError(t, env.db.Preload("Role").
		Where("workspace_id = ? AND user_id = ?", workspaceID, joiner.ID).
		First(&member).Error)
	require.Equal(t, models.RoleAdmin, member.Role.Name)

	// The owner cannot be demoted.
	err = env.workspaceService.ChangeMemberRole(workspaceID, owner.ID, models.RoleMember)
	require.ErrorIs(t, err, services.ErrCannotModifyOwner)
}

func TestWorkspaceService_CreateWorkspaceLeavesNothingOnFailure(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Workspace{},
		&models.Member{},
		&models.Role{},
		&models.Task{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	// Roles deliberately not seeded: creation must fail before any write.
	workspaceService := services.NewWorkspaceService(
		repository.NewWorkspaceRepository(db),
		repository.NewRoleRepository(db),
		repository.NewTaskRepository(db),
	)

	_, err = workspaceService.CreateWorkspace(services.CreateWorkspaceInput{
		Name:    "Orphaned",
		OwnerID: 1,
	})
	require.Error(t, err)

	var workspaceCount, memberCount int64
	require.NoError(t, db.Model(&models.Workspace{}).Count(&workspaceCount).Error)
	require.NoError(t, db.Model(&models.Member{}).Count(&memberCount).Error)
	require.Zero(t, workspaceCount)
	require.Zero(t, memberCount)
}

func TestWorkspaceService_RegenerateInviteCode(t *testing.T) {
	env := setupWorkspaceTestEnv(t)
	_, workspaceID := onboardTestUser(t, env, "owner@example.com")

	var before models.Workspace
	require.NoError(t, env.db.First(&before, workspaceID).Error)

	updated, err := env.workspaceService.RegenerateInviteCode(workspaceID)
	require.NoError(t, err)
	require.NotEqual(t, before.InviteCode, updated.InviteCode)
	require.NotEmpty(t, updated.InviteCode)
}

func workspaceURL(workspaceID uint64) string {
	return "/api/workspaces/" + strconv.FormatUint(workspaceID, 10)
}
