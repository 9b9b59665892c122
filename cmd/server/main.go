package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/teamloft/project-management-api/internal/config"
	"github.com/teamloft/project-management-api/internal/constants"
	"github.com/teamloft/project-management-api/internal/database"
	"github.com/teamloft/project-management-api/internal/handlers"
	"github.com/teamloft/project-management-api/internal/middleware"
	"github.com/teamloft/project-management-api/internal/models"
	"github.com/teamloft/project-management-api/internal/repository"
	"github.com/teamloft/project-management-api/internal/services"
)

func main() {
	cfg := config.Load()

	logger, err := config.NewLogger(cfg.GinMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg, logger); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	if err := database.AddIndexes(database.GetDB(), logger); err != nil {
		logger.Fatal("failed to add indexes", zap.Error(err))
	}

	if err := database.SeedRoles(database.GetDB(), models.DefaultRolePermissions()); err != nil {
		logger.Fatal("failed to seed roles", zap.Error(err))
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		logger.Fatal("failed to create redis session store", zap.Error(err))
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo, accountRepo)
	oauthService := services.NewOAuthService(cfg.OAuthConfigs())
	workspaceService := services.NewWorkspaceService(workspaceRepo, roleRepo, taskRepo)
	projectService := services.NewProjectService(projectRepo, taskRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, workspaceRepo)

	authHandler := handlers.NewAuthHandler(authService, oauthService, logger, cfg.FrontendOrigin)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService, authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project Management API is running",
		})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			auth.GET("/:provider", authHandler.OAuthLogin)
			auth.GET("/:provider/callback", authHandler.OAuthCallback)
		}

		workspaces := api.Group("/workspaces")
		workspaces.Use(middleware.RequireAuth())
		{
			workspaces.POST("", workspaceHandler.CreateWorkspace)
			workspaces.GET("", workspaceHandler.ListWorkspaces)
			workspaces.POST("/join", workspaceHandler.JoinWorkspace)

			ws := workspaces.Group("/:id")
			ws.Use(middleware.RequireWorkspaceAccess())
			{
				ws.GET("", workspaceHandler.GetWorkspace)
				ws.PUT("", middleware.RequirePermission(models.PermissionEditWorkspace), workspaceHandler.UpdateWorkspace)
				ws.DELETE("", middleware.RequirePermission(models.PermissionDeleteWorkspace), workspaceHandler.DeleteWorkspace)
				ws.POST("/invite/regenerate", middleware.RequirePermission(models.PermissionManageWorkspaceSettings), workspaceHandler.RegenerateInviteCode)
				ws.POST("/switch", workspaceHandler.SwitchWorkspace)
				ws.GET("/analytics", workspaceHandler.GetAnalytics)
				ws.PUT("/members/:user_id/role", middleware.RequirePermission(models.PermissionChangeMemberRole), workspaceHandler.ChangeMemberRole)
				ws.DELETE("/members/:user_id", middleware.RequirePermission(models.PermissionRemoveMember), workspaceHandler.RemoveMember)

				ws.POST("/projects", middleware.RequirePermission(models.PermissionCreateProject), projectHandler.CreateProject)
				ws.GET("/projects", projectHandler.ListProjects)
				ws.GET("/projects/:project_id", projectHandler.GetProject)
				ws.PUT("/projects/:project_id", middleware.RequirePermission(models.PermissionEditProject), projectHandler.UpdateProject)
				ws.DELETE("/projects/:project_id", middleware.RequirePermission(models.PermissionDeleteProject), projectHandler.DeleteProject)
				ws.GET("/projects/:project_id/analytics", projectHandler.GetAnalytics)

				ws.POST("/tasks", middleware.RequirePermission(models.PermissionCreateTask), taskHandler.CreateTask)
				ws.GET("/tasks", taskHandler.ListTasks)
				ws.GET("/tasks/:task_id", taskHandler.GetTask)
				ws.PUT("/tasks/:task_id", middleware.RequirePermission(models.PermissionEditTask), taskHandler.UpdateTask)
				ws.DELETE("/tasks/:task_id", middleware.RequirePermission(models.PermissionDeleteTask), taskHandler.DeleteTask)
			}
		}
	}

	logger.Info("server starting", zap.String("addr", cfg.ServerAddr))
	if err := r.Run(cfg.ServerAddr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
