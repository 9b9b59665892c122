package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/teamloft/project-management-api/internal/database"
	"github.com/teamloft/project-management-api/internal/models"
	"github.com/teamloft/project-management-api/internal/repository"
)

type taskTestEnv struct {
	db               *gorm.DB
	authService      *AuthService
	workspaceService *WorkspaceService
	projectService   *ProjectService
	taskService      *TaskService
}

func setupTaskTestEnv(t *testing.T) taskTestEnv {
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

	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return taskTestEnv{
		db:               db,
		authService:      NewAuthService(userRepo, accountRepo),
		workspaceService: NewWorkspaceService(workspaceRepo, roleRepo, taskRepo),
		projectService:   NewProjectService(projectRepo, taskRepo),
		taskService:      NewTaskService(taskRepo, projectRepo, workspaceRepo),
	}
}

func (env taskTestEnv) onboard(t *testing.T, email string) (*models.User, uint64) {
	t.Helper()

	user, err := env.authService.LoginOrCreate(LoginOrCreateInput{
		Provider:   models.ProviderGoogle,
		ProviderID: "sub-" + email,
		Name:       email,
		Email:      email,
	})
	require.NoError(t, err)
	require.NotNil(t, user.CurrentWorkspaceID)

	return user, *user.CurrentWorkspaceID
}

func (env taskTestEnv) createProject(t *testing.T, workspaceID, creatorID uint64, name string) *models.Project {
	t.Helper()

	project, err := env.projectService.CreateProject(CreateProjectInput{
		WorkspaceID: workspaceID,
		Name:        name,
		CreatedBy:   creatorID,
	})
	require.NoError(t, err)
	return project
}

func TestProjectService_CreateProjectDefaults(t *testing.T) {
	env := setupTaskTestEnv(t)
	user, workspaceID := env.onboard(t, "owner@example.com")

	project := env.createProject(t, workspaceID, user.ID, "Backend")
	require.Equal(t, "📊", project.Emoji)
	require.Equal(t, workspaceID, project.WorkspaceID)

	_, err := env.projectService.CreateProject(CreateProjectInput{
		WorkspaceID: workspaceID,
		Name:        "   ",
		CreatedBy:   user.ID,
	})
	require.ErrorIs(t, err, ErrProjectNameEmpty)
}

func TestTaskService_CreateTaskDefaults(t *testing.T) {
	env := setupTaskTestEnv(t)
	user, workspaceID := env.onboard(t, "owner@example.com")
	project := env.createProject(t, workspaceID, user.ID, "Backend")

	task, err := env.taskService.CreateTask(CreateTaskInput{
		WorkspaceID: workspaceID,
		ProjectID:   project.ID,
		Title:       "Set up CI",
		CreatedBy:   user.ID,
	})
	require.NoError(t, err)

	require.Equal(t, models.TaskStatusTodo, task.Status)
	require.Equal(t, models.TaskPriorityMedium, task.Priority)
	require.True(t, strings.HasPrefix(task.TaskCode, "task-"))
	require.Nil(t, task.AssignedTo)
}

func TestTaskService_CreateTaskRejectsForeignProject(t *testing.T) {
	env := setupTaskTestEnv(t)
	owner, _ := env.onboard(t, "owner@example.com")
	other, otherWorkspaceID := env.onboard(t, "other@example.com")

	// The project lives in the other user's workspace.
	project := env.createProject(t, otherWorkspaceID, other.ID, "Foreign")

	_, err := env.taskService.CreateTask(CreateTaskInput{
		WorkspaceID: *owner.CurrentWorkspaceID,
		ProjectID:   project.ID,
		Title:       "Should not exist",
		CreatedBy:   owner.ID,
	})
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestTaskService_CreateTaskRejectsNonMemberAssignee(t *testing.T) {
	env := setupTaskTestEnv(t)
	owner, workspaceID := env.onboard(t, "owner@example.com")
	outsider, _ := env.onboard(t, "outsider@example.com")
	project := env.createProject(t, workspaceID, owner.ID, "Backend")

	_, err := env.taskService.CreateTask(CreateTaskInput{
		WorkspaceID: workspaceID,
		ProjectID:   project.ID,
		Title:       "Assigned out",
		AssignedTo:  &outsider.ID,
		CreatedBy:   owner.ID,
	})
	require.ErrorIs(t, err, ErrInvalidTaskAssignee)

	// Once the outsider joins, the same assignment succeeds.
	var workspace models.Workspace
	require.NoError(t, env.db.First(&workspace, workspaceID).Error)
	_, err = env.workspaceService.JoinWorkspaceByInvite(outsider.ID, workspace.InviteCode)
	require.NoError(t, err)

	task, err := env.taskService.CreateTask(CreateTaskInput{
		WorkspaceID: workspaceID,
		ProjectID:   project.ID,
		Title:       "Assigned in",
		AssignedTo:  &outsider.ID,
		CreatedBy:   owner.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, task.AssignedTo)
	require.Equal(t, outsider.ID, *task.AssignedTo)
}

func TestTaskService_ListTasksFilters(t *testing.T) {
	env := setupTaskTestEnv(t)
	user, workspaceID := env.onboard(t, "owner@example.com")
	project := env.createProject(t, workspaceID, user.ID, "Backend")

	create := func(title string, status models.TaskStatus, priority models.TaskPriority) {
		_, err := env.taskService.CreateTask(CreateTaskInput{
			WorkspaceID: workspaceID,
			ProjectID:   project.ID,
			Title:       title,
			Status:      status,
			Priority:    priority,
			CreatedBy:   user.ID,
		})
		require.NoError(t, err)
	}

	create("Fix login bug", models.TaskStatusTodo, models.TaskPriorityHigh)
	create("Write docs", models.TaskStatusInProgress, models.TaskPriorityLow)
	create("Fix signup bug", models.TaskStatusDone, models.TaskPriorityHigh)

	_, total, err := env.taskService.ListTasks(ListTasksInput{WorkspaceID: workspaceID})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)

	status := models.TaskStatusDone
	tasks, total, err := env.taskService.ListTasks(ListTasksInput{
		WorkspaceID: workspaceID,
		Status:      &status,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "Fix signup bug", tasks[0].Title)

	tasks, total, err = env.taskService.ListTasks(ListTasksInput{
		WorkspaceID: workspaceID,
		Keyword:     "Fix",
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, tasks, 2)

	priority := models.TaskPriorityHigh
	_, total, err = env.taskService.ListTasks(ListTasksInput{
		WorkspaceID: workspaceID,
		Status:      &status,
		Priority:    &priority,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
}

func TestTaskService_UpdateTaskUnassignAndClearDueDate(t *testing.T) {
	env := setupTaskTestEnv(t)
	user, workspaceID := env.onboard(t, "owner@example.com")
	project := env.createProject(t, workspaceID, user.ID, "Backend")

	due := time.Now().Add(48 * time.Hour)
	task, err := env.taskService.CreateTask(CreateTaskInput{
		WorkspaceID: workspaceID,
		ProjectID:   project.ID,
		Title:       "Release",
		AssignedTo:  &user.ID,
		DueDate:     &due,
		CreatedBy:   user.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, task.AssignedTo)
	require.NotNil(t, task.DueDate)

	updated, err := env.taskService.UpdateTask(task.ID, workspaceID, UpdateTaskInput{
		Unassign:     true,
		ClearDueDate: true,
	})
	require.NoError(t, err)
	require.Nil(t, updated.AssignedTo)
	require.Nil(t, updated.DueDate)

	emptyTitle := ""
	_, err = env.taskService.UpdateTask(task.ID, workspaceID, UpdateTaskInput{Title: &emptyTitle})
	require.ErrorIs(t, err, ErrTaskTitleRequired)
}

func TestTaskService_GetTaskScopedToWorkspace(t *testing.T) {
	env := setupTaskTestEnv(t)
	owner, workspaceID := env.onboard(t, "owner@example.com")
	_, otherWorkspaceID := env.onboard(t, "other@example.com")
	project := env.createProject(t, workspaceID, owner.ID, "Backend")

	task, err := env.taskService.CreateTask(CreateTaskInput{
		WorkspaceID: workspaceID,
		ProjectID:   project.ID,
		Title:       "Private task",
		CreatedBy:   owner.ID,
	})
	require.NoError(t, err)

	// Looking the task up through another workspace reports not found.
	_, err = env.taskService.GetTask(task.ID, otherWorkspaceID)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_AnalyticsCounts(t *testing.T) {
	env := setupTaskTestEnv(t)
	user, workspaceID := env.onboard(t, "owner@example.com")
	project := env.createProject(t, workspaceID, user.ID, "Backend")

	yesterday := time.Now().Add(-24 * time.Hour)
	tomorrow := time.Now().Add(24 * time.Hour)

	create := func(title string, status models.TaskStatus, due *time.Time) {
		_, err := env.taskService.CreateTask(CreateTaskInput{
			WorkspaceID: workspaceID,
			ProjectID:   project.ID,
			Title:       title,
			Status:      status,
			DueDate:     due,
			CreatedBy:   user.ID,
		})
		require.NoError(t, err)
	}

	create("Overdue open", models.TaskStatusTodo, &yesterday)
	create("Overdue but done", models.TaskStatusDone, &yesterday)
	create("On time", models.TaskStatusInProgress, &tomorrow)
	create("No due date", models.TaskStatusTodo, nil)

	analytics, err := env.workspaceService.WorkspaceAnalytics(workspaceID)
	require.NoError(t, err)
	require.EqualValues(t, 4, analytics.TotalTasks)
	require.EqualValues(t, 1, analytics.OverdueTasks)
	require.EqualValues(t, 1, analytics.CompletedTasks)

	projectAnalytics, err := env.projectService.ProjectAnalytics(project.ID, workspaceID)
	require.NoError(t, err)
	require.EqualValues(t, 4, projectAnalytics.TotalTasks)
}

func TestProjectService_DeleteProjectRemovesTasks(t *testing.T) {
	env := setupTaskTestEnv(t)
	user, workspaceID := env.onboard(t, "owner@example.com")
	project := env.createProject(t, workspaceID, user.ID, "Backend")

	_, err := env.taskService.CreateTask(CreateTaskInput{
		WorkspaceID: workspaceID,
		ProjectID:   project.ID,
		Title:       "Orphan candidate",
		CreatedBy:   user.ID,
	})
	require.NoError(t, err)

	require.NoError(t, env.projectService.DeleteProject(project.ID, workspaceID))

	_, err = env.projectService.GetProject(project.ID, workspaceID)
	require.ErrorIs(t, err, ErrProjectNotFound)

	_, total, err := env.taskService.ListTasks(ListTasksInput{WorkspaceID: workspaceID})
	require.NoError(t, err)
	require.Zero(t, total)
}
