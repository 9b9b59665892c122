package repository

import (
	"time"

	"github.com/teamloft/project-management-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// CreateWithDefaultWorkspace runs the full onboarding sequence in a single
	// transaction: user, linked account, default workspace, OWNER membership,
	// and the user's current workspace pointer. All or nothing.
	CreateWithDefaultWorkspace(user *models.User, account *models.Account, workspace *models.Workspace) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(email string) (*models.User, error)

	// UpdateLastLogin stamps the user's last login time
	UpdateLastLogin(id uint64, at time.Time) error

	// SetCurrentWorkspace switches the user's active workspace
	SetCurrentWorkspace(userID, workspaceID uint64) error
}

// AccountRepository defines the interface for provider account data access
type AccountRepository interface {
	// FindByProvider finds an account by its (provider, provider ID) identity
	FindByProvider(provider models.Provider, providerID string) (*models.Account, error)
}

// RoleRepository defines the interface for role data access
type RoleRepository interface {
	// FindByName finds a seeded role by name
	FindByName(name models.RoleName) (*models.Role, error)
}

// WorkspaceRepository defines the interface for workspace data access
type WorkspaceRepository interface {
	// CreateWithOwner creates a workspace and its owner membership in a single
	// transaction, so a workspace can never exist without an owner member
	CreateWithOwner(workspace *models.Workspace, ownerMember *models.Member) error

	// FindByID finds a workspace by ID
	FindByID(id uint64) (*models.Workspace, error)

	// FindByInviteCode finds a workspace by invite code
	FindByInviteCode(code string) (*models.Workspace, error)

	// Update updates a workspace
	Update(workspace *models.Workspace) error

	// Delete deletes a workspace and cascades to members, projects and tasks
	Delete(id uint64) error

	// AddMember adds a member to a workspace
	AddMember(member *models.Member) error

	// RemoveMember removes a member from a workspace
	RemoveMember(workspaceID, userID uint64) error

	// FindMember finds a specific workspace member with their role
	FindMember(workspaceID, userID uint64) (*models.Member, error)

	// UpdateMemberRole changes a member's role
	UpdateMemberRole(workspaceID, userID, roleID uint64) error

	// ListMembershipsByUserID lists all workspaces a user is a member of
	ListMembershipsByUserID(userID uint64) ([]models.Member, error)

	// ListMembers lists all members of a workspace
	ListMembers(workspaceID uint64) ([]models.Member, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByIDInWorkspace finds a project scoped to a workspace
	FindByIDInWorkspace(id, workspaceID uint64) (*models.Project, error)

	// List retrieves a workspace's projects with pagination
	List(workspaceID uint64, page, pageSize int) ([]models.Project, int64, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete soft deletes a project and its tasks
	Delete(id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByIDInWorkspace finds a task scoped to a workspace
	FindByIDInWorkspace(id, workspaceID uint64) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error

	// Analytics aggregates task counts for a workspace, optionally scoped to
	// one project
	Analytics(workspaceID uint64, projectID *uint64) (*TaskAnalytics, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	WorkspaceID uint64
	ProjectID   *uint64
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	AssignedTo  *uint64
	Keyword     string
	DueDateFrom *time.Time
	DueDateTo   *time.Time
	Page        int
	PageSize    int
}

// TaskAnalytics holds aggregated task counts
type TaskAnalytics struct {
	TotalTasks     int64 `json:"total_tasks"`
	OverdueTasks   int64 `json:"overdue_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
}
