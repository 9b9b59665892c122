package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/teamloft/project-management-api/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating the user fails inside the onboarding transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateAccount is returned when creating the provider account fails inside the onboarding transaction.
	ErrCreateAccount = errors.New("user repository: create account failed")
	// ErrCreateWorkspace is returned when creating the default workspace fails inside the onboarding transaction.
	ErrCreateWorkspace = errors.New("user repository: create workspace failed")
	// ErrOwnerRoleMissing is returned when the OWNER seed role does not exist. This is a
	// configuration fault, not user input.
	ErrOwnerRoleMissing = errors.New("user repository: OWNER role is not seeded")
	// ErrCreateMember is returned when creating the owner membership fails inside the onboarding transaction.
	ErrCreateMember = errors.New("user repository: create member failed")
	// ErrSetCurrentWorkspace is returned when pointing the user at the new workspace fails.
	ErrSetCurrentWorkspace = errors.New("user repository: set current workspace failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// CreateWithDefaultWorkspace creates the user, account, default workspace and
// OWNER membership atomically, then points the user at the new workspace.
// Every write depends on the ID produced by the previous one, so the sequence
// is strictly ordered; any failure rolls the whole unit back.
func (r *GormUserRepository) CreateWithDefaultWorkspace(user *models.User, account *models.Account, workspace *models.Workspace) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		account.UserID = user.ID
		if err := tx.Create(account).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateAccount, err)
		}

		workspace.OwnerID = user.ID
		if err := tx.Create(workspace).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateWorkspace, err)
		}

		var ownerRole models.Role
		if err := tx.Where("name = ?", models.RoleOwner).First(&ownerRole).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOwnerRoleMissing
			}
			return fmt.Errorf("%w: %v", ErrOwnerRoleMissing, err)
		}

		member := models.Member{
			UserID:      user.ID,
			WorkspaceID: workspace.ID,
			RoleID:      ownerRole.ID,
			JoinedAt:    time.Now(),
		}
		if err := tx.Create(&member).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateMember, err)
		}

		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("current_workspace_id", workspace.ID).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrSetCurrentWorkspace, err)
		}
		user.CurrentWorkspaceID = &workspace.ID

		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email, normalized the same way the model hooks store it
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := r.db.Where("email = ?", normalized).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin stamps the user's last login time
func (r *GormUserRepository) UpdateLastLogin(id uint64, at time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("last_login", at).Error
}

// SetCurrentWorkspace switches the user's active workspace
func (r *GormUserRepository) SetCurrentWorkspace(userID, workspaceID uint64) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("current_workspace_id", workspaceID).Error
}
