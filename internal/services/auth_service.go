package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/teamloft/project-management-api/internal/constants"
	"github.com/teamloft/project-management-api/internal/models"
	"github.com/teamloft/project-management-api/internal/repository"
	"github.com/teamloft/project-management-api/internal/utils"
)

var (
	ErrEmailTaken       = errors.New("email already registered")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordTooShort = errors.New("password too short")
	ErrUserNotFound     = errors.New("user not found")

	// ErrAccountNotFound and ErrInvalidCredentials deliberately share the same
	// message so a response cannot reveal whether the email or the password
	// was wrong.
	ErrAccountNotFound    = errors.New("invalid email or password")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailConflict signals that a concurrent onboarding for the same email
	// won the race. The caller should retry LoginOrCreate, which will then
	// find the winner's user.
	ErrEmailConflict = errors.New("email was registered concurrently")

	ErrFailedToCreateUser      = errors.New("failed to create user")
	ErrFailedToCreateWorkspace = errors.New("failed to create workspace")
	ErrRoleSeedMissing         = errors.New("role seed data is missing")
)

// AuthService handles onboarding and credential verification.
type AuthService struct {
	userRepo    repository.UserRepository
	accountRepo repository.AccountRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, accountRepo repository.AccountRepository) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		accountRepo: accountRepo,
	}
}

// LoginOrCreateInput identifies an external-provider login.
type LoginOrCreateInput struct {
	Provider   models.Provider
	ProviderID string
	Name       string
	Email      string
	Picture    string
}

// LoginOrCreate returns the user for the given email, onboarding them first if
// they have never signed in. The else branch is idempotent: an existing email
// returns the stored user with zero writes. The creation branch runs the full
// onboarding transaction; if a concurrent invocation for the same email wins
// at commit time, ErrEmailConflict is returned and the call should be retried.
func (s *AuthService) LoginOrCreate(input LoginOrCreateInput) (*models.User, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	existing, err := s.userRepo.FindByEmail(email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	user := &models.User{
		Email:          email,
		Name:           input.Name,
		ProfilePicture: input.Picture,
		IsActive:       true,
	}
	account := &models.Account{
		Provider:   input.Provider,
		ProviderID: input.ProviderID,
	}

	if err := s.onboard(user, account); err != nil {
		// A unique-index violation here usually means another invocation for
		// the same never-seen email committed first.
		if _, ferr := s.userRepo.FindByEmail(email); ferr == nil {
			return nil, ErrEmailConflict
		}
		return nil, err
	}

	return user, nil
}

// RegisterInput holds the email signup fields.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// Register creates an email/password user along with their default workspace
// and returns the new user and workspace IDs.
func (s *AuthService) Register(input RegisterInput) (uint64, uint64, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return 0, 0, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return 0, 0, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return 0, 0, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, 0, fmt.Errorf("failed to check email: %w", err)
	}

	user := &models.User{
		Email:    email,
		Name:     input.Name,
		Password: input.Password, // hashed by the model's BeforeCreate hook
		IsActive: true,
	}
	account := &models.Account{
		Provider:   models.ProviderEmail,
		ProviderID: email,
	}

	if err := s.onboard(user, account); err != nil {
		if _, ferr := s.userRepo.FindByEmail(email); ferr == nil {
			return 0, 0, ErrEmailTaken
		}
		return 0, 0, err
	}

	return user.ID, *user.CurrentWorkspaceID, nil
}

// onboard runs the five-step creation sequence as one transactional unit.
func (s *AuthService) onboard(user *models.User, account *models.Account) error {
	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return ErrFailedToCreateWorkspace
	}

	workspace := &models.Workspace{
		Name:       constants.DefaultWorkspaceName,
		InviteCode: inviteCode,
	}

	if err := s.userRepo.CreateWithDefaultWorkspace(user, account, workspace); err != nil {
		switch {
		case errors.Is(err, repository.ErrOwnerRoleMissing):
			return ErrRoleSeedMissing
		case errors.Is(err, repository.ErrCreateWorkspace):
			return ErrFailedToCreateWorkspace
		case errors.Is(err, repository.ErrCreateUser),
			errors.Is(err, repository.ErrCreateAccount),
			errors.Is(err, repository.ErrCreateMember),
			errors.Is(err, repository.ErrSetCurrentWorkspace):
			return fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
		default:
			return fmt.Errorf("failed to complete onboarding: %w", err)
		}
	}

	return nil
}

// VerifyInput holds the credentials for email login.
type VerifyInput struct {
	Email    string
	Password string
}

// Verify validates an email/password pair and returns the user with the
// password hash omitted.
func (s *AuthService) Verify(input VerifyInput) (*models.User, error) {
	email := normalizeEmail(input.Email)

	account, err := s.accountRepo.FindByProvider(models.ProviderEmail, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	user, err := s.userRepo.FindByID(account.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Account without a user is a data-integrity fault, still reported
			// with the shared credential message.
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.ComparePassword(input.Password) {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLogin = &now

	return user.Omitted(), nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user.Omitted(), nil
}

// SwitchWorkspace points the user at another workspace they belong to.
// Membership is checked by the workspace middleware before this is called.
func (s *AuthService) SwitchWorkspace(userID, workspaceID uint64) error {
	if err := s.userRepo.SetCurrentWorkspace(userID, workspaceID); err != nil {
		return fmt.Errorf("failed to switch workspace: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
