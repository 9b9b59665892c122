package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/teamloft/project-management-api/internal/constants"
	"github.com/teamloft/project-management-api/internal/dto"
	apierrors "github.com/teamloft/project-management-api/internal/errors"
	"github.com/teamloft/project-management-api/internal/middleware"
	"github.com/teamloft/project-management-api/internal/models"
	"github.com/teamloft/project-management-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService    *services.AuthService
	oauthService   *services.OAuthService
	logger         *zap.Logger
	frontendOrigin string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, oauthService *services.OAuthService, logger *zap.Logger, frontendOrigin string) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		oauthService:   oauthService,
		logger:         logger,
		frontendOrigin: frontendOrigin,
	}
}

// Register creates a new email/password user.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Name     string `json:"name" binding:"required,max=255"`
		Password string `json:"password" binding:"required"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, workspaceID, err := h.authService.Register(services.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_id":      userID,
		"workspace_id": workspaceID,
	})
}

// Login authenticates an email/password user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Verify(services.VerifyInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	if err := h.saveSession(c, user.ID); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// OAuthLogin redirects to the provider's consent screen with a fresh
// anti-forgery state bound to the session.
func (h *AuthHandler) OAuthLogin(c *gin.Context) {
	provider, ok := parseProvider(c.Param("provider"))
	if !ok {
		apierrors.BadRequest(c, "Unsupported provider")
		return
	}

	cfg, err := h.oauthService.Config(provider)
	if err != nil {
		apierrors.BadRequest(c, "Unsupported provider")
		return
	}

	state, err := generateOAuthState()
	if err != nil {
		apierrors.InternalError(c, "Failed to start login")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyOAuthState, state)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to start login")
		return
	}

	url := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// OAuthCallback exchanges the authorization code, signs the user in (creating
// them on first sign-in), and redirects back to the frontend.
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	provider, ok := parseProvider(c.Param("provider"))
	if !ok {
		apierrors.BadRequest(c, "Unsupported provider")
		return
	}

	code := c.Query("code")
	if code == "" {
		apierrors.BadRequest(c, "Missing authorization code")
		return
	}

	// The state is single-use: consumed here whether or not it matches.
	session := sessions.Default(c)
	storedState, _ := session.Get(constants.SessionKeyOAuthState).(string)
	session.Delete(constants.SessionKeyOAuthState)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to complete login")
		return
	}
	if storedState == "" || c.Query("state") != storedState {
		apierrors.BadRequest(c, "Invalid state parameter")
		return
	}

	profile, err := h.oauthService.FetchProfile(c.Request.Context(), provider, code)
	if err != nil {
		h.logger.Error("failed to fetch oauth profile",
			zap.String("provider", string(provider)), zap.Error(err))
		apierrors.InternalError(c, "Failed to authenticate with provider")
		return
	}

	input := services.LoginOrCreateInput{
		Provider:   provider,
		ProviderID: profile.ProviderID,
		Name:       profile.Name,
		Email:      profile.Email,
		Picture:    profile.Picture,
	}

	user, err := h.authService.LoginOrCreate(input)
	if errors.Is(err, services.ErrEmailConflict) {
		// Lost the creation race against a concurrent first sign-in; the
		// retry takes the idempotent found-user branch.
		user, err = h.authService.LoginOrCreate(input)
	}
	if err != nil {
		h.logger.Error("failed to login or create user",
			zap.String("provider", string(provider)), zap.Error(err))
		respondAuthError(c, err)
		return
	}

	if err := h.saveSession(c, user.ID); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.frontendOrigin)
}

func (h *AuthHandler) saveSession(c *gin.Context, userID uint64) error {
	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, userID)
	return session.Save()
}

func generateOAuthState() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

func parseProvider(raw string) (models.Provider, bool) {
	switch raw {
	case "google":
		return models.ProviderGoogle, true
	case "github":
		return models.ProviderGithub, true
	case "facebook":
		return models.ProviderFacebook, true
	default:
		return "", false
	}
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrEmailConflict):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrAccountNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrRoleSeedMissing),
		errors.Is(err, services.ErrFailedToCreateUser),
		errors.Is(err, services.ErrFailedToCreateWorkspace):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
