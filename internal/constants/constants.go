package constants

// Session / context keys
const (
	SessionCookieName    = "pm_session"
	ContextKeyUserID     = "user_id"
	SessionKeyOAuthState = "oauth_state"

	ContextKeyWorkspace = "workspace"
	ContextKeyMember    = "workspace_member"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Auth
const (
	MinPasswordLength = 8
)

// DefaultWorkspaceName is the name of the workspace created during onboarding.
const DefaultWorkspaceName = "My Workspace"
